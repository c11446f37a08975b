package access

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-github/v57/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMetaClient(t *testing.T, body string, status int) *github.Client {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/meta" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	client := NewGitHubClient(context.Background(), "")
	baseURL, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	client.BaseURL = baseURL
	return client
}

func TestFetchGitHubHookRanges(t *testing.T) {
	client := newMetaClient(t, `{"hooks":["192.30.252.0/22","185.199.108.0/22","2a0a:a440::/29"]}`, http.StatusOK)

	ranges, err := FetchGitHubHookRanges(context.Background(), client)
	require.NoError(t, err)
	assert.Equal(t, []string{"192.30.252.0/22", "185.199.108.0/22", "2a0a:a440::/29"}, ranges)
}

func TestFetchGitHubHookRanges_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"api error", `{"message":"boom"}`, http.StatusInternalServerError},
		{"no hooks", `{"hooks":[]}`, http.StatusOK},
		{"invalid range", `{"hooks":["192.30.252.0/99"]}`, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newMetaClient(t, tt.body, tt.status)
			_, err := FetchGitHubHookRanges(context.Background(), client)
			assert.Error(t, err)
		})
	}
}

func TestRefreshGitHub(t *testing.T) {
	client := newMetaClient(t, `{"hooks":["140.82.112.0/20"]}`, http.StatusOK)

	providers, err := RefreshGitHub(context.Background(), client, DefaultProviders())
	require.NoError(t, err)

	a, err := NewAuthorizer(providers)
	require.NoError(t, err)

	assert.True(t, a.Authorize("140.82.112.5"))
	assert.False(t, a.Authorize("192.30.252.1"), "static github range should be replaced")
	assert.True(t, a.Authorize("104.192.143.1"), "other providers are kept")
}

func TestNewGitHubClient_WithToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"hooks":["192.30.252.0/22"]}`))
	}))
	defer srv.Close()

	client := NewGitHubClient(context.Background(), "test-token")
	baseURL, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	client.BaseURL = baseURL

	_, err = FetchGitHubHookRanges(context.Background(), client)
	require.NoError(t, err)
	assert.Equal(t, "Bearer test-token", gotAuth)
}
