package access

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDefaultAuthorizer(t *testing.T) *Authorizer {
	t.Helper()
	a, err := NewAuthorizer(DefaultProviders())
	require.NoError(t, err)
	return a
}

func TestAuthorize_TrustedAddresses(t *testing.T) {
	a := newDefaultAuthorizer(t)

	tests := []struct {
		name     string
		address  string
		provider string
	}{
		{"ipv4 loopback", "127.0.0.1", LoopbackProvider},
		{"ipv6 loopback", "::1", LoopbackProvider},
		{"ipv4-mapped loopback", "::ffff:127.0.0.1", LoopbackProvider},
		{"github first address", "192.30.252.0", "github"},
		{"github inside", "192.30.253.17", "github"},
		{"github last address", "192.30.255.255", "github"},
		{"bitbucket first block", "131.103.20.161", "bitbucket"},
		{"bitbucket second block", "165.254.145.63", "bitbucket"},
		{"bitbucket third block", "104.192.143.200", "bitbucket"},
		{"ipv4-mapped github", "::ffff:192.30.252.1", "github"},
		{"surrounding whitespace", " 104.192.143.1 ", "bitbucket"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, ok := a.Match(tt.address)
			assert.True(t, ok)
			assert.Equal(t, tt.provider, provider)
			assert.True(t, a.Authorize(tt.address))
		})
	}
}

func TestAuthorize_UntrustedAddresses(t *testing.T) {
	a := newDefaultAuthorizer(t)

	tests := []struct {
		name    string
		address string
	}{
		{"public dns", "8.8.8.8"},
		{"just below github", "192.30.251.255"},
		{"just above github", "192.31.0.0"},
		{"just below bitbucket block", "131.103.20.159"},
		{"just above bitbucket block", "131.103.20.192"},
		{"other loopback", "127.0.0.2"},
		{"private network", "10.0.0.1"},
		{"ipv6 public", "2001:4860:4860::8888"},
		{"empty", ""},
		{"hostname", "localhost"},
		{"garbage", "not-an-ip"},
		{"address with port", "127.0.0.1:4978"},
		{"cidr instead of address", "192.30.252.0/22"},
		{"forwarded list", "127.0.0.1, 8.8.8.8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, ok := a.Match(tt.address)
			assert.False(t, ok)
			assert.Empty(t, provider)
			assert.False(t, a.Authorize(tt.address))
		})
	}
}

func TestNewAuthorizer_InvalidRange(t *testing.T) {
	_, err := NewAuthorizer([]Provider{{Name: "broken", Ranges: []string{"300.0.0.0/8"}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}

func TestNewAuthorizer_EmptyTableStillTrustsLoopback(t *testing.T) {
	a, err := NewAuthorizer(nil)
	require.NoError(t, err)

	assert.True(t, a.Authorize("127.0.0.1"))
	assert.True(t, a.Authorize("::1"))
	assert.False(t, a.Authorize("192.30.252.1"))
}

func TestNewAuthorizer_UnmaskedPrefix(t *testing.T) {
	a, err := NewAuthorizer([]Provider{{Name: "ci", Ranges: []string{"203.0.113.77/24"}}})
	require.NoError(t, err)

	assert.True(t, a.Authorize("203.0.113.1"))
}

func TestMergeProviders(t *testing.T) {
	merged := MergeProviders(DefaultProviders(), map[string][]string{
		"github": {"140.82.112.0/20"},
		"gitlab": {"34.74.90.64/28"},
	})

	require.Len(t, merged, 3)
	assert.Equal(t, "bitbucket", merged[0].Name)
	assert.Equal(t, []string{"140.82.112.0/20"}, merged[1].Ranges)
	assert.Equal(t, Provider{Name: "gitlab", Ranges: []string{"34.74.90.64/28"}}, merged[2])

	// Base table is untouched
	assert.Equal(t, []string{"192.30.252.0/22"}, DefaultProviders()[1].Ranges)
}

func TestProviders_ReturnsCopy(t *testing.T) {
	a := newDefaultAuthorizer(t)

	providers := a.Providers()
	providers[0].Ranges[0] = "0.0.0.0/0"

	assert.Equal(t, "131.103.20.160/27", a.Providers()[0].Ranges[0])
}

func TestClientAddress(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		forwarded  string
		want       string
	}{
		{"peer address only", "192.30.252.9:51234", "", "192.30.252.9"},
		{"ipv6 peer", "[::1]:51234", "", "::1"},
		{"forwarded header wins", "127.0.0.1:51234", "8.8.8.8", "8.8.8.8"},
		{"last forwarded entry", "127.0.0.1:51234", "10.0.0.1, 192.30.252.9", "192.30.252.9"},
		{"caller supplied entries are ignored", "127.0.0.1:51234", "127.0.0.1, 8.8.8.8", "8.8.8.8"},
		{"trailing empty entry falls back", "127.0.0.1:51234", "8.8.8.8,", "127.0.0.1"},
		{"blank forwarded header falls back", "127.0.0.1:51234", "  ", "127.0.0.1"},
		{"peer without port", "104.192.143.7", "", "104.192.143.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/hook/site/prod", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				req.Header.Set(ForwardedForHeader, tt.forwarded)
			}
			assert.Equal(t, tt.want, ClientAddress(req))
		})
	}
}
