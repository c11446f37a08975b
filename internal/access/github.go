package access

import (
	"context"
	"fmt"
	"net/http"
	"net/netip"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"
)

// GitHubProvider is the provider name whose ranges the meta API refreshes.
const GitHubProvider = "github"

// NewGitHubClient creates a GitHub API client, authenticated when token is set.
// Unauthenticated calls work for the meta endpoint but are rate limited harder.
func NewGitHubClient(ctx context.Context, token string) *github.Client {
	if token == "" {
		return github.NewClient(http.DefaultClient)
	}

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	return github.NewClient(oauth2.NewClient(ctx, ts))
}

// FetchGitHubHookRanges asks the GitHub meta API which networks webhooks are
// delivered from.
func FetchGitHubHookRanges(ctx context.Context, client *github.Client) ([]string, error) {
	meta, _, err := client.Meta.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching GitHub meta: %w", err)
	}

	ranges := make([]string, 0, len(meta.Hooks))
	for _, cidr := range meta.Hooks {
		if _, err := netip.ParsePrefix(cidr); err != nil {
			return nil, fmt.Errorf("GitHub meta returned invalid hook range %q: %w", cidr, err)
		}
		ranges = append(ranges, cidr)
	}
	if len(ranges) == 0 {
		return nil, fmt.Errorf("GitHub meta returned no hook ranges")
	}

	return ranges, nil
}

// RefreshGitHub returns providers with the github entry replaced by the live
// hook ranges.
func RefreshGitHub(ctx context.Context, client *github.Client, providers []Provider) ([]Provider, error) {
	ranges, err := FetchGitHubHookRanges(ctx, client)
	if err != nil {
		return nil, err
	}
	return ReplaceProvider(providers, GitHubProvider, ranges), nil
}
