package access

import (
	"maps"
	"slices"
)

// Provider is a webhook sender and the networks its hooks originate from.
type Provider struct {
	Name   string   `json:"name"`
	Ranges []string `json:"ranges"`
}

// LoopbackProvider is the match name reported for loopback callers.
const LoopbackProvider = "loopback"

// LoopbackAddresses are always trusted, regardless of the provider table.
var LoopbackAddresses = []string{"::1", "127.0.0.1"}

// DefaultProviders returns the built-in provider table. Callers get a fresh
// copy they may modify.
func DefaultProviders() []Provider {
	return []Provider{
		{
			Name:   "bitbucket",
			Ranges: []string{"131.103.20.160/27", "165.254.145.0/26", "104.192.143.0/24"},
		},
		{
			Name:   "github",
			Ranges: []string{"192.30.252.0/22"},
		},
	}
}

// MergeProviders overlays overrides onto base. A provider named in overrides
// has its ranges replaced; unknown names are appended in name order.
func MergeProviders(base []Provider, overrides map[string][]string) []Provider {
	merged := make([]Provider, 0, len(base)+len(overrides))
	seen := make(map[string]bool, len(base))

	for _, p := range base {
		seen[p.Name] = true
		if ranges, ok := overrides[p.Name]; ok {
			p = Provider{Name: p.Name, Ranges: slices.Clone(ranges)}
		} else {
			p = Provider{Name: p.Name, Ranges: slices.Clone(p.Ranges)}
		}
		merged = append(merged, p)
	}

	for _, name := range slices.Sorted(maps.Keys(overrides)) {
		if seen[name] {
			continue
		}
		merged = append(merged, Provider{Name: name, Ranges: slices.Clone(overrides[name])})
	}

	return merged
}

// ReplaceProvider returns a copy of providers with name's ranges set to ranges.
func ReplaceProvider(providers []Provider, name string, ranges []string) []Provider {
	return MergeProviders(providers, map[string][]string{name: ranges})
}
