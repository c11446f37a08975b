package access

import (
	"fmt"
	"net/netip"
	"slices"
	"strings"
)

type trustedRange struct {
	provider string
	prefix   netip.Prefix
}

// Authorizer decides whether a client address may trigger deployments.
// It is immutable once built and safe for concurrent use.
type Authorizer struct {
	loopback  []netip.Addr
	ranges    []trustedRange
	providers []Provider
}

// NewAuthorizer parses every provider range up front so that a bad entry
// fails at startup instead of silently never matching.
func NewAuthorizer(providers []Provider) (*Authorizer, error) {
	a := &Authorizer{}

	for _, literal := range LoopbackAddresses {
		a.loopback = append(a.loopback, netip.MustParseAddr(literal))
	}

	for _, p := range providers {
		for _, cidr := range p.Ranges {
			prefix, err := netip.ParsePrefix(strings.TrimSpace(cidr))
			if err != nil {
				return nil, fmt.Errorf("provider %s: invalid range %q: %w", p.Name, cidr, err)
			}
			a.ranges = append(a.ranges, trustedRange{provider: p.Name, prefix: prefix.Masked()})
		}
		a.providers = append(a.providers, Provider{Name: p.Name, Ranges: slices.Clone(p.Ranges)})
	}

	return a, nil
}

// Authorize reports whether address is a loopback literal or lies inside a
// trusted range. Anything that does not parse as an IP address is rejected.
func (a *Authorizer) Authorize(address string) bool {
	_, ok := a.Match(address)
	return ok
}

// Match is Authorize that also names what matched: a provider name or
// LoopbackProvider.
func (a *Authorizer) Match(address string) (string, bool) {
	addr, err := netip.ParseAddr(strings.TrimSpace(address))
	if err != nil {
		return "", false
	}
	addr = addr.Unmap()

	if slices.Contains(a.loopback, addr) {
		return LoopbackProvider, true
	}

	for _, r := range a.ranges {
		if r.prefix.Contains(addr) {
			return r.provider, true
		}
	}

	return "", false
}

// Providers returns the provider table the authorizer was built from.
func (a *Authorizer) Providers() []Provider {
	out := make([]Provider, len(a.providers))
	for i, p := range a.providers {
		out[i] = Provider{Name: p.Name, Ranges: slices.Clone(p.Ranges)}
	}
	return out
}
