package access

import (
	"net"
	"net/http"
	"strings"
)

// ForwardedForHeader is set by the reverse proxy in front of the receiver.
const ForwardedForHeader = "X-Forwarded-For"

// ClientAddress returns the address a request claims to come from. When
// X-Forwarded-For is present its last entry wins over the transport peer
// address: that is the one appended by the nearest proxy, while earlier
// entries are whatever the caller sent. The result is not validated; pass
// it to Authorizer.Authorize.
func ClientAddress(r *http.Request) string {
	if forwarded := forwardedAddress(r.Header.Values(ForwardedForHeader)); forwarded != "" {
		return forwarded
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// RemoteAddr without a port, e.g. already rewritten by a proxy middleware
		return strings.Trim(r.RemoteAddr, "[]")
	}
	return host
}

// forwardedAddress returns the right-most entry across all header lines.
func forwardedAddress(values []string) string {
	if len(values) == 0 {
		return ""
	}
	last := values[len(values)-1]
	if i := strings.LastIndexByte(last, ','); i >= 0 {
		last = last[i+1:]
	}
	return strings.TrimSpace(last)
}
