package clientip

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

const unknown = "unknown"

// RealClientIP returns the peer address of the request, without the port.
// Proxy headers are ignored: the rate limiters key on this value and a client
// must not be able to pick its own bucket.
func RealClientIP(r *http.Request) string {
	addr := strings.TrimSpace(r.RemoteAddr)
	if host, _, err := net.SplitHostPort(addr); err == nil {
		addr = host
	}
	if addr == "" {
		return unknown
	}
	ip, err := netip.ParseAddr(addr)
	if err != nil {
		return addr
	}
	// ::ffff:1.2.3.4 and 1.2.3.4 share a bucket
	return ip.Unmap().WithZone("").String()
}
