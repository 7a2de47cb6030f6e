package assetserver

import (
	"fmt"
	"net"
	"net/url"
)

// Bind hosts.
const (
	LoopbackHost = "127.0.0.1"
	AnyHost      = "0.0.0.0"
)

// Listen binds host on an OS-assigned port. The returned listener's address
// is known before any request is served.
func Listen(host string) (net.Listener, error) {
	return ListenAddr(net.JoinHostPort(host, "0"))
}

// ListenAddr binds a TCP listener on addr ("host:port").
func ListenAddr(addr string) (net.Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("binding %s: %w", addr, err)
	}
	return ln, nil
}

// PageURL returns the index page URL for a bound address.
// An unspecified host (0.0.0.0 or ::) is reached through the loopback address.
func PageURL(addr net.Addr) string {
	host, port, err := net.SplitHostPort(addr.String())
	if err != nil {
		host, port = LoopbackHost, "80"
	}
	if ip := net.ParseIP(host); ip == nil || ip.IsUnspecified() {
		host = LoopbackHost
	}
	u := url.URL{
		Scheme: "http",
		Host:   net.JoinHostPort(host, port),
		Path:   IndexPath,
	}
	return u.String()
}
