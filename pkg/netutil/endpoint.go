// Package netutil provides network-related utility functions.
package netutil

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

// EndpointURL builds the URL of path on endpoint, which may be a bare
// host, host:port or a full URL. Bare endpoints use scheme.
func EndpointURL(endpoint, scheme, path string) (*url.URL, error) {
	raw := strings.TrimSpace(endpoint)
	if !strings.Contains(raw, "://") {
		raw = scheme + "://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}
	if u.Hostname() == "" {
		return nil, fmt.Errorf("invalid endpoint %q: missing host", endpoint)
	}
	if port := u.Port(); port != "" {
		if _, err := ParsePort(port); err != nil {
			return nil, fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
		}
	}

	u.Path = path
	u.RawQuery = ""
	return u, nil
}

// ParsePort parses a TCP port number.
func ParsePort(s string) (int, error) {
	port, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid port %q", s)
	}
	if port < 1 || port > 65535 {
		return 0, fmt.Errorf("port %d out of range", port)
	}
	return port, nil
}

// HostPort returns the host:port of u, filling in the scheme's default port.
func HostPort(u *url.URL) string {
	port := u.Port()
	if port == "" {
		switch u.Scheme {
		case "http":
			port = "80"
		default:
			port = "443"
		}
	}
	return net.JoinHostPort(u.Hostname(), port)
}
