package crimetalk

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"time"
)

// DefaultDialTimeout bounds the connectivity check.
const DefaultDialTimeout = 3 * time.Second

// Connectivity reports whether the network is reachable.
type Connectivity interface {
	HasInternet(ctx context.Context) bool
}

// DialChecker checks connectivity by opening a TCP connection to the site.
type DialChecker struct {
	Addr    string
	Timeout time.Duration
}

// NewDialChecker creates a checker for the host of siteURL. The port defaults
// from the scheme.
func NewDialChecker(siteURL string) (*DialChecker, error) {
	u, err := url.Parse(siteURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse site URL: %w", err)
	}
	if u.Hostname() == "" {
		return nil, fmt.Errorf("site URL %q has no host", siteURL)
	}

	port := u.Port()
	if port == "" {
		port = "80"
		if u.Scheme == "https" {
			port = "443"
		}
	}

	return &DialChecker{
		Addr:    net.JoinHostPort(u.Hostname(), port),
		Timeout: DefaultDialTimeout,
	}, nil
}

// HasInternet returns true if the site accepts a TCP connection before the
// dial timeout.
func (p *DialChecker) HasInternet(ctx context.Context) bool {
	dialer := net.Dialer{Timeout: p.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", p.Addr)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}
