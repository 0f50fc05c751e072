// Package probe checks that the brain endpoint accepts TCP connections before
// an attempt starts.
package probe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// DefaultTimeout bounds a single probe.
const DefaultTimeout = 3000 * time.Millisecond

// ErrInvalidEndpoint reports an endpoint string that is not host:port.
var ErrInvalidEndpoint = errors.New("invalid endpoint")

// Endpoint is a parsed host and port pair.
type Endpoint struct {
	Host string
	Port int
}

// Address returns host:port suitable for net.Dial.
func (e Endpoint) Address() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

func (e Endpoint) String() string { return e.Address() }

// ParseEndpoint parses "host:port". The host must be non-empty and the port
// must be in 1..65535.
func ParseEndpoint(s string) (Endpoint, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Endpoint{}, fmt.Errorf("%w: endpoint is empty", ErrInvalidEndpoint)
	}
	host, portStr, err := net.SplitHostPort(s)
	if err != nil {
		return Endpoint{}, fmt.Errorf("%w: %q: %v", ErrInvalidEndpoint, s, err)
	}
	if strings.TrimSpace(host) == "" {
		return Endpoint{}, fmt.Errorf("%w: %q: host is empty", ErrInvalidEndpoint, s)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port < 1 || port > 65535 {
		return Endpoint{}, fmt.Errorf("%w: %q: port must be 1-65535", ErrInvalidEndpoint, s)
	}
	return Endpoint{Host: host, Port: port}, nil
}

// Prober checks whether an endpoint accepts connections.
type Prober interface {
	Probe(ctx context.Context, endpoint string) error
}

// TCPProbe dials the endpoint and closes the connection immediately.
type TCPProbe struct {
	// Timeout bounds the dial. Non-positive selects DefaultTimeout.
	Timeout time.Duration
	// Dialer is used when set; otherwise a zero net.Dialer is used.
	Dialer *net.Dialer
}

// Probe returns nil when a TCP connection to endpoint succeeds in time.
func (p TCPProbe) Probe(ctx context.Context, endpoint string) error {
	ep, err := ParseEndpoint(endpoint)
	if err != nil {
		return err
	}
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	d := p.Dialer
	if d == nil {
		d = &net.Dialer{}
	}
	conn, err := d.DialContext(ctx, "tcp", ep.Address())
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("connect to %s timed out after %s: %w", ep, timeout, err)
		}
		return fmt.Errorf("connect to %s: %w", ep, err)
	}
	return conn.Close()
}

// Skip is a Prober that always succeeds.
type Skip struct{}

// Probe implements Prober.
func (Skip) Probe(context.Context, string) error { return nil }
