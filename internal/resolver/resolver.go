// Package resolver turns a sender's socket address into a hostname via
// reverse DNS. One lookup per call, bounded by a timeout; retry policy, if
// any, belongs to the caller.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"
)

// Resolver resolves a socket address ("ip:port") to a hostname.
type Resolver interface {
	Resolve(ctx context.Context, addr string) (string, error)
}

// ResolutionError reports a failed or timed-out lookup. It is always
// recoverable: the caller omits the hostname field and moves on.
type ResolutionError struct {
	Addr string
	Err  error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve %s: %v", e.Addr, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// DNSResolver performs PTR lookups through the standard resolver with an
// enforced per-call deadline so a hung DNS server cannot stall an
// event-processing goroutine.
type DNSResolver struct {
	resolver *net.Resolver
	timeout  time.Duration
}

// DefaultTimeout bounds a lookup when no timeout is configured.
const DefaultTimeout = 2 * time.Second

// NewDNS creates a resolver with the given lookup timeout.
func NewDNS(timeout time.Duration) *DNSResolver {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &DNSResolver{
		resolver: net.DefaultResolver,
		timeout:  timeout,
	}
}

// Resolve performs a single reverse lookup of addr. addr may be "ip:port"
// or a bare IP. Returns the first PTR name with its trailing dot trimmed.
func (r *DNSResolver) Resolve(ctx context.Context, addr string) (string, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}
	if net.ParseIP(host) == nil {
		return "", &ResolutionError{Addr: addr, Err: fmt.Errorf("not an IP address: %q", host)}
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	names, err := r.resolver.LookupAddr(ctx, host)
	if err != nil {
		return "", &ResolutionError{Addr: addr, Err: err}
	}
	if len(names) == 0 {
		return "", &ResolutionError{Addr: addr, Err: errors.New("no PTR records")}
	}
	return strings.TrimSuffix(names[0], "."), nil
}
