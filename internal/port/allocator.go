package port

import (
	"errors"
	"fmt"
	"net"
)

// Returned when the operating system cannot provide a usable port.
var ErrAllocation = errors.New("port allocation failed")

// Obtains free ephemeral TCP ports from the operating system.
//
// Allocation works by binding a listener to port 0 on the configured host,
// reading back the OS-assigned port, and releasing the listener so the
// backend process can bind the port itself. The window between release and
// the child's own bind is inherently racy; another process could claim the
// port in between. This is an accepted risk of the allocate-then-spawn
// contract and is not mitigated by retries.
type Allocator struct {
	host string // Address the probe listener binds to.
}

// Creates an allocator that binds probe listeners to the given host.
// An empty host defaults to the loopback interface.
func New(host string) *Allocator {
	if host == "" {
		host = "127.0.0.1"
	}
	return &Allocator{host: host}
}

// Requests a free ephemeral port from the operating system.
//
// The probe listener is fully released before the port is returned, so a
// subsequent bind by another process in this or any other program succeeds.
func (a *Allocator) Allocate() (uint16, error) {
	listener, err := net.Listen("tcp", net.JoinHostPort(a.host, "0"))
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrAllocation, err)
	}
	defer listener.Close()

	addr, ok := listener.Addr().(*net.TCPAddr)
	if !ok {
		return 0, fmt.Errorf("%w: listener address is not TCP: %v", ErrAllocation, listener.Addr())
	}

	return uint16(addr.Port), nil
}

// Reports whether the given port can currently be bound on the allocator's
// host. Used by tests and by callers that accept a fixed port from
// configuration.
func (a *Allocator) Probe(port uint16) bool {
	listener, err := net.Listen("tcp", net.JoinHostPort(a.host, fmt.Sprintf("%d", port)))
	if err != nil {
		return false
	}
	listener.Close()
	return true
}
