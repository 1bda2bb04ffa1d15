// Allocates ephemeral TCP ports on the loopback interface.
//
// The allocator asks the operating system for a free port by binding to
// port 0, then releases the listening socket before returning the port
// number. The backend process binds the port itself after spawn.
package port
