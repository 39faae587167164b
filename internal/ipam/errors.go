package ipam

import "errors"

var (
	// ErrNoAddressAvailable is returned when a subnet has no free address left.
	ErrNoAddressAvailable = errors.New("no address available")
	// ErrUndefinedSubnet is returned when the pool was never built for a subnet.
	ErrUndefinedSubnet = errors.New("undefined subnet")
	// ErrAddressNotInPool is returned when an address is absent from the free
	// set. The pool keeps no history, so an address that is already allocated
	// and one that is out of range look the same.
	ErrAddressNotInPool = errors.New("address not in pool")
)
