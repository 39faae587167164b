// Package ipam tracks free IPv4 addresses per subnet as sorted, disjoint and
// maximally merged closed intervals.
//
// A Pool holds no state worth persisting: it is rebuilt from the stored ports
// at the start of every reconciliation iteration.
package ipam

import (
	"fmt"
	"log/slog"
	"net/netip"
	"slices"
	"sort"

	"github.com/Flarenzy/netreconciler/internal/domain"
	"go4.org/netipx"
)

type Pool struct {
	logger *slog.Logger
	free   map[int64][]Interval
	bounds map[int64]Interval
}

// New builds a pool for subnets and marks the addresses of ports as taken.
// Subnets that fail validation are logged and left undefined.
func New(logger *slog.Logger, subnets []domain.Subnet, ports []domain.Port) *Pool {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Pool{
		logger: logger,
		free:   make(map[int64][]Interval, len(subnets)),
		bounds: make(map[int64]Interval, len(subnets)),
	}

	bySubnet := make(map[int64][]domain.Port)
	for _, port := range ports {
		bySubnet[port.SubnetID] = append(bySubnet[port.SubnetID], port)
	}

	for _, subnet := range subnets {
		if err := p.AddSubnet(subnet, bySubnet[subnet.ID]); err != nil {
			logger.Warn("skipping subnet in address pool", "subnet_id", subnet.ID, "err", err.Error())
		}
	}
	return p
}

// AddSubnet (re)initialises the free list of subnet and occupies the address
// of every port already allocated in it.
func (p *Pool) AddSubnet(subnet domain.Subnet, allocated []domain.Port) error {
	if err := subnet.Validate(); err != nil {
		return err
	}

	r := netipx.RangeOfPrefix(subnet.CIDR.Masked())
	if subnet.Range.IsValid() {
		r = subnet.Range
	}
	low, _ := toUint32(r.From())
	high, _ := toUint32(r.To())

	p.bounds[subnet.ID] = Interval{Low: low, High: high}
	p.free[subnet.ID] = []Interval{{Low: low, High: high}}

	for _, port := range allocated {
		if !port.IPv4.IsValid() {
			continue
		}
		if err := p.Occupy(subnet.ID, port.IPv4); err != nil {
			p.logger.Warn("port address not occupied", "subnet_id", subnet.ID, "port_id", string(port.ID), "ip", port.IPv4.String(), "err", err.Error())
		}
	}
	return nil
}

// Occupy removes addr from the free intervals of the subnet.
func (p *Pool) Occupy(subnetID int64, addr netip.Addr) error {
	intervals, ok := p.free[subnetID]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUndefinedSubnet, subnetID)
	}
	v, ok := toUint32(addr)
	if !ok {
		return fmt.Errorf("%w: %s is not an ipv4 address", ErrAddressNotInPool, addr)
	}

	i := sort.Search(len(intervals), func(i int) bool { return intervals[i].High >= v })
	if i == len(intervals) || intervals[i].Low > v {
		return fmt.Errorf("%w: %s in subnet %d", ErrAddressNotInPool, addr, subnetID)
	}

	iv := intervals[i]
	switch {
	case iv.Low == iv.High:
		intervals = slices.Delete(intervals, i, i+1)
	case v == iv.Low:
		intervals[i].Low++
	case v == iv.High:
		intervals[i].High--
	default:
		intervals = slices.Insert(intervals, i+1, Interval{Low: v + 1, High: iv.High})
		intervals[i].High = v - 1
	}

	p.free[subnetID] = intervals
	return nil
}

// Allocate reserves target in the subnet, or the lowest free address when
// target is the zero Addr.
func (p *Pool) Allocate(subnetID int64, target netip.Addr) (netip.Addr, error) {
	if target.IsValid() {
		if err := p.Occupy(subnetID, target); err != nil {
			return netip.Addr{}, err
		}
		return target.Unmap(), nil
	}

	intervals, ok := p.free[subnetID]
	if !ok {
		return netip.Addr{}, fmt.Errorf("%w: %d", ErrUndefinedSubnet, subnetID)
	}
	if len(intervals) == 0 {
		return netip.Addr{}, fmt.Errorf("%w: subnet %d", ErrNoAddressAvailable, subnetID)
	}

	v := intervals[0].Low
	if intervals[0].Low == intervals[0].High {
		intervals = slices.Delete(intervals, 0, 1)
	} else {
		intervals[0].Low++
	}

	p.free[subnetID] = intervals
	return fromUint32(v), nil
}

// Deallocate returns addr to the subnet's free intervals, merging it with
// adjacent intervals. Releasing an address that is already free is a no-op.
// An address outside the subnet's bounds returns ErrAddressNotInPool and
// leaves the free intervals untouched.
func (p *Pool) Deallocate(subnetID int64, addr netip.Addr) error {
	intervals, ok := p.free[subnetID]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUndefinedSubnet, subnetID)
	}
	v, ok := toUint32(addr)
	if !ok {
		return fmt.Errorf("%w: %s is not an ipv4 address", ErrAddressNotInPool, addr)
	}
	if b := p.bounds[subnetID]; v < b.Low || v > b.High {
		return fmt.Errorf("%w: %s outside subnet %d", ErrAddressNotInPool, addr, subnetID)
	}

	// i is the first interval starting after v.
	i := sort.Search(len(intervals), func(i int) bool { return intervals[i].Low > v })
	if i > 0 && intervals[i-1].High >= v {
		p.logger.Warn("address already free", "subnet_id", subnetID, "ip", addr.String())
		return nil
	}

	mergeLeft := i > 0 && intervals[i-1].High+1 == v
	mergeRight := i < len(intervals) && intervals[i].Low-1 == v
	switch {
	case mergeLeft && mergeRight:
		intervals[i-1].High = intervals[i].High
		intervals = slices.Delete(intervals, i, i+1)
	case mergeLeft:
		intervals[i-1].High = v
	case mergeRight:
		intervals[i].Low = v
	default:
		intervals = slices.Insert(intervals, i, Interval{Low: v, High: v})
	}

	p.free[subnetID] = intervals
	return nil
}

// Free returns a copy of the subnet's free intervals.
func (p *Pool) Free(subnetID int64) ([]Interval, error) {
	intervals, ok := p.free[subnetID]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUndefinedSubnet, subnetID)
	}
	return slices.Clone(intervals), nil
}

// Available counts the free addresses of the subnet.
func (p *Pool) Available(subnetID int64) (uint64, error) {
	intervals, ok := p.free[subnetID]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrUndefinedSubnet, subnetID)
	}
	var n uint64
	for _, iv := range intervals {
		n += iv.size()
	}
	return n, nil
}
