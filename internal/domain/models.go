package domain

import (
	"encoding/json"
	"fmt"
	"net"
	"net/netip"
	"time"

	"go4.org/netipx"
)

type PortID string

type PortStatus string

const (
	PortStatusNew        PortStatus = "NEW"
	PortStatusInProgress PortStatus = "IN_PROGRESS"
	PortStatusActive     PortStatus = "ACTIVE"
	PortStatusError      PortStatus = "ERROR"
)

func (s PortStatus) Valid() bool {
	switch s {
	case PortStatusNew, PortStatusInProgress, PortStatusActive, PortStatusError:
		return true
	}
	return false
}

type NodeKind string

const (
	NodeKindVM        NodeKind = "vm"
	NodeKindBareMetal NodeKind = "baremetal"
)

// Network owns one or more subnets. Driver is the backend configuration blob;
// only internal/driver interprets it.
type Network struct {
	ID        int64
	Project   string
	Driver    json.RawMessage
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Subnet struct {
	ID        int64
	NetworkID int64
	CIDR      netip.Prefix
	// Range restricts allocation to a part of CIDR. The zero value means the
	// whole CIDR is usable.
	Range      netipx.IPRange
	Discovery  netipx.IPRange
	BootServer string
	DNS        []netip.Addr
	Router     netip.Addr
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Validate checks that the CIDR is an IPv4 prefix and that the optional
// ranges are contained in it.
func (s Subnet) Validate() error {
	if !s.CIDR.IsValid() {
		return fmt.Errorf("%w: cidr is required", ErrInvalidInput)
	}
	if !s.CIDR.Addr().Is4() {
		return fmt.Errorf("%w: only ipv4 subnets are supported", ErrInvalidInput)
	}
	cidr := netipx.RangeOfPrefix(s.CIDR.Masked())
	if s.Range.IsValid() && !rangeWithin(s.Range, cidr) {
		return fmt.Errorf("%w: range %s outside cidr %s", ErrInvalidInput, s.Range, s.CIDR)
	}
	if s.Discovery.IsValid() && !rangeWithin(s.Discovery, cidr) {
		return fmt.Errorf("%w: discovery range %s outside cidr %s", ErrInvalidInput, s.Discovery, s.CIDR)
	}
	return nil
}

// Mask returns the dotted-quad netmask of the subnet CIDR.
func (s Subnet) Mask() string {
	if !s.CIDR.IsValid() {
		return ""
	}
	return net.IP(net.CIDRMask(s.CIDR.Bits(), 32)).String()
}

func rangeWithin(inner, outer netipx.IPRange) bool {
	return outer.Contains(inner.From()) && outer.Contains(inner.To())
}

type Port struct {
	ID         PortID
	SubnetID   int64
	NodeID     *int64
	MAC        string
	IPv4       netip.Addr
	Mask       string
	TargetIPv4 netip.Addr
	Interface  string
	Status     PortStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Node struct {
	ID             int64
	Name           string
	Kind           NodeKind
	DiscoveredIPv4 netip.Addr
	DiscoveredMAC  string
	DefaultNetwork *DefaultNetwork
}

// DefaultNetwork is the descriptor a node reads to learn its primary
// attachment.
type DefaultNetwork struct {
	IPv4       string `json:"ipv4"`
	Mask       string `json:"mask"`
	MAC        string `json:"mac"`
	Subnet     int64  `json:"subnet"`
	Port       PortID `json:"port"`
	TargetIPv4 string `json:"target_ipv4,omitempty"`
}

// TargetAddr returns the pinned address recorded for the node, or the zero
// Addr when none was recorded.
func (d *DefaultNetwork) TargetAddr() netip.Addr {
	if d == nil || d.TargetIPv4 == "" {
		return netip.Addr{}
	}
	addr, err := netip.ParseAddr(d.TargetIPv4)
	if err != nil {
		return netip.Addr{}
	}
	return addr
}

// DefaultNetworkFor builds the descriptor mirroring port.
func DefaultNetworkFor(port Port) *DefaultNetwork {
	dn := &DefaultNetwork{
		Mask:   port.Mask,
		MAC:    port.MAC,
		Subnet: port.SubnetID,
		Port:   port.ID,
	}
	if port.IPv4.IsValid() {
		dn.IPv4 = port.IPv4.String()
	}
	if port.TargetIPv4.IsValid() {
		dn.TargetIPv4 = port.TargetIPv4.String()
	}
	return dn
}
