package driver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/Flarenzy/netreconciler/internal/domain"
)

const NoopType = "noop"

// noopConfig is the only configuration the noop driver accepts.
var noopConfig = []byte("{}")

// Noop is the driver for networks that need no real provisioning. Every
// operation succeeds; created subnets and ports are remembered so that the
// next listing reports them as provisioned.
type Noop struct {
	subnets map[int64]domain.Subnet
	ports   map[int64]map[domain.PortID]domain.Port
}

func NewNoop(config json.RawMessage) (*Noop, error) {
	if len(bytes.TrimSpace(config)) != 0 {
		var compact bytes.Buffer
		if err := json.Compact(&compact, config); err != nil {
			return nil, fmt.Errorf("noop driver config: %w", err)
		}
		if !bytes.Equal(compact.Bytes(), noopConfig) && !bytes.Equal(compact.Bytes(), []byte("null")) {
			return nil, fmt.Errorf("noop driver takes no options, got %s", compact.String())
		}
	}

	return &Noop{
		subnets: make(map[int64]domain.Subnet),
		ports:   make(map[int64]map[domain.PortID]domain.Port),
	}, nil
}

func (n *Noop) ListSubnets(context.Context) ([]domain.Subnet, error) {
	out := make([]domain.Subnet, 0, len(n.subnets))
	for _, subnet := range n.subnets {
		out = append(out, subnet)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (n *Noop) ListPorts(_ context.Context, subnet domain.Subnet) ([]domain.Port, error) {
	out := make([]domain.Port, 0, len(n.ports[subnet.ID]))
	for _, port := range n.ports[subnet.ID] {
		out = append(out, port)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (n *Noop) CreateSubnet(_ context.Context, subnet domain.Subnet) error {
	n.subnets[subnet.ID] = subnet
	if _, ok := n.ports[subnet.ID]; !ok {
		n.ports[subnet.ID] = make(map[domain.PortID]domain.Port)
	}
	return nil
}

func (n *Noop) UpdateSubnet(_ context.Context, subnet domain.Subnet) error {
	n.subnets[subnet.ID] = subnet
	return nil
}

func (n *Noop) DeleteSubnet(_ context.Context, subnet domain.Subnet) error {
	delete(n.subnets, subnet.ID)
	delete(n.ports, subnet.ID)
	return nil
}

func (n *Noop) CreatePort(_ context.Context, subnet domain.Subnet, port domain.Port) (domain.Port, error) {
	port.Status = domain.PortStatusActive
	n.portsOf(subnet.ID)[port.ID] = port
	return port, nil
}

func (n *Noop) UpdatePort(_ context.Context, subnet domain.Subnet, port domain.Port) (domain.Port, error) {
	port.Status = domain.PortStatusActive
	n.portsOf(subnet.ID)[port.ID] = port
	return port, nil
}

func (n *Noop) DeletePort(_ context.Context, subnet domain.Subnet, port domain.Port) error {
	delete(n.portsOf(subnet.ID), port.ID)
	return nil
}

func (n *Noop) portsOf(subnetID int64) map[domain.PortID]domain.Port {
	ports, ok := n.ports[subnetID]
	if !ok {
		ports = make(map[domain.PortID]domain.Port)
		n.ports[subnetID] = ports
	}
	return ports
}
