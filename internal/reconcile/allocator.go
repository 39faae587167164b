package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/netip"

	"github.com/Flarenzy/netreconciler/internal/domain"
	"github.com/Flarenzy/netreconciler/internal/ipam"
	"github.com/google/uuid"
)

const defaultInterface = "eth0"

var ErrNoCandidateSubnet = errors.New("no candidate subnet")

// PortAllocator reserves an address for a node and records the resulting port.
type PortAllocator struct {
	logger *slog.Logger
	ports  domain.PortRepository
	nodes  domain.NodeRepository

	newID  func() domain.PortID
	newMAC func() (string, error)
}

func NewPortAllocator(logger *slog.Logger, ports domain.PortRepository, nodes domain.NodeRepository) *PortAllocator {
	if logger == nil {
		logger = slog.Default()
	}
	return &PortAllocator{
		logger: logger,
		ports:  ports,
		nodes:  nodes,
		newID:  func() domain.PortID { return domain.PortID(uuid.NewString()) },
		newMAC: randomMAC,
	}
}

// Allocate reserves an address in the first candidate subnet, honoring the
// node's pinned target address, and persists a NEW port for it. The
// reservation is released when the port cannot be persisted.
func (a *PortAllocator) Allocate(ctx context.Context, pool *ipam.Pool, node domain.Node, candidates []domain.Subnet) (domain.Port, error) {
	if len(candidates) == 0 {
		return domain.Port{}, fmt.Errorf("%w: node %d", ErrNoCandidateSubnet, node.ID)
	}
	subnet := candidates[0]
	target := node.DefaultNetwork.TargetAddr()

	addr, err := pool.Allocate(subnet.ID, target)
	if err != nil {
		return domain.Port{}, fmt.Errorf("allocate address for node %d: %w", node.ID, err)
	}

	mac := node.DiscoveredMAC
	if mac == "" {
		mac, err = a.newMAC()
		if err != nil {
			a.release(pool, subnet.ID, addr)
			return domain.Port{}, err
		}
	}

	nodeID := node.ID
	port := domain.Port{
		ID:         a.newID(),
		SubnetID:   subnet.ID,
		NodeID:     &nodeID,
		MAC:        mac,
		IPv4:       addr,
		Mask:       subnet.Mask(),
		TargetIPv4: target,
		Interface:  defaultInterface,
		Status:     domain.PortStatusNew,
	}

	created, err := a.ports.Create(ctx, port)
	if err != nil {
		a.release(pool, subnet.ID, addr)
		return domain.Port{}, fmt.Errorf("persist port for node %d: %w", node.ID, err)
	}

	// A node only gets a port when it has none, so any recorded descriptor
	// names a port that is gone.
	dn := domain.DefaultNetworkFor(created)
	if dn.TargetIPv4 == "" && node.DefaultNetwork != nil {
		dn.TargetIPv4 = node.DefaultNetwork.TargetIPv4
	}
	if err := a.nodes.UpdateDefaultNetwork(ctx, node.ID, dn); err != nil {
		a.logger.Error("failed to record default network",
			"node_id", node.ID,
			"port_id", created.ID,
			"err", err.Error(),
		)
	}

	a.logger.Info("allocated port",
		"node_id", node.ID,
		"subnet_id", subnet.ID,
		"port_id", created.ID,
		"ip", addr.String(),
	)
	return created, nil
}

func (a *PortAllocator) release(pool *ipam.Pool, subnetID int64, addr netip.Addr) {
	if err := pool.Deallocate(subnetID, addr); err != nil {
		a.logger.Error("failed to release address",
			"subnet_id", subnetID,
			"ip", addr.String(),
			"err", err.Error(),
		)
	}
}
