// Package reconcile drives the backend towards the state recorded in the
// store: it allocates ports for nodes that need one and then converges the
// subnets and ports of every network through its driver.
package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/Flarenzy/netreconciler/internal/domain"
	"github.com/Flarenzy/netreconciler/internal/driver"
	"github.com/Flarenzy/netreconciler/internal/ipam"
)

// DriverLoader resolves the driver of a network.
type DriverLoader interface {
	Load(network domain.Network) (driver.Driver, error)
}

type NetworkReconciler struct {
	logger    *slog.Logger
	repos     domain.Repositories
	drivers   DriverLoader
	allocator *PortAllocator
	subnets   *SubnetReconciler
	metrics   *Metrics
}

func NewNetworkReconciler(logger *slog.Logger, repos domain.Repositories, drivers DriverLoader, metrics *Metrics) *NetworkReconciler {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &NetworkReconciler{
		logger:    logger,
		repos:     repos,
		drivers:   drivers,
		allocator: NewPortAllocator(logger, repos.Ports, repos.Nodes),
		subnets:   NewSubnetReconciler(logger, repos.Ports, repos.Nodes, metrics),
		metrics:   metrics,
	}
}

type candidate struct {
	node    domain.Node
	subnets []domain.Subnet
}

// Reconcile runs one iteration. Failures of a single node, network, subnet or
// port are logged and do not stop the iteration; an error is returned only
// when the stored state cannot be loaded.
func (r *NetworkReconciler) Reconcile(ctx context.Context) (err error) {
	start := time.Now()
	defer func() {
		r.metrics.duration.Observe(time.Since(start).Seconds())
		r.metrics.iterations.WithLabelValues(result(err)).Inc()
	}()

	subnets, err := r.repos.Subnets.List(ctx)
	if err != nil {
		return fmt.Errorf("list subnets: %w", err)
	}

	candidates, err := r.candidates(ctx, subnets)
	if err != nil {
		r.metrics.failure("allocation")
		r.logger.Error("failed to list nodes without port", "err", err.Error())
	} else if len(candidates) > 0 {
		r.allocate(ctx, subnets, candidates)
	}

	networks, err := r.repos.Networks.List(ctx)
	if err != nil {
		return fmt.Errorf("list networks: %w", err)
	}
	ports, err := r.repos.Ports.ListBySubnetIDs(ctx, subnetIDs(subnets))
	if err != nil {
		return fmt.Errorf("list ports: %w", err)
	}

	subnetsByNetwork := make(map[int64][]domain.Subnet)
	for _, s := range subnets {
		subnetsByNetwork[s.NetworkID] = append(subnetsByNetwork[s.NetworkID], s)
	}
	portsBySubnet := make(map[int64][]domain.Port)
	for _, p := range ports {
		portsBySubnet[p.SubnetID] = append(portsBySubnet[p.SubnetID], p)
	}

	for _, network := range networks {
		r.reconcileNetwork(ctx, network, subnetsByNetwork[network.ID], portsBySubnet)
	}
	return nil
}

// candidates returns the nodes that need a port along with the subnets each
// may be placed in. Virtual machines may use any subnet; bare-metal nodes only
// the subnets containing their discovered address.
func (r *NetworkReconciler) candidates(ctx context.Context, subnets []domain.Subnet) ([]candidate, error) {
	vms, err := r.repos.Nodes.ListWithoutPort(ctx, domain.NodeKindVM)
	if err != nil {
		return nil, err
	}
	bms, err := r.repos.Nodes.ListWithoutPort(ctx, domain.NodeKindBareMetal)
	if err != nil {
		return nil, err
	}

	out := make([]candidate, 0, len(vms)+len(bms))
	if len(subnets) > 0 {
		for _, n := range vms {
			out = append(out, candidate{node: n, subnets: subnets})
		}
	}
	for _, n := range bms {
		if !n.DiscoveredIPv4.IsValid() {
			continue
		}
		var matching []domain.Subnet
		for _, s := range subnets {
			if s.CIDR.Contains(n.DiscoveredIPv4) {
				matching = append(matching, s)
			}
		}
		if len(matching) > 0 {
			out = append(out, candidate{node: n, subnets: matching})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].node.ID < out[j].node.ID })
	return out, nil
}

func (r *NetworkReconciler) allocate(ctx context.Context, subnets []domain.Subnet, candidates []candidate) {
	existing, err := r.repos.Ports.ListBySubnetIDs(ctx, subnetIDs(subnets))
	if err != nil {
		r.metrics.failure("allocation")
		r.logger.Error("failed to load ports for address pool", "err", err.Error())
		return
	}
	pool := ipam.New(r.logger, subnets, existing)

	for _, c := range candidates {
		_, err := r.allocator.Allocate(ctx, pool, c.node, c.subnets)
		r.metrics.allocation(err)
		if err != nil {
			r.metrics.failure("allocation")
			r.logger.Error("failed to allocate port",
				"node_id", c.node.ID,
				"node", c.node.Name,
				"err", err.Error(),
			)
		}
	}
}

func (r *NetworkReconciler) reconcileNetwork(ctx context.Context, network domain.Network, desired []domain.Subnet, portsBySubnet map[int64][]domain.Port) {
	logger := r.logger.With("network_id", network.ID)

	drv, err := r.drivers.Load(network)
	if err != nil {
		r.metrics.failure("network")
		logger.Error("failed to load driver", "err", err.Error())
		return
	}

	actual, err := drv.ListSubnets(ctx)
	r.metrics.driverOp("list_subnets", err)
	if err != nil {
		r.metrics.failure("network")
		logger.Error("failed to list subnets", "err", err.Error())
		return
	}

	plan := PlanSubnets(desired, actual)

	for _, s := range plan.Create {
		err := drv.CreateSubnet(ctx, s)
		r.metrics.driverOp("create_subnet", err)
		if err != nil {
			r.metrics.failure("subnet")
			logger.Error("failed to create subnet", "subnet_id", s.ID, "err", err.Error())
		}
	}
	for _, s := range plan.Delete {
		err := drv.DeleteSubnet(ctx, s)
		r.metrics.driverOp("delete_subnet", err)
		if err != nil {
			r.metrics.failure("subnet")
			logger.Error("failed to delete subnet", "subnet_id", s.ID, "err", err.Error())
		}
	}

	failed := make(map[int64]struct{})
	for _, s := range plan.Update {
		err := drv.UpdateSubnet(ctx, s)
		r.metrics.driverOp("update_subnet", err)
		if err != nil {
			failed[s.ID] = struct{}{}
			r.metrics.failure("subnet")
			logger.Error("failed to update subnet", "subnet_id", s.ID, "err", err.Error())
		}
	}

	for _, s := range plan.Common {
		if _, ok := failed[s.ID]; ok {
			continue
		}
		if err := r.subnets.Reconcile(ctx, drv, s, portsBySubnet[s.ID]); err != nil {
			logger.Error("failed to reconcile ports", "subnet_id", s.ID, "err", err.Error())
		}
	}
}

func subnetIDs(subnets []domain.Subnet) []int64 {
	ids := make([]int64, 0, len(subnets))
	for _, s := range subnets {
		ids = append(ids, s.ID)
	}
	return ids
}
