package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Flarenzy/netreconciler/internal/domain"
	"github.com/Flarenzy/netreconciler/internal/driver"
)

// SubnetReconciler converges the ports of one subnet that exists both in the
// store and in the backend.
type SubnetReconciler struct {
	logger  *slog.Logger
	ports   domain.PortRepository
	nodes   domain.NodeRepository
	metrics *Metrics
}

func NewSubnetReconciler(logger *slog.Logger, ports domain.PortRepository, nodes domain.NodeRepository, metrics *Metrics) *SubnetReconciler {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &SubnetReconciler{
		logger:  logger,
		ports:   ports,
		nodes:   nodes,
		metrics: metrics,
	}
}

// Reconcile creates, deletes and updates backend ports so that they match
// desired. A failing port does not stop the remaining ones; all failures are
// returned joined.
func (r *SubnetReconciler) Reconcile(ctx context.Context, drv driver.Driver, subnet domain.Subnet, desired []domain.Port) error {
	actual, err := drv.ListPorts(ctx, subnet)
	r.metrics.driverOp("list_ports", err)
	if err != nil {
		return fmt.Errorf("list ports of subnet %d: %w", subnet.ID, err)
	}

	plan := PlanPorts(desired, actual)
	if plan.Empty() {
		return nil
	}
	var errs []error

	if len(plan.Create) > 0 {
		byID := make(map[domain.PortID]domain.Port, len(plan.Create))
		for _, p := range plan.Create {
			byID[p.ID] = p
		}
		created, err := driver.CreatePorts(ctx, drv, subnet, plan.Create)
		r.metrics.driverOp("create_ports", err)
		if err != nil {
			errs = append(errs, err)
		}
		for _, reported := range created {
			want, ok := byID[reported.ID]
			if !ok {
				continue
			}
			if err := r.mirror(ctx, want, reported); err != nil {
				errs = append(errs, err)
			}
		}
	}

	if len(plan.Delete) > 0 {
		err := driver.DeletePorts(ctx, drv, subnet, plan.Delete)
		r.metrics.driverOp("delete_ports", err)
		if err != nil {
			errs = append(errs, err)
		}
	}

	for _, change := range plan.Update {
		reported, err := drv.UpdatePort(ctx, subnet, change.Desired)
		r.metrics.driverOp("update_port", err)
		if err != nil {
			errs = append(errs, fmt.Errorf("update port %s: %w", change.Desired.ID, err))
			continue
		}
		if err := r.mirror(ctx, change.Desired, reported); err != nil {
			errs = append(errs, err)
		}
	}

	for range errs {
		r.metrics.failure("port")
	}
	return errors.Join(errs...)
}

// mirror copies what the backend reports for a port onto the stored record.
// Fields the backend leaves empty keep their stored value.
func (r *SubnetReconciler) mirror(ctx context.Context, stored, observed domain.Port) error {
	updated := stored
	if observed.Status != "" {
		updated.Status = observed.Status
	}
	if observed.IPv4.IsValid() {
		updated.IPv4 = observed.IPv4
	}
	if observed.Mask != "" {
		updated.Mask = observed.Mask
	}
	if !portDiverges(stored, updated) {
		return nil
	}

	saved, err := r.ports.Update(ctx, updated)
	if err != nil {
		return fmt.Errorf("save port %s: %w", stored.ID, err)
	}
	r.logger.Debug("port state mirrored",
		"port_id", saved.ID,
		"status", string(saved.Status),
		"ip", saved.IPv4.String(),
	)
	return r.refreshDefaultNetwork(ctx, saved)
}

// refreshDefaultNetwork rewrites the descriptor of the port's node when the
// port is the node's recorded default attachment.
func (r *SubnetReconciler) refreshDefaultNetwork(ctx context.Context, port domain.Port) error {
	if port.NodeID == nil {
		return nil
	}
	node, err := r.nodes.FindByID(ctx, *port.NodeID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("load node %d: %w", *port.NodeID, err)
	}
	current := node.DefaultNetwork
	if current == nil || current.Port != port.ID {
		return nil
	}

	next := domain.DefaultNetworkFor(port)
	if next.TargetIPv4 == "" {
		next.TargetIPv4 = current.TargetIPv4
	}
	if *next == *current {
		return nil
	}
	if err := r.nodes.UpdateDefaultNetwork(ctx, node.ID, next); err != nil {
		return fmt.Errorf("refresh default network of node %d: %w", node.ID, err)
	}
	r.logger.Info("default network refreshed", "node_id", node.ID, "port_id", port.ID)
	return nil
}
