// Package driver defines the contract between the reconciler and the backends
// that actually provision subnets and ports.
package driver

import (
	"context"
	"errors"
	"fmt"

	"github.com/Flarenzy/netreconciler/internal/domain"
)

// Driver reports and mutates the actual state of one network.
type Driver interface {
	ListSubnets(ctx context.Context) ([]domain.Subnet, error)
	ListPorts(ctx context.Context, subnet domain.Subnet) ([]domain.Port, error)
	CreateSubnet(ctx context.Context, subnet domain.Subnet) error
	UpdateSubnet(ctx context.Context, subnet domain.Subnet) error
	DeleteSubnet(ctx context.Context, subnet domain.Subnet) error
	// CreatePort provisions port and returns it as the backend reports it.
	CreatePort(ctx context.Context, subnet domain.Subnet, port domain.Port) (domain.Port, error)
	// UpdatePort reconfigures port and returns it as the backend reports it.
	UpdatePort(ctx context.Context, subnet domain.Subnet, port domain.Port) (domain.Port, error)
	DeletePort(ctx context.Context, subnet domain.Subnet, port domain.Port) error
}

// PortBatcher is implemented by drivers that can create or delete several
// ports in one backend call.
type PortBatcher interface {
	CreatePorts(ctx context.Context, subnet domain.Subnet, ports []domain.Port) ([]domain.Port, error)
	DeletePorts(ctx context.Context, subnet domain.Subnet, ports []domain.Port) error
}

// CreatePorts creates ports through d, in one call when d is a PortBatcher and
// one call per port otherwise. It returns the ports that were created; a
// failing port does not prevent the others from being attempted.
func CreatePorts(ctx context.Context, d Driver, subnet domain.Subnet, ports []domain.Port) ([]domain.Port, error) {
	if len(ports) == 0 {
		return nil, nil
	}
	if b, ok := d.(PortBatcher); ok {
		return b.CreatePorts(ctx, subnet, ports)
	}

	created := make([]domain.Port, 0, len(ports))
	var errs []error
	for _, port := range ports {
		reported, err := d.CreatePort(ctx, subnet, port)
		if err != nil {
			errs = append(errs, fmt.Errorf("create port %s: %w", port.ID, err))
			continue
		}
		created = append(created, reported)
	}
	return created, errors.Join(errs...)
}

// DeletePorts deletes ports through d, with the same fallback as CreatePorts.
func DeletePorts(ctx context.Context, d Driver, subnet domain.Subnet, ports []domain.Port) error {
	if len(ports) == 0 {
		return nil
	}
	if b, ok := d.(PortBatcher); ok {
		return b.DeletePorts(ctx, subnet, ports)
	}

	var errs []error
	for _, port := range ports {
		if err := d.DeletePort(ctx, subnet, port); err != nil {
			errs = append(errs, fmt.Errorf("delete port %s: %w", port.ID, err))
		}
	}
	return errors.Join(errs...)
}
