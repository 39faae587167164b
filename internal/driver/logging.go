package driver

import (
	"context"
	"log/slog"

	"github.com/Flarenzy/netreconciler/internal/domain"
)

type loggingDriver struct {
	logger *slog.Logger
	next   Driver
}

func NewLoggingDriver(logger *slog.Logger, next Driver) Driver {
	if logger == nil || next == nil {
		return next
	}

	return &loggingDriver{
		logger: logger,
		next:   next,
	}
}

// CreatePorts and DeletePorts keep the batching of the wrapped driver.
func (d *loggingDriver) CreatePorts(ctx context.Context, subnet domain.Subnet, ports []domain.Port) ([]domain.Port, error) {
	created, err := CreatePorts(ctx, d.next, subnet, ports)
	if err != nil {
		d.logger.ErrorContext(ctx, "driver create ports failed", "subnet_id", subnet.ID, "requested", len(ports), "created", len(created), "err", err.Error())
	}
	if len(created) > 0 {
		d.logger.InfoContext(ctx, "driver ports created", "subnet_id", subnet.ID, "count", len(created))
	}
	return created, err
}

func (d *loggingDriver) DeletePorts(ctx context.Context, subnet domain.Subnet, ports []domain.Port) error {
	err := DeletePorts(ctx, d.next, subnet, ports)
	if err != nil {
		d.logger.ErrorContext(ctx, "driver delete ports failed", "subnet_id", subnet.ID, "count", len(ports), "err", err.Error())
		return err
	}

	d.logger.InfoContext(ctx, "driver ports deleted", "subnet_id", subnet.ID, "count", len(ports))
	return nil
}

func (d *loggingDriver) ListSubnets(ctx context.Context) ([]domain.Subnet, error) {
	subnets, err := d.next.ListSubnets(ctx)
	if err != nil {
		d.logger.ErrorContext(ctx, "driver list subnets failed", "err", err.Error())
	}
	return subnets, err
}

func (d *loggingDriver) ListPorts(ctx context.Context, subnet domain.Subnet) ([]domain.Port, error) {
	ports, err := d.next.ListPorts(ctx, subnet)
	if err != nil {
		d.logger.ErrorContext(ctx, "driver list ports failed", "subnet_id", subnet.ID, "err", err.Error())
	}
	return ports, err
}

func (d *loggingDriver) CreateSubnet(ctx context.Context, subnet domain.Subnet) error {
	err := d.next.CreateSubnet(ctx, subnet)
	if err != nil {
		d.logger.ErrorContext(ctx, "driver create subnet failed", "subnet_id", subnet.ID, "cidr", subnet.CIDR.String(), "err", err.Error())
		return err
	}

	d.logger.InfoContext(ctx, "driver subnet created", "subnet_id", subnet.ID, "cidr", subnet.CIDR.String())
	return nil
}

func (d *loggingDriver) UpdateSubnet(ctx context.Context, subnet domain.Subnet) error {
	err := d.next.UpdateSubnet(ctx, subnet)
	if err != nil {
		d.logger.ErrorContext(ctx, "driver update subnet failed", "subnet_id", subnet.ID, "err", err.Error())
		return err
	}

	d.logger.InfoContext(ctx, "driver subnet updated", "subnet_id", subnet.ID, "cidr", subnet.CIDR.String(), "boot_server", subnet.BootServer)
	return nil
}

func (d *loggingDriver) DeleteSubnet(ctx context.Context, subnet domain.Subnet) error {
	err := d.next.DeleteSubnet(ctx, subnet)
	if err != nil {
		d.logger.ErrorContext(ctx, "driver delete subnet failed", "subnet_id", subnet.ID, "err", err.Error())
		return err
	}

	d.logger.InfoContext(ctx, "driver subnet deleted", "subnet_id", subnet.ID)
	return nil
}

func (d *loggingDriver) CreatePort(ctx context.Context, subnet domain.Subnet, port domain.Port) (domain.Port, error) {
	reported, err := d.next.CreatePort(ctx, subnet, port)
	if err != nil {
		d.logger.ErrorContext(ctx, "driver create port failed", "subnet_id", subnet.ID, "port_id", string(port.ID), "err", err.Error())
		return domain.Port{}, err
	}

	d.logger.DebugContext(ctx, "driver port created", "subnet_id", subnet.ID, "port_id", string(port.ID), "status", string(reported.Status))
	return reported, nil
}

func (d *loggingDriver) UpdatePort(ctx context.Context, subnet domain.Subnet, port domain.Port) (domain.Port, error) {
	reported, err := d.next.UpdatePort(ctx, subnet, port)
	if err != nil {
		d.logger.ErrorContext(ctx, "driver update port failed", "subnet_id", subnet.ID, "port_id", string(port.ID), "err", err.Error())
		return domain.Port{}, err
	}

	d.logger.DebugContext(ctx, "driver port updated", "subnet_id", subnet.ID, "port_id", string(port.ID), "status", string(reported.Status))
	return reported, nil
}

func (d *loggingDriver) DeletePort(ctx context.Context, subnet domain.Subnet, port domain.Port) error {
	err := d.next.DeletePort(ctx, subnet, port)
	if err != nil {
		d.logger.ErrorContext(ctx, "driver delete port failed", "subnet_id", subnet.ID, "port_id", string(port.ID), "err", err.Error())
		return err
	}

	d.logger.DebugContext(ctx, "driver port deleted", "subnet_id", subnet.ID, "port_id", string(port.ID))
	return nil
}
