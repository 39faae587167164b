package domain

import (
	"context"
	"log/slog"
)

type loggingNetworkService struct {
	logger *slog.Logger
	next   NetworkService
}

func NewLoggingNetworkService(logger *slog.Logger, next NetworkService) NetworkService {
	if logger == nil || next == nil {
		return next
	}

	return &loggingNetworkService{
		logger: logger,
		next:   next,
	}
}

func (s *loggingNetworkService) ListNetworks(ctx context.Context) ([]Network, error) {
	networks, err := s.next.ListNetworks(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "list networks failed", "err", err.Error())
	}
	return networks, err
}

func (s *loggingNetworkService) CreateNetwork(ctx context.Context, input CreateNetworkInput) (Network, error) {
	network, err := s.next.CreateNetwork(ctx, input)
	if err != nil {
		s.logger.ErrorContext(ctx, "create network failed", "project", input.Project, "err", err.Error())
		return Network{}, err
	}

	s.logger.InfoContext(ctx, "network created", "id", network.ID, "project", network.Project)
	return network, nil
}

func (s *loggingNetworkService) ListSubnets(ctx context.Context) ([]Subnet, error) {
	subnets, err := s.next.ListSubnets(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "list subnets failed", "err", err.Error())
	}
	return subnets, err
}

func (s *loggingNetworkService) CreateSubnet(ctx context.Context, input CreateSubnetInput) (Subnet, error) {
	subnet, err := s.next.CreateSubnet(ctx, input)
	if err != nil {
		s.logger.ErrorContext(ctx, "create subnet failed", "network_id", input.NetworkID, "cidr", input.CIDR, "err", err.Error())
		return Subnet{}, err
	}

	s.logger.InfoContext(ctx, "subnet created", "id", subnet.ID, "network_id", subnet.NetworkID, "cidr", subnet.CIDR.String())
	return subnet, nil
}

func (s *loggingNetworkService) GetSubnet(ctx context.Context, id int64) (Subnet, error) {
	subnet, err := s.next.GetSubnet(ctx, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "get subnet failed", "id", id, "err", err.Error())
	}
	return subnet, err
}

func (s *loggingNetworkService) DeleteSubnet(ctx context.Context, id int64) error {
	err := s.next.DeleteSubnet(ctx, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "delete subnet failed", "id", id, "err", err.Error())
		return err
	}

	s.logger.InfoContext(ctx, "subnet deleted", "id", id)
	return nil
}

func (s *loggingNetworkService) ListPorts(ctx context.Context, subnetID int64) ([]Port, error) {
	ports, err := s.next.ListPorts(ctx, subnetID)
	if err != nil {
		s.logger.ErrorContext(ctx, "list ports failed", "subnet_id", subnetID, "err", err.Error())
	}
	return ports, err
}

func (s *loggingNetworkService) DeletePort(ctx context.Context, subnetID int64, id PortID) error {
	err := s.next.DeletePort(ctx, subnetID, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "delete port failed", "subnet_id", subnetID, "port_id", string(id), "err", err.Error())
		return err
	}

	s.logger.DebugContext(ctx, "port deleted", "subnet_id", subnetID, "port_id", string(id))
	return nil
}

func (s *loggingNetworkService) CreateNode(ctx context.Context, input CreateNodeInput) (Node, error) {
	node, err := s.next.CreateNode(ctx, input)
	if err != nil {
		s.logger.ErrorContext(ctx, "create node failed", "name", input.Name, "kind", string(input.Kind), "err", err.Error())
		return Node{}, err
	}

	s.logger.InfoContext(ctx, "node registered", "id", node.ID, "name", node.Name, "kind", string(node.Kind))
	return node, nil
}

func (s *loggingNetworkService) GetDefaultNetwork(ctx context.Context, nodeID int64) (DefaultNetwork, error) {
	dn, err := s.next.GetDefaultNetwork(ctx, nodeID)
	if err != nil {
		s.logger.ErrorContext(ctx, "get default network failed", "node_id", nodeID, "err", err.Error())
	}
	return dn, err
}
