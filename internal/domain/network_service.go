package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/netip"

	"go4.org/netipx"
)

type networkService struct {
	repos Repositories
}

func NewNetworkService(repos Repositories) NetworkService {
	return &networkService{repos: repos}
}

func (s *networkService) ListNetworks(ctx context.Context) ([]Network, error) {
	return s.repos.Networks.List(ctx)
}

func (s *networkService) CreateNetwork(ctx context.Context, input CreateNetworkInput) (Network, error) {
	if input.Project == "" {
		return Network{}, fmt.Errorf("%w: project is required", ErrInvalidInput)
	}
	if len(input.Driver) > 0 && !json.Valid(input.Driver) {
		return Network{}, fmt.Errorf("%w: driver configuration is not valid json", ErrInvalidInput)
	}
	return s.repos.Networks.Create(ctx, Network{Project: input.Project, Driver: input.Driver})
}

func (s *networkService) ListSubnets(ctx context.Context) ([]Subnet, error) {
	return s.repos.Subnets.List(ctx)
}

func (s *networkService) CreateSubnet(ctx context.Context, input CreateSubnetInput) (Subnet, error) {
	if _, err := s.repos.Networks.FindByID(ctx, input.NetworkID); err != nil {
		return Subnet{}, err
	}

	subnet, err := parseSubnetInput(input)
	if err != nil {
		return Subnet{}, err
	}
	if err := subnet.Validate(); err != nil {
		return Subnet{}, err
	}
	return s.repos.Subnets.Create(ctx, subnet)
}

func (s *networkService) GetSubnet(ctx context.Context, id int64) (Subnet, error) {
	return s.repos.Subnets.FindByID(ctx, id)
}

func (s *networkService) DeleteSubnet(ctx context.Context, id int64) error {
	deleted, err := s.repos.Subnets.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

func (s *networkService) ListPorts(ctx context.Context, subnetID int64) ([]Port, error) {
	if _, err := s.repos.Subnets.FindByID(ctx, subnetID); err != nil {
		return nil, err
	}
	return s.repos.Ports.ListBySubnetIDs(ctx, []int64{subnetID})
}

func (s *networkService) DeletePort(ctx context.Context, subnetID int64, id PortID) error {
	port, err := s.repos.Ports.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if port.SubnetID != subnetID {
		return ErrNotFound
	}
	deleted, err := s.repos.Ports.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

func (s *networkService) CreateNode(ctx context.Context, input CreateNodeInput) (Node, error) {
	node := Node{Name: input.Name, Kind: input.Kind}
	if node.Name == "" {
		return Node{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if node.Kind != NodeKindVM && node.Kind != NodeKindBareMetal {
		return Node{}, fmt.Errorf("%w: unknown node kind %q", ErrInvalidInput, input.Kind)
	}

	if input.DiscoveredIPv4 != "" {
		addr, err := netip.ParseAddr(input.DiscoveredIPv4)
		if err != nil || !addr.Is4() {
			return Node{}, fmt.Errorf("%w: invalid discovered ipv4", ErrInvalidInput)
		}
		node.DiscoveredIPv4 = addr
	}
	if input.DiscoveredMAC != "" {
		mac, err := net.ParseMAC(input.DiscoveredMAC)
		if err != nil {
			return Node{}, fmt.Errorf("%w: invalid discovered mac", ErrInvalidInput)
		}
		node.DiscoveredMAC = mac.String()
	}
	if input.TargetIPv4 != "" {
		addr, err := netip.ParseAddr(input.TargetIPv4)
		if err != nil || !addr.Is4() {
			return Node{}, fmt.Errorf("%w: invalid target ipv4", ErrInvalidInput)
		}
		node.DefaultNetwork = &DefaultNetwork{TargetIPv4: addr.String()}
	}

	return s.repos.Nodes.Create(ctx, node)
}

func (s *networkService) GetDefaultNetwork(ctx context.Context, nodeID int64) (DefaultNetwork, error) {
	node, err := s.repos.Nodes.FindByID(ctx, nodeID)
	if err != nil {
		return DefaultNetwork{}, err
	}
	if node.DefaultNetwork == nil || node.DefaultNetwork.Port == "" {
		return DefaultNetwork{}, ErrNotFound
	}
	return *node.DefaultNetwork, nil
}

func parseSubnetInput(input CreateSubnetInput) (Subnet, error) {
	prefix, err := netip.ParsePrefix(input.CIDR)
	if err != nil {
		return Subnet{}, fmt.Errorf("%w: invalid cidr", ErrInvalidInput)
	}

	subnet := Subnet{
		NetworkID:  input.NetworkID,
		CIDR:       prefix.Masked(),
		BootServer: input.BootServer,
	}

	if input.Range != "" {
		if subnet.Range, err = netipx.ParseIPRange(input.Range); err != nil {
			return Subnet{}, fmt.Errorf("%w: invalid range", ErrInvalidInput)
		}
	}
	if input.Discovery != "" {
		if subnet.Discovery, err = netipx.ParseIPRange(input.Discovery); err != nil {
			return Subnet{}, fmt.Errorf("%w: invalid discovery range", ErrInvalidInput)
		}
	}
	for _, raw := range input.DNS {
		addr, err := netip.ParseAddr(raw)
		if err != nil {
			return Subnet{}, fmt.Errorf("%w: invalid dns server %q", ErrInvalidInput, raw)
		}
		subnet.DNS = append(subnet.DNS, addr)
	}
	if input.Router != "" {
		if subnet.Router, err = netip.ParseAddr(input.Router); err != nil {
			return Subnet{}, fmt.Errorf("%w: invalid router", ErrInvalidInput)
		}
		if !subnet.CIDR.Contains(subnet.Router) {
			return Subnet{}, fmt.Errorf("%w: router outside cidr", ErrInvalidInput)
		}
	}

	return subnet, nil
}
