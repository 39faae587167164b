package domain

import "context"

type NetworkService interface {
	ListNetworks(ctx context.Context) ([]Network, error)
	CreateNetwork(ctx context.Context, input CreateNetworkInput) (Network, error)
	ListSubnets(ctx context.Context) ([]Subnet, error)
	CreateSubnet(ctx context.Context, input CreateSubnetInput) (Subnet, error)
	GetSubnet(ctx context.Context, id int64) (Subnet, error)
	DeleteSubnet(ctx context.Context, id int64) error
	ListPorts(ctx context.Context, subnetID int64) ([]Port, error)
	DeletePort(ctx context.Context, subnetID int64, id PortID) error
	CreateNode(ctx context.Context, input CreateNodeInput) (Node, error)
	GetDefaultNetwork(ctx context.Context, nodeID int64) (DefaultNetwork, error)
}
