package domain

import "context"

type NetworkRepository interface {
	List(ctx context.Context) ([]Network, error)
	FindByID(ctx context.Context, id int64) (Network, error)
	Create(ctx context.Context, network Network) (Network, error)
}

type SubnetRepository interface {
	List(ctx context.Context) ([]Subnet, error)
	FindByID(ctx context.Context, id int64) (Subnet, error)
	Create(ctx context.Context, subnet Subnet) (Subnet, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type PortRepository interface {
	ListBySubnetIDs(ctx context.Context, subnetIDs []int64) ([]Port, error)
	FindByID(ctx context.Context, id PortID) (Port, error)
	Create(ctx context.Context, port Port) (Port, error)
	Update(ctx context.Context, port Port) (Port, error)
	Delete(ctx context.Context, id PortID) (bool, error)
}

type NodeRepository interface {
	// ListWithoutPort returns nodes of the given kind that no port references.
	ListWithoutPort(ctx context.Context, kind NodeKind) ([]Node, error)
	FindByID(ctx context.Context, id int64) (Node, error)
	Create(ctx context.Context, node Node) (Node, error)
	UpdateDefaultNetwork(ctx context.Context, id int64, dn *DefaultNetwork) error
}

// Repositories groups the storage contract consumed by the reconciler and the
// HTTP API.
type Repositories struct {
	Networks NetworkRepository
	Subnets  SubnetRepository
	Ports    PortRepository
	Nodes    NodeRepository
}
