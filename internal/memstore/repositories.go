package memstore

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/Flarenzy/netreconciler/internal/domain"
	memdb "github.com/hashicorp/go-memdb"
)

type NetworkRepository struct {
	store *Store
}

func (r *NetworkRepository) List(context.Context) ([]domain.Network, error) {
	txn := r.store.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(tableNetwork, indexID)
	if err != nil {
		return nil, err
	}
	networks := collect[domain.Network](it)
	sort.Slice(networks, func(i, j int) bool { return networks[i].ID < networks[j].ID })
	return networks, nil
}

func (r *NetworkRepository) FindByID(_ context.Context, id int64) (domain.Network, error) {
	txn := r.store.db.Txn(false)
	defer txn.Abort()

	obj, err := txn.First(tableNetwork, indexID, id)
	if err != nil {
		return domain.Network{}, err
	}
	if obj == nil {
		return domain.Network{}, domain.ErrNotFound
	}
	return obj.(domain.Network), nil
}

func (r *NetworkRepository) Create(_ context.Context, network domain.Network) (domain.Network, error) {
	txn := r.store.db.Txn(true)
	defer txn.Abort()

	now := time.Now().UTC()
	network.ID = r.store.networkSeq.Add(1)
	network.Driver = bytes.Clone(network.Driver)
	network.CreatedAt, network.UpdatedAt = now, now
	if err := txn.Insert(tableNetwork, network); err != nil {
		return domain.Network{}, err
	}
	txn.Commit()
	return network, nil
}

type SubnetRepository struct {
	store *Store
}

func (r *SubnetRepository) List(context.Context) ([]domain.Subnet, error) {
	txn := r.store.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(tableSubnet, indexID)
	if err != nil {
		return nil, err
	}
	subnets := collect[domain.Subnet](it)
	for i := range subnets {
		subnets[i] = cloneSubnet(subnets[i])
	}
	sort.Slice(subnets, func(i, j int) bool { return subnets[i].ID < subnets[j].ID })
	return subnets, nil
}

func (r *SubnetRepository) FindByID(_ context.Context, id int64) (domain.Subnet, error) {
	txn := r.store.db.Txn(false)
	defer txn.Abort()

	obj, err := txn.First(tableSubnet, indexID, id)
	if err != nil {
		return domain.Subnet{}, err
	}
	if obj == nil {
		return domain.Subnet{}, domain.ErrNotFound
	}
	return cloneSubnet(obj.(domain.Subnet)), nil
}

func (r *SubnetRepository) Create(_ context.Context, subnet domain.Subnet) (domain.Subnet, error) {
	txn := r.store.db.Txn(true)
	defer txn.Abort()

	network, err := txn.First(tableNetwork, indexID, subnet.NetworkID)
	if err != nil {
		return domain.Subnet{}, err
	}
	if network == nil {
		return domain.Subnet{}, fmt.Errorf("%w: network %d does not exist", domain.ErrInvalidInput, subnet.NetworkID)
	}

	now := time.Now().UTC()
	subnet = cloneSubnet(subnet)
	subnet.ID = r.store.subnetSeq.Add(1)
	subnet.CreatedAt, subnet.UpdatedAt = now, now
	if err := txn.Insert(tableSubnet, subnet); err != nil {
		return domain.Subnet{}, err
	}
	txn.Commit()
	return subnet, nil
}

// Delete removes the subnet together with its ports.
func (r *SubnetRepository) Delete(_ context.Context, id int64) (bool, error) {
	txn := r.store.db.Txn(true)
	defer txn.Abort()

	obj, err := txn.First(tableSubnet, indexID, id)
	if err != nil {
		return false, err
	}
	if obj == nil {
		return false, nil
	}
	if _, err := txn.DeleteAll(tablePort, indexSubnet, id); err != nil {
		return false, err
	}
	if err := txn.Delete(tableSubnet, obj); err != nil {
		return false, err
	}
	txn.Commit()
	return true, nil
}

type PortRepository struct {
	store *Store
}

func (r *PortRepository) ListBySubnetIDs(_ context.Context, subnetIDs []int64) ([]domain.Port, error) {
	txn := r.store.db.Txn(false)
	defer txn.Abort()

	var ports []domain.Port
	for _, id := range subnetIDs {
		it, err := txn.Get(tablePort, indexSubnet, id)
		if err != nil {
			return nil, err
		}
		for _, p := range collect[domain.Port](it) {
			ports = append(ports, clonePort(p))
		}
	}
	sort.Slice(ports, func(i, j int) bool {
		if ports[i].SubnetID != ports[j].SubnetID {
			return ports[i].SubnetID < ports[j].SubnetID
		}
		return ports[i].ID < ports[j].ID
	})
	return ports, nil
}

func (r *PortRepository) FindByID(_ context.Context, id domain.PortID) (domain.Port, error) {
	txn := r.store.db.Txn(false)
	defer txn.Abort()

	obj, err := txn.First(tablePort, indexID, string(id))
	if err != nil {
		return domain.Port{}, err
	}
	if obj == nil {
		return domain.Port{}, domain.ErrNotFound
	}
	return clonePort(obj.(domain.Port)), nil
}

func (r *PortRepository) Create(_ context.Context, port domain.Port) (domain.Port, error) {
	txn := r.store.db.Txn(true)
	defer txn.Abort()

	subnet, err := txn.First(tableSubnet, indexID, port.SubnetID)
	if err != nil {
		return domain.Port{}, err
	}
	if subnet == nil {
		return domain.Port{}, fmt.Errorf("%w: subnet %d does not exist", domain.ErrInvalidInput, port.SubnetID)
	}
	existing, err := txn.First(tablePort, indexID, string(port.ID))
	if err != nil {
		return domain.Port{}, err
	}
	if existing != nil {
		return domain.Port{}, domain.ErrConflict
	}
	if err := checkAddressFree(txn, port); err != nil {
		return domain.Port{}, err
	}

	now := time.Now().UTC()
	port = clonePort(port)
	port.CreatedAt, port.UpdatedAt = now, now
	if err := txn.Insert(tablePort, port); err != nil {
		return domain.Port{}, err
	}
	txn.Commit()
	return port, nil
}

func (r *PortRepository) Update(_ context.Context, port domain.Port) (domain.Port, error) {
	txn := r.store.db.Txn(true)
	defer txn.Abort()

	obj, err := txn.First(tablePort, indexID, string(port.ID))
	if err != nil {
		return domain.Port{}, err
	}
	if obj == nil {
		return domain.Port{}, domain.ErrNotFound
	}
	current := obj.(domain.Port)
	if port.SubnetID != current.SubnetID {
		return domain.Port{}, fmt.Errorf("%w: port %s cannot move between subnets", domain.ErrInvalidInput, port.ID)
	}
	if port.IPv4 != current.IPv4 {
		if err := checkAddressFree(txn, port); err != nil {
			return domain.Port{}, err
		}
	}

	port = clonePort(port)
	port.CreatedAt = current.CreatedAt
	port.UpdatedAt = time.Now().UTC()
	if err := txn.Insert(tablePort, port); err != nil {
		return domain.Port{}, err
	}
	txn.Commit()
	return port, nil
}

func (r *PortRepository) Delete(_ context.Context, id domain.PortID) (bool, error) {
	txn := r.store.db.Txn(true)
	defer txn.Abort()

	obj, err := txn.First(tablePort, indexID, string(id))
	if err != nil {
		return false, err
	}
	if obj == nil {
		return false, nil
	}
	if err := txn.Delete(tablePort, obj); err != nil {
		return false, err
	}
	txn.Commit()
	return true, nil
}

type NodeRepository struct {
	store *Store
}

func (r *NodeRepository) ListWithoutPort(_ context.Context, kind domain.NodeKind) ([]domain.Node, error) {
	txn := r.store.db.Txn(false)
	defer txn.Abort()

	portIt, err := txn.Get(tablePort, indexID)
	if err != nil {
		return nil, err
	}
	attached := make(map[int64]struct{})
	for _, p := range collect[domain.Port](portIt) {
		if p.NodeID != nil {
			attached[*p.NodeID] = struct{}{}
		}
	}

	nodeIt, err := txn.Get(tableNode, indexKind, string(kind))
	if err != nil {
		return nil, err
	}
	var nodes []domain.Node
	for _, n := range collect[domain.Node](nodeIt) {
		if _, ok := attached[n.ID]; !ok {
			nodes = append(nodes, cloneNode(n))
		}
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
	return nodes, nil
}

func (r *NodeRepository) FindByID(_ context.Context, id int64) (domain.Node, error) {
	txn := r.store.db.Txn(false)
	defer txn.Abort()

	obj, err := txn.First(tableNode, indexID, id)
	if err != nil {
		return domain.Node{}, err
	}
	if obj == nil {
		return domain.Node{}, domain.ErrNotFound
	}
	return cloneNode(obj.(domain.Node)), nil
}

func (r *NodeRepository) Create(_ context.Context, node domain.Node) (domain.Node, error) {
	txn := r.store.db.Txn(true)
	defer txn.Abort()

	node = cloneNode(node)
	node.ID = r.store.nodeSeq.Add(1)
	if err := txn.Insert(tableNode, node); err != nil {
		return domain.Node{}, err
	}
	txn.Commit()
	return cloneNode(node), nil
}

func (r *NodeRepository) UpdateDefaultNetwork(_ context.Context, id int64, dn *domain.DefaultNetwork) error {
	txn := r.store.db.Txn(true)
	defer txn.Abort()

	obj, err := txn.First(tableNode, indexID, id)
	if err != nil {
		return err
	}
	if obj == nil {
		return domain.ErrNotFound
	}
	node := obj.(domain.Node)
	node.DefaultNetwork = nil
	if dn != nil {
		clone := *dn
		node.DefaultNetwork = &clone
	}
	if err := txn.Insert(tableNode, node); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

func checkAddressFree(txn *memdb.Txn, port domain.Port) error {
	if !port.IPv4.IsValid() {
		return nil
	}
	it, err := txn.Get(tablePort, indexSubnet, port.SubnetID)
	if err != nil {
		return err
	}
	taken := slices.ContainsFunc(collect[domain.Port](it), func(p domain.Port) bool {
		return p.ID != port.ID && p.IPv4 == port.IPv4
	})
	if taken {
		return fmt.Errorf("%w: address %s already used in subnet %d", domain.ErrConflict, port.IPv4, port.SubnetID)
	}
	return nil
}
