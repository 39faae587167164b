package memstore

import (
	"fmt"
	"slices"
	"sync/atomic"

	"github.com/Flarenzy/netreconciler/internal/domain"
	memdb "github.com/hashicorp/go-memdb"
)

type Store struct {
	db *memdb.MemDB

	networkSeq atomic.Int64
	subnetSeq  atomic.Int64
	nodeSeq    atomic.Int64
}

func New() (*Store, error) {
	db, err := memdb.NewMemDB(newSchema())
	if err != nil {
		return nil, fmt.Errorf("create memdb: %w", err)
	}
	return &Store{db: db}, nil
}

// Repositories exposes the store through the domain storage contract.
func (s *Store) Repositories() domain.Repositories {
	return domain.Repositories{
		Networks: &NetworkRepository{store: s},
		Subnets:  &SubnetRepository{store: s},
		Ports:    &PortRepository{store: s},
		Nodes:    &NodeRepository{store: s},
	}
}

func collect[T any](it memdb.ResultIterator) []T {
	var out []T
	for obj := it.Next(); obj != nil; obj = it.Next() {
		out = append(out, obj.(T))
	}
	return out
}

func clonePort(p domain.Port) domain.Port {
	if p.NodeID != nil {
		id := *p.NodeID
		p.NodeID = &id
	}
	return p
}

func cloneNode(n domain.Node) domain.Node {
	if n.DefaultNetwork != nil {
		dn := *n.DefaultNetwork
		n.DefaultNetwork = &dn
	}
	return n
}

func cloneSubnet(s domain.Subnet) domain.Subnet {
	s.DNS = slices.Clone(s.DNS)
	return s
}
