// Package memstore is an in-memory implementation of the domain repositories
// backed by go-memdb. It serves the "memory" store mode and tests.
package memstore

import (
	memdb "github.com/hashicorp/go-memdb"
)

const (
	tableNetwork = "network"
	tableSubnet  = "subnet"
	tablePort    = "port"
	tableNode    = "node"

	indexID      = "id"
	indexNetwork = "network"
	indexSubnet  = "subnet"
	indexKind    = "kind"
)

func newSchema() *memdb.DBSchema {
	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			tableNetwork: {
				Name: tableNetwork,
				Indexes: map[string]*memdb.IndexSchema{
					indexID: {Name: indexID, Unique: true, Indexer: &memdb.IntFieldIndex{Field: "ID"}},
				},
			},
			tableSubnet: {
				Name: tableSubnet,
				Indexes: map[string]*memdb.IndexSchema{
					indexID:      {Name: indexID, Unique: true, Indexer: &memdb.IntFieldIndex{Field: "ID"}},
					indexNetwork: {Name: indexNetwork, Indexer: &memdb.IntFieldIndex{Field: "NetworkID"}},
				},
			},
			tablePort: {
				Name: tablePort,
				Indexes: map[string]*memdb.IndexSchema{
					indexID:     {Name: indexID, Unique: true, Indexer: &memdb.StringFieldIndex{Field: "ID"}},
					indexSubnet: {Name: indexSubnet, Indexer: &memdb.IntFieldIndex{Field: "SubnetID"}},
				},
			},
			tableNode: {
				Name: tableNode,
				Indexes: map[string]*memdb.IndexSchema{
					indexID:   {Name: indexID, Unique: true, Indexer: &memdb.IntFieldIndex{Field: "ID"}},
					indexKind: {Name: indexKind, Indexer: &memdb.StringFieldIndex{Field: "Kind"}},
				},
			},
		},
	}
}
