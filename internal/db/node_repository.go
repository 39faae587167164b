package db

import (
	"context"
	"encoding/json"
	"fmt"
	"net/netip"

	"github.com/Flarenzy/netreconciler/internal/domain"
	"github.com/jackc/pgx/v5"
)

const nodeColumns = `id, name, kind, discovered_ipv4, discovered_mac, default_network`

type NodeRepository struct {
	db DBTX
}

func NewNodeRepository(db DBTX) *NodeRepository {
	return &NodeRepository{db: db}
}

func (r *NodeRepository) ListWithoutPort(ctx context.Context, kind domain.NodeKind) ([]domain.Node, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+nodeColumns+` FROM nodes n
		WHERE n.kind = $1 AND NOT EXISTS (SELECT 1 FROM ports p WHERE p.node_id = n.id)
		ORDER BY n.id`,
		string(kind),
	)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Node, error) {
		return scanNode(row)
	})
}

func (r *NodeRepository) FindByID(ctx context.Context, id int64) (domain.Node, error) {
	row := r.db.QueryRow(ctx, `SELECT `+nodeColumns+` FROM nodes WHERE id = $1`, id)
	node, err := scanNode(row)
	if err != nil {
		return domain.Node{}, mapError(err)
	}
	return node, nil
}

func (r *NodeRepository) Create(ctx context.Context, node domain.Node) (domain.Node, error) {
	dn, err := marshalDefaultNetwork(node.DefaultNetwork)
	if err != nil {
		return domain.Node{}, err
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO nodes (name, kind, discovered_ipv4, discovered_mac, default_network)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+nodeColumns,
		node.Name, string(node.Kind), nullAddr(node.DiscoveredIPv4), node.DiscoveredMAC, dn,
	)
	created, err := scanNode(row)
	if err != nil {
		return domain.Node{}, mapError(err)
	}
	return created, nil
}

func (r *NodeRepository) UpdateDefaultNetwork(ctx context.Context, id int64, dn *domain.DefaultNetwork) error {
	raw, err := marshalDefaultNetwork(dn)
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, `UPDATE nodes SET default_network = $2 WHERE id = $1`, id, raw)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanNode(row scanner) (domain.Node, error) {
	var (
		n          domain.Node
		kind       string
		discovered *netip.Addr
		dn         []byte
	)
	if err := row.Scan(&n.ID, &n.Name, &kind, &discovered, &n.DiscoveredMAC, &dn); err != nil {
		return domain.Node{}, err
	}
	n.Kind = domain.NodeKind(kind)
	n.DiscoveredIPv4 = derefAddr(discovered)
	if dn != nil {
		n.DefaultNetwork = &domain.DefaultNetwork{}
		if err := json.Unmarshal(dn, n.DefaultNetwork); err != nil {
			return domain.Node{}, fmt.Errorf("node %d default network: %w", n.ID, err)
		}
	}
	return n, nil
}

func marshalDefaultNetwork(dn *domain.DefaultNetwork) ([]byte, error) {
	if dn == nil {
		return nil, nil
	}
	raw, err := json.Marshal(dn)
	if err != nil {
		return nil, fmt.Errorf("encode default network: %w", err)
	}
	return raw, nil
}
