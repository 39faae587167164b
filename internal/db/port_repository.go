package db

import (
	"context"
	"fmt"
	"net/netip"

	"github.com/Flarenzy/netreconciler/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const portColumns = `id, subnet_id, node_id, mac, ipv4, mask, target_ipv4, interface, status, created_at, updated_at`

type PortRepository struct {
	db DBTX
}

func NewPortRepository(db DBTX) *PortRepository {
	return &PortRepository{db: db}
}

func (r *PortRepository) ListBySubnetIDs(ctx context.Context, subnetIDs []int64) ([]domain.Port, error) {
	if len(subnetIDs) == 0 {
		return nil, nil
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+portColumns+` FROM ports WHERE subnet_id = ANY($1) ORDER BY subnet_id, id`,
		subnetIDs,
	)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Port, error) {
		return scanPort(row)
	})
}

func (r *PortRepository) FindByID(ctx context.Context, id domain.PortID) (domain.Port, error) {
	parsedID, err := parsePortID(id)
	if err != nil {
		return domain.Port{}, fmt.Errorf("%w: invalid port id", domain.ErrInvalidInput)
	}

	row := r.db.QueryRow(ctx, `SELECT `+portColumns+` FROM ports WHERE id = $1`, parsedID)
	port, err := scanPort(row)
	if err != nil {
		return domain.Port{}, mapError(err)
	}
	return port, nil
}

func (r *PortRepository) Create(ctx context.Context, port domain.Port) (domain.Port, error) {
	parsedID, err := parsePortID(port.ID)
	if err != nil {
		return domain.Port{}, fmt.Errorf("%w: invalid port id", domain.ErrInvalidInput)
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO ports (id, subnet_id, node_id, mac, ipv4, mask, target_ipv4, interface, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+portColumns,
		parsedID, port.SubnetID, port.NodeID, port.MAC, nullAddr(port.IPv4), port.Mask,
		nullAddr(port.TargetIPv4), port.Interface, string(port.Status),
	)
	created, err := scanPort(row)
	if err != nil {
		return domain.Port{}, mapError(err)
	}
	return created, nil
}

// Update overwrites the mutable columns of a port. The subnet and node a port
// belongs to never change.
func (r *PortRepository) Update(ctx context.Context, port domain.Port) (domain.Port, error) {
	parsedID, err := parsePortID(port.ID)
	if err != nil {
		return domain.Port{}, fmt.Errorf("%w: invalid port id", domain.ErrInvalidInput)
	}

	row := r.db.QueryRow(ctx, `
		UPDATE ports
		SET mac = $2, ipv4 = $3, mask = $4, target_ipv4 = $5, interface = $6, status = $7, updated_at = now()
		WHERE id = $1
		RETURNING `+portColumns,
		parsedID, port.MAC, nullAddr(port.IPv4), port.Mask, nullAddr(port.TargetIPv4), port.Interface, string(port.Status),
	)
	updated, err := scanPort(row)
	if err != nil {
		return domain.Port{}, mapError(err)
	}
	return updated, nil
}

func (r *PortRepository) Delete(ctx context.Context, id domain.PortID) (bool, error) {
	parsedID, err := parsePortID(id)
	if err != nil {
		return false, fmt.Errorf("%w: invalid port id", domain.ErrInvalidInput)
	}

	tag, err := r.db.Exec(ctx, `DELETE FROM ports WHERE id = $1`, parsedID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func scanPort(row scanner) (domain.Port, error) {
	var (
		p            domain.Port
		id           pgtype.UUID
		ipv4, target *netip.Addr
		status       string
	)
	err := row.Scan(
		&id, &p.SubnetID, &p.NodeID, &p.MAC, &ipv4, &p.Mask, &target,
		&p.Interface, &status, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return domain.Port{}, err
	}
	p.ID = domain.PortID(uuid.UUID(id.Bytes).String())
	p.IPv4 = derefAddr(ipv4)
	p.TargetIPv4 = derefAddr(target)
	p.Status = domain.PortStatus(status)
	return p, nil
}

func parsePortID(id domain.PortID) (pgtype.UUID, error) {
	u, err := uuid.Parse(string(id))
	if err != nil {
		return pgtype.UUID{}, err
	}

	var parsed pgtype.UUID
	copy(parsed.Bytes[:], u[:])
	parsed.Valid = true

	return parsed, nil
}
