package db

import (
	"context"
	"encoding/json"

	"github.com/Flarenzy/netreconciler/internal/domain"
	"github.com/jackc/pgx/v5"
)

const networkColumns = `id, project, driver, created_at, updated_at`

type NetworkRepository struct {
	db DBTX
}

func NewNetworkRepository(db DBTX) *NetworkRepository {
	return &NetworkRepository{db: db}
}

func (r *NetworkRepository) List(ctx context.Context) ([]domain.Network, error) {
	rows, err := r.db.Query(ctx, `SELECT `+networkColumns+` FROM networks ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Network, error) {
		return scanNetwork(row)
	})
}

func (r *NetworkRepository) FindByID(ctx context.Context, id int64) (domain.Network, error) {
	row := r.db.QueryRow(ctx, `SELECT `+networkColumns+` FROM networks WHERE id = $1`, id)
	network, err := scanNetwork(row)
	if err != nil {
		return domain.Network{}, mapError(err)
	}
	return network, nil
}

func (r *NetworkRepository) Create(ctx context.Context, network domain.Network) (domain.Network, error) {
	var driver []byte
	if len(network.Driver) > 0 {
		driver = network.Driver
	}
	row := r.db.QueryRow(ctx,
		`INSERT INTO networks (project, driver) VALUES ($1, $2) RETURNING `+networkColumns,
		network.Project, driver,
	)
	created, err := scanNetwork(row)
	if err != nil {
		return domain.Network{}, mapError(err)
	}
	return created, nil
}

func scanNetwork(row scanner) (domain.Network, error) {
	var (
		n      domain.Network
		driver []byte
	)
	if err := row.Scan(&n.ID, &n.Project, &driver, &n.CreatedAt, &n.UpdatedAt); err != nil {
		return domain.Network{}, err
	}
	if driver != nil {
		n.Driver = json.RawMessage(driver)
	}
	return n, nil
}
