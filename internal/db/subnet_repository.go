package db

import (
	"context"
	"fmt"
	"net/netip"

	"github.com/Flarenzy/netreconciler/internal/domain"
	"github.com/jackc/pgx/v5"
	"go4.org/netipx"
)

const subnetColumns = `id, network_id, cidr, range_start, range_end, discovery_start, discovery_end,
	boot_server, dns, router, created_at, updated_at`

type SubnetRepository struct {
	db DBTX
}

func NewSubnetRepository(db DBTX) *SubnetRepository {
	return &SubnetRepository{db: db}
}

func (r *SubnetRepository) List(ctx context.Context) ([]domain.Subnet, error) {
	rows, err := r.db.Query(ctx, `SELECT `+subnetColumns+` FROM subnets ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Subnet, error) {
		return scanSubnet(row)
	})
}

func (r *SubnetRepository) FindByID(ctx context.Context, id int64) (domain.Subnet, error) {
	row := r.db.QueryRow(ctx, `SELECT `+subnetColumns+` FROM subnets WHERE id = $1`, id)
	subnet, err := scanSubnet(row)
	if err != nil {
		return domain.Subnet{}, mapError(err)
	}
	return subnet, nil
}

func (r *SubnetRepository) Create(ctx context.Context, subnet domain.Subnet) (domain.Subnet, error) {
	rangeStart, rangeEnd := rangeBounds(subnet.Range)
	discoveryStart, discoveryEnd := rangeBounds(subnet.Discovery)

	dns := make([]string, 0, len(subnet.DNS))
	for _, addr := range subnet.DNS {
		dns = append(dns, addr.String())
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO subnets (network_id, cidr, range_start, range_end, discovery_start, discovery_end, boot_server, dns, router)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+subnetColumns,
		subnet.NetworkID, subnet.CIDR.Masked(), rangeStart, rangeEnd, discoveryStart, discoveryEnd,
		subnet.BootServer, dns, nullAddr(subnet.Router),
	)
	created, err := scanSubnet(row)
	if err != nil {
		return domain.Subnet{}, mapError(err)
	}
	return created, nil
}

func (r *SubnetRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM subnets WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func scanSubnet(row scanner) (domain.Subnet, error) {
	var (
		s                            domain.Subnet
		rangeStart, rangeEnd         *netip.Addr
		discoveryStart, discoveryEnd *netip.Addr
		router                       *netip.Addr
		dns                          []string
	)
	err := row.Scan(
		&s.ID, &s.NetworkID, &s.CIDR,
		&rangeStart, &rangeEnd, &discoveryStart, &discoveryEnd,
		&s.BootServer, &dns, &router, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return domain.Subnet{}, err
	}

	s.Range = rangeFrom(rangeStart, rangeEnd)
	s.Discovery = rangeFrom(discoveryStart, discoveryEnd)
	s.Router = derefAddr(router)
	for _, raw := range dns {
		addr, err := netip.ParseAddr(raw)
		if err != nil {
			return domain.Subnet{}, fmt.Errorf("subnet %d dns %q: %w", s.ID, raw, err)
		}
		s.DNS = append(s.DNS, addr)
	}
	return s, nil
}

func rangeBounds(r netipx.IPRange) (*netip.Addr, *netip.Addr) {
	if !r.IsValid() {
		return nil, nil
	}
	return nullAddr(r.From()), nullAddr(r.To())
}

func rangeFrom(from, to *netip.Addr) netipx.IPRange {
	if from == nil || to == nil {
		return netipx.IPRange{}
	}
	return netipx.IPRangeFrom(*from, *to)
}
