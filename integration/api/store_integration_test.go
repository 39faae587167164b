//go:build integration

package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/netip"
	"strings"
	"testing"

	"github.com/Flarenzy/netreconciler/internal/db"
	"github.com/Flarenzy/netreconciler/internal/domain"
	"github.com/Flarenzy/netreconciler/internal/driver"
	"github.com/Flarenzy/netreconciler/internal/reconcile"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go4.org/netipx"
)

// isolatedRepositories migrates a fresh database in the suite's container so
// that the background reconcile loop of the API does not see its rows.
func (s *integrationSuite) isolatedRepositories(t *testing.T, name string) domain.Repositories {
	t.Helper()
	ctx := context.Background()

	if _, err := s.pool.Exec(ctx, "CREATE DATABASE "+pgx.Identifier{name}.Sanitize()); err != nil {
		t.Fatalf("create database %s: %v", name, err)
	}

	dsn := strings.Replace(s.dsn, "/netreconciler?", "/"+name+"?", 1)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	pool, err := db.NewPool(ctx, dsn, logger)
	if err != nil {
		t.Fatalf("connect to %s: %v", name, err)
	}
	t.Cleanup(pool.Close)

	if err := db.Migrate(ctx, pool, logger); err != nil {
		t.Fatalf("migrate %s: %v", name, err)
	}
	return db.Repositories(pool)
}

func TestPostgresRepositories(t *testing.T) {
	s := mustSuite(t)
	repos := s.isolatedRepositories(t, "repositories")
	ctx := context.Background()

	network, err := repos.Networks.Create(ctx, domain.Network{Project: "lab", Driver: json.RawMessage(`{"type":"noop"}`)})
	if err != nil {
		t.Fatalf("create network: %v", err)
	}

	if _, err := repos.Subnets.Create(ctx, domain.Subnet{NetworkID: network.ID + 100, CIDR: netip.MustParsePrefix("10.9.0.0/24")}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected %v for missing network, got %v", domain.ErrInvalidInput, err)
	}

	want := domain.Subnet{
		NetworkID:  network.ID,
		CIDR:       netip.MustParsePrefix("10.1.0.0/24"),
		Range:      netipx.MustParseIPRange("10.1.0.10-10.1.0.20"),
		Discovery:  netipx.MustParseIPRange("10.1.0.200-10.1.0.250"),
		BootServer: "10.1.0.2",
		DNS:        []netip.Addr{netip.MustParseAddr("1.1.1.1"), netip.MustParseAddr("8.8.8.8")},
		Router:     netip.MustParseAddr("10.1.0.1"),
	}
	created, err := repos.Subnets.Create(ctx, want)
	if err != nil {
		t.Fatalf("create subnet: %v", err)
	}
	got, err := repos.Subnets.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("find subnet: %v", err)
	}
	want.ID = created.ID
	if diff := cmp.Diff(want, got,
		cmp.Comparer(func(a, b netip.Addr) bool { return a == b }),
		cmp.Comparer(func(a, b netip.Prefix) bool { return a == b }),
		cmp.Comparer(func(a, b netipx.IPRange) bool { return a == b }),
		cmp.FilterPath(func(p cmp.Path) bool {
			name := p.Last().String()
			return name == ".CreatedAt" || name == ".UpdatedAt"
		}, cmp.Ignore()),
	); diff != "" {
		t.Fatalf("subnet round trip mismatch (-want +got):\n%s", diff)
	}

	node, err := repos.Nodes.Create(ctx, domain.Node{Name: "bm-1", Kind: domain.NodeKindBareMetal, DiscoveredIPv4: netip.MustParseAddr("10.1.0.201")})
	if err != nil {
		t.Fatalf("create node: %v", err)
	}

	port := domain.Port{
		ID:        domain.PortID(uuid.NewString()),
		SubnetID:  created.ID,
		NodeID:    &node.ID,
		MAC:       "02:00:00:00:00:01",
		IPv4:      netip.MustParseAddr("10.1.0.10"),
		Mask:      "255.255.255.0",
		Interface: "eth0",
		Status:    domain.PortStatusNew,
	}
	if _, err := repos.Ports.Create(ctx, port); err != nil {
		t.Fatalf("create port: %v", err)
	}

	duplicate := port
	duplicate.ID = domain.PortID(uuid.NewString())
	duplicate.NodeID = nil
	if _, err := repos.Ports.Create(ctx, duplicate); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected %v for duplicate address, got %v", domain.ErrConflict, err)
	}

	waiting, err := repos.Nodes.ListWithoutPort(ctx, domain.NodeKindBareMetal)
	if err != nil {
		t.Fatalf("list nodes without port: %v", err)
	}
	if len(waiting) != 0 {
		t.Fatalf("expected node with a port to be excluded, got %+v", waiting)
	}

	port.Status = domain.PortStatusActive
	port.IPv4 = netip.MustParseAddr("10.1.0.11")
	if _, err := repos.Ports.Update(ctx, port); err != nil {
		t.Fatalf("update port: %v", err)
	}
	stored, err := repos.Ports.FindByID(ctx, port.ID)
	if err != nil {
		t.Fatalf("find port: %v", err)
	}
	if stored.Status != domain.PortStatusActive || stored.IPv4 != port.IPv4 {
		t.Fatalf("expected updated port, got %+v", stored)
	}

	dn := domain.DefaultNetworkFor(stored)
	if err := repos.Nodes.UpdateDefaultNetwork(ctx, node.ID, dn); err != nil {
		t.Fatalf("update default network: %v", err)
	}
	storedNode, err := repos.Nodes.FindByID(ctx, node.ID)
	if err != nil {
		t.Fatalf("find node: %v", err)
	}
	if storedNode.DefaultNetwork == nil || *storedNode.DefaultNetwork != *dn {
		t.Fatalf("expected default network %+v, got %+v", dn, storedNode.DefaultNetwork)
	}

	deleted, err := repos.Subnets.Delete(ctx, created.ID)
	if err != nil || !deleted {
		t.Fatalf("expected subnet delete, got %v %v", deleted, err)
	}
	if _, err := repos.Ports.FindByID(ctx, port.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ports to cascade, got %v", err)
	}
}

func TestReconcileAgainstPostgres(t *testing.T) {
	s := mustSuite(t)
	repos := s.isolatedRepositories(t, "reconcile")
	ctx := context.Background()

	network, err := repos.Networks.Create(ctx, domain.Network{Project: "lab", Driver: json.RawMessage(`{"type":"noop"}`)})
	if err != nil {
		t.Fatalf("create network: %v", err)
	}
	subnet, err := repos.Subnets.Create(ctx, domain.Subnet{NetworkID: network.ID, CIDR: netip.MustParsePrefix("10.2.0.0/29")})
	if err != nil {
		t.Fatalf("create subnet: %v", err)
	}
	var nodes []domain.Node
	for i := range 3 {
		node, err := repos.Nodes.Create(ctx, domain.Node{Name: fmt.Sprintf("vm-%d", i), Kind: domain.NodeKindVM})
		if err != nil {
			t.Fatalf("create node: %v", err)
		}
		nodes = append(nodes, node)
	}

	r := reconcile.NewNetworkReconciler(nil, repos, driver.NewRegistry(nil), nil)
	for range 2 {
		if err := r.Reconcile(ctx); err != nil {
			t.Fatalf("reconcile: %v", err)
		}
	}

	ports, err := repos.Ports.ListBySubnetIDs(ctx, []int64{subnet.ID})
	if err != nil {
		t.Fatalf("list ports: %v", err)
	}
	if len(ports) != len(nodes) {
		t.Fatalf("expected %d ports, got %d", len(nodes), len(ports))
	}
	seen := make(map[netip.Addr]bool)
	for _, p := range ports {
		if p.Status != domain.PortStatusActive {
			t.Fatalf("expected ACTIVE port, got %+v", p)
		}
		if seen[p.IPv4] {
			t.Fatalf("address %s allocated twice", p.IPv4)
		}
		seen[p.IPv4] = true
	}

	for _, n := range nodes {
		stored, err := repos.Nodes.FindByID(ctx, n.ID)
		if err != nil {
			t.Fatalf("find node: %v", err)
		}
		if stored.DefaultNetwork == nil || stored.DefaultNetwork.Subnet != subnet.ID {
			t.Fatalf("expected default network on node %d, got %+v", n.ID, stored.DefaultNetwork)
		}
	}
}
