package reconcile

import (
	"context"
	"errors"
	"net"
	"net/netip"
	"testing"

	"github.com/Flarenzy/netreconciler/internal/domain"
	"github.com/Flarenzy/netreconciler/internal/ipam"
	"github.com/google/go-cmp/cmp"
)

type stubPortRepository struct {
	domain.PortRepository
	createFn func(context.Context, domain.Port) (domain.Port, error)
}

func (s stubPortRepository) Create(ctx context.Context, port domain.Port) (domain.Port, error) {
	return s.createFn(ctx, port)
}

type stubNodeRepository struct {
	domain.NodeRepository
	updated map[int64]*domain.DefaultNetwork
}

func (s *stubNodeRepository) UpdateDefaultNetwork(_ context.Context, id int64, dn *domain.DefaultNetwork) error {
	if s.updated == nil {
		s.updated = make(map[int64]*domain.DefaultNetwork)
	}
	s.updated[id] = dn
	return nil
}

func testSubnet(id int64, cidr string) domain.Subnet {
	return domain.Subnet{ID: id, NetworkID: 1, CIDR: netip.MustParsePrefix(cidr)}
}

func newTestAllocator(ports domain.PortRepository, nodes domain.NodeRepository) *PortAllocator {
	a := NewPortAllocator(nil, ports, nodes)
	a.newID = func() domain.PortID { return "port-1" }
	a.newMAC = func() (string, error) { return "02:00:00:00:00:01", nil }
	return a
}

func TestAllocateBuildsPort(t *testing.T) {
	s := testSubnet(7, "10.0.0.0/24")
	pool := ipam.New(nil, []domain.Subnet{s}, nil)
	nodes := &stubNodeRepository{}
	ports := stubPortRepository{createFn: func(_ context.Context, p domain.Port) (domain.Port, error) {
		return p, nil
	}}

	port, err := newTestAllocator(ports, nodes).Allocate(context.Background(), pool, domain.Node{ID: 3, Kind: domain.NodeKindVM}, []domain.Subnet{s})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	nodeID := int64(3)
	want := domain.Port{
		ID:        "port-1",
		SubnetID:  7,
		NodeID:    &nodeID,
		MAC:       "02:00:00:00:00:01",
		IPv4:      netip.MustParseAddr("10.0.0.0"),
		Mask:      "255.255.255.0",
		Interface: "eth0",
		Status:    domain.PortStatusNew,
	}
	if diff := cmp.Diff(want, port, cmp.Comparer(func(a, b netip.Addr) bool { return a == b })); diff != "" {
		t.Fatalf("unexpected port (-want +got):\n%s", diff)
	}

	dn := nodes.updated[3]
	if dn == nil || dn.Port != "port-1" || dn.IPv4 != "10.0.0.0" {
		t.Fatalf("expected default network to be recorded, got %+v", dn)
	}
}

func TestAllocateHonorsTargetAndDiscoveredMAC(t *testing.T) {
	s := testSubnet(1, "10.0.0.0/24")
	pool := ipam.New(nil, []domain.Subnet{s}, nil)
	nodes := &stubNodeRepository{}
	ports := stubPortRepository{createFn: func(_ context.Context, p domain.Port) (domain.Port, error) {
		return p, nil
	}}
	node := domain.Node{
		ID:             1,
		Kind:           domain.NodeKindBareMetal,
		DiscoveredMAC:  "aa:bb:cc:dd:ee:ff",
		DefaultNetwork: &domain.DefaultNetwork{TargetIPv4: "10.0.0.42"},
	}

	port, err := newTestAllocator(ports, nodes).Allocate(context.Background(), pool, node, []domain.Subnet{s})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if port.IPv4 != netip.MustParseAddr("10.0.0.42") || port.TargetIPv4 != port.IPv4 {
		t.Fatalf("expected pinned address, got %s target %s", port.IPv4, port.TargetIPv4)
	}
	if port.MAC != "aa:bb:cc:dd:ee:ff" {
		t.Fatalf("expected discovered mac, got %s", port.MAC)
	}
	if dn := nodes.updated[1]; dn == nil || dn.TargetIPv4 != "10.0.0.42" {
		t.Fatalf("expected target to be kept in default network, got %+v", dn)
	}
}

func TestAllocateReplacesStaleDefaultNetwork(t *testing.T) {
	s := testSubnet(1, "10.0.0.0/24")
	pool := ipam.New(nil, []domain.Subnet{s}, nil)
	nodes := &stubNodeRepository{}
	ports := stubPortRepository{createFn: func(_ context.Context, p domain.Port) (domain.Port, error) {
		return p, nil
	}}
	node := domain.Node{
		ID:             1,
		Kind:           domain.NodeKindVM,
		DefaultNetwork: &domain.DefaultNetwork{IPv4: "10.0.0.77", Port: "older"},
	}

	port, err := newTestAllocator(ports, nodes).Allocate(context.Background(), pool, node, []domain.Subnet{s})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	want := domain.DefaultNetworkFor(port)
	if diff := cmp.Diff(want, nodes.updated[1]); diff != "" {
		t.Fatalf("expected descriptor for the new port (-want +got):\n%s", diff)
	}
}

func TestAllocateRollsBackWhenPersistFails(t *testing.T) {
	s := testSubnet(1, "0.0.0.0/30")
	pool := ipam.New(nil, []domain.Subnet{s}, nil)
	ports := stubPortRepository{createFn: func(context.Context, domain.Port) (domain.Port, error) {
		return domain.Port{}, errors.New("db down")
	}}

	_, err := newTestAllocator(ports, &stubNodeRepository{}).Allocate(context.Background(), pool, domain.Node{ID: 1}, []domain.Subnet{s})
	if err == nil {
		t.Fatal("expected error")
	}

	free, err := pool.Free(1)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if diff := cmp.Diff([]ipam.Interval{{Low: 0, High: 3}}, free); diff != "" {
		t.Fatalf("expected reservation to be released (-want +got):\n%s", diff)
	}
}

func TestAllocateFailures(t *testing.T) {
	s := testSubnet(1, "10.0.0.0/30")
	ports := stubPortRepository{createFn: func(_ context.Context, p domain.Port) (domain.Port, error) {
		return p, nil
	}}

	tests := []struct {
		name       string
		node       domain.Node
		candidates []domain.Subnet
		want       error
	}{
		{
			name: "no candidates",
			node: domain.Node{ID: 1},
			want: ErrNoCandidateSubnet,
		},
		{
			name:       "target outside subnet",
			node:       domain.Node{ID: 1, DefaultNetwork: &domain.DefaultNetwork{TargetIPv4: "192.168.0.1"}},
			candidates: []domain.Subnet{s},
			want:       ipam.ErrAddressNotInPool,
		},
		{
			name:       "undefined subnet",
			node:       domain.Node{ID: 1},
			candidates: []domain.Subnet{testSubnet(9, "10.9.0.0/24")},
			want:       ipam.ErrUndefinedSubnet,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := ipam.New(nil, []domain.Subnet{s}, nil)
			_, err := newTestAllocator(ports, &stubNodeRepository{}).Allocate(context.Background(), pool, tt.node, tt.candidates)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestRandomMAC(t *testing.T) {
	for range 32 {
		s, err := randomMAC()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		hw, err := net.ParseMAC(s)
		if err != nil {
			t.Fatalf("expected valid mac, got %q: %v", s, err)
		}
		if hw[0]&0x02 == 0 {
			t.Fatalf("expected locally administered mac, got %s", s)
		}
		if hw[0]&0x01 != 0 {
			t.Fatalf("expected unicast mac, got %s", s)
		}
	}
}
