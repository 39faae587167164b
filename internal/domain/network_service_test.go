package domain

import (
	"context"
	"errors"
	"net/netip"
	"testing"
)

type stubNetworkRepository struct {
	listFn   func(context.Context) ([]Network, error)
	findFn   func(context.Context, int64) (Network, error)
	createFn func(context.Context, Network) (Network, error)
}

func (s stubNetworkRepository) List(ctx context.Context) ([]Network, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx)
}

func (s stubNetworkRepository) FindByID(ctx context.Context, id int64) (Network, error) {
	if s.findFn == nil {
		return Network{ID: id}, nil
	}
	return s.findFn(ctx, id)
}

func (s stubNetworkRepository) Create(ctx context.Context, network Network) (Network, error) {
	if s.createFn == nil {
		return network, nil
	}
	return s.createFn(ctx, network)
}

type stubSubnetRepository struct {
	listFn   func(context.Context) ([]Subnet, error)
	findFn   func(context.Context, int64) (Subnet, error)
	createFn func(context.Context, Subnet) (Subnet, error)
	deleteFn func(context.Context, int64) (bool, error)
}

func (s stubSubnetRepository) List(ctx context.Context) ([]Subnet, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx)
}

func (s stubSubnetRepository) FindByID(ctx context.Context, id int64) (Subnet, error) {
	if s.findFn == nil {
		return Subnet{}, nil
	}
	return s.findFn(ctx, id)
}

func (s stubSubnetRepository) Create(ctx context.Context, subnet Subnet) (Subnet, error) {
	if s.createFn == nil {
		return subnet, nil
	}
	return s.createFn(ctx, subnet)
}

func (s stubSubnetRepository) Delete(ctx context.Context, id int64) (bool, error) {
	if s.deleteFn == nil {
		return false, nil
	}
	return s.deleteFn(ctx, id)
}

type stubPortRepository struct {
	listFn   func(context.Context, []int64) ([]Port, error)
	findFn   func(context.Context, PortID) (Port, error)
	deleteFn func(context.Context, PortID) (bool, error)
}

func (s stubPortRepository) ListBySubnetIDs(ctx context.Context, ids []int64) ([]Port, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, ids)
}

func (s stubPortRepository) FindByID(ctx context.Context, id PortID) (Port, error) {
	if s.findFn == nil {
		return Port{}, ErrNotFound
	}
	return s.findFn(ctx, id)
}

func (s stubPortRepository) Create(_ context.Context, port Port) (Port, error) {
	return port, nil
}

func (s stubPortRepository) Update(_ context.Context, port Port) (Port, error) {
	return port, nil
}

func (s stubPortRepository) Delete(ctx context.Context, id PortID) (bool, error) {
	if s.deleteFn == nil {
		return false, nil
	}
	return s.deleteFn(ctx, id)
}

type stubNodeRepository struct {
	findFn   func(context.Context, int64) (Node, error)
	createFn func(context.Context, Node) (Node, error)
}

func (s stubNodeRepository) ListWithoutPort(context.Context, NodeKind) ([]Node, error) {
	return nil, nil
}

func (s stubNodeRepository) FindByID(ctx context.Context, id int64) (Node, error) {
	if s.findFn == nil {
		return Node{}, ErrNotFound
	}
	return s.findFn(ctx, id)
}

func (s stubNodeRepository) Create(ctx context.Context, node Node) (Node, error) {
	if s.createFn == nil {
		return node, nil
	}
	return s.createFn(ctx, node)
}

func (s stubNodeRepository) UpdateDefaultNetwork(context.Context, int64, *DefaultNetwork) error {
	return nil
}

func newTestService(subnets stubSubnetRepository, ports stubPortRepository, nodes stubNodeRepository) NetworkService {
	return NewNetworkService(Repositories{
		Networks: stubNetworkRepository{},
		Subnets:  subnets,
		Ports:    ports,
		Nodes:    nodes,
	})
}

func TestCreateSubnetRejectsInvalidCIDR(t *testing.T) {
	svc := newTestService(stubSubnetRepository{}, stubPortRepository{}, stubNodeRepository{})

	_, err := svc.CreateSubnet(context.Background(), CreateSubnetInput{NetworkID: 1, CIDR: "not-a-cidr"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCreateSubnetRejectsRangeOutsideCIDR(t *testing.T) {
	svc := newTestService(stubSubnetRepository{}, stubPortRepository{}, stubNodeRepository{})

	_, err := svc.CreateSubnet(context.Background(), CreateSubnetInput{
		NetworkID: 1,
		CIDR:      "10.0.0.0/24",
		Range:     "10.0.0.10-10.0.1.10",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCreateSubnetRejectsIPv6(t *testing.T) {
	svc := newTestService(stubSubnetRepository{}, stubPortRepository{}, stubNodeRepository{})

	_, err := svc.CreateSubnet(context.Background(), CreateSubnetInput{NetworkID: 1, CIDR: "2001:db8::/64"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCreateSubnetMasksCIDRAndKeepsHints(t *testing.T) {
	var saved Subnet
	svc := newTestService(stubSubnetRepository{
		createFn: func(_ context.Context, subnet Subnet) (Subnet, error) {
			saved = subnet
			subnet.ID = 3
			return subnet, nil
		},
	}, stubPortRepository{}, stubNodeRepository{})

	subnet, err := svc.CreateSubnet(context.Background(), CreateSubnetInput{
		NetworkID:  1,
		CIDR:       "10.0.0.7/24",
		Range:      "10.0.0.10-10.0.0.50",
		BootServer: "10.0.0.2",
		DNS:        []string{"10.0.0.53"},
		Router:     "10.0.0.1",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if subnet.ID != 3 {
		t.Fatalf("unexpected subnet id: %d", subnet.ID)
	}
	if saved.CIDR != netip.MustParsePrefix("10.0.0.0/24") {
		t.Fatalf("expected masked cidr, got %s", saved.CIDR)
	}
	if saved.Range.From() != netip.MustParseAddr("10.0.0.10") || saved.Range.To() != netip.MustParseAddr("10.0.0.50") {
		t.Fatalf("unexpected range: %s", saved.Range)
	}
	if saved.Mask() != "255.255.255.0" {
		t.Fatalf("unexpected mask: %s", saved.Mask())
	}
}

func TestCreateSubnetReturnsNotFoundForUnknownNetwork(t *testing.T) {
	svc := NewNetworkService(Repositories{
		Networks: stubNetworkRepository{
			findFn: func(context.Context, int64) (Network, error) {
				return Network{}, ErrNotFound
			},
		},
		Subnets: stubSubnetRepository{},
		Ports:   stubPortRepository{},
		Nodes:   stubNodeRepository{},
	})

	_, err := svc.CreateSubnet(context.Background(), CreateSubnetInput{NetworkID: 9, CIDR: "10.0.0.0/24"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateNetworkRejectsInvalidDriverBlob(t *testing.T) {
	svc := newTestService(stubSubnetRepository{}, stubPortRepository{}, stubNodeRepository{})

	_, err := svc.CreateNetwork(context.Background(), CreateNetworkInput{Project: "p", Driver: []byte("{")})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestDeleteSubnetReturnsNotFoundWhenRepositoryReportsNoDelete(t *testing.T) {
	svc := newTestService(stubSubnetRepository{
		deleteFn: func(context.Context, int64) (bool, error) {
			return false, nil
		},
	}, stubPortRepository{}, stubNodeRepository{})

	err := svc.DeleteSubnet(context.Background(), 1)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeletePortRejectsPortFromOtherSubnet(t *testing.T) {
	deleted := false
	svc := newTestService(stubSubnetRepository{}, stubPortRepository{
		findFn: func(_ context.Context, id PortID) (Port, error) {
			return Port{ID: id, SubnetID: 2}, nil
		},
		deleteFn: func(context.Context, PortID) (bool, error) {
			deleted = true
			return true, nil
		},
	}, stubNodeRepository{})

	err := svc.DeletePort(context.Background(), 1, PortID("p-1"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if deleted {
		t.Fatal("expected port in another subnet to be kept")
	}
}

func TestCreateNodeRecordsTargetAddress(t *testing.T) {
	svc := newTestService(stubSubnetRepository{}, stubPortRepository{}, stubNodeRepository{})

	node, err := svc.CreateNode(context.Background(), CreateNodeInput{
		Name:          "bm-1",
		Kind:          NodeKindBareMetal,
		DiscoveredMAC: "52:54:00:AA:BB:CC",
		TargetIPv4:    "10.0.0.20",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if node.DiscoveredMAC != "52:54:00:aa:bb:cc" {
		t.Fatalf("expected normalised mac, got %q", node.DiscoveredMAC)
	}
	if got := node.DefaultNetwork.TargetAddr(); got != netip.MustParseAddr("10.0.0.20") {
		t.Fatalf("unexpected target address: %v", got)
	}
}

func TestCreateNodeRejectsUnknownKind(t *testing.T) {
	svc := newTestService(stubSubnetRepository{}, stubPortRepository{}, stubNodeRepository{})

	_, err := svc.CreateNode(context.Background(), CreateNodeInput{Name: "n", Kind: "container"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestGetDefaultNetworkRequiresAttachment(t *testing.T) {
	svc := newTestService(stubSubnetRepository{}, stubPortRepository{}, stubNodeRepository{
		findFn: func(_ context.Context, id int64) (Node, error) {
			return Node{ID: id, DefaultNetwork: &DefaultNetwork{TargetIPv4: "10.0.0.5"}}, nil
		},
	})

	_, err := svc.GetDefaultNetwork(context.Background(), 4)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDefaultNetworkForMirrorsPort(t *testing.T) {
	port := Port{
		ID:         PortID("p-1"),
		SubnetID:   7,
		MAC:        "02:00:00:00:00:01",
		IPv4:       netip.MustParseAddr("10.0.0.9"),
		Mask:       "255.255.255.0",
		TargetIPv4: netip.MustParseAddr("10.0.0.9"),
	}

	dn := DefaultNetworkFor(port)
	want := DefaultNetwork{
		IPv4:       "10.0.0.9",
		Mask:       "255.255.255.0",
		MAC:        "02:00:00:00:00:01",
		Subnet:     7,
		Port:       PortID("p-1"),
		TargetIPv4: "10.0.0.9",
	}
	if *dn != want {
		t.Fatalf("unexpected descriptor: %+v", *dn)
	}
}
