package reconcile

import (
	"context"
	"encoding/json"
	"errors"
	"net/netip"
	"strings"
	"testing"

	"github.com/Flarenzy/netreconciler/internal/domain"
	"github.com/Flarenzy/netreconciler/internal/driver"
	"github.com/Flarenzy/netreconciler/internal/memstore"
)

var noopBlob = json.RawMessage(`{"type":"noop"}`)

// recordingDriver wraps a driver and records every call by operation name.
type recordingDriver struct {
	next  driver.Driver
	calls []string

	listSubnetsErr  error
	createSubnetErr error
	createPortErr   map[domain.PortID]error
	// reassign makes the backend settle an updated port on its own address.
	reassign map[domain.PortID]netip.Addr
}

func newRecordingDriver(t *testing.T) *recordingDriver {
	t.Helper()
	noop, err := driver.NewNoop(nil)
	if err != nil {
		t.Fatalf("new noop: %v", err)
	}
	return &recordingDriver{next: noop}
}

// mutations returns the recorded calls that change backend state.
func (d *recordingDriver) mutations() []string {
	var out []string
	for _, c := range d.calls {
		if !strings.HasPrefix(c, "list_") {
			out = append(out, c)
		}
	}
	return out
}

func (d *recordingDriver) ListSubnets(ctx context.Context) ([]domain.Subnet, error) {
	d.calls = append(d.calls, "list_subnets")
	if d.listSubnetsErr != nil {
		return nil, d.listSubnetsErr
	}
	return d.next.ListSubnets(ctx)
}

func (d *recordingDriver) ListPorts(ctx context.Context, subnet domain.Subnet) ([]domain.Port, error) {
	d.calls = append(d.calls, "list_ports")
	return d.next.ListPorts(ctx, subnet)
}

func (d *recordingDriver) CreateSubnet(ctx context.Context, subnet domain.Subnet) error {
	d.calls = append(d.calls, "create_subnet")
	if d.createSubnetErr != nil {
		return d.createSubnetErr
	}
	return d.next.CreateSubnet(ctx, subnet)
}

func (d *recordingDriver) UpdateSubnet(ctx context.Context, subnet domain.Subnet) error {
	d.calls = append(d.calls, "update_subnet")
	return d.next.UpdateSubnet(ctx, subnet)
}

func (d *recordingDriver) DeleteSubnet(ctx context.Context, subnet domain.Subnet) error {
	d.calls = append(d.calls, "delete_subnet")
	return d.next.DeleteSubnet(ctx, subnet)
}

func (d *recordingDriver) CreatePort(ctx context.Context, subnet domain.Subnet, port domain.Port) (domain.Port, error) {
	d.calls = append(d.calls, "create_port")
	if err := d.createPortErr[port.ID]; err != nil {
		return domain.Port{}, err
	}
	return d.next.CreatePort(ctx, subnet, port)
}

func (d *recordingDriver) UpdatePort(ctx context.Context, subnet domain.Subnet, port domain.Port) (domain.Port, error) {
	d.calls = append(d.calls, "update_port")
	if addr, ok := d.reassign[port.ID]; ok {
		port.IPv4 = addr
	}
	return d.next.UpdatePort(ctx, subnet, port)
}

func (d *recordingDriver) DeletePort(ctx context.Context, subnet domain.Subnet, port domain.Port) error {
	d.calls = append(d.calls, "delete_port")
	return d.next.DeletePort(ctx, subnet, port)
}

type stubLoader struct {
	drivers map[int64]driver.Driver
}

func (l stubLoader) Load(network domain.Network) (driver.Driver, error) {
	d, ok := l.drivers[network.ID]
	if !ok {
		return nil, errors.New("no driver")
	}
	return d, nil
}

type fixture struct {
	repos domain.Repositories
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store, err := memstore.New()
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return fixture{repos: store.Repositories()}
}

func (f fixture) network(t *testing.T) domain.Network {
	t.Helper()
	n, err := f.repos.Networks.Create(context.Background(), domain.Network{Project: "demo", Driver: noopBlob})
	if err != nil {
		t.Fatalf("create network: %v", err)
	}
	return n
}

func (f fixture) subnet(t *testing.T, networkID int64, cidr string) domain.Subnet {
	t.Helper()
	s, err := f.repos.Subnets.Create(context.Background(), domain.Subnet{NetworkID: networkID, CIDR: netip.MustParsePrefix(cidr)})
	if err != nil {
		t.Fatalf("create subnet: %v", err)
	}
	return s
}

func (f fixture) node(t *testing.T, node domain.Node) domain.Node {
	t.Helper()
	n, err := f.repos.Nodes.Create(context.Background(), node)
	if err != nil {
		t.Fatalf("create node: %v", err)
	}
	return n
}

func (f fixture) ports(t *testing.T, subnetIDs ...int64) []domain.Port {
	t.Helper()
	ports, err := f.repos.Ports.ListBySubnetIDs(context.Background(), subnetIDs)
	if err != nil {
		t.Fatalf("list ports: %v", err)
	}
	return ports
}
