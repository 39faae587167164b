package domain

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"testing"
)

type captureHandler struct {
	records []slog.Record
}

func (h *captureHandler) Enabled(context.Context, slog.Level) bool {
	return true
}

func (h *captureHandler) Handle(_ context.Context, record slog.Record) error {
	clone := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	record.Attrs(func(attr slog.Attr) bool {
		clone.AddAttrs(attr)
		return true
	})
	h.records = append(h.records, clone)
	return nil
}

func (h *captureHandler) WithAttrs([]slog.Attr) slog.Handler {
	return h
}

func (h *captureHandler) WithGroup(string) slog.Handler {
	return h
}

type stubNetworkService struct {
	listNetworksFn      func(context.Context) ([]Network, error)
	createNetworkFn     func(context.Context, CreateNetworkInput) (Network, error)
	listSubnetsFn       func(context.Context) ([]Subnet, error)
	createSubnetFn      func(context.Context, CreateSubnetInput) (Subnet, error)
	getSubnetFn         func(context.Context, int64) (Subnet, error)
	deleteSubnetFn      func(context.Context, int64) error
	listPortsFn         func(context.Context, int64) ([]Port, error)
	deletePortFn        func(context.Context, int64, PortID) error
	createNodeFn        func(context.Context, CreateNodeInput) (Node, error)
	getDefaultNetworkFn func(context.Context, int64) (DefaultNetwork, error)
}

func (s stubNetworkService) ListNetworks(ctx context.Context) ([]Network, error) {
	if s.listNetworksFn == nil {
		return nil, nil
	}
	return s.listNetworksFn(ctx)
}

func (s stubNetworkService) CreateNetwork(ctx context.Context, input CreateNetworkInput) (Network, error) {
	if s.createNetworkFn == nil {
		return Network{}, nil
	}
	return s.createNetworkFn(ctx, input)
}

func (s stubNetworkService) ListSubnets(ctx context.Context) ([]Subnet, error) {
	if s.listSubnetsFn == nil {
		return nil, nil
	}
	return s.listSubnetsFn(ctx)
}

func (s stubNetworkService) CreateSubnet(ctx context.Context, input CreateSubnetInput) (Subnet, error) {
	if s.createSubnetFn == nil {
		return Subnet{}, nil
	}
	return s.createSubnetFn(ctx, input)
}

func (s stubNetworkService) GetSubnet(ctx context.Context, id int64) (Subnet, error) {
	if s.getSubnetFn == nil {
		return Subnet{}, nil
	}
	return s.getSubnetFn(ctx, id)
}

func (s stubNetworkService) DeleteSubnet(ctx context.Context, id int64) error {
	if s.deleteSubnetFn == nil {
		return nil
	}
	return s.deleteSubnetFn(ctx, id)
}

func (s stubNetworkService) ListPorts(ctx context.Context, subnetID int64) ([]Port, error) {
	if s.listPortsFn == nil {
		return nil, nil
	}
	return s.listPortsFn(ctx, subnetID)
}

func (s stubNetworkService) DeletePort(ctx context.Context, subnetID int64, id PortID) error {
	if s.deletePortFn == nil {
		return nil
	}
	return s.deletePortFn(ctx, subnetID, id)
}

func (s stubNetworkService) CreateNode(ctx context.Context, input CreateNodeInput) (Node, error) {
	if s.createNodeFn == nil {
		return Node{}, nil
	}
	return s.createNodeFn(ctx, input)
}

func (s stubNetworkService) GetDefaultNetwork(ctx context.Context, nodeID int64) (DefaultNetwork, error) {
	if s.getDefaultNetworkFn == nil {
		return DefaultNetwork{}, nil
	}
	return s.getDefaultNetworkFn(ctx, nodeID)
}

func TestLoggingNetworkServiceLogsSubnetCreation(t *testing.T) {
	handler := &captureHandler{}
	logger := slog.New(handler)
	service := NewLoggingNetworkService(logger, stubNetworkService{
		createSubnetFn: func(_ context.Context, _ CreateSubnetInput) (Subnet, error) {
			return Subnet{ID: 7}, nil
		},
	})

	_, err := service.CreateSubnet(context.Background(), CreateSubnetInput{CIDR: "10.0.0.0/24"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(handler.records) != 1 {
		t.Fatalf("expected 1 log record, got %d", len(handler.records))
	}
	if handler.records[0].Level != slog.LevelInfo || handler.records[0].Message != "subnet created" {
		t.Fatalf("unexpected log record: level=%v message=%q", handler.records[0].Level, handler.records[0].Message)
	}
}

func TestLoggingNetworkServiceLogsErrors(t *testing.T) {
	handler := &captureHandler{}
	logger := slog.New(handler)
	service := NewLoggingNetworkService(logger, stubNetworkService{
		deletePortFn: func(context.Context, int64, PortID) error {
			return ErrNotFound
		},
	})

	err := service.DeletePort(context.Background(), 1, PortID("p-1"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if len(handler.records) != 1 {
		t.Fatalf("expected 1 log record, got %d", len(handler.records))
	}
	if handler.records[0].Level != slog.LevelError || handler.records[0].Message != "delete port failed" {
		t.Fatalf("unexpected log record: level=%v message=%q", handler.records[0].Level, handler.records[0].Message)
	}
}

func TestNewLoggingNetworkServiceReturnsNextWhenLoggerNil(t *testing.T) {
	called := false
	next := stubNetworkService{
		createNodeFn: func(_ context.Context, _ CreateNodeInput) (Node, error) {
			called = true
			return Node{ID: 99}, nil
		},
	}
	wrapped := NewLoggingNetworkService(nil, next)
	node, err := wrapped.CreateNode(context.Background(), CreateNodeInput{Name: "vm-1", Kind: NodeKindVM})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !called {
		t.Fatal("expected wrapped service to delegate to next")
	}
	if node.ID != 99 {
		t.Fatalf("unexpected node id: %d", node.ID)
	}
}

func TestCaptureHandlerStoresIndependentRecords(t *testing.T) {
	handler := &captureHandler{}
	logger := slog.New(handler)
	logger.Info("first")
	logger.Info("second")

	if len(handler.records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(handler.records))
	}
	if !slices.Equal([]string{handler.records[0].Message, handler.records[1].Message}, []string{"first", "second"}) {
		t.Fatalf("unexpected messages: %q, %q", handler.records[0].Message, handler.records[1].Message)
	}
}
