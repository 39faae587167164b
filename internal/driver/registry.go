package driver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Flarenzy/netreconciler/internal/domain"
)

// Factory builds a driver from the "config" member of a network's driver blob.
type Factory func(config json.RawMessage) (Driver, error)

type blob struct {
	Type   string          `json:"type"`
	Config json.RawMessage `json:"config,omitempty"`
}

type loaded struct {
	raw    json.RawMessage
	driver Driver
}

// Registry resolves the driver of a network from its configuration blob and
// keeps one instance per network for as long as the blob does not change.
type Registry struct {
	logger    *slog.Logger
	factories map[string]Factory
	loaded    map[int64]loaded
}

// NewRegistry returns a registry with the noop driver registered. When logger
// is not nil, loaded drivers are wrapped with NewLoggingDriver.
func NewRegistry(logger *slog.Logger) *Registry {
	r := &Registry{
		logger:    logger,
		factories: make(map[string]Factory),
		loaded:    make(map[int64]loaded),
	}
	r.Register(NoopType, func(config json.RawMessage) (Driver, error) {
		return NewNoop(config)
	})
	return r
}

func (r *Registry) Register(name string, factory Factory) {
	r.factories[name] = factory
}

func (r *Registry) Load(network domain.Network) (Driver, error) {
	if cached, ok := r.loaded[network.ID]; ok && bytes.Equal(cached.raw, network.Driver) {
		return cached.driver, nil
	}

	if len(bytes.TrimSpace(network.Driver)) == 0 {
		return nil, fmt.Errorf("network %d has no driver configuration", network.ID)
	}
	var b blob
	if err := json.Unmarshal(network.Driver, &b); err != nil {
		return nil, fmt.Errorf("network %d driver configuration: %w", network.ID, err)
	}
	factory, ok := r.factories[b.Type]
	if !ok {
		return nil, fmt.Errorf("network %d: unknown driver type %q", network.ID, b.Type)
	}

	d, err := factory(b.Config)
	if err != nil {
		return nil, fmt.Errorf("network %d: %w", network.ID, err)
	}
	if r.logger != nil {
		d = NewLoggingDriver(r.logger.With("network_id", network.ID, "driver", b.Type), d)
	}

	r.loaded[network.ID] = loaded{raw: bytes.Clone(network.Driver), driver: d}
	return d, nil
}
