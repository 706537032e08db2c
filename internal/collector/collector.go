// Package collector defines the acquisition stage contract and the
// type-tag registry used to instantiate configured variants.
package collector

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/nhle/news-digest/internal/model"
)

// ErrUnknownType indicates a configured collector type tag has no
// registered variant. The orchestrator treats it as a skip condition.
var ErrUnknownType = errors.New("unknown collector type")

// Collector acquires normalized items from one configured source.
type Collector interface {
	// Name returns the configured instance name.
	Name() string

	// Collect retrieves items from the source. Session-level failures
	// are returned as an error with no items; per-item failures are
	// handled internally and never abort the batch. Every returned
	// item has non-empty content.
	Collect(ctx context.Context) ([]model.Item, error)
}

// Factory builds a collector variant from its stage configuration.
type Factory func(cfg model.CollectorConfig) (Collector, error)

var (
	mu       sync.RWMutex
	registry = map[string]Factory{}
)

// Register associates a type tag with a variant factory. Variant
// packages call it from init.
func Register(typeTag string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()
	registry[typeTag] = factory
}

// New instantiates the collector variant selected by cfg.Type,
// returning ErrUnknownType for unregistered tags.
func New(cfg model.CollectorConfig) (Collector, error) {
	mu.RLock()
	factory, ok := registry[cfg.Type]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, cfg.Type)
	}
	return factory(cfg)
}
