// Package processor defines the summarization stage contract and its
// type-tag registry.
package processor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/nhle/news-digest/internal/model"
)

// ErrUnknownType indicates a configured processor type tag has no
// registered variant.
var ErrUnknownType = errors.New("unknown processor type")

// Processor condenses a list of items into report text. The
// orchestrator never calls Process with an empty list; that
// short-circuit is its responsibility, not the processor's.
type Processor interface {
	Name() string
	Process(ctx context.Context, items []model.Item) (string, error)
}

// Factory builds a processor variant from its stage configuration.
type Factory func(cfg model.ProcessorConfig) (Processor, error)

var (
	mu       sync.RWMutex
	registry = map[string]Factory{}
)

// Register associates a type tag with a variant factory.
func Register(typeTag string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()
	registry[typeTag] = factory
}

// New instantiates the processor variant selected by cfg.Type,
// returning ErrUnknownType for unregistered tags.
func New(cfg model.ProcessorConfig) (Processor, error) {
	mu.RLock()
	factory, ok := registry[cfg.Type]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, cfg.Type)
	}
	return factory(cfg)
}
