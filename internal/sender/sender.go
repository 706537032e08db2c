// Package sender defines the delivery stage contract and its type-tag
// registry.
package sender

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/nhle/news-digest/internal/model"
)

// ErrUnknownType indicates a configured sender type tag has no
// registered variant.
var ErrUnknownType = errors.New("unknown sender type")

// Sender delivers report text under a subject line. A returned error
// reports a failed delivery attempt; the orchestrator logs it and
// continues, it never aborts the run.
type Sender interface {
	Name() string
	Send(ctx context.Context, content, subject string) error
}

// Factory builds a sender variant from its stage configuration.
type Factory func(cfg model.SenderConfig) (Sender, error)

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

// New instantiates the sender variant selected by cfg.Type, returning
// ErrUnknownType for unregistered tags.
func New(cfg model.SenderConfig) (Sender, error) {
	mu.RLock()
	factory, ok := registry[cfg.Type]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, cfg.Type)
	}
	return factory(cfg)
}
