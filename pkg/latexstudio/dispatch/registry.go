// Package dispatch maps command names to handlers and takes care of the
// JSON marshalling between an invoking front end and typed Go functions.
package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Handler executes one command. args is the raw JSON argument object as sent
// by the caller; the returned value is JSON-encoded by the registry.
type Handler func(ctx context.Context, args json.RawMessage) (any, error)

// Registry is the static command table. It is normally filled once at
// startup, but registration is safe while invocations are in flight.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	logger   zerolog.Logger
}

// NewRegistry creates an empty registry that logs invocations to logger.
func NewRegistry(logger zerolog.Logger) *Registry {
	return &Registry{
		handlers: make(map[string]Handler),
		logger:   logger.With().Str("component", "dispatch").Logger(),
	}
}

// Register installs h under name, replacing any previous handler.
func (r *Registry) Register(name string, h Handler) {
	r.mu.Lock()
	r.handlers[name] = h
	r.mu.Unlock()
	r.logger.Trace().Str("command", name).Msg("registered command")
}

// Lookup returns the handler registered under name.
func (r *Registry) Lookup(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[name]
	return h, ok
}

// Names returns the registered command names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}

// Invoke runs the named command and returns its JSON-encoded result.
// Handler errors are returned unchanged so callers see the command's own
// message.
func (r *Registry) Invoke(ctx context.Context, name string, args json.RawMessage) (json.RawMessage, error) {
	h, ok := r.Lookup(name)
	if !ok {
		r.logger.Debug().Str("command", name).Msg("unknown command")
		return nil, &NotFoundError{Command: name}
	}

	start := time.Now()
	result, err := h(ctx, args)
	event := r.logger.Debug().
		Str("command", name).
		Dur("duration", time.Since(start))
	if err != nil {
		event.Err(err).Msg("command failed")
		return nil, err
	}
	event.Msg("command completed")

	encoded, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result of %s: %w", name, err)
	}
	return encoded, nil
}
