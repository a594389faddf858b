package plugin

import (
	"context"
	"fmt"

	"github.com/gammazero/toposort"
)

// Set is an ordered collection of uniquely named plugins.
type Set struct {
	plugins []Plugin
	byName  map[string]Plugin
}

// NewSet creates an empty plugin set.
func NewSet() *Set {
	return &Set{byName: make(map[string]Plugin)}
}

// Add registers p. Names must be unique.
func (s *Set) Add(p Plugin) error {
	if p.Name() == "" {
		return fmt.Errorf("plugin name must not be empty")
	}
	if _, exists := s.byName[p.Name()]; exists {
		return fmt.Errorf("plugin %s already registered", p.Name())
	}
	s.plugins = append(s.plugins, p)
	s.byName[p.Name()] = p
	return nil
}

// Names returns plugin names in registration order.
func (s *Set) Names() []string {
	names := make([]string, len(s.plugins))
	for i, p := range s.plugins {
		names[i] = p.Name()
	}
	return names
}

// Order returns the plugins with every plugin after the ones it requires.
// Plugins that take part in no dependency follow in registration order.
func (s *Set) Order() ([]Plugin, error) {
	edges := make([]toposort.Edge, 0)
	for _, p := range s.plugins {
		for _, dep := range p.Requires() {
			if _, ok := s.byName[dep]; !ok {
				return nil, fmt.Errorf("plugin %s requires unknown plugin %s", p.Name(), dep)
			}
			// dependency -> plugin: element 0 comes first
			edges = append(edges, toposort.Edge{dep, p.Name()})
		}
	}

	sorted, err := toposort.Toposort(edges)
	if err != nil {
		return nil, fmt.Errorf("circular plugin dependency: %w", err)
	}

	ordered := make([]Plugin, 0, len(s.plugins))
	placed := make(map[string]bool, len(s.plugins))
	for _, v := range sorted {
		name, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected type in topological sort result: %T", v)
		}
		if placed[name] {
			continue
		}
		ordered = append(ordered, s.byName[name])
		placed[name] = true
	}
	for _, p := range s.plugins {
		if !placed[p.Name()] {
			ordered = append(ordered, p)
			placed[p.Name()] = true
		}
	}
	return ordered, nil
}

// Init sets up every plugin in dependency order, stopping at the first failure.
func (s *Set) Init(ctx context.Context, sc SetupContext) error {
	ordered, err := s.Order()
	if err != nil {
		return err
	}
	for _, p := range ordered {
		if err := p.Setup(ctx, sc); err != nil {
			return fmt.Errorf("plugin %s setup failed: %w", p.Name(), err)
		}
	}
	return nil
}
