package scout

import (
	"fmt"
	"sort"
	"sync"
)

// Factory builds a fresh engine each time a driver is resolved.
type Factory func() (Engine, error)

// Manager resolves search drivers by name.
type Manager struct {
	mu            sync.RWMutex
	factories     map[string]Factory
	defaultDriver string
}

// NewManager creates a manager whose empty driver name resolves to defaultDriver.
func NewManager(defaultDriver string) *Manager {
	return &Manager{
		factories:     make(map[string]Factory),
		defaultDriver: defaultDriver,
	}
}

// Extend registers (or replaces) the factory for name.
func (m *Manager) Extend(name string, factory Factory) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.factories[name] = factory
}

// Engine builds an engine for name, or for the default driver when name is empty.
func (m *Manager) Engine(name string) (Engine, error) {
	if name == "" {
		name = m.defaultDriver
	}

	m.mu.RLock()
	factory, ok := m.factories[name]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrDriverNotFound, name)
	}

	engine, err := factory()
	if err != nil {
		return nil, fmt.Errorf("failed to build %s engine: %w", name, err)
	}
	return engine, nil
}

// Drivers lists the registered driver names.
func (m *Manager) Drivers() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.factories))
	for name := range m.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
