package shapes

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	mu      sync.RWMutex
	modules = make(map[string]*Module)
)

// Register publishes a module under its name. Registering a name twice
// panics.
func Register(m *Module) {
	mu.Lock()
	defer mu.Unlock()
	if _, dup := modules[m.Name]; dup {
		panic("shapes: Register called twice for module " + m.Name)
	}
	modules[m.Name] = m
}

func LookupModule(name string) (*Module, error) {
	mu.RLock()
	defer mu.RUnlock()
	m, ok := modules[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s (available: %s)", ErrModuleNotFound, name, strings.Join(moduleNames(), ", "))
	}
	return m, nil
}

func ModuleNames() []string {
	mu.RLock()
	defer mu.RUnlock()
	return moduleNames()
}

func moduleNames() []string {
	names := make([]string, 0, len(modules))
	for name := range modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup resolves a class by module and class name.
func Lookup(module, shape string) (*Class, error) {
	m, err := LookupModule(module)
	if err != nil {
		return nil, err
	}
	return m.Lookup(shape)
}
