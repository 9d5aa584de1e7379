// Package registry provides a global registry for board evaluators.
// Evaluators register themselves in init() functions, allowing the CLI
// to discover and instantiate them by name from configuration.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/tetrabot/internal/search"
)

// Info contains metadata about a registered evaluator.
type Info struct {
	Name        string
	Description string
}

// Factory builds an evaluator from named weights. Missing weights take the
// evaluator's defaults; unknown names are an error.
type Factory func(weights map[string]float64) (search.Evaluator, error)

var (
	factories    = make(map[string]Factory)
	descriptions = make(map[string]string)
	mu           sync.RWMutex
)

// Register adds an evaluator factory to the registry.
// Typically called from an init() function.
// Panics if an evaluator with the same name is already registered.
func Register(name, description string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[name]; exists {
		panic(fmt.Sprintf("registry: evaluator %q already registered", name))
	}

	factories[name] = f
	descriptions[name] = description
}

// List returns information about all registered evaluators, sorted by name.
func List() []Info {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Info, 0, len(factories))
	for name := range factories {
		result = append(result, Info{
			Name:        name,
			Description: descriptions[name],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}

// Create instantiates an evaluator by name.
// Returns an error if the name is not registered or the weights are rejected.
func Create(name string, weights map[string]float64) (search.Evaluator, error) {
	mu.RLock()
	f, ok := factories[name]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown evaluator %q", name)
	}

	e, err := f(weights)
	if err != nil {
		return nil, fmt.Errorf("registry: create %q: %w", name, err)
	}
	return e, nil
}

// Exists checks if an evaluator with the given name is registered.
func Exists(name string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[name]
	return ok
}
