// Package registry provides a global registry of deformation pattern shapes.
// Shapes register themselves in init() functions so the configuration layer
// can refer to them by name without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/tui-terrain/internal/terrain"
)

// Shape is a named response curve that can be assigned to a pattern slot.
type Shape interface {
	// ID returns the name used in configuration files (e.g., "smooth").
	ID() string

	// Title returns a human-readable description for listings.
	Title() string

	// Curve builds a fresh curve. Callers own the result.
	Curve() *terrain.Curve
}

// ShapeInfo contains metadata about a registered shape.
type ShapeInfo struct {
	ID    string
	Title string
	Keys  int
}

// Factory is a function that creates a new instance of a shape.
type Factory func() Shape

var (
	factories = make(map[string]Factory)
	infos     = make(map[string]ShapeInfo)
	mu        sync.RWMutex
)

// Register adds a shape factory to the registry.
// Panics if a shape with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: shape %q already registered", id))
	}

	factories[id] = f

	s := f()
	infos[id] = ShapeInfo{ID: id, Title: s.Title(), Keys: len(s.Curve().Keys)}
}

// List returns information about all registered shapes, sorted by ID.
func List() []ShapeInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]ShapeInfo, 0, len(infos))
	for _, info := range infos {
		result = append(result, info)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a shape by its ID.
func Create(id string) (Shape, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown shape %q", id)
	}

	return f(), nil
}

// Curve is a shortcut for Create(id) followed by Shape.Curve.
func Curve(id string) (*terrain.Curve, error) {
	s, err := Create(id)
	if err != nil {
		return nil, err
	}
	return s.Curve(), nil
}

// Exists checks if a shape with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
