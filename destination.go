package markgen

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// Destination receives finished units.
type Destination interface {
	WriteUnit(u Unit) error
}

// DirDestination writes each unit to its Path. Relative paths are resolved
// against Root. Files whose content is unchanged are not rewritten.
type DirDestination struct {
	Root string
}

// NewDirDestination creates a destination rooted at root.
func NewDirDestination(root string) *DirDestination {
	return &DirDestination{Root: root}
}

// WriteUnit implements Destination.
func (d *DirDestination) WriteUnit(u Unit) error {
	path := u.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(d.Root, path)
	}
	if old, err := os.ReadFile(path); err == nil && bytes.Equal(old, u.Source) {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, u.Source, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// MemoryDestination keeps units in memory, keyed by Path.
type MemoryDestination struct {
	mu    sync.RWMutex
	units map[string]Unit
}

// NewMemoryDestination creates an empty in-memory destination.
func NewMemoryDestination() *MemoryDestination {
	return &MemoryDestination{units: make(map[string]Unit)}
}

// WriteUnit implements Destination.
func (m *MemoryDestination) WriteUnit(u Unit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.units[u.Path] = u
	return nil
}

// Unit returns the unit written at path.
func (m *MemoryDestination) Unit(path string) (Unit, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.units[path]
	return u, ok
}

// Paths lists the written paths in sorted order.
func (m *MemoryDestination) Paths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.units))
	for p := range m.units {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Find returns the unit generating artifact.
func (m *MemoryDestination) Find(artifact string) (Unit, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.units {
		if u.Artifact == artifact {
			return u, true
		}
	}
	return Unit{}, false
}
