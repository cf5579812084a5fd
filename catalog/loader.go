package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

type source interface {
	Load() ([]byte, error)
	Path() string
}

type fileSource struct {
	path string
}

func (f fileSource) Load() ([]byte, error) {
	return os.ReadFile(f.path)
}

func (f fileSource) Path() string {
	return f.path
}

// Resolver merges authored catalog files over the built-in registry into a
// stable lookup table. Call Reload to pick up on-disk changes.
type Resolver struct {
	mu      sync.RWMutex
	base    Registry
	sources []source
	index   map[string]Spell
}

// DefaultPaths returns the canonical catalog locations relative to the module
// root. Callers may pass these to Load; missing files are skipped.
func DefaultPaths() []string {
	return []string{
		filepath.Join("config", "spells", "definitions.json"),
	}
}

// Load constructs a Resolver over the built-in registry plus the provided
// catalog file paths. Paths that do not exist are ignored so fresh checkouts
// work without authored overrides.
func Load(paths ...string) (*Resolver, error) {
	sources := make([]source, 0, len(paths))
	for _, path := range paths {
		trimmed := strings.TrimSpace(path)
		if trimmed == "" {
			continue
		}
		sources = append(sources, fileSource{path: filepath.Clean(trimmed)})
	}
	r := &Resolver{base: BuiltInRegistry, sources: sources}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload re-reads every source and rebuilds the lookup table. The previous
// table stays in place when any source fails to parse or validate.
func (r *Resolver) Reload() error {
	merged := make(map[string]Spell, len(r.base))
	for _, spell := range r.base {
		merged[spell.ID] = spell
	}

	for _, src := range r.sources {
		data, err := src.Load()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("catalog: read %s: %w", src.Path(), err)
		}
		entries, err := decodeEntries(data)
		if err != nil {
			return fmt.Errorf("catalog: parse %s: %w", src.Path(), err)
		}
		for _, spell := range entries {
			merged[spell.ID] = spell
		}
	}

	registry := make(Registry, 0, len(merged))
	for _, spell := range merged {
		registry = append(registry, spell)
	}
	sort.Slice(registry, func(i, j int) bool { return registry[i].ID < registry[j].ID })
	index, err := registry.Index()
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.index = index
	r.mu.Unlock()
	return nil
}

// Spell returns the resolved definition for id.
func (r *Resolver) Spell(id string) (Spell, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	spell, ok := r.index[id]
	return spell, ok
}

// Spells returns every resolved definition ordered by id.
func (r *Resolver) Spells() []Spell {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Spell, 0, len(r.index))
	for _, spell := range r.index {
		out = append(out, spell)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// decodeEntries accepts either the canonical array format or an object keyed
// by spell id. Object keys win over any id field inside the entry.
func decodeEntries(data []byte) ([]Spell, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}
	switch trimmed[0] {
	case '[':
		var entries []Spell
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, err
		}
		return entries, nil
	case '{':
		var byID map[string]Spell
		if err := json.Unmarshal(trimmed, &byID); err != nil {
			return nil, err
		}
		entries := make([]Spell, 0, len(byID))
		for id, spell := range byID {
			spell.ID = id
			entries = append(entries, spell)
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
		return entries, nil
	default:
		return nil, errors.New("catalog must be a JSON array or object")
	}
}
