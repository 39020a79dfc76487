// versioned is an in-memory storage.Database made of immutable generations.
//
// Every Merge produces a new generation that shares untouched tables with its parent, so a
// Snapshot handed out earlier keeps reading the state it was taken from. A Backend, when
// given, receives every Patch before the new generation becomes visible.
package versioned

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/lloydmeta/timestamping/internal/domain/storage"
)

// Backend durably stores what the Store merges
type Backend interface {
	// Load returns the latest persisted generation number and its full contents
	Load(ctx context.Context) (uint64, *storage.Patch, error)

	// Commit persists patch as the given generation, atomically
	Commit(ctx context.Context, generation uint64, patch *storage.Patch) error

	Close() error
}

type Store struct {
	mu      sync.RWMutex
	current *generation
	backend Backend
}

// New returns an empty, purely in-memory Store
func New() *Store {
	return &Store{current: emptyGeneration()}
}

// Open restores a Store from backend; subsequent merges are committed to it
func Open(ctx context.Context, backend Backend) (*Store, error) {
	number, contents, err := backend.Load(ctx)
	if err != nil {
		return nil, StorageErr{Underlying: err}
	}
	restored := emptyGeneration().apply(contents)
	restored.number = number
	log.Info().
		Uint64("generation", number).
		Int("entries", contents.Len()).
		Msg("Restored state from backend")
	return &Store{current: restored, backend: backend}, nil
}

func (s *Store) Snapshot() storage.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *Store) Fork() storage.Fork {
	return storage.NewOverlay(s.Snapshot())
}

func (s *Store) Merge(ctx context.Context, patch *storage.Patch) error {
	if patch.IsEmpty() {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.current.apply(patch)
	next.number = s.current.number + 1
	if s.backend != nil {
		if err := s.backend.Commit(ctx, next.number, patch); err != nil {
			return StorageErr{Underlying: err}
		}
	}
	s.current = next
	return nil
}

// Generation is the number of merges applied so far
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.number
}

func (s *Store) Close() error {
	if s.backend != nil {
		return s.backend.Close()
	}
	return nil
}

type table struct {
	keys   []string
	values map[string][]byte
}

type generation struct {
	number uint64
	tables map[string]*table
}

func emptyGeneration() *generation {
	return &generation{tables: make(map[string]*table)}
}

func (g *generation) Get(index string, key []byte) ([]byte, bool) {
	t, ok := g.tables[index]
	if !ok {
		return nil, false
	}
	v, ok := t.values[string(key)]
	return v, ok
}

func (g *generation) Iterate(index string, f func(key, value []byte) bool) {
	t, ok := g.tables[index]
	if !ok {
		return
	}
	for _, k := range t.keys {
		if !f([]byte(k), t.values[k]) {
			return
		}
	}
}

// apply returns a new generation with patch applied. Tables the patch does not touch are
// shared with g.
func (g *generation) apply(patch *storage.Patch) *generation {
	next := &generation{number: g.number, tables: make(map[string]*table, len(g.tables))}
	for name, t := range g.tables {
		next.tables[name] = t
	}
	for _, index := range patch.Indices() {
		previous, ok := g.tables[index]
		if !ok {
			previous = &table{values: map[string][]byte{}}
		}
		updated := &table{
			keys:   make([]string, len(previous.keys), len(previous.keys)+patch.Len()),
			values: make(map[string][]byte, len(previous.values)),
		}
		copy(updated.keys, previous.keys)
		for k, v := range previous.values {
			updated.values[k] = v
		}
		added := false
		for _, e := range patch.Entries(index) {
			k := string(e.Key)
			if _, exists := updated.values[k]; !exists {
				updated.keys = append(updated.keys, k)
				added = true
			}
			updated.values[k] = e.Value
		}
		if added {
			sort.Strings(updated.keys)
		}
		next.tables[index] = updated
	}
	return next
}
