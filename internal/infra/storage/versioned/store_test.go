package versioned

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lloydmeta/timestamping/internal/domain/storage"
)

func patchOf(index string, kvs ...string) *storage.Patch {
	p := storage.NewPatch()
	for i := 0; i+1 < len(kvs); i += 2 {
		p.Put(index, []byte(kvs[i]), []byte(kvs[i+1]))
	}
	return p
}

func values(view storage.Snapshot, index string) []string {
	var out []string
	view.Iterate(index, func(_, value []byte) bool {
		out = append(out, string(value))
		return true
	})
	return out
}

func TestStore_SnapshotsAreImmutable(t *testing.T) {
	ctx := context.Background()
	store := New()
	before := store.Snapshot()

	require.NoError(t, store.Merge(ctx, patchOf("t", "b", "2", "a", "1")))
	afterFirst := store.Snapshot()
	require.NoError(t, store.Merge(ctx, patchOf("t", "c", "3", "a", "1'")))

	assert.Empty(t, values(before, "t"))
	assert.EqualValues(t, []string{"1", "2"}, values(afterFirst, "t"))
	assert.EqualValues(t, []string{"1'", "2", "3"}, values(store.Snapshot(), "t"))
	assert.EqualValues(t, 2, store.Generation())
}

func TestStore_ForkIsIsolatedUntilMerged(t *testing.T) {
	ctx := context.Background()
	store := New()
	fork := store.Fork()
	fork.Put("t", []byte("k"), []byte("v"))

	_, ok := store.Snapshot().Get("t", []byte("k"))
	assert.False(t, ok)

	require.NoError(t, store.Merge(ctx, fork.Patch()))
	v, ok := store.Snapshot().Get("t", []byte("k"))
	assert.True(t, ok)
	assert.EqualValues(t, "v", string(v))
}

func TestStore_EmptyMergeIsNotAGeneration(t *testing.T) {
	store := New()
	require.NoError(t, store.Merge(context.Background(), storage.NewPatch()))
	assert.EqualValues(t, 0, store.Generation())
}

func TestStore_Backend(t *testing.T) {
	ctx := context.Background()

	t.Run("restores and commits", func(t *testing.T) {
		backend := &mockBackend{
			loadGeneration: 7,
			loadContents:   patchOf("t", "a", "1"),
		}
		store, err := Open(ctx, backend)
		require.NoError(t, err)
		assert.EqualValues(t, 7, store.Generation())
		assert.EqualValues(t, []string{"1"}, values(store.Snapshot(), "t"))

		require.NoError(t, store.Merge(ctx, patchOf("t", "b", "2")))
		assert.EqualValues(t, []uint64{8}, backend.committed)
		require.NoError(t, store.Close())
		assert.True(t, backend.closed)
	})

	t.Run("failed commit leaves state untouched", func(t *testing.T) {
		backend := &mockBackend{
			loadContents: storage.NewPatch(),
			commitErr:    errors.New("disk full"),
		}
		store, err := Open(ctx, backend)
		require.NoError(t, err)

		err = store.Merge(ctx, patchOf("t", "a", "1"))
		assert.IsType(t, StorageErr{}, err)
		assert.Empty(t, values(store.Snapshot(), "t"))
		assert.EqualValues(t, 0, store.Generation())
	})

	t.Run("failed load", func(t *testing.T) {
		_, err := Open(ctx, &mockBackend{loadErr: errors.New("nope")})
		assert.IsType(t, StorageErr{}, err)
	})
}

func TestStore_ConcurrentReaders(t *testing.T) {
	ctx := context.Background()
	store := New()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				snapshot := store.Snapshot()
				first := len(values(snapshot, "t"))
				second := len(values(snapshot, "t"))
				assert.EqualValues(t, first, second)
			}
		}()
	}
	for i := 0; i < 100; i++ {
		require.NoError(t, store.Merge(ctx, patchOf("t", string(rune('a'+i%26))+string(rune('a'+i/26)), "v")))
	}
	wg.Wait()
	assert.Len(t, values(store.Snapshot(), "t"), 100)
}

type mockBackend struct {
	loadGeneration uint64
	loadContents   *storage.Patch
	loadErr        error
	commitErr      error
	committed      []uint64
	closed         bool
}

func (m *mockBackend) Load(ctx context.Context) (uint64, *storage.Patch, error) {
	return m.loadGeneration, m.loadContents, m.loadErr
}

func (m *mockBackend) Commit(ctx context.Context, generation uint64, patch *storage.Patch) error {
	if m.commitErr != nil {
		return m.commitErr
	}
	m.committed = append(m.committed, generation)
	return nil
}

func (m *mockBackend) Close() error {
	m.closed = true
	return nil
}
