// storage describes the versioned key-value views that services read from and write to.
//
// The storage engine itself lives elsewhere; services only ever see a Snapshot (read-only,
// consistent, immutable) or a Fork (a Snapshot plus a private write buffer scoped to a single
// transaction). Views are handed in explicitly on every call and must not be cached.
package storage

import "context"

// Snapshot is an immutable, consistent point-in-time view of the replicated state.
type Snapshot interface {
	// Get returns the value stored under key in the named index
	Get(index string, key []byte) ([]byte, bool)

	// Iterate calls f for every entry of the named index in ascending key byte order,
	// stopping early if f returns false
	Iterate(index string, f func(key, value []byte) bool)
}

// Fork is a mutable view for exactly one transaction's execution. Writes are buffered in a
// Patch and only become visible to other views once the Patch is merged into the Database.
type Fork interface {
	Snapshot

	Put(index string, key, value []byte)

	// Patch returns the changes made through this Fork
	Patch() *Patch
}

// Database hands out views over the current state and atomically applies Patches.
type Database interface {
	// Snapshot returns a read-only view of the latest committed generation
	Snapshot() Snapshot

	// Fork returns a mutable view on top of the latest committed generation
	Fork() Fork

	// Merge atomically applies the given Patch, producing a new generation
	Merge(ctx context.Context, patch *Patch) error
}
