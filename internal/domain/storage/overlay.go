package storage

import "bytes"

// Empty is a Snapshot with no data
var Empty Snapshot = emptySnapshot{}

type emptySnapshot struct{}

func (emptySnapshot) Get(string, []byte) ([]byte, bool) {
	return nil, false
}

func (emptySnapshot) Iterate(string, func(key, value []byte) bool) {}

// Overlay is a Fork that buffers writes in a Patch on top of a base Snapshot. Reads see the
// buffered writes first.
type Overlay struct {
	base  Snapshot
	patch *Patch
}

func NewOverlay(base Snapshot) *Overlay {
	return &Overlay{base: base, patch: NewPatch()}
}

func (o *Overlay) Get(index string, key []byte) ([]byte, bool) {
	if v, ok := o.patch.Get(index, key); ok {
		return v, true
	}
	return o.base.Get(index, key)
}

// Iterate merges the base entries with the buffered ones in ascending key order
func (o *Overlay) Iterate(index string, f func(key, value []byte) bool) {
	pending := o.patch.Entries(index)
	i := 0
	stopped := false
	o.base.Iterate(index, func(key, value []byte) bool {
		for i < len(pending) && bytes.Compare(pending[i].Key, key) < 0 {
			if !f(pending[i].Key, pending[i].Value) {
				stopped = true
				return false
			}
			i++
		}
		if i < len(pending) && bytes.Equal(pending[i].Key, key) {
			value = pending[i].Value
			i++
		}
		if !f(key, value) {
			stopped = true
			return false
		}
		return true
	})
	if stopped {
		return
	}
	for ; i < len(pending); i++ {
		if !f(pending[i].Key, pending[i].Value) {
			return
		}
	}
}

func (o *Overlay) Put(index string, key, value []byte) {
	o.patch.Put(index, key, value)
}

func (o *Overlay) Patch() *Patch {
	return o.patch
}
