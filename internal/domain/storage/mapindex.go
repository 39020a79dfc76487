package storage

import (
	"bytes"
	"encoding/json"

	"github.com/gowebpki/jcs"

	"github.com/lloydmeta/timestamping/internal/domain/crypto"
)

const indexHashDomain = "timestamping/index/v1"

// MapIndex is a named key-value table read through a view
type MapIndex struct {
	name string
	view Snapshot
}

func NewMapIndex(name string, view Snapshot) MapIndex {
	return MapIndex{name: name, view: view}
}

func (m MapIndex) Name() string {
	return m.name
}

func (m MapIndex) Get(key []byte) ([]byte, bool) {
	return m.view.Get(m.name, key)
}

func (m MapIndex) Contains(key []byte) bool {
	_, ok := m.view.Get(m.name, key)
	return ok
}

// Iterate walks the index in ascending key order
func (m MapIndex) Iterate(f func(key, value []byte) bool) {
	m.view.Iterate(m.name, f)
}

// Len counts the entries in the index
func (m MapIndex) Len() int {
	n := 0
	m.Iterate(func(_, _ []byte) bool {
		n++
		return true
	})
	return n
}

// Hash digests every entry of the index in key order. Two views holding byte-identical
// tables produce the same Hash.
func (m MapIndex) Hash() crypto.Hash {
	h := crypto.NewHasher(indexHashDomain).WriteBytes([]byte(m.name))
	m.Iterate(func(key, value []byte) bool {
		h.WriteBytes(key).WriteBytes(value)
		return true
	})
	return h.Sum()
}

// MutableMapIndex is a MapIndex over a Fork
type MutableMapIndex struct {
	MapIndex
	fork Fork
}

func NewMutableMapIndex(name string, fork Fork) MutableMapIndex {
	return MutableMapIndex{MapIndex: NewMapIndex(name, fork), fork: fork}
}

// Put inserts or overwrites; no existence check is made
func (m MutableMapIndex) Put(key, value []byte) {
	m.fork.Put(m.name, key, value)
}

// EncodeCanonical serialises v as RFC 8785 canonical JSON so that every replica persists
// byte-identical values
func EncodeCanonical(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return jcs.Transform(bytes.TrimRight(buf.Bytes(), "\n"))
}
