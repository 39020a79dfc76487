package storage

import "sort"

// Entry is a single key/value pair of an index
type Entry struct {
	Key   []byte
	Value []byte
}

// Patch is a set of writes grouped by index. Later writes to the same key replace earlier ones.
type Patch struct {
	changes map[string]map[string][]byte
}

func NewPatch() *Patch {
	return &Patch{changes: make(map[string]map[string][]byte)}
}

func (p *Patch) Put(index string, key, value []byte) {
	idx, ok := p.changes[index]
	if !ok {
		idx = make(map[string][]byte)
		p.changes[index] = idx
	}
	idx[string(key)] = append([]byte(nil), value...)
}

func (p *Patch) Get(index string, key []byte) ([]byte, bool) {
	if idx, ok := p.changes[index]; ok {
		v, ok := idx[string(key)]
		return v, ok
	}
	return nil, false
}

// Indices returns the names of all touched indices, sorted
func (p *Patch) Indices() []string {
	names := make([]string, 0, len(p.changes))
	for name := range p.changes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Entries returns the writes to the given index in ascending key order
func (p *Patch) Entries(index string) []Entry {
	idx := p.changes[index]
	keys := make([]string, 0, len(idx))
	for k := range idx {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	entries := make([]Entry, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, Entry{Key: []byte(k), Value: idx[k]})
	}
	return entries
}

// Len is the total number of written keys across all indices
func (p *Patch) Len() int {
	n := 0
	for _, idx := range p.changes {
		n += len(idx)
	}
	return n
}

func (p *Patch) IsEmpty() bool {
	return p.Len() == 0
}

// Append copies every write of other into p, overwriting on conflict
func (p *Patch) Append(other *Patch) {
	for _, index := range other.Indices() {
		for _, e := range other.Entries(index) {
			p.Put(index, e.Key, e.Value)
		}
	}
}
