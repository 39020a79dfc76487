package timestamp

import (
	"encoding/json"

	"github.com/lloydmeta/timestamping/internal/domain/crypto"
	"github.com/lloydmeta/timestamping/internal/domain/storage"
)

// Schema is a typed accessor over the records table of a view. It must not outlive the view.
type Schema struct {
	view storage.Snapshot
}

func NewSchema(view storage.Snapshot) Schema {
	return Schema{view: view}
}

func (s Schema) Timestamps() storage.MapIndex {
	return storage.NewMapIndex(TimestampsIndex, s.view)
}

// Timestamp looks up the record for key, returning nil if there isn't one
func (s Schema) Timestamp(key crypto.Hash) (*Record, error) {
	raw, ok := s.Timestamps().Get(key[:])
	if !ok {
		return nil, nil
	}
	return decodeRecord(key[:], raw)
}

func (s Schema) Contains(key crypto.Hash) bool {
	return s.Timestamps().Contains(key[:])
}

// All returns every record in ascending key order
func (s Schema) All() ([]Record, error) {
	records := make([]Record, 0)
	var decodeErr error
	s.Timestamps().Iterate(func(key, value []byte) bool {
		record, err := decodeRecord(key, value)
		if err != nil {
			decodeErr = err
			return false
		}
		records = append(records, *record)
		return true
	})
	if decodeErr != nil {
		return nil, decodeErr
	}
	return records, nil
}

func (s Schema) StateHash() crypto.Hash {
	return s.Timestamps().Hash()
}

// MutableSchema is a Schema over a Fork
type MutableSchema struct {
	Schema
	fork storage.Fork
}

func NewMutableSchema(fork storage.Fork) MutableSchema {
	return MutableSchema{Schema: NewSchema(fork), fork: fork}
}

// PutTimestamp inserts or overwrites the record under its key. Callers decide whether a write
// should happen at all.
func (s MutableSchema) PutTimestamp(record Record) error {
	encoded, err := EncodeRecord(record)
	if err != nil {
		return err
	}
	storage.NewMutableMapIndex(TimestampsIndex, s.fork).Put(record.Key[:], encoded)
	return nil
}

// EncodeRecord produces the canonical bytes persisted for a record
func EncodeRecord(record Record) ([]byte, error) {
	return storage.EncodeCanonical(record)
}

// DecodeRecord parses bytes persisted by EncodeRecord
func DecodeRecord(raw []byte) (*Record, error) {
	var record Record
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func decodeRecord(key []byte, raw []byte) (*Record, error) {
	record, err := DecodeRecord(raw)
	if err != nil {
		return nil, InvalidPersistedData{Key: append([]byte(nil), key...), Underlying: err}
	}
	return record, nil
}
