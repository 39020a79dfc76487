// timeoracle holds the agreed "current time" that transactions are allowed to observe.
//
// The value lives in the replicated state itself and is only ever advanced by TxUpdateTime
// transactions executing in the ordered stream, so every replica reads the same value at the
// same point of the log.
package timeoracle

import (
	"encoding/binary"

	"github.com/lloydmeta/timestamping/internal/domain/storage"
)

const (
	ServiceID   uint16 = 4
	ServiceName        = "time_oracle"

	TimeIndex = "time_oracle.time"
)

var currentTimeKey = []byte("current")

// Schema reads the oracle's table
type Schema struct {
	view storage.Snapshot
}

func NewSchema(view storage.Snapshot) Schema {
	return Schema{view: view}
}

func (s Schema) Index() storage.MapIndex {
	return storage.NewMapIndex(TimeIndex, s.view)
}

// Time returns the agreed time in milliseconds, if one has been agreed yet
func (s Schema) Time() (uint64, bool) {
	raw, ok := s.Index().Get(currentTimeKey)
	if !ok || len(raw) != 8 {
		return 0, false
	}
	return binary.BigEndian.Uint64(raw), true
}

type MutableSchema struct {
	Schema
	fork storage.Fork
}

func NewMutableSchema(fork storage.Fork) MutableSchema {
	return MutableSchema{Schema: NewSchema(fork), fork: fork}
}

func (s MutableSchema) SetTime(millis uint64) {
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, millis)
	storage.NewMutableMapIndex(TimeIndex, s.fork).Put(currentTimeKey, raw)
}

// Reader is how other services observe the agreed time during execution
type Reader interface {
	CurrentTime(view storage.Snapshot) (uint64, bool)
}

// SchemaReader reads the time straight from the oracle's table in the given view
type SchemaReader struct{}

func (SchemaReader) CurrentTime(view storage.Snapshot) (uint64, bool) {
	return NewSchema(view).Time()
}

// FixedReader always reports the same time. Handy in tests.
type FixedReader struct {
	Millis  uint64
	Present bool
}

func (r FixedReader) CurrentTime(_ storage.Snapshot) (uint64, bool) {
	return r.Millis, r.Present
}
