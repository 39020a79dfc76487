package timestamp

import (
	"context"

	"github.com/lloydmeta/timestamping/internal/domain/crypto"
	"github.com/lloydmeta/timestamping/internal/domain/transaction"
)

var MockFileHash = crypto.HashOf([]byte("mock"))

var MockRecord = Record{
	Key:      MockFileHash,
	FileHash: MockFileHash,
	Time:     1000,
}

type MockTimestampsService struct {
	GetCalled      uint
	GetOverride    func() (*Record, error)
	ListCalled     uint
	ListOverride   func() ([]Record, error)
	SubmitCalled   uint
	SubmitOverride func() (crypto.Hash, error)
}

func (m *MockTimestampsService) Get(ctx context.Context, key crypto.Hash) (*Record, error) {
	m.GetCalled++
	if m.GetOverride != nil {
		return m.GetOverride()
	} else {
		return &MockRecord, nil
	}
}

func (m *MockTimestampsService) List(ctx context.Context) ([]Record, error) {
	m.ListCalled++
	if m.ListOverride != nil {
		return m.ListOverride()
	} else {
		return []Record{MockRecord}, nil
	}
}

func (m *MockTimestampsService) Submit(ctx context.Context, msg *transaction.Message) (crypto.Hash, error) {
	m.SubmitCalled++
	if m.SubmitOverride != nil {
		return m.SubmitOverride()
	} else {
		return crypto.HashOf([]byte("tx")), nil
	}
}
