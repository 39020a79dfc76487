package submission

import (
	"context"

	"github.com/lloydmeta/timestamping/internal/domain/transaction"
)

type MockChannel struct {
	SendCalled   uint
	SendOverride func() error
	Sent         []transaction.Transaction
}

func (m *MockChannel) Send(ctx context.Context, tx transaction.Transaction) error {
	m.SendCalled++
	if m.SendOverride != nil {
		return m.SendOverride()
	}
	m.Sent = append(m.Sent, tx)
	return nil
}
