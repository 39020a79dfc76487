package blockchain

import (
	"context"

	"github.com/lloydmeta/timestamping/internal/domain/crypto"
)

var MockBlock = Block{
	Height:   3,
	TxHashes: []crypto.Hash{crypto.HashOf([]byte("tx"))},
}

type MockExplorer struct {
	TransactionCalled   uint
	TransactionOverride func() (*TxInfo, error)
	LatestBlockCalled   uint
	LatestBlockOverride func() (*Block, error)
}

func (m *MockExplorer) Transaction(ctx context.Context, txHash crypto.Hash) (*TxInfo, error) {
	m.TransactionCalled++
	if m.TransactionOverride != nil {
		return m.TransactionOverride()
	} else {
		return &TxInfo{TxHash: txHash, Status: Committed, Location: &TxLocation{Height: 3}}, nil
	}
}

func (m *MockExplorer) LatestBlock(ctx context.Context) (*Block, error) {
	m.LatestBlockCalled++
	if m.LatestBlockOverride != nil {
		return m.LatestBlockOverride()
	} else {
		return &MockBlock, nil
	}
}
