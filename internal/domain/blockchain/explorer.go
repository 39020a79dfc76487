package blockchain

import (
	"context"
	"fmt"

	"github.com/lloydmeta/timestamping/internal/domain/crypto"
	"github.com/lloydmeta/timestamping/internal/domain/storage"
)

// TxInfo describes a transaction hash as seen by the latest committed state
type TxInfo struct {
	TxHash   crypto.Hash
	Status   TxStatus
	Location *TxLocation
}

// Explorer answers questions about the chain itself
type Explorer interface {
	Transaction(ctx context.Context, txHash crypto.Hash) (*TxInfo, error)

	// LatestBlock returns the head of the chain, or NoBlocks
	LatestBlock(ctx context.Context) (*Block, error)
}

type explorerImpl struct {
	db storage.Database
}

func NewExplorer(db storage.Database) Explorer {
	return &explorerImpl{db: db}
}

func (e *explorerImpl) Transaction(ctx context.Context, txHash crypto.Hash) (*TxInfo, error) {
	location, err := NewSchema(e.db.Snapshot()).TxLocation(txHash)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return &TxInfo{TxHash: txHash, Status: Unknown}, nil
	}
	return &TxInfo{TxHash: txHash, Status: Committed, Location: location}, nil
}

func (e *explorerImpl) LatestBlock(ctx context.Context) (*Block, error) {
	block, err := NewSchema(e.db.Snapshot()).LatestBlock()
	if err != nil {
		return nil, err
	}
	if block == nil {
		return nil, NoBlocks{}
	}
	return block, nil
}

type NoBlocks struct{}

func (e NoBlocks) Error() string {
	return "No blocks have been committed yet"
}

// CorruptedChain means persisted chain bookkeeping could not be decoded
type CorruptedChain struct {
	Underlying error
}

func (e CorruptedChain) Error() string {
	return fmt.Sprintf("Chain data could not be decoded: %v", e.Underlying)
}

func (e CorruptedChain) Unwrap() error {
	return e.Underlying
}
