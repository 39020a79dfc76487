package blockchain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lloydmeta/timestamping/internal/domain/crypto"
	"github.com/lloydmeta/timestamping/internal/domain/service"
	"github.com/lloydmeta/timestamping/internal/domain/storage"
	"github.com/lloydmeta/timestamping/internal/domain/transaction"
)

type fixedService struct {
	id     uint16
	hashes []crypto.Hash
}

func (f fixedService) ID() uint16                                         { return f.id }
func (f fixedService) Name() string                                       { return "fixed" }
func (f fixedService) RegisterTransactions(_ *transaction.Registry) error { return nil }
func (f fixedService) StateHash(_ storage.Snapshot) []crypto.Hash         { return f.hashes }

type overlayDatabase struct {
	state *storage.Overlay
}

func (d overlayDatabase) Snapshot() storage.Snapshot { return d.state }
func (d overlayDatabase) Fork() storage.Fork         { return storage.NewOverlay(d.state) }
func (d overlayDatabase) Merge(ctx context.Context, patch *storage.Patch) error {
	d.state.Patch().Append(patch)
	return nil
}

func Test_Block_Hash(t *testing.T) {
	block := Block{Height: 1, TxHashes: []crypto.Hash{{1}}}
	same := Block{Height: 1, TxHashes: []crypto.Hash{{1}}}
	assert.EqualValues(t, block.Hash(), same.Hash())

	tests := []struct {
		name  string
		other Block
	}{
		{"height", Block{Height: 2, TxHashes: []crypto.Hash{{1}}}},
		{"prev hash", Block{Height: 1, PrevHash: crypto.Hash{9}, TxHashes: []crypto.Hash{{1}}}},
		{"txs", Block{Height: 1, TxHashes: []crypto.Hash{{2}}}},
		{"state", Block{Height: 1, TxHashes: []crypto.Hash{{1}}, StateHash: crypto.Hash{3}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEqual(t, block.Hash(), tt.other.Hash())
		})
	}
}

func Test_StateHash_ServiceOrder(t *testing.T) {
	a := fixedService{id: 1, hashes: []crypto.Hash{{1}}}
	b := fixedService{id: 4, hashes: []crypto.Hash{{4}}}

	assert.EqualValues(t,
		StateHash(storage.Empty, []service.Definition{a, b}),
		StateHash(storage.Empty, []service.Definition{b, a}),
	)
	assert.NotEqual(t,
		StateHash(storage.Empty, []service.Definition{a}),
		StateHash(storage.Empty, []service.Definition{a, b}),
	)
}

func Test_Schema_And_Explorer(t *testing.T) {
	db := overlayDatabase{state: storage.NewOverlay(storage.Empty)}
	explorer := NewExplorer(db)
	txHash := crypto.HashOf([]byte("tx"))

	_, err := explorer.LatestBlock(context.Background())
	assert.IsType(t, NoBlocks{}, err)
	info, err := explorer.Transaction(context.Background(), txHash)
	require.NoError(t, err)
	assert.EqualValues(t, Unknown, info.Status)
	assert.Nil(t, info.Location)

	fork := db.Fork()
	schema := NewMutableSchema(fork)
	require.NoError(t, schema.PutTxLocation(txHash, TxLocation{Height: 0, Position: 0}))
	require.NoError(t, schema.PutBlock(&Block{Height: 0, TxHashes: []crypto.Hash{txHash}}))
	require.NoError(t, db.Merge(context.Background(), fork.Patch()))

	fork = db.Fork()
	require.NoError(t, NewMutableSchema(fork).PutBlock(&Block{Height: 1, TxHashes: []crypto.Hash{}}))
	require.NoError(t, db.Merge(context.Background(), fork.Patch()))

	latest, err := explorer.LatestBlock(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, latest.Height)

	info, err = explorer.Transaction(context.Background(), txHash)
	require.NoError(t, err)
	assert.EqualValues(t, Committed, info.Status)
	assert.EqualValues(t, TxLocation{Height: 0, Position: 0}, *info.Location)
	assert.True(t, NewSchema(db.Snapshot()).IsCommitted(txHash))

	first, err := NewSchema(db.Snapshot()).Block(0)
	require.NoError(t, err)
	assert.EqualValues(t, []crypto.Hash{txHash}, first.TxHashes)
	missing, err := NewSchema(db.Snapshot()).Block(7)
	assert.NoError(t, err)
	assert.Nil(t, missing)
}
