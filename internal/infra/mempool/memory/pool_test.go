package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lloydmeta/timestamping/internal/domain/crypto"
	"github.com/lloydmeta/timestamping/internal/domain/submission"
	"github.com/lloydmeta/timestamping/internal/domain/timeoracle"
	"github.com/lloydmeta/timestamping/internal/domain/timestamp"
	"github.com/lloydmeta/timestamping/internal/domain/transaction"
)

func newTx(t *testing.T, content string) transaction.Transaction {
	_, sk, err := crypto.KeyPairFromSeed(make([]byte, 32))
	require.NoError(t, err)
	m, err := timestamp.NewSignedCreateTimestamp(crypto.HashOf([]byte(content)), sk)
	require.NoError(t, err)
	tx, err := timestamp.NewTxCreateTimestamp(m, timeoracle.SchemaReader{})
	require.NoError(t, err)
	return tx
}

func TestPool_SendAndDrain(t *testing.T) {
	ctx := context.Background()
	pool := NewPool(0)
	a, b, c := newTx(t, "a"), newTx(t, "b"), newTx(t, "c")

	require.NoError(t, pool.Send(ctx, a))
	require.NoError(t, pool.Send(ctx, b))
	require.NoError(t, pool.Send(ctx, a))
	require.NoError(t, pool.Send(ctx, c))
	assert.EqualValues(t, 3, pool.Len())

	first, err := pool.Drain(ctx, 2)
	require.NoError(t, err)
	assert.EqualValues(t, []*transaction.Message{a.Message(), b.Message()}, first)

	// a left the pool so it may be queued again
	require.NoError(t, pool.Send(ctx, a))
	rest, err := pool.Drain(ctx, 0)
	require.NoError(t, err)
	assert.EqualValues(t, []*transaction.Message{c.Message(), a.Message()}, rest)

	empty, err := pool.Drain(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestPool_Capacity(t *testing.T) {
	ctx := context.Background()
	pool := NewPool(1)
	require.NoError(t, pool.Send(ctx, newTx(t, "a")))

	err := pool.Send(ctx, newTx(t, "b"))
	var unavailable submission.ChannelUnavailable
	require.True(t, errors.As(err, &unavailable))
	assert.IsType(t, submission.PoolFull{}, unavailable.Underlying)
}

func TestPool_Closed(t *testing.T) {
	pool := NewPool(0)
	require.NoError(t, pool.Close())
	err := pool.Send(context.Background(), newTx(t, "a"))
	assert.IsType(t, submission.ChannelUnavailable{}, err)
}
