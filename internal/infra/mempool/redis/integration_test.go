//go:build integration
// +build integration

package redis

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"

	"github.com/ory/dockertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lloydmeta/timestamping/internal/config"
	"github.com/lloydmeta/timestamping/internal/domain/crypto"
	"github.com/lloydmeta/timestamping/internal/domain/submission"
	"github.com/lloydmeta/timestamping/internal/domain/timeoracle"
	"github.com/lloydmeta/timestamping/internal/domain/timestamp"
	"github.com/lloydmeta/timestamping/internal/domain/transaction"
)

var redisConf config.Redis

func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("Could not connect to docker: %s", err)
	}
	resource, err := pool.Run("redis", "7", nil)
	if err != nil {
		log.Fatalf("Could not start resource: %s", err)
	}
	redisConf = config.Redis{Address: fmt.Sprintf("localhost:%s", resource.GetPort("6379/tcp"))}

	if err := pool.Retry(func() error {
		client := NewClient(redisConf)
		defer client.Close()
		return client.Ping(context.Background()).Err()
	}); err != nil {
		log.Fatalf("Could not connect to docker: %s", err)
	}

	code := m.Run()

	if err := pool.Purge(resource); err != nil {
		log.Fatalf("Could not purge resource: %s", err)
	}
	os.Exit(code)
}

func newTx(t *testing.T, content string) transaction.Transaction {
	_, sk, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	m, err := timestamp.NewSignedCreateTimestamp(crypto.HashOf([]byte(content)), sk)
	require.NoError(t, err)
	tx, err := timestamp.NewTxCreateTimestamp(m, timeoracle.SchemaReader{})
	require.NoError(t, err)
	return tx
}

func TestPool_SendAndDrain(t *testing.T) {
	ctx := context.Background()
	pool := NewPool(NewClient(redisConf), t.Name(), 2)
	defer pool.Close()

	a, b := newTx(t, "a"), newTx(t, "b")
	require.NoError(t, pool.Send(ctx, a))
	require.NoError(t, pool.Send(ctx, a))
	require.NoError(t, pool.Send(ctx, b))

	err := pool.Send(ctx, newTx(t, "c"))
	assert.IsType(t, submission.ChannelUnavailable{}, err)

	drained, err := pool.Drain(ctx, 0)
	require.NoError(t, err)
	require.Len(t, drained, 2)
	assert.EqualValues(t, a.Message().Signature, drained[0].Signature)
	assert.EqualValues(t, b.Message().Signature, drained[1].Signature)

	empty, err := pool.Drain(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, empty)

	require.NoError(t, pool.Send(ctx, a))
	again, err := pool.Drain(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, again, 1)
}
