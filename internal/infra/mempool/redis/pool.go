// redis is a submission.Pool kept in Redis so that several API processes can feed one
// sequencer
package redis

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/lloydmeta/timestamping/internal/config"
	"github.com/lloydmeta/timestamping/internal/domain/crypto"
	"github.com/lloydmeta/timestamping/internal/domain/submission"
	"github.com/lloydmeta/timestamping/internal/domain/transaction"
)

// enqueueScript pushes a message unless its hash is already queued or the queue is full.
// KEYS[1] = queue list, KEYS[2] = set of queued hashes
// ARGV[1] = hash, ARGV[2] = payload, ARGV[3] = capacity (0 = unbounded)
// Returns 1 when queued, 0 when already queued, -1 when full.
var enqueueScript = redis.NewScript(`
if redis.call("SISMEMBER", KEYS[2], ARGV[1]) == 1 then
    return 0
end
local capacity = tonumber(ARGV[3])
if capacity > 0 and redis.call("LLEN", KEYS[1]) >= capacity then
    return -1
end
redis.call("RPUSH", KEYS[1], ARGV[2])
redis.call("SADD", KEYS[2], ARGV[1])
return 1
`)

type queuedMessage struct {
	Hash    crypto.Hash          `json:"hash"`
	Message *transaction.Message `json:"message"`
}

type Pool struct {
	client    redis.UniversalClient
	queueKey  string
	hashesKey string
	capacity  int
}

// NewClient builds a Redis client from config
func NewClient(conf config.Redis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     conf.Address,
		Password: conf.Password,
		DB:       conf.DB,
	})
}

func NewPool(client redis.UniversalClient, keyPrefix string, capacity int) *Pool {
	return &Pool{
		client:    client,
		queueKey:  keyPrefix + ":queue",
		hashesKey: keyPrefix + ":queued",
		capacity:  capacity,
	}
}

func (p *Pool) Send(ctx context.Context, tx transaction.Transaction) error {
	payload, err := json.Marshal(queuedMessage{Hash: tx.Hash(), Message: tx.Message()})
	if err != nil {
		return submission.ChannelUnavailable{Underlying: err}
	}
	result, err := enqueueScript.Run(ctx, p.client, []string{p.queueKey, p.hashesKey}, tx.Hash().String(), payload, p.capacity).Int()
	if err != nil {
		return submission.ChannelUnavailable{Underlying: err}
	}
	if result < 0 {
		return submission.ChannelUnavailable{Underlying: submission.PoolFull{Capacity: p.capacity}}
	}
	return nil
}

func (p *Pool) Drain(ctx context.Context, max int) ([]*transaction.Message, error) {
	if max <= 0 {
		length, err := p.client.LLen(ctx, p.queueKey).Result()
		if err != nil {
			return nil, err
		}
		if length == 0 {
			return []*transaction.Message{}, nil
		}
		max = int(length)
	}
	raw, err := p.client.LPopCount(ctx, p.queueKey, max).Result()
	if err == redis.Nil {
		return []*transaction.Message{}, nil
	}
	if err != nil {
		return nil, err
	}

	messages := make([]*transaction.Message, 0, len(raw))
	hashes := make([]interface{}, 0, len(raw))
	for _, item := range raw {
		var queued queuedMessage
		if err := json.Unmarshal([]byte(item), &queued); err != nil {
			log.Error().Err(err).Msg("Dropping undecodable queued message")
			continue
		}
		messages = append(messages, queued.Message)
		hashes = append(hashes, queued.Hash.String())
	}
	if len(hashes) > 0 {
		if err := p.client.SRem(ctx, p.hashesKey, hashes...).Err(); err != nil {
			log.Warn().Err(err).Msg("Failed to forget drained hashes")
		}
	}
	return messages, nil
}

func (p *Pool) Close() error {
	return p.client.Close()
}
