// memory is a bounded, in-process submission.Pool
package memory

import (
	"context"
	"sync"

	"github.com/lloydmeta/timestamping/internal/domain/crypto"
	"github.com/lloydmeta/timestamping/internal/domain/submission"
	"github.com/lloydmeta/timestamping/internal/domain/transaction"
)

type pending struct {
	hash    crypto.Hash
	message *transaction.Message
}

// Pool queues messages in arrival order. Re-sending a message that is still queued is
// accepted but does not queue it twice.
type Pool struct {
	mu       sync.Mutex
	capacity int
	queue    []pending
	queued   map[crypto.Hash]struct{}
	closed   bool
}

func NewPool(capacity int) *Pool {
	return &Pool{
		capacity: capacity,
		queued:   make(map[crypto.Hash]struct{}),
	}
}

func (p *Pool) Send(ctx context.Context, tx transaction.Transaction) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return submission.ChannelUnavailable{Underlying: submission.PoolClosed{}}
	}
	hash := tx.Hash()
	if _, ok := p.queued[hash]; ok {
		return nil
	}
	if p.capacity > 0 && len(p.queue) >= p.capacity {
		return submission.ChannelUnavailable{Underlying: submission.PoolFull{Capacity: p.capacity}}
	}
	p.queue = append(p.queue, pending{hash: hash, message: tx.Message()})
	p.queued[hash] = struct{}{}
	return nil
}

func (p *Pool) Drain(ctx context.Context, max int) ([]*transaction.Message, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := len(p.queue)
	if max > 0 && max < n {
		n = max
	}
	drained := make([]*transaction.Message, 0, n)
	for _, item := range p.queue[:n] {
		drained = append(drained, item.message)
		delete(p.queued, item.hash)
	}
	p.queue = append([]pending(nil), p.queue[n:]...)
	return drained, nil
}

// Len is the number of queued messages
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

// Close makes every further Send fail
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}
