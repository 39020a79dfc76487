// submission defines how verified-shape transactions are handed off for ordering
package submission

import (
	"context"
	"fmt"

	"github.com/lloydmeta/timestamping/internal/domain/transaction"
)

// Channel accepts transactions for eventual inclusion in a block. A successful Send only
// means the transaction was queued; it may still be dropped by the sequencer.
type Channel interface {
	Send(ctx context.Context, tx transaction.Transaction) error
}

// Pool is a Channel that the sequencer drains from
type Pool interface {
	Channel

	// Drain removes and returns up to max queued messages, oldest first
	Drain(ctx context.Context, max int) ([]*transaction.Message, error)
}

// ChannelUnavailable is returned when a transaction could not be queued
type ChannelUnavailable struct {
	Underlying error
}

func (e ChannelUnavailable) Error() string {
	return fmt.Sprintf("Transaction could not be queued: %v", e.Underlying)
}

func (e ChannelUnavailable) Unwrap() error {
	return e.Underlying
}

// PoolFull is returned by bounded Pools that are at capacity
type PoolFull struct {
	Capacity int
}

func (e PoolFull) Error() string {
	return fmt.Sprintf("Pool is at capacity [%d]", e.Capacity)
}

// PoolClosed is returned by Pools that have been shut down
type PoolClosed struct{}

func (e PoolClosed) Error() string {
	return "Pool is closed"
}
