// service describes how a replicated service plugs into the node
package service

import (
	"github.com/lloydmeta/timestamping/internal/domain/crypto"
	"github.com/lloydmeta/timestamping/internal/domain/storage"
	"github.com/lloydmeta/timestamping/internal/domain/transaction"
)

// Definition is what the node needs to know about a service
type Definition interface {
	// ID is the numeric identifier carried in transaction envelopes
	ID() uint16

	Name() string

	// RegisterTransactions adds the service's transaction decoders to the given Registry
	RegisterTransactions(registry *transaction.Registry) error

	// StateHash lists the hashes of the indices that the service wants folded into each
	// block's state hash
	StateHash(snapshot storage.Snapshot) []crypto.Hash
}
