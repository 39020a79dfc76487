// blockchain holds the node's own bookkeeping: the chain of committed blocks and where each
// committed transaction ended up.
package blockchain

import (
	"context"
	"sort"

	"github.com/lloydmeta/timestamping/internal/domain/crypto"
	"github.com/lloydmeta/timestamping/internal/domain/service"
	"github.com/lloydmeta/timestamping/internal/domain/storage"
)

const (
	BlocksIndex      = "core.blocks"
	TxLocationsIndex = "core.tx_locations"
	MetaIndex        = "core.meta"

	blockHashDomain = "timestamping/block/v1"
	stateHashDomain = "timestamping/state/v1"
)

// Block is the header written for every committed batch of transactions
type Block struct {
	Height    uint64        `json:"height,string"`
	PrevHash  crypto.Hash   `json:"prev_hash"`
	TxHashes  []crypto.Hash `json:"tx_hashes"`
	StateHash crypto.Hash   `json:"state_hash"`
}

func (b *Block) Hash() crypto.Hash {
	h := crypto.NewHasher(blockHashDomain).
		WriteUint64(b.Height).
		WriteBytes(b.PrevHash[:]).
		WriteUint64(uint64(len(b.TxHashes)))
	for _, tx := range b.TxHashes {
		h.WriteBytes(tx[:])
	}
	return h.WriteBytes(b.StateHash[:]).Sum()
}

// TxLocation says where a committed transaction sits in the chain
type TxLocation struct {
	Height   uint64 `json:"height,string"`
	Position uint32 `json:"position"`
}

// TxStatus is what is known about a transaction hash
type TxStatus string

const (
	Committed TxStatus = "committed"
	Unknown   TxStatus = "unknown"
)

// CommitHook is called after every block has been merged
type CommitHook interface {
	OnCommit(ctx context.Context, block *Block, patch *storage.Patch) error
}

// StateHash folds the state hashes reported by every service into one, in service id order
func StateHash(snapshot storage.Snapshot, services []service.Definition) crypto.Hash {
	sorted := make([]service.Definition, len(services))
	copy(sorted, services)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID() < sorted[j].ID() })

	h := crypto.NewHasher(stateHashDomain)
	for _, s := range sorted {
		hashes := s.StateHash(snapshot)
		h.WriteUint64(uint64(s.ID())).WriteUint64(uint64(len(hashes)))
		for _, hash := range hashes {
			h.WriteBytes(hash[:])
		}
	}
	return h.Sum()
}
