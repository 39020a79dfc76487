package blockchain

import (
	"encoding/binary"
	"encoding/json"

	"github.com/lloydmeta/timestamping/internal/domain/crypto"
	"github.com/lloydmeta/timestamping/internal/domain/storage"
)

var latestHeightKey = []byte("latest_height")

type Schema struct {
	view storage.Snapshot
}

func NewSchema(view storage.Snapshot) Schema {
	return Schema{view: view}
}

func (s Schema) Blocks() storage.MapIndex {
	return storage.NewMapIndex(BlocksIndex, s.view)
}

func (s Schema) TxLocations() storage.MapIndex {
	return storage.NewMapIndex(TxLocationsIndex, s.view)
}

// Height returns the height of the latest block, if any block was committed
func (s Schema) Height() (uint64, bool) {
	raw, ok := storage.NewMapIndex(MetaIndex, s.view).Get(latestHeightKey)
	if !ok || len(raw) != 8 {
		return 0, false
	}
	return binary.BigEndian.Uint64(raw), true
}

func (s Schema) Block(height uint64) (*Block, error) {
	raw, ok := s.Blocks().Get(heightKey(height))
	if !ok {
		return nil, nil
	}
	var block Block
	if err := json.Unmarshal(raw, &block); err != nil {
		return nil, CorruptedChain{Underlying: err}
	}
	return &block, nil
}

// LatestBlock returns the head of the chain, or nil if nothing was committed yet
func (s Schema) LatestBlock() (*Block, error) {
	height, ok := s.Height()
	if !ok {
		return nil, nil
	}
	return s.Block(height)
}

func (s Schema) TxLocation(txHash crypto.Hash) (*TxLocation, error) {
	raw, ok := s.TxLocations().Get(txHash[:])
	if !ok {
		return nil, nil
	}
	var location TxLocation
	if err := json.Unmarshal(raw, &location); err != nil {
		return nil, CorruptedChain{Underlying: err}
	}
	return &location, nil
}

func (s Schema) IsCommitted(txHash crypto.Hash) bool {
	return s.TxLocations().Contains(txHash[:])
}

type MutableSchema struct {
	Schema
	fork storage.Fork
}

func NewMutableSchema(fork storage.Fork) MutableSchema {
	return MutableSchema{Schema: NewSchema(fork), fork: fork}
}

func (s MutableSchema) PutTxLocation(txHash crypto.Hash, location TxLocation) error {
	encoded, err := storage.EncodeCanonical(location)
	if err != nil {
		return err
	}
	s.fork.Put(TxLocationsIndex, txHash[:], encoded)
	return nil
}

// PutBlock appends a block and moves the head of the chain to it
func (s MutableSchema) PutBlock(block *Block) error {
	encoded, err := storage.EncodeCanonical(block)
	if err != nil {
		return err
	}
	s.fork.Put(BlocksIndex, heightKey(block.Height), encoded)
	s.fork.Put(MetaIndex, latestHeightKey, heightKey(block.Height))
	return nil
}

func heightKey(height uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, height)
	return key
}
