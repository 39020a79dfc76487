package explorer

import (
	"github.com/lloydmeta/timestamping/internal/domain/blockchain"
)

// TxHashUri binds the transaction hash path segment
type TxHashUri struct {
	TxHash string `uri:"tx_hash" binding:"required,hexHash"`
}

// Transaction is the inclusion status of a transaction hash
type Transaction struct {
	TxHash   string  `json:"tx_hash" binding:"required,hexHash"`
	Status   string  `json:"status" binding:"required" example:"committed" enums:"committed,unknown"`
	Height   *uint64 `json:"height,omitempty" example:"12"`
	Position *uint32 `json:"position,omitempty" example:"0"`
}

// Block is a committed block header
type Block struct {
	Height    uint64   `json:"height" example:"12"`
	Hash      string   `json:"hash" binding:"required,hexHash"`
	PrevHash  string   `json:"prev_hash" binding:"required,hexHash"`
	TxHashes  []string `json:"tx_hashes" binding:"required,dive,hexHash"`
	StateHash string   `json:"state_hash" binding:"required,hexHash"`
}

func FromDomainTxInfo(info *blockchain.TxInfo) Transaction {
	tx := Transaction{
		TxHash: info.TxHash.String(),
		Status: string(info.Status),
	}
	if info.Location != nil {
		height := info.Location.Height
		position := info.Location.Position
		tx.Height = &height
		tx.Position = &position
	}
	return tx
}

func FromDomainBlock(block *blockchain.Block) Block {
	txHashes := make([]string, 0, len(block.TxHashes))
	for _, h := range block.TxHashes {
		txHashes = append(txHashes, h.String())
	}
	return Block{
		Height:    block.Height,
		Hash:      block.Hash().String(),
		PrevHash:  block.PrevHash.String(),
		TxHashes:  txHashes,
		StateHash: block.StateHash.String(),
	}
}
