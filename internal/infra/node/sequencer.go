// node is a single-node stand-in for the ordering engine: it drains the submission pool,
// orders what it finds into blocks and executes them against the Database.
package node

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/lloydmeta/timestamping/internal/domain/blockchain"
	"github.com/lloydmeta/timestamping/internal/domain/crypto"
	"github.com/lloydmeta/timestamping/internal/domain/service"
	"github.com/lloydmeta/timestamping/internal/domain/storage"
	"github.com/lloydmeta/timestamping/internal/domain/submission"
	"github.com/lloydmeta/timestamping/internal/domain/transaction"
)

// Sequencer turns queued messages into committed blocks. CommitBlock must not be called
// concurrently.
type Sequencer struct {
	db       storage.Database
	pool     submission.Pool
	registry *transaction.Registry
	services []service.Definition
	hooks    []blockchain.CommitHook
	maxTxs   int
}

func NewSequencer(db storage.Database, pool submission.Pool, services []service.Definition, hooks []blockchain.CommitHook, maxTxs int) (*Sequencer, error) {
	registry := transaction.NewRegistry()
	for _, s := range services {
		if err := s.RegisterTransactions(registry); err != nil {
			return nil, fmt.Errorf("failed to register transactions of service [%s]: %w", s.Name(), err)
		}
		log.Info().Uint16("service_id", s.ID()).Str("service", s.Name()).Msg("Registered service")
	}
	return &Sequencer{
		db:       db,
		pool:     pool,
		registry: registry,
		services: services,
		hooks:    hooks,
		maxTxs:   maxTxs,
	}, nil
}

// CommitBlock drains the pool and, if anything in it is executable, commits one block.
// It returns nil when there was nothing to commit.
func (s *Sequencer) CommitBlock(ctx context.Context) (*blockchain.Block, error) {
	messages, err := s.pool.Drain(ctx, s.maxTxs)
	if err != nil {
		return nil, fmt.Errorf("failed to drain pool: %w", err)
	}
	if len(messages) == 0 {
		return nil, nil
	}

	base := s.db.Snapshot()
	chain := blockchain.NewSchema(base)
	var (
		height   uint64
		prevHash crypto.Hash
	)
	latest, err := chain.LatestBlock()
	if err != nil {
		return nil, err
	}
	if latest != nil {
		height = latest.Height + 1
		prevHash = latest.Hash()
	}

	// Everything the block does is staged on top of the pre-block snapshot and merged once,
	// so a failed commit leaves no trace of the block.
	staging := storage.NewOverlay(base)
	drained := make([]transaction.Transaction, 0, len(messages))
	included := make([]crypto.Hash, 0, len(messages))
	seen := make(map[crypto.Hash]struct{}, len(messages))
	for _, m := range messages {
		tx, err := s.registry.Decode(m)
		if err != nil {
			log.Warn().Err(err).Msg("Dropping undecodable transaction")
			continue
		}
		hash := tx.Hash()
		if _, dup := seen[hash]; dup || chain.IsCommitted(hash) {
			if log.Debug().Enabled() {
				log.Debug().Str("tx_hash", hash.String()).Msg("Skipping already ordered transaction")
			}
			continue
		}
		seen[hash] = struct{}{}
		if err := tx.Verify(); err != nil {
			log.Warn().Err(err).Str("tx_hash", hash.String()).Msg("Dropping transaction that failed verification")
			continue
		}
		drained = append(drained, tx)

		fork := storage.NewOverlay(staging)
		if !s.execute(tx, fork) {
			fork = storage.NewOverlay(staging)
		}
		location := blockchain.TxLocation{Height: height, Position: uint32(len(included))}
		if err := blockchain.NewMutableSchema(fork).PutTxLocation(hash, location); err != nil {
			s.requeue(ctx, drained)
			return nil, err
		}
		staging.Patch().Append(fork.Patch())
		included = append(included, hash)
	}
	if len(included) == 0 {
		return nil, nil
	}

	block := &blockchain.Block{
		Height:    height,
		PrevHash:  prevHash,
		TxHashes:  included,
		StateHash: blockchain.StateHash(staging, s.services),
	}
	if err := blockchain.NewMutableSchema(staging).PutBlock(block); err != nil {
		s.requeue(ctx, drained)
		return nil, err
	}
	blockPatch := staging.Patch()
	if err := s.db.Merge(ctx, blockPatch); err != nil {
		s.requeue(ctx, drained)
		return nil, err
	}

	log.Info().
		Uint64("height", block.Height).
		Int("txs", len(block.TxHashes)).
		Str("block_hash", block.Hash().String()).
		Msg("Committed block")

	for _, hook := range s.hooks {
		if err := hook.OnCommit(ctx, block, blockPatch); err != nil {
			log.Error().Err(err).Uint64("height", block.Height).Msg("Commit hook failed")
		}
	}
	return block, nil
}

// requeue hands the transactions of a block that failed to commit back to the pool, keeping
// their relative order, so a later block can pick them up again
func (s *Sequencer) requeue(ctx context.Context, txs []transaction.Transaction) {
	for _, tx := range txs {
		if err := s.pool.Send(ctx, tx); err != nil {
			log.Error().Err(err).Str("tx_hash", tx.Hash().String()).Msg("Failed to requeue transaction, it is lost")
		}
	}
	if len(txs) > 0 {
		log.Warn().Int("txs", len(txs)).Msg("Requeued transactions of uncommitted block")
	}
}

// execute runs tx against fork, reporting false if it panicked. The caller must then discard
// the fork.
func (s *Sequencer) execute(tx transaction.Transaction, fork storage.Fork) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Str("tx_hash", tx.Hash().String()).
				Interface("panic", r).
				Msg("Transaction panicked during execution, discarding its changes")
			ok = false
		}
	}()
	tx.Execute(fork)
	return true
}
