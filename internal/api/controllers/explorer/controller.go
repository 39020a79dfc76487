package explorer

import (
	"context"
	"net/http"

	"github.com/lloydmeta/timestamping/internal/api/models/common"
	"github.com/lloydmeta/timestamping/internal/api/models/explorer"
	"github.com/lloydmeta/timestamping/internal/domain/blockchain"
	"github.com/lloydmeta/timestamping/internal/domain/crypto"
)

// Controller exposes chain bookkeeping to the routing layer
type Controller interface {
	Transaction(ctx context.Context, txHashHex string) (*explorer.Transaction, *common.ApiError)
	LatestBlock(ctx context.Context) (*explorer.Block, *common.ApiError)
}

func New(chain blockchain.Explorer) Controller {
	return &impl{chain: chain}
}

type impl struct {
	chain blockchain.Explorer
}

func (c *impl) Transaction(ctx context.Context, txHashHex string) (*explorer.Transaction, *common.ApiError) {
	txHash, err := crypto.HashFromHex(txHashHex)
	if err != nil {
		return nil, common.NewApiError(http.StatusBadRequest, err)
	}
	info, err := c.chain.Transaction(ctx, txHash)
	if err != nil {
		return nil, handleErr(err)
	}
	tx := explorer.FromDomainTxInfo(info)
	return &tx, nil
}

func (c *impl) LatestBlock(ctx context.Context) (*explorer.Block, *common.ApiError) {
	block, err := c.chain.LatestBlock(ctx)
	if err != nil {
		return nil, handleErr(err)
	}
	b := explorer.FromDomainBlock(block)
	return &b, nil
}

func handleErr(err error) *common.ApiError {
	switch v := err.(type) {
	case blockchain.NoBlocks:
		return common.NewApiError(http.StatusNotFound, v)
	default:
		return common.Unhandled(v)
	}
}
