package timestamp

import (
	"context"
	"net/http"

	"github.com/lloydmeta/timestamping/internal/api/models/common"
	"github.com/lloydmeta/timestamping/internal/api/models/timestamp"
	"github.com/lloydmeta/timestamping/internal/domain/crypto"
	"github.com/lloydmeta/timestamping/internal/domain/submission"
	domainTimestamp "github.com/lloydmeta/timestamping/internal/domain/timestamp"
	"github.com/lloydmeta/timestamping/internal/domain/transaction"
)

// Controller is an interface that defines the methods that are available to the routing
// layer. It is framework-agnostic
type Controller interface {

	// Get returns the record stored under the hex encoded key
	Get(ctx context.Context, keyHex string) (*timestamp.Timestamp, *common.ApiError)

	// List returns all records in key order; never nil
	List(ctx context.Context) ([]timestamp.Timestamp, *common.ApiError)

	// Submit hands a raw signed CreateTimestamp transaction to the node and returns its hash
	// once it has been accepted for ordering
	Submit(ctx context.Context, payload []byte) (*timestamp.TxAccepted, *common.ApiError)
}

func New(service domainTimestamp.Service) Controller {
	return &impl{
		service: service,
	}
}

type impl struct {
	service domainTimestamp.Service
}

func (c *impl) Get(ctx context.Context, keyHex string) (*timestamp.Timestamp, *common.ApiError) {
	key, err := crypto.HashFromHex(keyHex)
	if err != nil {
		return nil, handleErr(domainTimestamp.InvalidKeyEncoding{Input: keyHex, Underlying: err})
	}
	result, err := c.service.Get(ctx, key)
	if err != nil {
		return nil, handleErr(err)
	} else {
		t := timestamp.FromDomainRecord(result)
		return &t, nil
	}
}

func (c *impl) List(ctx context.Context) ([]timestamp.Timestamp, *common.ApiError) {
	result, err := c.service.List(ctx)
	if err != nil {
		return nil, handleErr(err)
	} else {
		apiTimestamps := make([]timestamp.Timestamp, 0, len(result))
		for _, record := range result {
			apiTimestamps = append(apiTimestamps, timestamp.FromDomainRecord(&record))
		}
		return apiTimestamps, nil
	}
}

func (c *impl) Submit(ctx context.Context, payload []byte) (*timestamp.TxAccepted, *common.ApiError) {
	m, err := transaction.ParseMessage(payload)
	if err != nil {
		if _, empty := err.(transaction.EmptyMessage); empty {
			return nil, handleErr(domainTimestamp.EmptyRequestBody{})
		}
		return nil, handleErr(domainTimestamp.MalformedRequest{Underlying: err})
	}
	txHash, err := c.service.Submit(ctx, m)
	if err != nil {
		return nil, handleErr(err)
	} else {
		return &timestamp.TxAccepted{TxHash: txHash.String()}, nil
	}
}

func handleErr(err error) *common.ApiError {
	switch v := err.(type) {
	case domainTimestamp.InvalidKeyEncoding:
		return common.NewApiError(http.StatusBadRequest, v)
	case domainTimestamp.EmptyRequestBody:
		return common.NewApiError(http.StatusBadRequest, v)
	case domainTimestamp.MalformedRequest:
		return common.NewApiError(http.StatusBadRequest, v)
	case domainTimestamp.NotFound:
		return common.NewApiError(http.StatusNotFound, v)
	case submission.ChannelUnavailable:
		return common.NewApiError(http.StatusInternalServerError, v)
	case domainTimestamp.InvalidPersistedData:
		return common.NewApiError(http.StatusInternalServerError, v)
	default:
		return common.Unhandled(v)
	}
}
