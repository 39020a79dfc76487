package timestamp

import (
	"context"

	"github.com/lloydmeta/timestamping/internal/domain/crypto"
	"github.com/lloydmeta/timestamping/internal/domain/storage"
	"github.com/lloydmeta/timestamping/internal/domain/submission"
	"github.com/lloydmeta/timestamping/internal/domain/timeoracle"
	"github.com/lloydmeta/timestamping/internal/domain/transaction"
)

// Service is what the API needs from the timestamping service
type Service interface {
	// Get returns the record for key, or NotFound
	Get(ctx context.Context, key crypto.Hash) (*Record, error)

	// List returns every record in key order
	List(ctx context.Context) ([]Record, error)

	// Submit queues a CreateTimestamp transaction for ordering and returns its hash. Success
	// does not mean the transaction will be, or has been, executed.
	Submit(ctx context.Context, m *transaction.Message) (crypto.Hash, error)
}

type impl struct {
	db      storage.Database
	channel submission.Channel
	time    timeoracle.Reader
}

func NewService(db storage.Database, channel submission.Channel, time timeoracle.Reader) Service {
	return &impl{
		db:      db,
		channel: channel,
		time:    time,
	}
}

func (s *impl) Get(ctx context.Context, key crypto.Hash) (*Record, error) {
	record, err := NewSchema(s.db.Snapshot()).Timestamp(key)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, NotFound{Key: key}
	}
	return record, nil
}

func (s *impl) List(ctx context.Context) ([]Record, error) {
	return NewSchema(s.db.Snapshot()).All()
}

func (s *impl) Submit(ctx context.Context, m *transaction.Message) (crypto.Hash, error) {
	tx, err := NewTxCreateTimestamp(m, s.time)
	if err != nil {
		return crypto.Hash{}, MalformedRequest{Underlying: err}
	}
	if err := s.channel.Send(ctx, tx); err != nil {
		switch err.(type) {
		case submission.ChannelUnavailable:
			return crypto.Hash{}, err
		default:
			return crypto.Hash{}, submission.ChannelUnavailable{Underlying: err}
		}
	}
	return tx.Hash(), nil
}

// ServiceDefinition registers the timestamping service with the node
type ServiceDefinition struct {
	time timeoracle.Reader
}

func NewServiceDefinition(time timeoracle.Reader) *ServiceDefinition {
	return &ServiceDefinition{time: time}
}

func (d *ServiceDefinition) ID() uint16 {
	return ServiceID
}

func (d *ServiceDefinition) Name() string {
	return ServiceName
}

func (d *ServiceDefinition) RegisterTransactions(registry *transaction.Registry) error {
	return registry.Register(ServiceID, TxCreateTimestampID, func(m *transaction.Message) (transaction.Transaction, error) {
		return NewTxCreateTimestamp(m, d.time)
	})
}

func (d *ServiceDefinition) StateHash(snapshot storage.Snapshot) []crypto.Hash {
	return []crypto.Hash{NewSchema(snapshot).StateHash()}
}
