package timeoracle

import (
	"github.com/lloydmeta/timestamping/internal/domain/crypto"
	"github.com/lloydmeta/timestamping/internal/domain/storage"
	"github.com/lloydmeta/timestamping/internal/domain/transaction"
)

// ServiceDefinition registers the time oracle with the node. Only the given validators may
// advance the agreed time.
type ServiceDefinition struct {
	validators map[crypto.PublicKey]struct{}
}

func NewServiceDefinition(validators []crypto.PublicKey) *ServiceDefinition {
	set := make(map[crypto.PublicKey]struct{}, len(validators))
	for _, v := range validators {
		set[v] = struct{}{}
	}
	return &ServiceDefinition{validators: set}
}

func (s *ServiceDefinition) ID() uint16 {
	return ServiceID
}

func (s *ServiceDefinition) Name() string {
	return ServiceName
}

func (s *ServiceDefinition) RegisterTransactions(registry *transaction.Registry) error {
	return registry.Register(ServiceID, TxUpdateTimeID, decoder(s.validators))
}

func (s *ServiceDefinition) StateHash(snapshot storage.Snapshot) []crypto.Hash {
	return []crypto.Hash{NewSchema(snapshot).Index().Hash()}
}

// Decode turns a time update envelope into a TxUpdateTime checked against this service's
// validators
func (s *ServiceDefinition) Decode(m *transaction.Message) (transaction.Transaction, error) {
	return decoder(s.validators)(m)
}
