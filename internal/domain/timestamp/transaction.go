package timestamp

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/lloydmeta/timestamping/internal/domain/crypto"
	"github.com/lloydmeta/timestamping/internal/domain/storage"
	"github.com/lloydmeta/timestamping/internal/domain/timeoracle"
	"github.com/lloydmeta/timestamping/internal/domain/transaction"
)

// TxCreateTimestamp records the agreed time at which some content was first seen.
//
// Execute is total. When the oracle has not agreed on a time yet, or a record for the content
// already exists, it does nothing.
type TxCreateTimestamp struct {
	transaction.Signed
	Body CreateTimestampBody
	time timeoracle.Reader
}

// NewTxCreateTimestamp decodes a CreateTimestamp envelope
func NewTxCreateTimestamp(m *transaction.Message, time timeoracle.Reader) (*TxCreateTimestamp, error) {
	if m.ServiceID != ServiceID || m.MessageID != TxCreateTimestampID {
		return nil, transaction.UnknownMessageType{ServiceID: m.ServiceID, MessageID: m.MessageID}
	}
	var body CreateTimestampBody
	if err := json.Unmarshal(m.Body, &body); err != nil {
		return nil, transaction.MalformedMessage{Underlying: err}
	}
	signed, err := transaction.NewSigned(m)
	if err != nil {
		return nil, err
	}
	return &TxCreateTimestamp{
		Signed: signed,
		Body:   body,
		time:   time,
	}, nil
}

// NewSignedCreateTimestamp builds a CreateTimestamp envelope for fileHash, signed with sk
func NewSignedCreateTimestamp(fileHash crypto.Hash, sk crypto.SecretKey) (*transaction.Message, error) {
	body := CreateTimestampBody{
		PubKey:   sk.PublicKey(),
		FileHash: fileHash,
	}
	return transaction.NewSignedMessage(ServiceID, TxCreateTimestampID, body, sk)
}

func (t *TxCreateTimestamp) Verify() error {
	if t.Body.FileHash.IsZero() {
		return transaction.VerificationFailed{TxHash: t.Hash(), Reason: "file hash is empty"}
	}
	return t.VerifySignature(t.Body.PubKey)
}

func (t *TxCreateTimestamp) Execute(fork storage.Fork) {
	now, ok := t.time.CurrentTime(fork)
	if !ok {
		log.Warn().
			Str("tx_hash", t.Hash().String()).
			Msg("No agreed time yet, skipping timestamp")
		return
	}

	key := KeyFor(t.Body.FileHash)
	schema := NewMutableSchema(fork)
	if schema.Contains(key) {
		if log.Debug().Enabled() {
			log.Debug().
				Str("tx_hash", t.Hash().String()).
				Str("key", key.String()).
				Msg("Timestamp already exists")
		}
		return
	}

	signer := t.Body.PubKey
	record := Record{
		Key:      key,
		FileHash: t.Body.FileHash,
		Time:     now,
		Signer:   &signer,
	}
	if err := schema.PutTimestamp(record); err != nil {
		log.Error().
			Err(err).
			Str("tx_hash", t.Hash().String()).
			Msg("Failed to encode timestamp record")
	}
}
