package timeoracle

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/lloydmeta/timestamping/internal/domain/crypto"
	"github.com/lloydmeta/timestamping/internal/domain/storage"
	"github.com/lloydmeta/timestamping/internal/domain/transaction"
)

const TxUpdateTimeID uint16 = 1

// UpdateTimeBody is what a validator signs to propose a new agreed time. Time travels as a
// decimal string: canonical JSON numbers are doubles and cannot hold every uint64.
type UpdateTimeBody struct {
	Validator crypto.PublicKey `json:"validator"`
	Time      uint64           `json:"time,string"`
}

// TxUpdateTime advances the agreed time. Times that do not move the clock forward are ignored
// so the agreed time is monotonic.
type TxUpdateTime struct {
	transaction.Signed
	Body       UpdateTimeBody
	validators map[crypto.PublicKey]struct{}
}

func (t *TxUpdateTime) Verify() error {
	if t.Message().ServiceID != ServiceID || t.Message().MessageID != TxUpdateTimeID {
		return transaction.VerificationFailed{TxHash: t.Hash(), Reason: "not a time update"}
	}
	if _, ok := t.validators[t.Body.Validator]; !ok {
		return transaction.VerificationFailed{TxHash: t.Hash(), Reason: "signer is not a time validator"}
	}
	return t.VerifySignature(t.Body.Validator)
}

func (t *TxUpdateTime) Execute(fork storage.Fork) {
	schema := NewMutableSchema(fork)
	if current, ok := schema.Time(); ok && current >= t.Body.Time {
		if log.Debug().Enabled() {
			log.Debug().
				Uint64("current", current).
				Uint64("proposed", t.Body.Time).
				Msg("Ignoring non-advancing time update")
		}
		return
	}
	schema.SetTime(t.Body.Time)
}

// NewSignedUpdate builds a TxUpdateTime envelope signed by the validator key
func NewSignedUpdate(millis uint64, sk crypto.SecretKey) (*transaction.Message, error) {
	body := UpdateTimeBody{
		Validator: sk.PublicKey(),
		Time:      millis,
	}
	return transaction.NewSignedMessage(ServiceID, TxUpdateTimeID, body, sk)
}

func decoder(validators map[crypto.PublicKey]struct{}) transaction.Decoder {
	return func(m *transaction.Message) (transaction.Transaction, error) {
		var body UpdateTimeBody
		if err := json.Unmarshal(m.Body, &body); err != nil {
			return nil, transaction.MalformedMessage{Underlying: err}
		}
		signed, err := transaction.NewSigned(m)
		if err != nil {
			return nil, err
		}
		return &TxUpdateTime{
			Signed:     signed,
			Body:       body,
			validators: validators,
		}, nil
	}
}
