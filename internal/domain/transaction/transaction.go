// transaction defines the contract of a deterministic state mutation, the signed envelope it
// travels in, and the Registry that turns envelopes back into typed transactions.
package transaction

import (
	"github.com/lloydmeta/timestamping/internal/domain/crypto"
	"github.com/lloydmeta/timestamping/internal/domain/storage"
)

// Transaction is the unit of deterministic state mutation.
//
// Verify is a stateless check of shape and signature; a Transaction that fails it must never
// be executed. Execute applies the Transaction to a Fork and must be total: it cannot fail,
// and must not depend on anything but the transaction itself and the Fork (no wall clock,
// no network).
type Transaction interface {
	Verify() error
	Execute(fork storage.Fork)
	Hash() crypto.Hash
	Message() *Message
}

// Signed carries the envelope-derived parts shared by all Transactions. Embed it.
type Signed struct {
	message     *Message
	hash        crypto.Hash
	signedBytes []byte
}

func NewSigned(m *Message) (Signed, error) {
	hash, err := m.Hash()
	if err != nil {
		return Signed{}, err
	}
	signedBytes, err := m.SignedBytes()
	if err != nil {
		return Signed{}, err
	}
	return Signed{message: m, hash: hash, signedBytes: signedBytes}, nil
}

func (s Signed) Hash() crypto.Hash {
	return s.hash
}

func (s Signed) Message() *Message {
	return s.message
}

// VerifySignature checks that the envelope was signed by pk
func (s Signed) VerifySignature(pk crypto.PublicKey) error {
	if s.message.ProtocolVersion != ProtocolVersion {
		return VerificationFailed{TxHash: s.hash, Reason: "unsupported protocol version"}
	}
	if !crypto.Verify(pk, s.signedBytes, s.message.Signature) {
		return VerificationFailed{TxHash: s.hash, Reason: "invalid signature"}
	}
	return nil
}
