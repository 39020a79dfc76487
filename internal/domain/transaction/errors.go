package transaction

import (
	"fmt"

	"github.com/lloydmeta/timestamping/internal/domain/crypto"
)

// EmptyMessage is returned when there were no bytes to decode
type EmptyMessage struct{}

func (e EmptyMessage) Error() string {
	return "Empty request body"
}

// MalformedMessage is returned when an envelope or its body could not be decoded
type MalformedMessage struct {
	Underlying error
}

func (e MalformedMessage) Error() string {
	return fmt.Sprintf("Malformed transaction: %v", e.Underlying)
}

func (e MalformedMessage) Unwrap() error {
	return e.Underlying
}

type UnknownMessageType struct {
	ServiceID uint16
	MessageID uint16
}

func (e UnknownMessageType) Error() string {
	return fmt.Sprintf("No transaction registered for service [%d] message [%d]", e.ServiceID, e.MessageID)
}

type DuplicateMessageType struct {
	ServiceID uint16
	MessageID uint16
}

func (e DuplicateMessageType) Error() string {
	return fmt.Sprintf("A transaction is already registered for service [%d] message [%d]", e.ServiceID, e.MessageID)
}

// VerificationFailed is returned by Transaction.Verify; the transaction is dropped
type VerificationFailed struct {
	TxHash crypto.Hash
	Reason string
}

func (e VerificationFailed) Error() string {
	return fmt.Sprintf("Transaction [%v] failed verification: %s", e.TxHash, e.Reason)
}
