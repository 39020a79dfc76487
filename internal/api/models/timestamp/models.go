// timestamp holds the API models for timestamp records and for submitting transactions.
// Hashes, keys and signatures are lower case hex on the wire.
package timestamp

import (
	domainTimestamp "github.com/lloydmeta/timestamping/internal/domain/timestamp"
)

// Timestamp is a stored record
type Timestamp struct {
	Key      string `json:"key" binding:"required,hexHash" example:"4fbf0d12ae9e3d1a8d4b5b6a1f8c2c38b41d0d1e4b4c8e3d6f7a9b0c1d2e3f40"`
	FileHash string `json:"file_hash" binding:"required,hexHash" example:"4fbf0d12ae9e3d1a8d4b5b6a1f8c2c38b41d0d1e4b4c8e3d6f7a9b0c1d2e3f40"`
	// Agreed time in milliseconds since the Unix epoch
	Time   uint64  `json:"time" binding:"required" example:"1582000000000"`
	Signer *string `json:"signer,omitempty" binding:"omitempty,hexPublicKey"`
}

// TxAccepted is returned when a transaction has been handed to the node for ordering.
// It says nothing about whether the transaction will be committed.
type TxAccepted struct {
	TxHash string `json:"tx_hash" binding:"required,hexHash"`
}

// CreateTimestampBody is the body of a CreateTimestamp transaction
type CreateTimestampBody struct {
	PubKey   string `json:"pub_key" binding:"required,hexPublicKey"`
	FileHash string `json:"file_hash" binding:"required,hexHash"`
}

// SignedTransaction documents the shape of the payload accepted by the submit route.
//
// The signature covers the canonical JSON (RFC 8785) of every other field.
type SignedTransaction struct {
	ProtocolVersion uint8               `json:"protocol_version" example:"0"`
	ServiceID       uint16              `json:"service_id" example:"1"`
	MessageID       uint16              `json:"message_id" example:"1"`
	Body            CreateTimestampBody `json:"body" binding:"required"`
	Signature       string              `json:"signature" binding:"required,hexSignature"`
}

func FromDomainRecord(record *domainTimestamp.Record) Timestamp {
	var signer *string
	if record.Signer != nil {
		s := record.Signer.String()
		signer = &s
	}
	return Timestamp{
		Key:      record.Key.String(),
		FileHash: record.FileHash.String(),
		Time:     record.Time,
		Signer:   signer,
	}
}
