// timestamp is the proof-of-existence service: it associates a content hash with the first
// agreed time at which a CreateTimestamp transaction for it was executed.
package timestamp

import (
	"github.com/lloydmeta/timestamping/internal/domain/crypto"
)

const (
	ServiceID   uint16 = 1
	ServiceName        = "timestamping"

	TxCreateTimestampID uint16 = 1

	// TimestampsIndex is the table of records, keyed by content hash
	TimestampsIndex = "timestamps"
)

// Record is a persisted proof of existence.
//
// Key is always equal to FileHash; records are content addressed. Signer is whoever submitted
// the first successful CreateTimestamp for the content and is informational only. Time is
// persisted as a decimal string so that it survives canonicalisation exactly.
type Record struct {
	Key      crypto.Hash       `json:"key"`
	FileHash crypto.Hash       `json:"file_hash"`
	Time     uint64            `json:"time,string"`
	Signer   *crypto.PublicKey `json:"signer,omitempty"`
}

// CreateTimestampBody is the body of a CreateTimestamp transaction
type CreateTimestampBody struct {
	PubKey   crypto.PublicKey `json:"pub_key"`
	FileHash crypto.Hash      `json:"file_hash"`
}

// KeyFor derives the record key for some content
func KeyFor(fileHash crypto.Hash) crypto.Hash {
	return fileHash
}
