package timestamp

import (
	"encoding/hex"
	"fmt"

	"github.com/lloydmeta/timestamping/internal/domain/crypto"
)

// InvalidKeyEncoding is returned when a key is not the hex encoding of a 32 byte hash
type InvalidKeyEncoding struct {
	Input      string
	Underlying error
}

func (e InvalidKeyEncoding) Error() string {
	return fmt.Sprintf("Invalid key [%s]: %v", e.Input, e.Underlying)
}

func (e InvalidKeyEncoding) Unwrap() error {
	return e.Underlying
}

type EmptyRequestBody struct{}

func (e EmptyRequestBody) Error() string {
	return "Empty request body"
}

type MalformedRequest struct {
	Underlying error
}

func (e MalformedRequest) Error() string {
	return fmt.Sprintf("Malformed request: %v", e.Underlying)
}

func (e MalformedRequest) Unwrap() error {
	return e.Underlying
}

type NotFound struct {
	Key crypto.Hash
}

func (e NotFound) Error() string {
	return "Timestamp not found"
}

// InvalidPersistedData means a stored record could not be decoded
type InvalidPersistedData struct {
	Key        []byte
	Underlying error
}

func (e InvalidPersistedData) Error() string {
	return fmt.Sprintf("Persisted record under [%s] could not be decoded: %v", hex.EncodeToString(e.Key), e.Underlying)
}

func (e InvalidPersistedData) Unwrap() error {
	return e.Underlying
}
