package transaction

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/gowebpki/jcs"

	"github.com/lloydmeta/timestamping/internal/domain/crypto"
)

// ProtocolVersion is the only envelope version this node accepts
const ProtocolVersion uint8 = 0

// Message is the signed envelope every transaction travels in.
//
// The signature covers the canonical (RFC 8785) JSON of every field except the signature
// itself. The transaction hash is the SHA-256 of the canonical JSON of the whole envelope.
type Message struct {
	ProtocolVersion uint8            `json:"protocol_version"`
	ServiceID       uint16           `json:"service_id"`
	MessageID       uint16           `json:"message_id"`
	Body            json.RawMessage  `json:"body"`
	Signature       crypto.Signature `json:"signature"`
}

type unsignedMessage struct {
	ProtocolVersion uint8           `json:"protocol_version"`
	ServiceID       uint16          `json:"service_id"`
	MessageID       uint16          `json:"message_id"`
	Body            json.RawMessage `json:"body"`
}

// ParseMessage decodes a serialised envelope
func ParseMessage(data []byte) (*Message, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, EmptyMessage{}
	}
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, MalformedMessage{Underlying: err}
	}
	if len(m.Body) == 0 || bytes.Equal(bytes.TrimSpace(m.Body), []byte("null")) {
		return nil, MalformedMessage{Underlying: errors.New("missing body")}
	}
	return &m, nil
}

// NewSignedMessage serialises body and signs the resulting envelope with sk
func NewSignedMessage(serviceID uint16, messageID uint16, body interface{}, sk crypto.SecretKey) (*Message, error) {
	rawBody, err := json.Marshal(body)
	if err != nil {
		return nil, MalformedMessage{Underlying: err}
	}
	m := Message{
		ProtocolVersion: ProtocolVersion,
		ServiceID:       serviceID,
		MessageID:       messageID,
		Body:            rawBody,
	}
	signedBytes, err := m.SignedBytes()
	if err != nil {
		return nil, err
	}
	m.Signature = crypto.Sign(sk, signedBytes)
	return &m, nil
}

// SignedBytes returns the bytes covered by the signature
func (m *Message) SignedBytes() ([]byte, error) {
	return canonical(unsignedMessage{
		ProtocolVersion: m.ProtocolVersion,
		ServiceID:       m.ServiceID,
		MessageID:       m.MessageID,
		Body:            m.Body,
	})
}

// CanonicalBytes returns the canonical serialisation of the full envelope
func (m *Message) CanonicalBytes() ([]byte, error) {
	return canonical(m)
}

func (m *Message) Hash() (crypto.Hash, error) {
	b, err := m.CanonicalBytes()
	if err != nil {
		return crypto.Hash{}, err
	}
	return crypto.HashOf(b), nil
}

func canonical(v interface{}) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, MalformedMessage{Underlying: err}
	}
	out, err := jcs.Transform(raw)
	if err != nil {
		return nil, MalformedMessage{Underlying: err}
	}
	return out, nil
}
