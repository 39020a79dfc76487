package transaction

import "sync"

// Decoder turns an envelope into a typed Transaction. It should only fail when the body does
// not have the expected shape.
type Decoder func(m *Message) (Transaction, error)

type messageType struct {
	serviceID uint16
	messageID uint16
}

// Registry maps (service id, message id) pairs to Decoders
type Registry struct {
	mu       sync.RWMutex
	decoders map[messageType]Decoder
}

func NewRegistry() *Registry {
	return &Registry{decoders: make(map[messageType]Decoder)}
}

func (r *Registry) Register(serviceID uint16, messageID uint16, decoder Decoder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := messageType{serviceID: serviceID, messageID: messageID}
	if _, exists := r.decoders[t]; exists {
		return DuplicateMessageType{ServiceID: serviceID, MessageID: messageID}
	}
	r.decoders[t] = decoder
	return nil
}

func (r *Registry) Decode(m *Message) (Transaction, error) {
	r.mu.RLock()
	decoder, ok := r.decoders[messageType{serviceID: m.ServiceID, messageID: m.MessageID}]
	r.mu.RUnlock()
	if !ok {
		return nil, UnknownMessageType{ServiceID: m.ServiceID, MessageID: m.MessageID}
	}
	return decoder(m)
}
