// crypto holds the fixed-size hash, key and signature types shared by every service, along with
// thin wrappers over SHA-256 and Ed25519.
package crypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"hash"
)

const (
	HashSize      = sha256.Size
	PublicKeySize = ed25519.PublicKeySize
	SecretKeySize = ed25519.PrivateKeySize
	SeedSize      = ed25519.SeedSize
	SignatureSize = ed25519.SignatureSize
)

// Hash is a SHA-256 digest. It is used as the content key of timestamp records
// and as the identifier of transactions and blocks.
type Hash [HashSize]byte

type PublicKey [PublicKeySize]byte

type Signature [SignatureSize]byte

// SecretKey is an Ed25519 private key (seed followed by the public key)
type SecretKey []byte

// HashOf returns the SHA-256 digest of data
func HashOf(data []byte) Hash {
	return Hash(sha256.Sum256(data))
}

func HashFromHex(s string) (Hash, error) {
	var h Hash
	err := decodeFixed(s, h[:])
	return h, err
}

func PublicKeyFromHex(s string) (PublicKey, error) {
	var k PublicKey
	err := decodeFixed(s, k[:])
	return k, err
}

func SignatureFromHex(s string) (Signature, error) {
	var sig Signature
	err := decodeFixed(s, sig[:])
	return sig, err
}

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

func (h Hash) IsZero() bool {
	return h == Hash{}
}

func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h *Hash) UnmarshalText(text []byte) error {
	return decodeFixed(string(text), h[:])
}

func (k PublicKey) String() string {
	return hex.EncodeToString(k[:])
}

func (k PublicKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *PublicKey) UnmarshalText(text []byte) error {
	return decodeFixed(string(text), k[:])
}

func (s Signature) String() string {
	return hex.EncodeToString(s[:])
}

func (s Signature) IsZero() bool {
	return s == Signature{}
}

func (s Signature) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Signature) UnmarshalText(text []byte) error {
	return decodeFixed(string(text), s[:])
}

// GenerateKeyPair returns a fresh random Ed25519 key pair
func GenerateKeyPair() (PublicKey, SecretKey, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return PublicKey{}, nil, fmt.Errorf("key generation failed: %w", err)
	}
	var pk PublicKey
	copy(pk[:], pub)
	return pk, SecretKey(priv), nil
}

// KeyPairFromSeed deterministically derives a key pair from a 32 byte seed
func KeyPairFromSeed(seed []byte) (PublicKey, SecretKey, error) {
	if len(seed) != SeedSize {
		return PublicKey{}, nil, InvalidLength{Expected: SeedSize, Actual: len(seed)}
	}
	priv := ed25519.NewKeyFromSeed(seed)
	var pk PublicKey
	copy(pk[:], priv.Public().(ed25519.PublicKey))
	return pk, SecretKey(priv), nil
}

// SecretKeyFromHex accepts either a hex encoded seed or a full hex encoded secret key
func SecretKeyFromHex(s string) (PublicKey, SecretKey, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return PublicKey{}, nil, InvalidHex{Input: s, Underlying: err}
	}
	switch len(raw) {
	case SeedSize:
		return KeyPairFromSeed(raw)
	case SecretKeySize:
		return KeyPairFromSeed(raw[:SeedSize])
	default:
		return PublicKey{}, nil, InvalidLength{Expected: SeedSize, Actual: len(raw)}
	}
}

func (sk SecretKey) PublicKey() PublicKey {
	var pk PublicKey
	copy(pk[:], ed25519.PrivateKey(sk).Public().(ed25519.PublicKey))
	return pk
}

func (sk SecretKey) Seed() []byte {
	return ed25519.PrivateKey(sk).Seed()
}

func Sign(sk SecretKey, message []byte) Signature {
	var sig Signature
	copy(sig[:], ed25519.Sign(ed25519.PrivateKey(sk), message))
	return sig
}

// Verify reports whether sig is a valid signature of message by pk
func Verify(pk PublicKey, message []byte, sig Signature) bool {
	return ed25519.Verify(ed25519.PublicKey(pk[:]), message, sig[:])
}

// Hasher builds domain separated digests out of length prefixed parts.
//
// Format: SHA256(domain || 0x00 || len(p1) || p1 || len(p2) || p2 ...)
type Hasher struct {
	h hash.Hash
}

func NewHasher(domain string) *Hasher {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	return &Hasher{h: h}
}

func (h *Hasher) WriteBytes(b []byte) *Hasher {
	h.WriteUint64(uint64(len(b)))
	h.h.Write(b)
	return h
}

func (h *Hasher) WriteUint64(v uint64) *Hasher {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	h.h.Write(buf[:])
	return h
}

func (h *Hasher) Sum() Hash {
	var out Hash
	copy(out[:], h.h.Sum(nil))
	return out
}

func decodeFixed(s string, out []byte) error {
	if hex.DecodedLen(len(s)) != len(out) {
		return InvalidLength{Expected: len(out), Actual: hex.DecodedLen(len(s))}
	}
	if _, err := hex.Decode(out, []byte(s)); err != nil {
		return InvalidHex{Input: s, Underlying: err}
	}
	return nil
}

// InvalidHex is returned when a string is not valid hex
type InvalidHex struct {
	Input      string
	Underlying error
}

func (e InvalidHex) Error() string {
	return fmt.Sprintf("Invalid hex [%s]: %v", e.Input, e.Underlying)
}

func (e InvalidHex) Unwrap() error {
	return e.Underlying
}

// InvalidLength is returned when decoded bytes do not have the expected fixed length
type InvalidLength struct {
	Expected int
	Actual   int
}

func (e InvalidLength) Error() string {
	return fmt.Sprintf("Expected [%d] bytes but got [%d]", e.Expected, e.Actual)
}
