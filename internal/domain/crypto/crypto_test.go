package crypto

import (
	"encoding/hex"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashFromHex(t *testing.T) {
	valid := HashOf([]byte("hello")).String()
	tests := []struct {
		name    string
		input   string
		wantErr interface{}
	}{
		{"valid lowercase", valid, nil},
		{"valid uppercase", strings.ToUpper(valid), nil},
		{"not hex", strings.Repeat("zz", HashSize), InvalidHex{}},
		{"too short", "abcd", InvalidLength{}},
		{"odd length", valid[:63], InvalidLength{}},
		{"empty", "", InvalidLength{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := HashFromHex(tt.input)
			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.EqualValues(t, valid, h.String())
			} else {
				assert.IsType(t, tt.wantErr, err)
			}
		})
	}
}

func TestHash_JSON(t *testing.T) {
	h := HashOf([]byte("content"))
	asBytes, err := json.Marshal(struct {
		H Hash `json:"h"`
	}{h})
	require.NoError(t, err)
	assert.EqualValues(t, `{"h":"`+h.String()+`"}`, string(asBytes))

	var decoded struct {
		H Hash `json:"h"`
	}
	require.NoError(t, json.Unmarshal(asBytes, &decoded))
	assert.EqualValues(t, h, decoded.H)

	assert.Error(t, json.Unmarshal([]byte(`{"h":"nope"}`), &decoded))
}

func TestSignAndVerify(t *testing.T) {
	pk, sk, err := GenerateKeyPair()
	require.NoError(t, err)
	assert.EqualValues(t, pk, sk.PublicKey())

	msg := []byte("message")
	sig := Sign(sk, msg)
	assert.True(t, Verify(pk, msg, sig))
	assert.False(t, Verify(pk, []byte("other"), sig))

	otherPk, _, err := GenerateKeyPair()
	require.NoError(t, err)
	assert.False(t, Verify(otherPk, msg, sig))
}

func TestKeyPairFromSeed_Deterministic(t *testing.T) {
	seed := make([]byte, SeedSize)
	seed[0] = 7
	pk1, sk1, err := KeyPairFromSeed(seed)
	require.NoError(t, err)
	pk2, _, err := KeyPairFromSeed(seed)
	require.NoError(t, err)
	assert.EqualValues(t, pk1, pk2)
	assert.EqualValues(t, seed, sk1.Seed())

	_, _, err = KeyPairFromSeed([]byte{1, 2, 3})
	assert.IsType(t, InvalidLength{}, err)
}

func TestSecretKeyFromHex(t *testing.T) {
	_, sk, err := GenerateKeyPair()
	require.NoError(t, err)
	fromSeed, _, err := SecretKeyFromHex(Hash{}.String())
	require.NoError(t, err)
	assert.Len(t, fromSeed.String(), PublicKeySize*2)

	pk, _, err := SecretKeyFromHex(strings.Repeat("00", SecretKeySize))
	require.NoError(t, err)
	assert.EqualValues(t, fromSeed, pk)

	_, full, err := SecretKeyFromHex(hex.EncodeToString(sk))
	require.NoError(t, err)
	assert.EqualValues(t, sk.PublicKey(), full.PublicKey())

	_, _, err = SecretKeyFromHex("xyz")
	assert.IsType(t, InvalidHex{}, err)
}

func TestHasher_DomainSeparated(t *testing.T) {
	a := NewHasher("a").WriteBytes([]byte("x")).Sum()
	b := NewHasher("b").WriteBytes([]byte("x")).Sum()
	assert.NotEqual(t, a, b)
	// length prefixes keep part boundaries unambiguous
	c := NewHasher("a").WriteBytes([]byte("ab")).WriteBytes([]byte("c")).Sum()
	d := NewHasher("a").WriteBytes([]byte("a")).WriteBytes([]byte("bc")).Sum()
	assert.NotEqual(t, c, d)
}
