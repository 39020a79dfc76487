package timestamp

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lloydmeta/timestamping/internal/domain/crypto"
	"github.com/lloydmeta/timestamping/internal/domain/storage"
	"github.com/lloydmeta/timestamping/internal/domain/timeoracle"
	"github.com/lloydmeta/timestamping/internal/domain/transaction"
)

func mustCreateTx(t *testing.T, fileHash crypto.Hash, sk crypto.SecretKey, reader timeoracle.Reader) *TxCreateTimestamp {
	m, err := NewSignedCreateTimestamp(fileHash, sk)
	require.NoError(t, err)
	tx, err := NewTxCreateTimestamp(m, reader)
	require.NoError(t, err)
	return tx
}

func Test_NewTxCreateTimestamp(t *testing.T) {
	_, sk, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	valid, err := NewSignedCreateTimestamp(MockFileHash, sk)
	require.NoError(t, err)

	wrongService := *valid
	wrongService.ServiceID = timeoracle.ServiceID

	badBody := *valid
	badBody.Body = json.RawMessage(`{"pub_key":"abc","file_hash":"def"}`)

	tests := []struct {
		name    string
		message *transaction.Message
		wantErr error
	}{
		{"valid", valid, nil},
		{"wrong service", &wrongService, transaction.UnknownMessageType{}},
		{"body with bad hex", &badBody, transaction.MalformedMessage{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, err := NewTxCreateTimestamp(tt.message, timeoracle.SchemaReader{})
			if tt.wantErr != nil {
				assert.IsType(t, tt.wantErr, err)
			} else {
				require.NoError(t, err)
				assert.EqualValues(t, MockFileHash, tx.Body.FileHash)
				assert.EqualValues(t, sk.PublicKey(), tx.Body.PubKey)
			}
		})
	}
}

func Test_TxCreateTimestamp_Verify(t *testing.T) {
	pk, sk, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	_, otherSk, err := crypto.GenerateKeyPair()
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, mustCreateTx(t, MockFileHash, sk, timeoracle.SchemaReader{}).Verify())
	})

	t.Run("body claims a different signer", func(t *testing.T) {
		body, err := json.Marshal(CreateTimestampBody{PubKey: pk, FileHash: MockFileHash})
		require.NoError(t, err)
		m := &transaction.Message{
			ServiceID: ServiceID,
			MessageID: TxCreateTimestampID,
			Body:      body,
		}
		signedBytes, err := m.SignedBytes()
		require.NoError(t, err)
		m.Signature = crypto.Sign(otherSk, signedBytes)

		tx, err := NewTxCreateTimestamp(m, timeoracle.SchemaReader{})
		require.NoError(t, err)
		assert.IsType(t, transaction.VerificationFailed{}, tx.Verify())
	})

	t.Run("zero file hash", func(t *testing.T) {
		assert.IsType(t, transaction.VerificationFailed{}, mustCreateTx(t, crypto.Hash{}, sk, timeoracle.SchemaReader{}).Verify())
	})
}

func Test_TxCreateTimestamp_Execute(t *testing.T) {
	_, sk, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	_, otherSk, err := crypto.GenerateKeyPair()
	require.NoError(t, err)

	t.Run("no agreed time is a no-op", func(t *testing.T) {
		fork := storage.NewOverlay(storage.Empty)
		mustCreateTx(t, MockFileHash, sk, timeoracle.SchemaReader{}).Execute(fork)
		assert.True(t, fork.Patch().IsEmpty())
	})

	t.Run("writes the oracle time", func(t *testing.T) {
		fork := storage.NewOverlay(storage.Empty)
		timeoracle.NewMutableSchema(fork).SetTime(1000)
		mustCreateTx(t, MockFileHash, sk, timeoracle.SchemaReader{}).Execute(fork)

		record, err := NewSchema(fork).Timestamp(MockFileHash)
		require.NoError(t, err)
		require.NotNil(t, record)
		assert.EqualValues(t, MockFileHash, record.Key)
		assert.EqualValues(t, MockFileHash, record.FileHash)
		assert.EqualValues(t, 1000, record.Time)
		require.NotNil(t, record.Signer)
		assert.EqualValues(t, sk.PublicKey(), *record.Signer)
	})

	t.Run("first writer wins", func(t *testing.T) {
		fork := storage.NewOverlay(storage.Empty)
		timeoracle.NewMutableSchema(fork).SetTime(1000)
		mustCreateTx(t, MockFileHash, sk, timeoracle.SchemaReader{}).Execute(fork)
		timeoracle.NewMutableSchema(fork).SetTime(2000)
		mustCreateTx(t, MockFileHash, otherSk, timeoracle.SchemaReader{}).Execute(fork)

		record, err := NewSchema(fork).Timestamp(MockFileHash)
		require.NoError(t, err)
		assert.EqualValues(t, 1000, record.Time)
		assert.EqualValues(t, sk.PublicKey(), *record.Signer)
		assert.EqualValues(t, 1, NewSchema(fork).Timestamps().Len())
	})

	t.Run("uses the reader it was given", func(t *testing.T) {
		fork := storage.NewOverlay(storage.Empty)
		timeoracle.NewMutableSchema(fork).SetTime(1000)
		mustCreateTx(t, MockFileHash, sk, timeoracle.FixedReader{Millis: 77, Present: true}).Execute(fork)

		record, err := NewSchema(fork).Timestamp(MockFileHash)
		require.NoError(t, err)
		assert.EqualValues(t, 77, record.Time)
	})

	t.Run("times beyond float precision are kept exactly", func(t *testing.T) {
		var big uint64 = 1<<53 + 1
		fork := storage.NewOverlay(storage.Empty)
		mustCreateTx(t, MockFileHash, sk, timeoracle.FixedReader{Millis: big, Present: true}).Execute(fork)

		record, err := NewSchema(fork).Timestamp(MockFileHash)
		require.NoError(t, err)
		require.NotNil(t, record)
		assert.EqualValues(t, big, record.Time)
	})
}

func Test_Schema(t *testing.T) {
	fork := storage.NewOverlay(storage.Empty)
	schema := NewMutableSchema(fork)

	absent, err := schema.Timestamp(MockFileHash)
	assert.NoError(t, err)
	assert.Nil(t, absent)

	all, err := schema.All()
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)

	second := crypto.Hash{0xff}
	first := crypto.Hash{0x01}
	require.NoError(t, schema.PutTimestamp(Record{Key: second, FileHash: second, Time: 2}))
	require.NoError(t, schema.PutTimestamp(Record{Key: first, FileHash: first, Time: 1}))

	all, err = schema.All()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.EqualValues(t, first, all[0].Key)
	assert.EqualValues(t, second, all[1].Key)

	fork.Put(TimestampsIndex, MockFileHash[:], []byte("{nope"))
	_, err = schema.Timestamp(MockFileHash)
	assert.IsType(t, InvalidPersistedData{}, err)
	_, err = schema.All()
	assert.IsType(t, InvalidPersistedData{}, err)
}

func Test_EncodeRecord(t *testing.T) {
	encoded, err := EncodeRecord(Record{Key: crypto.Hash{0xab}, FileHash: crypto.Hash{0xab}, Time: 5})
	require.NoError(t, err)
	hexHash := crypto.Hash{0xab}.String()
	assert.EqualValues(t, `{"file_hash":"`+hexHash+`","key":"`+hexHash+`","time":"5"}`, string(encoded))
}
