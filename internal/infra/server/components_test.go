package server

import (
	"bytes"
	"context"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lloydmeta/timestamping/internal/config"
	"github.com/lloydmeta/timestamping/internal/domain/crypto"
)

func testConfig(t *testing.T) *config.App {
	seed := hex.EncodeToString(bytes.Repeat([]byte{5}, 32))
	pk, _, err := crypto.SecretKeyFromHex(seed)
	require.NoError(t, err)
	return &config.App{
		BindAddress:     "localhost:0",
		ShutdownTimeout: 5 * time.Second,
		Storage:         config.Storage{Driver: config.MemoryStorage},
		Mempool:         config.Mempool{Driver: config.MemoryMempool, Capacity: 10},
		Consensus:       config.Consensus{BlockInterval: 50 * time.Millisecond, MaxBlockTransactions: 10},
		TimeOracle: config.TimeOracle{
			Validators:    []string{pk.String()},
			ValidatorSeed: &seed,
			Schedule:      "@every 1s",
		},
	}
}

func get(c *Components, path string, user *config.BasicAuthUser) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	if user != nil {
		req.SetBasicAuth(user.Name, user.Password)
	}
	w := httptest.NewRecorder()
	c.engine.ServeHTTP(w, req)
	return w
}

func TestNewComponents_Memory(t *testing.T) {
	c, err := NewComponents(testConfig(t))
	require.NoError(t, err)
	defer func() { assert.NoError(t, c.Shutdown(context.Background())) }()

	assert.NotNil(t, c.feeder)
	resp := get(c, "/v1/timestamp/all", nil)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, "[]", resp.Body.String())

	assert.Equal(t, http.StatusNotFound, get(c, "/v1/blocks/latest", nil).Code)
	assert.Equal(t, http.StatusNotFound, get(c, "/nowhere", nil).Code)
	assert.Equal(t, http.StatusOK, get(c, "/swagger/doc.json", nil).Code)
}

func TestNewComponents_BasicAuth(t *testing.T) {
	conf := testConfig(t)
	user := config.BasicAuthUser{Name: "admin", Password: "secret"}
	conf.Auth = &config.Auth{BasicAuth: []config.BasicAuthUser{user}}
	c, err := NewComponents(conf)
	require.NoError(t, err)
	defer func() { assert.NoError(t, c.Shutdown(context.Background())) }()

	assert.Equal(t, http.StatusUnauthorized, get(c, "/v1/timestamp/all", nil).Code)
	assert.Equal(t, http.StatusOK, get(c, "/v1/timestamp/all", &user).Code)
}

func TestNewComponents_Sqlite(t *testing.T) {
	conf := testConfig(t)
	conf.Storage = config.Storage{Driver: config.SqliteStorage, Path: filepath.Join(t.TempDir(), "node.db")}
	c, err := NewComponents(conf)
	require.NoError(t, err)
	assert.NoError(t, c.Shutdown(context.Background()))

	// reopens the same file
	c, err = NewComponents(conf)
	require.NoError(t, err)
	assert.NoError(t, c.Shutdown(context.Background()))
}

func TestNewComponents_NoFeederWithoutSeed(t *testing.T) {
	conf := testConfig(t)
	conf.TimeOracle.ValidatorSeed = nil
	c, err := NewComponents(conf)
	require.NoError(t, err)
	defer func() { assert.NoError(t, c.Shutdown(context.Background())) }()
	assert.Nil(t, c.feeder)
}

func TestNewComponents_InvalidConfig(t *testing.T) {
	badSeed := "not hex"
	tests := []struct {
		name   string
		modify func(conf *config.App)
	}{
		{"unknown storage driver", func(conf *config.App) { conf.Storage.Driver = "postgres" }},
		{"unknown mempool driver", func(conf *config.App) { conf.Mempool.Driver = "kafka" }},
		{"redis mempool without redis config", func(conf *config.App) { conf.Mempool.Driver = config.RedisMempool }},
		{"bad validator key", func(conf *config.App) { conf.TimeOracle.Validators = []string{"abc"} }},
		{"bad validator seed", func(conf *config.App) { conf.TimeOracle.ValidatorSeed = &badSeed }},
		{"bad feed schedule", func(conf *config.App) { conf.TimeOracle.Schedule = "whenever" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := testConfig(t)
			tt.modify(conf)
			_, err := NewComponents(conf)
			assert.Error(t, err)
		})
	}
}

func TestArchiveIndex(t *testing.T) {
	assert.EqualValues(t, "timestamping_records", ArchiveIndex(nil))
	assert.EqualValues(t, "timestamping_records", ArchiveIndex(&config.Archive{}))
	assert.EqualValues(t, "mine", ArchiveIndex(&config.Archive{Index: "mine"}))
}
