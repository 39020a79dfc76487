package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/gin-swagger/swaggerFiles"
	"go.elastic.co/apm/module/apmgin"

	_ "github.com/lloydmeta/timestamping/docs"
	explorerController "github.com/lloydmeta/timestamping/internal/api/controllers/explorer"
	timestampController "github.com/lloydmeta/timestamping/internal/api/controllers/timestamp"
	"github.com/lloydmeta/timestamping/internal/config"
	"github.com/lloydmeta/timestamping/internal/domain/blockchain"
	"github.com/lloydmeta/timestamping/internal/domain/crypto"
	"github.com/lloydmeta/timestamping/internal/domain/service"
	"github.com/lloydmeta/timestamping/internal/domain/submission"
	"github.com/lloydmeta/timestamping/internal/domain/timeoracle"
	"github.com/lloydmeta/timestamping/internal/domain/timestamp"
	"github.com/lloydmeta/timestamping/internal/domain/tracing"
	apmTracing "github.com/lloydmeta/timestamping/internal/infra/apm/tracing"
	"github.com/lloydmeta/timestamping/internal/infra/elasticsearch/archive"
	"github.com/lloydmeta/timestamping/internal/infra/elasticsearch/common"
	"github.com/lloydmeta/timestamping/internal/infra/mempool/memory"
	"github.com/lloydmeta/timestamping/internal/infra/mempool/redis"
	"github.com/lloydmeta/timestamping/internal/infra/node"
	"github.com/lloydmeta/timestamping/internal/infra/server/binding/validation"
	"github.com/lloydmeta/timestamping/internal/infra/server/routing"
	explorerRouting "github.com/lloydmeta/timestamping/internal/infra/server/routing/explorer"
	timestampRouting "github.com/lloydmeta/timestamping/internal/infra/server/routing/timestamps"
	"github.com/lloydmeta/timestamping/internal/infra/storage/sqlite"
	"github.com/lloydmeta/timestamping/internal/infra/storage/versioned"
	feederImpl "github.com/lloydmeta/timestamping/internal/infra/timeoracle"
)

// closablePool is a submission.Pool that holds on to resources
type closablePool interface {
	submission.Pool
	Close() error
}

// Components holds everything a running node is made of
type Components struct {
	NodeId uuid.UUID

	config *config.App
	engine *gin.Engine
	server *http.Server
	store  *versioned.Store
	pool   closablePool
	runner *node.Runner
	feeder *feederImpl.Feeder
}

// NewComponents wires up a node from config. Nothing is started until Run.
func NewComponents(config *config.App) (*Components, error) {
	ctx := context.Background()
	nodeId := uuid.New()
	log.Info().Str("node_id", nodeId.String()).Msg("Building node components")

	store, err := buildStore(ctx, config.Storage)
	if err != nil {
		return nil, err
	}
	pool, err := buildPool(ctx, config.Mempool)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	closeAll := func() {
		_ = pool.Close()
		_ = store.Close()
	}

	validators, err := parseValidators(config.TimeOracle.Validators)
	if err != nil {
		closeAll()
		return nil, err
	}
	timeReader := timeoracle.SchemaReader{}
	oracle := timeoracle.NewServiceDefinition(validators)
	services := []service.Definition{
		timestamp.NewServiceDefinition(timeReader),
		oracle,
	}

	hooks, err := buildHooks(ctx, config.Archive)
	if err != nil {
		closeAll()
		return nil, err
	}

	sequencer, err := node.NewSequencer(store, pool, services, hooks, config.Consensus.MaxBlockTransactions)
	if err != nil {
		closeAll()
		return nil, err
	}
	tracer := apmTracing.NewTracer()
	runner := node.NewRunner([]node.RecurringFunction{
		node.BlockCommitter(sequencer, config.Consensus.BlockInterval),
	}, tracer)

	feeder, err := buildFeeder(config.TimeOracle, oracle, validators, pool, tracer)
	if err != nil {
		closeAll()
		return nil, err
	}

	validation.SetUpValidators()
	engine := buildEngine(config, timestamp.NewService(store, pool, timeReader), blockchain.NewExplorer(store))

	return &Components{
		NodeId: nodeId,
		config: config,
		engine: engine,
		server: &http.Server{
			Addr:    config.BindAddress,
			Handler: engine,
		},
		store:  store,
		pool:   pool,
		runner: runner,
		feeder: feeder,
	}, nil
}

// Run starts the node and serves requests until SIGINT or SIGTERM
func (c *Components) Run() {
	c.runner.Start()
	if c.feeder != nil {
		c.feeder.Start()
	}

	go func() {
		log.Info().
			Str("node_id", c.NodeId.String()).
			Str("bind_address", c.config.BindAddress).
			Msg("Starting server")
		if err := c.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signals to gracefully shut the server down with a configurable timeout
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server ...")

	ctx, cancel := context.WithTimeout(context.Background(), c.config.ShutdownTimeout)
	defer cancel()
	if err := c.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exiting")
}

// Shutdown stops accepting requests first, then stops producing blocks, then releases storage
func (c *Components) Shutdown(ctx context.Context) error {
	serverErr := c.server.Shutdown(ctx)
	if c.feeder != nil {
		c.feeder.Stop()
	}
	c.runner.Stop()
	poolErr := c.pool.Close()
	storeErr := c.store.Close()
	for _, err := range []error{serverErr, poolErr, storeErr} {
		if err != nil {
			return err
		}
	}
	return nil
}

func buildEngine(config *config.App, timestamps timestamp.Service, chain blockchain.Explorer) *gin.Engine {
	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	engine.Use(
		logger.SetLogger(logger.Config{
			Logger: &log.Logger,
			UTC:    true,
		}),
		gin.Recovery(),
		gzip.Gzip(gzip.DefaultCompression),
		apmgin.Middleware(engine),
	)
	engine.NoRoute(routing.NoRoute)
	engine.NoMethod(routing.NoMethod)
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	topLevelGroup := routing.NewTopLevelRoutesGroup(config.Auth, engine)
	timestampsHandler := timestampRouting.RoutesHandler{
		Controller: timestampController.New(timestamps),
	}
	timestampsHandler.RegisterRoutes(topLevelGroup)
	explorerHandler := explorerRouting.RoutesHandler{
		Controller: explorerController.New(chain),
	}
	explorerHandler.RegisterRoutes(topLevelGroup)
	return engine
}

func buildStore(ctx context.Context, conf config.Storage) (*versioned.Store, error) {
	switch conf.Driver {
	case config.MemoryStorage, "":
		log.Warn().Msg("Using in-memory storage; state will not survive restarts")
		return versioned.New(), nil
	case config.SqliteStorage:
		backend, err := sqlite.Open(conf.Path)
		if err != nil {
			return nil, err
		}
		store, err := versioned.Open(ctx, backend)
		if err != nil {
			_ = backend.Close()
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage driver [%s]", conf.Driver)
	}
}

func buildPool(ctx context.Context, conf config.Mempool) (closablePool, error) {
	switch conf.Driver {
	case config.MemoryMempool, "":
		return memory.NewPool(conf.Capacity), nil
	case config.RedisMempool:
		if conf.Redis == nil {
			return nil, fmt.Errorf("mempool driver [%s] needs a redis section", conf.Driver)
		}
		client := redis.NewClient(*conf.Redis)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return redis.NewPool(client, conf.Redis.KeyPrefix, conf.Capacity), nil
	default:
		return nil, fmt.Errorf("unknown mempool driver [%s]", conf.Driver)
	}
}

// buildHooks returns the archive hook when configured, after checking its index template is installed
func buildHooks(ctx context.Context, conf *config.Archive) ([]blockchain.CommitHook, error) {
	if conf == nil {
		return nil, nil
	}
	esClient, err := common.NewClient(conf.Elasticsearch)
	if err != nil {
		return nil, err
	}
	index := ArchiveIndex(conf)
	if err := NewSetup(esClient, index).Check(ctx); err != nil {
		return nil, err
	}
	return []blockchain.CommitHook{archive.NewArchiver(esClient, index)}, nil
}

// ArchiveIndex is the configured archive index or the default
func ArchiveIndex(conf *config.Archive) common.IndexName {
	if conf == nil || conf.Index == "" {
		return archive.DefaultIndex
	}
	return common.IndexName(conf.Index)
}

func buildFeeder(conf config.TimeOracle, oracle *timeoracle.ServiceDefinition, validators []crypto.PublicKey, channel submission.Channel, tracer tracing.Tracer) (*feederImpl.Feeder, error) {
	if conf.ValidatorSeed == nil {
		log.Info().Msg("No validator seed configured; this node will not feed time")
		return nil, nil
	}
	pk, sk, err := crypto.SecretKeyFromHex(*conf.ValidatorSeed)
	if err != nil {
		return nil, fmt.Errorf("invalid validator seed: %w", err)
	}
	known := false
	for _, v := range validators {
		if v == pk {
			known = true
			break
		}
	}
	if !known {
		log.Warn().
			Str("validator", pk.String()).
			Msg("This node's validator key is not in the configured validators; its time updates will be dropped")
	}
	return feederImpl.NewFeeder(conf.Schedule, oracle, channel, sk, tracer)
}

func parseValidators(hexKeys []string) ([]crypto.PublicKey, error) {
	validators := make([]crypto.PublicKey, 0, len(hexKeys))
	for _, h := range hexKeys {
		pk, err := crypto.PublicKeyFromHex(h)
		if err != nil {
			return nil, fmt.Errorf("invalid validator key [%s]: %w", h, err)
		}
		validators = append(validators, pk)
	}
	if len(validators) == 0 {
		log.Warn().Msg("No time oracle validators configured; agreed time will never advance")
	}
	return validators, nil
}
