package config

import "time"

// TopLevel namespaces the config file
type TopLevel struct {
	Timestamping Timestamping `json:"timestamping" mapstructure:"timestamping"`
}

type Timestamping struct {
	Server App `json:"server" mapstructure:"server"`
}

type App struct {
	BindAddress     string        `json:"bind_address" mapstructure:"bind_address"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" mapstructure:"shutdown_timeout"`
	Storage         Storage       `json:"storage" mapstructure:"storage"`
	Mempool         Mempool       `json:"mempool" mapstructure:"mempool"`
	Consensus       Consensus     `json:"consensus" mapstructure:"consensus"`
	TimeOracle      TimeOracle    `json:"time_oracle" mapstructure:"time_oracle"`
	Archive         *Archive      `json:"archive,omitempty" mapstructure:"archive"`
	ApmClient       *ApmClient    `json:"apm,omitempty" mapstructure:"apm"`
	Auth            *Auth         `json:"auth,omitempty" mapstructure:"auth"`
	Logging         *Logging      `json:"logging,omitempty" mapstructure:"logging"`
}

type Logging struct {
	Json  *bool   `json:"json,omitempty" mapstructure:"json"`
	File  *string `json:"file,omitempty" mapstructure:"file"`
	Level *string `json:"level,omitempty" mapstructure:"level"`
}

type StorageDriver string

const (
	MemoryStorage StorageDriver = "memory"
	SqliteStorage StorageDriver = "sqlite"
)

type Storage struct {
	Driver StorageDriver `json:"driver" mapstructure:"driver"`
	// Path of the SQLite database file
	Path string `json:"path" mapstructure:"path"`
}

type MempoolDriver string

const (
	MemoryMempool MempoolDriver = "memory"
	RedisMempool  MempoolDriver = "redis"
)

type Mempool struct {
	Driver   MempoolDriver `json:"driver" mapstructure:"driver"`
	Capacity int           `json:"capacity" mapstructure:"capacity"`
	Redis    *Redis        `json:"redis,omitempty" mapstructure:"redis"`
}

type Redis struct {
	Address   string `json:"address" mapstructure:"address"`
	Password  string `json:"password" mapstructure:"password"`
	DB        int    `json:"db" mapstructure:"db"`
	KeyPrefix string `json:"key_prefix" mapstructure:"key_prefix"`
}

type Consensus struct {
	BlockInterval        time.Duration `json:"block_interval" mapstructure:"block_interval"`
	MaxBlockTransactions int           `json:"max_block_transactions" mapstructure:"max_block_transactions"`
}

type TimeOracle struct {
	// Hex encoded public keys allowed to advance the agreed time
	Validators []string `json:"validators" mapstructure:"validators"`
	// Hex encoded seed of this node's validator key; when unset the node does not feed time
	ValidatorSeed *string `json:"validator_seed,omitempty" mapstructure:"validator_seed"`
	// Cron spec for feeding time, e.g. "@every 1s"
	Schedule string `json:"schedule" mapstructure:"schedule"`
}

type Archive struct {
	Elasticsearch ElasticsearchClient `json:"elasticsearch" mapstructure:"elasticsearch"`
	Index         string              `json:"index" mapstructure:"index"`
}

type ElasticsearchClient struct {
	Addresses []string       `json:"addresses" mapstructure:"addresses"`
	User      *BasicAuthUser `json:"user,omitempty" mapstructure:"user"`
}

type ApmClient struct {
	Address     *string `json:"address,omitempty" mapstructure:"address"`
	SecretToken *string `json:"secret_token,omitempty" mapstructure:"secret_token"`
}

type Auth struct {
	BasicAuth []BasicAuthUser `json:"basic_auth" mapstructure:"basic_auth"`
}

type BasicAuthUser struct {
	Name     string `json:"name" mapstructure:"name"`
	Password string `json:"password" mapstructure:"password"`
}
