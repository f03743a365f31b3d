package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "RECORDS"

// Config holds all service configuration.
type Config struct {
	HTTP  HTTPConfig  `mapstructure:"http"`
	GRPC  GRPCConfig  `mapstructure:"grpc"`
	Auth  AuthConfig  `mapstructure:"auth"`
	Log   LogConfig   `mapstructure:"log"`
	Store StoreConfig `mapstructure:"store"`
}

type HTTPConfig struct {
	Addr           string   `mapstructure:"addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// GRPCConfig configures the gRPC listener. An empty Addr disables it.
type GRPCConfig struct {
	Addr string `mapstructure:"addr"`
}

type AuthConfig struct {
	Secret   string        `mapstructure:"secret"`
	TokenTTL time.Duration `mapstructure:"token_ttl"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// StoreConfig selects and configures the record store backend.
type StoreConfig struct {
	Driver     string        `mapstructure:"driver"`
	Collection string        `mapstructure:"collection"`
	Timeout    time.Duration `mapstructure:"timeout"`

	Firestore FirestoreConfig `mapstructure:"firestore"`
	Mongo     MongoConfig     `mapstructure:"mongo"`
	Redis     RedisConfig     `mapstructure:"redis"`
	MySQL     SQLConfig       `mapstructure:"mysql"`
	Postgres  SQLConfig       `mapstructure:"postgres"`
	Badger    BadgerConfig    `mapstructure:"badger"`
}

type FirestoreConfig struct {
	ProjectID       string `mapstructure:"project_id"`
	CredentialsFile string `mapstructure:"credentials_file"`
}

type MongoConfig struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type SQLConfig struct {
	DSN string `mapstructure:"dsn"`
}

// BadgerConfig points at an on-disk directory; empty runs in memory.
type BadgerConfig struct {
	Path string `mapstructure:"path"`
}

const (
	DriverFirestore = "firestore"
	DriverMongo     = "mongo"
	DriverRedis     = "redis"
	DriverMySQL     = "mysql"
	DriverPostgres  = "postgres"
	DriverBadger    = "badger"
)

var drivers = map[string]bool{
	DriverFirestore: true,
	DriverMongo:     true,
	DriverRedis:     true,
	DriverMySQL:     true,
	DriverPostgres:  true,
	DriverBadger:    true,
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":5000")
	v.SetDefault("http.allowed_origins", []string{"*"})
	v.SetDefault("grpc.addr", ":50051")
	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.token_ttl", time.Hour)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)

	v.SetDefault("store.driver", DriverFirestore)
	v.SetDefault("store.collection", "uretim_kayitlari")
	v.SetDefault("store.timeout", 5*time.Second)
	v.SetDefault("store.firestore.project_id", "")
	v.SetDefault("store.firestore.credentials_file", "serviceAccountKey.json")
	v.SetDefault("store.mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("store.mongo.database", "production")
	v.SetDefault("store.redis.addr", "localhost:6379")
	v.SetDefault("store.redis.password", "")
	v.SetDefault("store.redis.db", 0)
	v.SetDefault("store.mysql.dsn", "root:root@tcp(localhost:3306)/production?parseTime=true")
	v.SetDefault("store.postgres.dsn", "host=localhost user=postgres password=postgres dbname=production sslmode=disable")
	v.SetDefault("store.badger.path", "")
}

// Load reads configuration from defaults, an optional file and RECORDS_* environment variables.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	if c.Auth.Secret == "" {
		errs = append(errs, errors.New("auth.secret is required"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("auth.token_ttl must be positive, got %s", c.Auth.TokenTTL))
	}
	if c.HTTP.Addr == "" {
		errs = append(errs, errors.New("http.addr is required"))
	}
	if !drivers[c.Store.Driver] {
		errs = append(errs, fmt.Errorf("unknown store.driver %q", c.Store.Driver))
	}
	if c.Store.Collection == "" {
		errs = append(errs, errors.New("store.collection is required"))
	}

	return errors.Join(errs...)
}
