// Package config provides configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigDir is the directory name for lore configuration.
	DefaultConfigDir = ".lore"
	// DefaultConfigFile is the default config file name.
	DefaultConfigFile = "config.yaml"
)

// Store backends.
const (
	StoreSQLite = "sqlite"
	StoreMongo  = "mongo"
	StoreQdrant = "qdrant"
)

// Cache backends.
const (
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config holds static infrastructure configuration (read-only after load).
type Config struct {
	Server    ServerConfig    `yaml:"server,omitempty"`
	Store     StoreConfig     `yaml:"store,omitempty"`
	Cache     CacheConfig     `yaml:"cache,omitempty"`
	Library   LibraryConfig   `yaml:"library,omitempty"`
	Log       LogConfig       `yaml:"log,omitempty"`
	Telemetry TelemetryConfig `yaml:"telemetry,omitempty"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr            string        `yaml:"addr,omitempty" env:"LORE_SERVER_ADDR"`
	Mode            string        `yaml:"mode,omitempty" env:"LORE_SERVER_MODE"` // gin mode: debug, release, test
	CORSOrigins     []string      `yaml:"cors_origins,omitempty" env:"LORE_CORS_ORIGINS" envSeparator:","`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout,omitempty" env:"LORE_SHUTDOWN_TIMEOUT"`
}

// StoreConfig selects and configures the lore document store.
type StoreConfig struct {
	Backend string       `yaml:"backend,omitempty" env:"LORE_STORE_BACKEND"`
	SQLite  SQLiteConfig `yaml:"sqlite,omitempty"`
	Mongo   MongoConfig  `yaml:"mongo,omitempty"`
	Qdrant  QdrantConfig `yaml:"qdrant,omitempty"`
}

// SQLiteConfig holds configuration for the SQLite lore store.
type SQLiteConfig struct {
	// Path is the file path to the SQLite database, relative to the base path
	// when not absolute.
	Path string `yaml:"path,omitempty" env:"LORE_SQLITE_PATH"`
}

// MongoConfig holds configuration for the MongoDB lore store.
type MongoConfig struct {
	URI        string        `yaml:"uri,omitempty" env:"MONGO_URI"`
	Database   string        `yaml:"database,omitempty" env:"LORE_MONGO_DATABASE"`
	Collection string        `yaml:"collection,omitempty" env:"LORE_MONGO_COLLECTION"`
	Timeout    time.Duration `yaml:"timeout,omitempty" env:"LORE_MONGO_TIMEOUT"`
}

// QdrantConfig holds configuration for the Qdrant lore store.
type QdrantConfig struct {
	Host       string `yaml:"host,omitempty" env:"LORE_QDRANT_HOST"`
	Port       int    `yaml:"port,omitempty" env:"LORE_QDRANT_PORT"`
	Collection string `yaml:"collection,omitempty" env:"LORE_QDRANT_COLLECTION"`
	APIKey     string `yaml:"api_key,omitempty" env:"QDRANT_API_KEY"`
}

// CacheConfig selects and configures the lore view cache.
type CacheConfig struct {
	Backend string        `yaml:"backend,omitempty" env:"LORE_CACHE_BACKEND"`
	TTL     time.Duration `yaml:"ttl,omitempty" env:"LORE_CACHE_TTL"`
	Redis   RedisConfig   `yaml:"redis,omitempty"`
}

// RedisConfig holds configuration for the Redis cache.
type RedisConfig struct {
	Addr        string        `yaml:"addr,omitempty" env:"REDIS_ADDR"`
	Username    string        `yaml:"username,omitempty" env:"REDIS_USERNAME"`
	Password    string        `yaml:"password,omitempty" env:"REDIS_PASSWORD"`
	DB          int           `yaml:"db,omitempty" env:"REDIS_DB"`
	DialTimeout time.Duration `yaml:"dial_timeout,omitempty" env:"REDIS_DIAL_TIMEOUT"`
	OpTimeout   time.Duration `yaml:"op_timeout,omitempty" env:"REDIS_OP_TIMEOUT"`
}

// LibraryConfig locates translated chapters on disk.
type LibraryConfig struct {
	Root     string `yaml:"root,omitempty" env:"LORE_LIBRARY_ROOT"`
	Language string `yaml:"language,omitempty" env:"LORE_LIBRARY_LANGUAGE"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Mode  string `yaml:"mode,omitempty" env:"LORE_LOG_MODE"` // dev or prod
	Level string `yaml:"level,omitempty" env:"LORE_LOG_LEVEL"`
}

// TelemetryConfig controls OpenTelemetry tracing.
type TelemetryConfig struct {
	Enabled     bool    `yaml:"enabled,omitempty" env:"OTEL_ENABLED"`
	ServiceName string  `yaml:"service_name,omitempty" env:"OTEL_SERVICE_NAME"`
	Endpoint    string  `yaml:"endpoint,omitempty" env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	Insecure    bool    `yaml:"insecure,omitempty" env:"OTEL_EXPORTER_OTLP_INSECURE"`
	SampleRatio float64 `yaml:"sample_ratio,omitempty" env:"OTEL_SAMPLER_RATIO"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8000",
			Mode:            "release",
			CORSOrigins:     []string{"*"},
			ShutdownTimeout: 10 * time.Second,
		},
		Store: StoreConfig{
			Backend: StoreSQLite,
			SQLite: SQLiteConfig{
				Path: filepath.Join(DefaultConfigDir, "lore.db"),
			},
			Mongo: MongoConfig{
				URI:        "mongodb://localhost:27017",
				Database:   "shonovel_db",
				Collection: "lore",
				Timeout:    5 * time.Second,
			},
			Qdrant: QdrantConfig{
				Host:       "localhost",
				Port:       6334,
				Collection: "lore_entities",
			},
		},
		Cache: CacheConfig{
			Backend: CacheNone,
			TTL:     time.Hour,
			Redis: RedisConfig{
				Addr:        "localhost:6379",
				DialTimeout: 2 * time.Second,
				OpTimeout:   500 * time.Millisecond,
			},
		},
		Library: LibraryConfig{
			Root:     "library",
			Language: "vn",
		},
		Log: LogConfig{
			Mode:  "dev",
			Level: "info",
		},
		Telemetry: TelemetryConfig{
			ServiceName: "lore-reader",
			SampleRatio: 0.1,
		},
	}
}

// Load resolves configuration in one step: defaults, then the YAML file, then
// environment overrides. An explicit path must exist; when path is empty the
// file at basePath/.lore/config.yaml is used if present.
func Load(basePath, path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = ConfigFilePath(basePath)
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist) && explicit:
		return nil, fmt.Errorf("config file not found: %s (run 'lore init' first)", path)
	case errors.Is(err, os.ErrNotExist):
		// Defaults plus environment only.
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	cfg.resolvePaths(basePath)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides. Unset variables
// leave the loaded values untouched.
func (c *Config) applyEnvOverrides() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("parsing environment: %w", err)
	}
	return nil
}

// resolvePaths anchors relative file paths at basePath.
func (c *Config) resolvePaths(basePath string) {
	if c.Store.SQLite.Path != "" && c.Store.SQLite.Path != ":memory:" && !filepath.IsAbs(c.Store.SQLite.Path) {
		c.Store.SQLite.Path = filepath.Join(basePath, c.Store.SQLite.Path)
	}
	if c.Library.Root != "" && !filepath.IsAbs(c.Library.Root) {
		c.Library.Root = filepath.Join(basePath, c.Library.Root)
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	c.Cache.Backend = strings.ToLower(strings.TrimSpace(c.Cache.Backend))

	switch c.Store.Backend {
	case StoreSQLite:
		if c.Store.SQLite.Path == "" {
			return errors.New("store.sqlite.path is required for the sqlite backend")
		}
	case StoreMongo:
		if c.Store.Mongo.URI == "" {
			return errors.New("store.mongo.uri is required for the mongo backend")
		}
	case StoreQdrant:
		if c.Store.Qdrant.Collection == "" {
			return errors.New("store.qdrant.collection is required for the qdrant backend")
		}
	default:
		return fmt.Errorf("unknown store backend %q (valid: sqlite, mongo, qdrant)", c.Store.Backend)
	}

	switch c.Cache.Backend {
	case CacheRedis:
		if c.Cache.Redis.Addr == "" {
			return errors.New("cache.redis.addr is required for the redis backend")
		}
	case CacheNone, "":
		c.Cache.Backend = CacheNone
	default:
		return fmt.Errorf("unknown cache backend %q (valid: redis, none)", c.Cache.Backend)
	}

	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive, got %s", c.Cache.TTL)
	}

	return nil
}

// ConfigDir returns the path to the .lore config directory.
func ConfigDir(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir)
}

// ConfigFilePath returns the path to the config file.
func ConfigFilePath(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)
}

// Exists checks if a lore config exists in the given path.
func Exists(basePath string) bool {
	_, err := os.Stat(ConfigFilePath(basePath))
	return err == nil
}
