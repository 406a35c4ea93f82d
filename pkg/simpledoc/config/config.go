package config

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/simple-doc/pkg/simpledoc"
	fsstorage "github.com/tendant/simple-doc/pkg/simpledoc/storage/fs"
	memorystorage "github.com/tendant/simple-doc/pkg/simpledoc/storage/memory"
	pgstorage "github.com/tendant/simple-doc/pkg/simpledoc/storage/postgres"
	s3storage "github.com/tendant/simple-doc/pkg/simpledoc/storage/s3"
	sqlitestorage "github.com/tendant/simple-doc/pkg/simpledoc/storage/sqlite"
)

// Option applies configuration to a Config instance.
type Option func(*Config) error

// Load constructs a Config by applying the supplied options on top of
// library defaults.
func Load(opts ...Option) (*Config, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() Config {
	return Config{
		DefaultStore: "memory",
		Stores: []StoreConfig{
			{
				Name:   "memory",
				Type:   "memory",
				Config: map[string]interface{}{},
			},
		},
	}
}

// Config describes the document service: which storage backends exist
// and which one handles documents by default.
type Config struct {
	DefaultStore string
	Stores       []StoreConfig
}

// StoreConfig represents configuration for a single storage backend.
type StoreConfig struct {
	Name   string
	Type   string // "memory", "fs", "s3", "postgres", "sqlite"
	Config map[string]interface{}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if len(c.Stores) == 0 {
		return errors.New("at least one storage backend is required")
	}

	for _, store := range c.Stores {
		if store.Name == "" {
			return errors.New("storage backend name cannot be empty")
		}
	}

	// Ensure the default backend exists in configured backends
	found := false
	for _, store := range c.Stores {
		if store.Name == c.DefaultStore {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("default storage backend '%s' not found in configured backends", c.DefaultStore)
	}

	return nil
}

// BuildService creates a Service instance from the configuration.
func (c *Config) BuildService() (simpledoc.Service, error) {
	var options []simpledoc.Option

	for _, storeConfig := range c.Stores {
		store, err := c.buildStore(storeConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to build storage backend %s: %w", storeConfig.Name, err)
		}
		options = append(options, simpledoc.WithStore(storeConfig.Name, store))
	}

	options = append(options, simpledoc.WithDefaultStore(c.DefaultStore))

	return simpledoc.New(options...)
}

// buildStore creates a Store based on the backend configuration
func (c *Config) buildStore(config StoreConfig) (simpledoc.Store, error) {
	switch config.Type {
	case "memory":
		return memorystorage.New(), nil

	case "fs":
		fsConfig := fsstorage.Config{
			BaseDir: getString(config.Config, "base_dir", "./data/docs"),
		}
		return fsstorage.New(fsConfig)

	case "s3":
		s3Config := s3storage.Config{
			Region:                 getString(config.Config, "region", "us-east-1"),
			Bucket:                 getString(config.Config, "bucket", ""),
			AccessKeyID:            getString(config.Config, "access_key_id", ""),
			SecretAccessKey:        getString(config.Config, "secret_access_key", ""),
			Endpoint:               getString(config.Config, "endpoint", ""),
			UsePathStyle:           getBool(config.Config, "use_path_style", false),
			EnableSSE:              getBool(config.Config, "enable_sse", false),
			SSEAlgorithm:           getString(config.Config, "sse_algorithm", "AES256"),
			SSEKMSKeyID:            getString(config.Config, "sse_kms_key_id", ""),
			CreateBucketIfNotExist: getBool(config.Config, "create_bucket_if_not_exist", false),
		}
		return s3storage.New(s3Config)

	case "postgres":
		databaseURL := getString(config.Config, "url", "")
		if databaseURL == "" {
			return nil, errors.New("url is required for postgres storage")
		}
		pool, err := pgxpool.New(context.Background(), databaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create pgx pool: %w", err)
		}
		if err := pgstorage.EnsureSchema(context.Background(), pool); err != nil {
			pool.Close()
			return nil, err
		}
		return pgstorage.NewWithPool(pool), nil

	case "sqlite":
		path := getString(config.Config, "path", "")
		if path == "" {
			return nil, errors.New("path is required for sqlite storage")
		}
		return sqlitestorage.New(sqlitestorage.Config{Path: path})

	default:
		return nil, fmt.Errorf("unsupported storage backend type: %s", config.Type)
	}
}

func getString(config map[string]interface{}, key string, defaultValue string) string {
	if value, exists := config[key]; exists {
		if str, ok := value.(string); ok {
			return str
		}
	}
	return defaultValue
}

func getBool(config map[string]interface{}, key string, defaultValue bool) bool {
	if value, exists := config[key]; exists {
		if b, ok := value.(bool); ok {
			return b
		}
		if str, ok := value.(string); ok {
			if b, err := strconv.ParseBool(str); err == nil {
				return b
			}
		}
	}
	return defaultValue
}
