package config

import (
	"fmt"
)

// WithDefaultStore sets the default storage backend name.
func WithDefaultStore(name string) Option {
	return func(c *Config) error {
		if name == "" {
			return fmt.Errorf("default storage backend name cannot be empty")
		}
		c.DefaultStore = name
		return nil
	}
}

// WithMemoryStore adds an in-memory storage backend.
// If name is empty, defaults to "memory".
func WithMemoryStore(name string) Option {
	return func(c *Config) error {
		if name == "" {
			name = "memory"
		}

		c.Stores = upsertStore(c.Stores, StoreConfig{
			Name:   name,
			Type:   "memory",
			Config: map[string]interface{}{},
		})
		return nil
	}
}

// WithFilesystemStore adds a filesystem storage backend.
// If name is empty, defaults to "fs".
func WithFilesystemStore(name, baseDir string) Option {
	return func(c *Config) error {
		if name == "" {
			name = "fs"
		}
		if baseDir == "" {
			return fmt.Errorf("filesystem base directory cannot be empty")
		}

		c.Stores = upsertStore(c.Stores, StoreConfig{
			Name: name,
			Type: "fs",
			Config: map[string]interface{}{
				"base_dir": baseDir,
			},
		})
		return nil
	}
}

// WithS3Store adds an S3 storage backend.
// If name is empty, defaults to "s3".
func WithS3Store(name, bucket, region string) Option {
	return func(c *Config) error {
		if name == "" {
			name = "s3"
		}
		if bucket == "" {
			return fmt.Errorf("S3 bucket cannot be empty")
		}
		if region == "" {
			region = "us-east-1"
		}

		c.Stores = upsertStore(c.Stores, StoreConfig{
			Name: name,
			Type: "s3",
			Config: map[string]interface{}{
				"bucket": bucket,
				"region": region,
			},
		})
		return nil
	}
}

// WithS3Credentials sets AWS credentials for an S3 backend.
func WithS3Credentials(name, accessKeyID, secretAccessKey string) Option {
	return func(c *Config) error {
		if name == "" {
			name = "s3"
		}

		for i := range c.Stores {
			if c.Stores[i].Name == name && c.Stores[i].Type == "s3" {
				c.Stores[i].Config["access_key_id"] = accessKeyID
				c.Stores[i].Config["secret_access_key"] = secretAccessKey
				return nil
			}
		}

		c.Stores = append(c.Stores, StoreConfig{
			Name: name,
			Type: "s3",
			Config: map[string]interface{}{
				"access_key_id":     accessKeyID,
				"secret_access_key": secretAccessKey,
			},
		})
		return nil
	}
}

// WithS3Endpoint sets a custom S3 endpoint (for MinIO, LocalStack, etc.)
func WithS3Endpoint(name, endpoint string, usePathStyle bool) Option {
	return func(c *Config) error {
		if name == "" {
			name = "s3"
		}

		for i := range c.Stores {
			if c.Stores[i].Name == name && c.Stores[i].Type == "s3" {
				c.Stores[i].Config["endpoint"] = endpoint
				c.Stores[i].Config["use_path_style"] = usePathStyle
				return nil
			}
		}

		c.Stores = append(c.Stores, StoreConfig{
			Name: name,
			Type: "s3",
			Config: map[string]interface{}{
				"endpoint":       endpoint,
				"use_path_style": usePathStyle,
			},
		})
		return nil
	}
}

// WithPostgresStore adds a Postgres storage backend.
// If name is empty, defaults to "postgres".
func WithPostgresStore(name, databaseURL string) Option {
	return func(c *Config) error {
		if name == "" {
			name = "postgres"
		}
		if databaseURL == "" {
			return fmt.Errorf("database URL cannot be empty")
		}

		c.Stores = upsertStore(c.Stores, StoreConfig{
			Name: name,
			Type: "postgres",
			Config: map[string]interface{}{
				"url": databaseURL,
			},
		})
		return nil
	}
}

// WithSQLiteStore adds a SQLite storage backend.
// If name is empty, defaults to "sqlite".
func WithSQLiteStore(name, path string) Option {
	return func(c *Config) error {
		if name == "" {
			name = "sqlite"
		}
		if path == "" {
			return fmt.Errorf("sqlite database path cannot be empty")
		}

		c.Stores = upsertStore(c.Stores, StoreConfig{
			Name: name,
			Type: "sqlite",
			Config: map[string]interface{}{
				"path": path,
			},
		})
		return nil
	}
}
