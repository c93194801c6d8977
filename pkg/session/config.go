package session

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	cocuchdbErrors "github.com/dan8551/yii2-cocuchdb/pkg/errors"
	"github.com/dan8551/yii2-cocuchdb/pkg/naming"
)

// Config holds the connection configuration for a Session.
type Config struct {
	// URI is the MongoDB connection string.
	URI string `yaml:"uri"`

	// Database is the default database name, resolved once here and passed
	// explicitly into the builders that need it.
	Database string `yaml:"database"`

	// AppName tags commands for server-side profiling. When empty a unique
	// name is generated at connect time.
	AppName string `yaml:"appName"`

	// MaxPoolSize caps the driver connection pool. Zero keeps the driver
	// default.
	MaxPoolSize uint64 `yaml:"maxPoolSize"`

	// ConnectTimeoutSeconds bounds the initial server handshake. Zero keeps
	// the driver default.
	ConnectTimeoutSeconds int `yaml:"connectTimeoutSeconds"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		URI:      "mongodb://localhost:27017",
		Database: "test",
	}
}

// LoadConfig reads a YAML configuration file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for required fields
func (c *Config) Validate() error {
	if c.URI == "" {
		return fmt.Errorf("%w: uri is required", cocuchdbErrors.ErrInvalidConfig)
	}
	if c.Database == "" {
		return fmt.Errorf("%w: database is required", cocuchdbErrors.ErrInvalidConfig)
	}
	if err := naming.ValidateDatabaseName(c.Database); err != nil {
		return fmt.Errorf("%w: %v", cocuchdbErrors.ErrInvalidConfig, err)
	}
	return nil
}
