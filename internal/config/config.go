// Package config assembles the server configuration from defaults, an optional YAML file
// and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	envcfg "github.com/celestiaorg/verse/config"
	"github.com/celestiaorg/verse/internal/constants"
)

// Storage backend names
const (
	StorageBackendLocal = "local"
	StorageBackendS3    = "s3"
)

// Configuration defaults
const (
	DefaultListenAddr    = ":8000"
	DefaultStorageDir    = "./data"
	DefaultPublicBaseURL = "http://127.0.0.1:8000"
	DefaultMaxUploadMB   = 64
	DefaultS3Region      = "auto"
)

// ErrMissingJWTSecret is returned when no token secret was configured
var ErrMissingJWTSecret = errors.New("jwt secret is required")

// DatabaseConfig holds the PostgreSQL connection settings
type DatabaseConfig struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	User       string `yaml:"user"`
	Password   string `yaml:"password"`
	Name       string `yaml:"name"`
	SSLEnabled bool   `yaml:"ssl_enabled"`
}

// S3Config holds the settings of an S3 compatible bucket (AWS, MinIO, Cloudflare R2)
type S3Config struct {
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

// StorageConfig selects and configures the artifact storage backend
type StorageConfig struct {
	Backend       string   `yaml:"backend"`
	Dir           string   `yaml:"dir"`
	PublicBaseURL string   `yaml:"public_base_url"`
	S3            S3Config `yaml:"s3"`
}

// Config is the complete server configuration
type Config struct {
	ListenAddr  string         `yaml:"listen_addr"`
	LogLevel    string         `yaml:"log_level"`
	JWTSecret   string         `yaml:"jwt_secret"`
	MaxUploadMB int            `yaml:"max_upload_mb"`
	CORSOrigins []string       `yaml:"cors_origins"`
	Database    DatabaseConfig `yaml:"database"`
	Storage     StorageConfig  `yaml:"storage"`
}

// Default returns a configuration suitable for local development
func Default() *Config {
	return &Config{
		ListenAddr:  DefaultListenAddr,
		LogLevel:    "info",
		MaxUploadMB: DefaultMaxUploadMB,
		CORSOrigins: []string{"*"},
		Storage: StorageConfig{
			Backend:       StorageBackendLocal,
			Dir:           DefaultStorageDir,
			PublicBaseURL: DefaultPublicBaseURL,
			S3: S3Config{
				Region: DefaultS3Region,
			},
		},
	}
}

// Load builds the configuration. Values from the YAML file named by VERSE_CONFIG_FILE
// override the defaults and environment variables override both.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv(constants.EnvConfigFile); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.ListenAddr = envcfg.GetEnv(constants.EnvListenAddr, c.ListenAddr)
	c.LogLevel = envcfg.GetEnv(constants.EnvLogLevel, c.LogLevel)
	c.JWTSecret = envcfg.GetEnv(constants.EnvJWTSecret, c.JWTSecret)
	c.MaxUploadMB = envcfg.GetEnvInt(constants.EnvMaxUploadMB, c.MaxUploadMB)
	c.CORSOrigins = envcfg.GetEnvList(constants.EnvCORSOrigins, c.CORSOrigins)

	c.Database.Host = envcfg.GetEnv(constants.EnvDBHost, c.Database.Host)
	c.Database.Port = envcfg.GetEnvInt(constants.EnvDBPort, c.Database.Port)
	c.Database.User = envcfg.GetEnv(constants.EnvDBUser, c.Database.User)
	c.Database.Password = envcfg.GetEnv(constants.EnvDBPassword, c.Database.Password)
	c.Database.Name = envcfg.GetEnv(constants.EnvDBName, c.Database.Name)
	c.Database.SSLEnabled = envcfg.GetEnvBool(constants.EnvDBSSLEnabled, c.Database.SSLEnabled)

	c.Storage.Backend = envcfg.GetEnv(constants.EnvStorageBackend, c.Storage.Backend)
	c.Storage.Dir = envcfg.GetEnv(constants.EnvStorageDir, c.Storage.Dir)
	c.Storage.PublicBaseURL = envcfg.GetEnv(constants.EnvPublicBaseURL, c.Storage.PublicBaseURL)
	c.Storage.S3.Bucket = envcfg.GetEnv(constants.EnvS3Bucket, c.Storage.S3.Bucket)
	c.Storage.S3.Region = envcfg.GetEnv(constants.EnvS3Region, c.Storage.S3.Region)
	c.Storage.S3.Endpoint = envcfg.GetEnv(constants.EnvS3Endpoint, c.Storage.S3.Endpoint)
	c.Storage.S3.AccessKey = envcfg.GetEnv(constants.EnvS3AccessKey, c.Storage.S3.AccessKey)
	c.Storage.S3.SecretKey = envcfg.GetEnv(constants.EnvS3SecretKey, c.Storage.S3.SecretKey)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("max upload size must be positive, got %d", c.MaxUploadMB)
	}

	switch strings.ToLower(c.Storage.Backend) {
	case StorageBackendLocal:
		if c.Storage.Dir == "" {
			return fmt.Errorf("storage dir is required for the %s backend", StorageBackendLocal)
		}
	case StorageBackendS3:
		if c.Storage.S3.Bucket == "" {
			return fmt.Errorf("s3 bucket is required for the %s backend", StorageBackendS3)
		}
	default:
		return fmt.Errorf("unknown storage backend: %q", c.Storage.Backend)
	}
	return nil
}

// BodyLimit returns the maximum request body size in bytes
func (c *Config) BodyLimit() int {
	return c.MaxUploadMB * 1024 * 1024
}
