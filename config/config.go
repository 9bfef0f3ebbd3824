package config

import (
	"errors"
	"fmt"
	"time"

	"realty-insights-backend/storage"

	"github.com/spf13/viper"
)

// Sheet source kinds
const (
	SourceHTTP    = "http"
	SourceStorage = "storage"
)

// Config holds the server configuration.
// Every key can be set through the environment (e.g. SHEET_CSV_URL).
type Config struct {
	Port string `mapstructure:"port" yaml:"port"`

	SheetCSVURL     string `mapstructure:"sheet_csv_url" yaml:"sheet_csv_url"`
	SheetSource     string `mapstructure:"sheet_source" yaml:"sheet_source"`
	SheetObjectPath string `mapstructure:"sheet_object_path" yaml:"sheet_object_path"`
	HTTPTimeoutSec  int    `mapstructure:"http_timeout_sec" yaml:"http_timeout_sec"`
	PreloadDataset  bool   `mapstructure:"preload_dataset" yaml:"preload_dataset"`

	StorageType        string `mapstructure:"storage_type" yaml:"storage_type"`
	StorageLocalPath   string `mapstructure:"storage_local_path" yaml:"storage_local_path"`
	AWSS3Bucket        string `mapstructure:"aws_s3_bucket" yaml:"aws_s3_bucket"`
	AWSRegion          string `mapstructure:"aws_region" yaml:"aws_region"`
	AWSAccessKeyID     string `mapstructure:"aws_access_key_id" yaml:"-"`
	AWSSecretAccessKey string `mapstructure:"aws_secret_access_key" yaml:"-"`

	SnapshotArchive   bool `mapstructure:"snapshot_archive" yaml:"snapshot_archive"`
	SnapshotZstdLevel int  `mapstructure:"snapshot_zstd_level" yaml:"snapshot_zstd_level"`

	DatabaseURL string `mapstructure:"database_url" yaml:"-"`

	GeminiAPIKey string `mapstructure:"gemini_api_key" yaml:"-"`
	GeminiModel  string `mapstructure:"gemini_model" yaml:"gemini_model"`

	AdminTokenHash string `mapstructure:"admin_token_hash" yaml:"-"`
}

// Load reads configuration from the environment on top of defaults.
// An optional YAML file may be given; environment values win over it.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("port", "8080")
	// empty selects the published sheet export
	v.SetDefault("sheet_csv_url", "")
	v.SetDefault("sheet_source", SourceHTTP)
	v.SetDefault("sheet_object_path", "")
	v.SetDefault("http_timeout_sec", 30)
	v.SetDefault("preload_dataset", false)

	v.SetDefault("storage_type", string(storage.StorageTypeLocal))
	v.SetDefault("storage_local_path", "./storage/files")
	v.SetDefault("aws_s3_bucket", "")
	v.SetDefault("aws_region", "us-east-1")
	v.SetDefault("aws_access_key_id", "")
	v.SetDefault("aws_secret_access_key", "")

	v.SetDefault("snapshot_archive", false)
	v.SetDefault("snapshot_zstd_level", 3)

	v.SetDefault("database_url", "")

	v.SetDefault("gemini_api_key", "")
	v.SetDefault("gemini_model", "gemini-1.5-flash")

	v.SetDefault("admin_token_hash", "")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// Validate reports configuration combinations the server cannot start with
func (c *Config) Validate() error {
	var errs []error

	switch c.SheetSource {
	case SourceHTTP:
	case SourceStorage:
		if c.SheetObjectPath == "" {
			errs = append(errs, errors.New("SHEET_OBJECT_PATH is required for the storage sheet source"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown SHEET_SOURCE: %q", c.SheetSource))
	}

	switch storage.StorageType(c.StorageType) {
	case storage.StorageTypeLocal, "":
	case storage.StorageTypeS3:
		if c.AWSS3Bucket == "" {
			errs = append(errs, errors.New("AWS_S3_BUCKET is required for s3 storage"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_TYPE: %q", c.StorageType))
	}

	if c.HTTPTimeoutSec <= 0 {
		errs = append(errs, errors.New("HTTP_TIMEOUT_SEC must be positive"))
	}
	if c.SnapshotZstdLevel < 1 || c.SnapshotZstdLevel > 4 {
		errs = append(errs, errors.New("SNAPSHOT_ZSTD_LEVEL must be between 1 and 4"))
	}

	return errors.Join(errs...)
}

// HTTPTimeout returns the upstream fetch timeout
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSec) * time.Second
}

// StorageNeeded reports whether any component reads or writes object storage
func (c *Config) StorageNeeded() bool {
	return c.SheetSource == SourceStorage || c.SnapshotArchive
}

// ToStorageConfig converts to the storage package configuration
func (c *Config) ToStorageConfig() storage.StorageConfig {
	return storage.StorageConfig{
		Type:         storage.StorageType(c.StorageType),
		LocalPath:    c.StorageLocalPath,
		S3Bucket:     c.AWSS3Bucket,
		S3Region:     c.AWSRegion,
		AWSAccessKey: c.AWSAccessKeyID,
		AWSSecretKey: c.AWSSecretAccessKey,
	}
}
