package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"realty-insights-backend/storage"
)

func TestLoadDefaults(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Port != "8080" {
		t.Errorf("Port = %q, want 8080", c.Port)
	}
	if c.SheetSource != SourceHTTP {
		t.Errorf("SheetSource = %q, want %q", c.SheetSource, SourceHTTP)
	}
	if c.HTTPTimeout() != 30*time.Second {
		t.Errorf("HTTPTimeout = %v, want 30s", c.HTTPTimeout())
	}
	if c.SnapshotArchive {
		t.Error("SnapshotArchive should default to false")
	}
	if err := c.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SHEET_SOURCE", "storage")
	t.Setenv("SHEET_OBJECT_PATH", "sheets/market.xlsx")
	t.Setenv("HTTP_TIMEOUT_SEC", "5")
	t.Setenv("SNAPSHOT_ARCHIVE", "true")
	t.Setenv("STORAGE_TYPE", "s3")
	t.Setenv("AWS_S3_BUCKET", "market-data")

	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Port != "9090" {
		t.Errorf("Port = %q, want 9090", c.Port)
	}
	if c.SheetObjectPath != "sheets/market.xlsx" {
		t.Errorf("SheetObjectPath = %q", c.SheetObjectPath)
	}
	if c.HTTPTimeout() != 5*time.Second {
		t.Errorf("HTTPTimeout = %v, want 5s", c.HTTPTimeout())
	}
	if !c.SnapshotArchive || !c.StorageNeeded() {
		t.Error("expected snapshot archiving and storage to be enabled")
	}

	sc := c.ToStorageConfig()
	if sc.Type != storage.StorageTypeS3 || sc.S3Bucket != "market-data" || sc.S3Region != "us-east-1" {
		t.Errorf("unexpected storage config: %+v", sc)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("port: \"7000\"\ngemini_model: gemini-pro\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PORT", "7100")

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Port != "7100" {
		t.Errorf("Port = %q, environment should win over file", c.Port)
	}
	if c.GeminiModel != "gemini-pro" {
		t.Errorf("GeminiModel = %q, want gemini-pro", c.GeminiModel)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			SheetSource:       SourceHTTP,
			StorageType:       "local",
			HTTPTimeoutSec:    30,
			SnapshotZstdLevel: 3,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"unknown source", func(c *Config) { c.SheetSource = "ftp" }, "SHEET_SOURCE"},
		{"storage source without path", func(c *Config) { c.SheetSource = SourceStorage }, "SHEET_OBJECT_PATH"},
		{"s3 without bucket", func(c *Config) { c.StorageType = "s3" }, "AWS_S3_BUCKET"},
		{"unknown storage", func(c *Config) { c.StorageType = "gcs" }, "STORAGE_TYPE"},
		{"zero timeout", func(c *Config) { c.HTTPTimeoutSec = 0 }, "HTTP_TIMEOUT_SEC"},
		{"bad zstd level", func(c *Config) { c.SnapshotZstdLevel = 9 }, "SNAPSHOT_ZSTD_LEVEL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}
