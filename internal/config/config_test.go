package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultGlobalConfig(t *testing.T) {
	cfg := NewDefaultGlobalConfig()

	assert.Equal(t, DefaultListingURL, cfg.CrawlerConfig.ListingURL)
	assert.True(t, cfg.CrawlerConfig.Headless)
	assert.Equal(t, DefaultBrowserPoolSize, cfg.CrawlerConfig.BrowserPoolSize)

	assert.Equal(t, DefaultPollIntervalSecs, cfg.DownloadsConfig.PollIntervalSecs)
	assert.Equal(t, DefaultStabilityTicks, cfg.DownloadsConfig.StabilityTicks)
	assert.Equal(t, DefaultStabilityThreshold, cfg.DownloadsConfig.StabilityThreshold)
	assert.Equal(t, DefaultPartialExtensions(), cfg.DownloadsConfig.PartialExtensions)

	assert.Equal(t, DefaultOutputBaseDir, cfg.StorageConfig.OutputBaseDir)
	assert.True(t, cfg.StorageConfig.ParquetEnabled)

	assert.Equal(t, DefaultLogLevel, cfg.LogConfig.LogLevel)
}

func TestDefaultPartialExtensions(t *testing.T) {
	exts := DefaultPartialExtensions()

	assert.Contains(t, exts, ".crdownload")
	assert.Contains(t, exts, ".part")
	assert.Contains(t, exts, ".tmp")
	assert.Contains(t, exts, ".torrent")
	assert.Contains(t, exts, ".download")
	assert.Contains(t, exts, ".inprogress")
}

func TestLoadGlobalConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadGlobalConfig(filepath.Join(t.TempDir(), "absent.yaml"))

	require.NoError(t, err)
	assert.Equal(t, DefaultListingURL, cfg.CrawlerConfig.ListingURL)
}

func TestLoadGlobalConfigYAML(t *testing.T) {
	content := `
crawler_config:
  listing_url: "https://example.com/models"
  browser_pool_size: 2
downloads_config:
  bulk_timeout_secs: 60
storage_config:
  output_base_dir: "out"
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadGlobalConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/models", cfg.CrawlerConfig.ListingURL)
	assert.Equal(t, 2, cfg.CrawlerConfig.BrowserPoolSize)
	assert.Equal(t, 60, cfg.DownloadsConfig.BulkTimeoutSecs)
	assert.Equal(t, "out", cfg.StorageConfig.OutputBaseDir)

	// Untouched sections keep their defaults.
	assert.Equal(t, DefaultPollIntervalSecs, cfg.DownloadsConfig.PollIntervalSecs)
}

func TestLoadGlobalConfigJSON(t *testing.T) {
	content := `{"crawler_config": {"listing_url": "https://example.com/json"}}`
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadGlobalConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/json", cfg.CrawlerConfig.ListingURL)
}

func TestLoadGlobalConfigInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(":\n  - ["), 0644))

	_, err := LoadGlobalConfig(path)
	assert.Error(t, err)
}

func TestValidateConfigDefaultsAreValid(t *testing.T) {
	assert.NoError(t, ValidateConfig(NewDefaultGlobalConfig()))
}

func TestValidateConfigRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(cfg *GlobalConfig)
	}{
		{
			name:   "listing URL required",
			mutate: func(cfg *GlobalConfig) { cfg.CrawlerConfig.ListingURL = "" },
		},
		{
			name:   "listing URL must be a URL",
			mutate: func(cfg *GlobalConfig) { cfg.CrawlerConfig.ListingURL = "not a url" },
		},
		{
			name:   "pool size bounded",
			mutate: func(cfg *GlobalConfig) { cfg.CrawlerConfig.BrowserPoolSize = 99 },
		},
		{
			name:   "poll interval must be positive",
			mutate: func(cfg *GlobalConfig) { cfg.DownloadsConfig.PollIntervalSecs = 0 },
		},
		{
			name:   "output base dir required",
			mutate: func(cfg *GlobalConfig) { cfg.StorageConfig.OutputBaseDir = "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultGlobalConfig()
			tt.mutate(cfg)
			assert.Error(t, ValidateConfig(cfg))
		})
	}
}

func TestValidateConfigDirpathRule(t *testing.T) {
	// A path that does not exist yet is fine, it will be created.
	cfg := NewDefaultGlobalConfig()
	cfg.StorageConfig.OutputBaseDir = filepath.Join(t.TempDir(), "not-yet-created")
	assert.NoError(t, ValidateConfig(cfg))

	// A path occupied by a regular file is not.
	filePath := filepath.Join(t.TempDir(), "occupied")
	require.NoError(t, os.WriteFile(filePath, []byte("x"), 0644))
	cfg.StorageConfig.OutputBaseDir = filePath
	assert.Error(t, ValidateConfig(cfg))
}

func TestGetConfigPathPrefersFlag(t *testing.T) {
	dir := t.TempDir()
	flagPath := filepath.Join(dir, "flag.yaml")
	envPath := filepath.Join(dir, "env.yaml")
	require.NoError(t, os.WriteFile(flagPath, []byte("{}"), 0644))
	require.NoError(t, os.WriteFile(envPath, []byte("{}"), 0644))

	t.Setenv(EnvConfigPath, envPath)

	assert.Equal(t, flagPath, GetConfigPath(flagPath))
	assert.Equal(t, envPath, GetConfigPath(""))
}
