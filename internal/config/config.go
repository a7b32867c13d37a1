package config

// GlobalConfig contains all configuration sections for the application
type GlobalConfig struct {
	CrawlerConfig   CrawlerConfig   `json:"crawler_config,omitempty" yaml:"crawler_config,omitempty"`
	DownloadsConfig DownloadsConfig `json:"downloads_config,omitempty" yaml:"downloads_config,omitempty"`
	StorageConfig   StorageConfig   `json:"storage_config,omitempty" yaml:"storage_config,omitempty"`
	LogConfig       LogConfig       `json:"log_config,omitempty" yaml:"log_config,omitempty"`
}

// NewDefaultGlobalConfig creates a new GlobalConfig with default values
func NewDefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		CrawlerConfig:   NewDefaultCrawlerConfig(),
		DownloadsConfig: NewDefaultDownloadsConfig(),
		StorageConfig:   NewDefaultStorageConfig(),
		LogConfig:       NewDefaultLogConfig(),
	}
}
