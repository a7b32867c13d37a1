package config

// Default download verification settings
const (
	DefaultPollIntervalSecs      = 2
	DefaultStabilityIntervalSecs = 1
	DefaultStabilityTicks        = 25
	DefaultStabilityThreshold    = 5
	DefaultBulkTimeoutSecs       = 240
	DefaultFileTimeoutSecs       = 120
)

// DefaultPartialExtensions lists filename suffixes that mark an in-progress
// browser download.
func DefaultPartialExtensions() []string {
	return []string{".crdownload", ".part", ".tmp", ".torrent", ".download", ".inprogress"}
}

// DownloadsConfig holds settings for download completion verification.
// BulkTimeoutSecs is used for "download all" archives, FileTimeoutSecs for
// individually triggered files.
type DownloadsConfig struct {
	TempDir               string   `json:"temp_dir,omitempty" yaml:"temp_dir,omitempty" validate:"omitempty,dirpath"`
	PollIntervalSecs      int      `json:"poll_interval_secs,omitempty" yaml:"poll_interval_secs,omitempty" validate:"min=1"`
	StabilityIntervalSecs int      `json:"stability_interval_secs,omitempty" yaml:"stability_interval_secs,omitempty" validate:"min=1"`
	StabilityTicks        int      `json:"stability_ticks,omitempty" yaml:"stability_ticks,omitempty" validate:"min=1"`
	StabilityThreshold    int      `json:"stability_threshold,omitempty" yaml:"stability_threshold,omitempty" validate:"min=1"`
	BulkTimeoutSecs       int      `json:"bulk_timeout_secs,omitempty" yaml:"bulk_timeout_secs,omitempty" validate:"min=1"`
	FileTimeoutSecs       int      `json:"file_timeout_secs,omitempty" yaml:"file_timeout_secs,omitempty" validate:"min=1"`
	PartialExtensions     []string `json:"partial_extensions,omitempty" yaml:"partial_extensions,omitempty"`
}

// NewDefaultDownloadsConfig creates a DownloadsConfig with default values
func NewDefaultDownloadsConfig() DownloadsConfig {
	return DownloadsConfig{
		PollIntervalSecs:      DefaultPollIntervalSecs,
		StabilityIntervalSecs: DefaultStabilityIntervalSecs,
		StabilityTicks:        DefaultStabilityTicks,
		StabilityThreshold:    DefaultStabilityThreshold,
		BulkTimeoutSecs:       DefaultBulkTimeoutSecs,
		FileTimeoutSecs:       DefaultFileTimeoutSecs,
		PartialExtensions:     DefaultPartialExtensions(),
	}
}
