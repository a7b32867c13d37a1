package config

// Default storage layout settings
const (
	DefaultOutputBaseDir = "downloaded_models"
	DefaultImagesSubdir  = "images"
	DefaultFilesSubdir   = "files"
	DefaultURLListFile   = "model_urls.txt"
	DefaultAggregateFile = "all_models_data.json"
	DefaultParquetFile   = "all_models_data.parquet"
	DefaultCrawlDBFile   = "crawl_state.db"
	DefaultTempDirName   = "temp_downloads"
)

// StorageConfig holds settings for the on-disk output layout and the
// persisted record formats.
type StorageConfig struct {
	OutputBaseDir  string `json:"output_base_dir,omitempty" yaml:"output_base_dir,omitempty" validate:"required,dirpath"`
	ImagesSubdir   string `json:"images_subdir,omitempty" yaml:"images_subdir,omitempty"`
	FilesSubdir    string `json:"files_subdir,omitempty" yaml:"files_subdir,omitempty"`
	URLListFile    string `json:"url_list_file,omitempty" yaml:"url_list_file,omitempty"`
	AggregateFile  string `json:"aggregate_file,omitempty" yaml:"aggregate_file,omitempty"`
	ParquetEnabled bool   `json:"parquet_enabled,omitempty" yaml:"parquet_enabled,omitempty"`
	ParquetFile    string `json:"parquet_file,omitempty" yaml:"parquet_file,omitempty"`
	CrawlDBFile    string `json:"crawl_db_file,omitempty" yaml:"crawl_db_file,omitempty"`
}

// NewDefaultStorageConfig creates a StorageConfig with default values
func NewDefaultStorageConfig() StorageConfig {
	return StorageConfig{
		OutputBaseDir:  DefaultOutputBaseDir,
		ImagesSubdir:   DefaultImagesSubdir,
		FilesSubdir:    DefaultFilesSubdir,
		URLListFile:    DefaultURLListFile,
		AggregateFile:  DefaultAggregateFile,
		ParquetEnabled: true,
		ParquetFile:    DefaultParquetFile,
		CrawlDBFile:    DefaultCrawlDBFile,
	}
}
