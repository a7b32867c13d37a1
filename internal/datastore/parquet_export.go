package datastore

import (
	"os"
	"path/filepath"

	"printgrab/internal/common"
	"printgrab/internal/models"

	"github.com/parquet-go/parquet-go"
	"github.com/rs/zerolog"
)

// ParquetModelRecord is the flattened Parquet schema for a model record.
// Grams is optional because the source page does not always expose a weight.
type ParquetModelRecord struct {
	URL                  string   `parquet:"url"`
	Title                string   `parquet:"title"`
	Description          string   `parquet:"description,zstd"`
	Grams                *float64 `parquet:"grams,optional"`
	Tags                 []string `parquet:"tags,list"`
	Images               []string `parquet:"images,list"`
	DownloadedFilePaths  []string `parquet:"downloaded_filepaths,list"`
	DownloadedImagePaths []string `parquet:"downloaded_image_filepaths,list"`
}

// ParquetExporter writes the aggregate model data set to a Parquet file.
type ParquetExporter struct {
	fileManager *common.FileManager
	logger      zerolog.Logger
}

// NewParquetExporter creates a Parquet exporter.
func NewParquetExporter(logger zerolog.Logger) *ParquetExporter {
	componentLogger := logger.With().Str("component", "ParquetExporter").Logger()
	return &ParquetExporter{
		fileManager: common.NewFileManager(componentLogger),
		logger:      componentLogger,
	}
}

// Export writes all records to path, replacing any previous export.
func (pe *ParquetExporter) Export(path string, records []*models.ModelRecord) error {
	if err := pe.fileManager.EnsureDirectory(filepath.Dir(path), 0755); err != nil {
		return common.WrapError(err, "failed to create parquet directory")
	}

	file, err := os.Create(path)
	if err != nil {
		return common.WrapError(err, "failed to create parquet file")
	}
	defer file.Close()

	writer := parquet.NewGenericWriter[ParquetModelRecord](file, parquet.Compression(&parquet.Zstd))

	rows := make([]ParquetModelRecord, 0, len(records))
	for _, record := range records {
		rows = append(rows, toParquetRecord(record))
	}

	if _, err := writer.Write(rows); err != nil {
		writer.Close()
		return common.WrapError(err, "failed to write parquet rows")
	}
	if err := writer.Close(); err != nil {
		return common.WrapError(err, "failed to close parquet writer")
	}

	pe.logger.Info().Str("path", path).Int("records", len(rows)).Msg("Parquet export written")
	return nil
}

func toParquetRecord(record *models.ModelRecord) ParquetModelRecord {
	row := ParquetModelRecord{
		URL:                  record.URL,
		Title:                record.Title,
		Description:          record.Description,
		Tags:                 record.Tags,
		Images:               record.Images,
		DownloadedFilePaths:  record.DownloadedFilePaths,
		DownloadedImagePaths: record.DownloadedImagePaths,
	}
	if record.Grams.Known {
		grams := record.Grams.Value
		row.Grams = &grams
	}
	return row
}
