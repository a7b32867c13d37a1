package reconciler

import (
	"os"
	"path/filepath"

	"printgrab/internal/common"
	"printgrab/internal/models"

	"github.com/rs/zerolog"
)

// Reconciler moves verified downloads from a temporary directory into a final
// per-model directory and rewrites the recorded paths to match what actually
// landed on disk.
type Reconciler struct {
	fileManager *common.FileManager
	logger      zerolog.Logger
}

// NewReconciler creates a Reconciler.
func NewReconciler(logger zerolog.Logger) *Reconciler {
	componentLogger := logger.With().Str("component", "Reconciler").Logger()
	return &Reconciler{
		fileManager: common.NewFileManager(componentLogger),
		logger:      componentLogger,
	}
}

// Relocate moves every entry of sourceDir into destDir, preserving basenames,
// and returns the recorded paths rewritten to the destination. A single
// failed move is logged and skipped rather than aborting the rest; paths
// whose files did not make it to destDir are omitted from the result, so the
// returned list reflects only what is actually present in the final location.
// An empty or missing source directory is a no-op that returns the recorded
// paths unchanged.
func (r *Reconciler) Relocate(sourceDir, destDir string, recordedPaths []string) []string {
	entries, err := os.ReadDir(sourceDir)
	if err != nil {
		if !os.IsNotExist(err) {
			r.logger.Warn().Err(err).Str("dir", sourceDir).Msg("Cannot list source directory for relocation")
		}
		return recordedPaths
	}
	if len(entries) == 0 {
		return recordedPaths
	}

	if err := r.fileManager.EnsureDirectory(destDir, 0755); err != nil {
		r.logger.Error().Err(err).Str("dir", destDir).Msg("Cannot create destination directory")
		return recordedPaths
	}

	moved := make(map[string]bool, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		sourcePath := filepath.Join(sourceDir, name)
		destPath := filepath.Join(destDir, name)

		if err := r.fileManager.MoveFile(sourcePath, destPath); err != nil {
			r.logger.Warn().Err(err).
				Str("source", sourcePath).
				Str("dest", destPath).
				Msg("Failed to relocate entry, continuing with the rest")
			continue
		}
		moved[name] = true
	}

	// Re-derive final paths from basenames instead of trusting the in-memory
	// record: a partially failed move means the record no longer matches the
	// filesystem.
	updated := make([]string, 0, len(recordedPaths))
	for _, oldPath := range recordedPaths {
		name := filepath.Base(oldPath)
		if moved[name] {
			updated = append(updated, filepath.Join(destDir, name))
		}
	}
	return updated
}

// RelocateRecord relocates a model's downloaded files and images from their
// temporary subdirectories into the final model directory, updating both path
// lists in place.
func (r *Reconciler) RelocateRecord(record *models.ModelRecord, tempFilesDir, finalFilesDir, tempImagesDir, finalImagesDir string) {
	record.DownloadedFilePaths = r.Relocate(tempFilesDir, finalFilesDir, record.DownloadedFilePaths)
	record.DownloadedImagePaths = r.Relocate(tempImagesDir, finalImagesDir, record.DownloadedImagePaths)
}
