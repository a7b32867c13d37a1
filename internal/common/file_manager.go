package common

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// FileManager provides high-level file operations with standardized error handling and logging
type FileManager struct {
	logger zerolog.Logger
}

// NewFileManager creates a new FileManager instance
func NewFileManager(logger zerolog.Logger) *FileManager {
	return &FileManager{
		logger: logger.With().Str("component", "FileManager").Logger(),
	}
}

// FileExists checks if a file or directory exists
func (fm *FileManager) FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// EnsureDirectory creates a directory and its parents if they don't exist
func (fm *FileManager) EnsureDirectory(path string, perm fs.FileMode) error {
	info, err := os.Stat(path)
	if err == nil {
		if !info.IsDir() {
			return NewValidationError("path", path, "exists but is not a directory")
		}
		return nil
	}

	if err := os.MkdirAll(path, perm); err != nil {
		return WrapError(err, "failed to create directory: "+path)
	}

	fm.logger.Debug().Str("path", path).Msg("Created directory")
	return nil
}

// CleanDirectory removes every entry inside the directory, keeping the
// directory itself. A missing directory is created instead. Entries that
// cannot be removed are logged and skipped.
func (fm *FileManager) CleanDirectory(path string) error {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fm.EnsureDirectory(path, 0755)
		}
		return WrapError(err, "failed to list directory for cleaning: "+path)
	}

	for _, entry := range entries {
		entryPath := filepath.Join(path, entry.Name())
		if err := os.RemoveAll(entryPath); err != nil {
			fm.logger.Warn().Err(err).Str("path", entryPath).Msg("Failed to remove entry during directory clean")
		}
	}
	return nil
}

// MoveFile moves a file to a new location. os.Rename is attempted first;
// cross-device moves fall back to copy and remove.
func (fm *FileManager) MoveFile(sourcePath, destPath string) error {
	if err := os.Rename(sourcePath, destPath); err == nil {
		return nil
	}

	if err := fm.copyFile(sourcePath, destPath); err != nil {
		return WrapErrorf(err, "failed to move '%s' to '%s'", sourcePath, destPath)
	}

	if err := os.Remove(sourcePath); err != nil {
		fm.logger.Warn().Err(err).Str("path", sourcePath).Msg("Moved file but could not remove source")
	}
	return nil
}

func (fm *FileManager) copyFile(sourcePath, destPath string) error {
	source, err := os.Open(sourcePath)
	if err != nil {
		return err
	}
	defer source.Close()

	info, err := source.Stat()
	if err != nil {
		return err
	}
	if info.IsDir() {
		return NewError("cannot copy directory as file: %s", sourcePath)
	}

	dest, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer dest.Close()

	if _, err := io.Copy(dest, source); err != nil {
		return err
	}
	return dest.Sync()
}

// WriteFile writes data to a file, creating parent directories first.
func (fm *FileManager) WriteFile(path string, data []byte, perm fs.FileMode) error {
	if err := fm.EnsureDirectory(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, perm); err != nil {
		return WrapError(err, "failed to write file: "+path)
	}
	return nil
}
