package logger

import (
	"io"
	"os"
	"path/filepath"

	"printgrab/internal/config"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// newConsoleWriter creates the stderr writer for the configured format.
func newConsoleWriter(format string) io.Writer {
	if format == "json" {
		return os.Stderr
	}
	return zerolog.ConsoleWriter{Out: os.Stderr}
}

// newFileWriter creates a rotating file writer. When a run ID is given, logs
// are organized under a per-run subdirectory.
func newFileWriter(cfg config.LogConfig, runID string) io.Writer {
	finalPath := cfg.LogFile
	if runID != "" {
		baseDir := filepath.Dir(cfg.LogFile)
		finalPath = filepath.Join(baseDir, "runs", runID, filepath.Base(cfg.LogFile))
	}

	if err := os.MkdirAll(filepath.Dir(finalPath), 0755); err != nil {
		// Fall back to the configured path when the subdirectory cannot be created
		finalPath = cfg.LogFile
	}

	rotating := &lumberjack.Logger{
		Filename:   finalPath,
		MaxSize:    cfg.MaxLogSizeMB,
		MaxBackups: cfg.MaxLogBackups,
		LocalTime:  true,
	}

	if cfg.LogFormat == "json" {
		return rotating
	}
	return zerolog.ConsoleWriter{Out: rotating, NoColor: true}
}
