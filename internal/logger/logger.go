package logger

import (
	"io"

	"printgrab/internal/common"
	"printgrab/internal/config"

	"github.com/rs/zerolog"
)

// NewWithRunID creates a new logger instance with a run ID for organizing
// log files by crawl session. An empty run ID skips the per-run log
// subdirectory and the run_id field.
func NewWithRunID(cfg config.LogConfig, runID string) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return zerolog.Logger{}, common.WrapError(err, "invalid log level: "+cfg.LogLevel)
	}

	writers := []io.Writer{newConsoleWriter(cfg.LogFormat)}
	if cfg.EnableFile {
		if cfg.LogFile == "" {
			return zerolog.Logger{}, common.NewValidationError("log_file", cfg.LogFile, "file path required when file logging enabled")
		}
		writers = append(writers, newFileWriter(cfg, runID))
	}

	multiWriter := zerolog.MultiLevelWriter(writers...)
	instance := zerolog.New(multiWriter).
		Level(level).
		With().
		Timestamp().
		Logger()

	if runID != "" {
		instance = instance.With().Str("run_id", runID).Logger()
	}

	zerolog.SetGlobalLevel(level)
	return instance, nil
}
