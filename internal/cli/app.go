package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"printgrab/internal/common"
	"printgrab/internal/config"
	"printgrab/internal/logger"
	"printgrab/internal/orchestrator"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// GlobalFlags holds flags shared by every command.
type GlobalFlags struct {
	ConfigFile string
	LogLevel   string
}

var globalFlags GlobalFlags

// AddGlobalFlags registers the shared flags on the root command.
func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&globalFlags.ConfigFile, "config", "c", "", "path to config file (YAML or JSON)")
	cmd.PersistentFlags().StringVar(&globalFlags.LogLevel, "log-level", "", "log level override: debug, info, warn, error")
}

// app bundles everything a command run needs.
type app struct {
	config       *config.GlobalConfig
	logger       zerolog.Logger
	orchestrator *orchestrator.Orchestrator
}

// setupApp loads configuration, builds the logger, and constructs the
// orchestrator. Environment variables from a .env file are loaded first so
// they can influence config resolution.
func setupApp() (*app, error) {
	// Missing .env is the normal case.
	_ = godotenv.Load()

	configPath := config.GetConfigPath(globalFlags.ConfigFile)
	cfg, err := config.LoadGlobalConfig(configPath)
	if err != nil {
		return nil, common.WrapError(err, "failed to load configuration")
	}
	if globalFlags.LogLevel != "" {
		cfg.LogConfig.LogLevel = globalFlags.LogLevel
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, common.WrapError(err, "invalid configuration")
	}

	runID := uuid.New().String()
	appLogger, err := logger.NewWithRunID(cfg.LogConfig, runID)
	if err != nil {
		return nil, common.WrapError(err, "failed to initialize logger")
	}

	orch, err := orchestrator.NewOrchestrator(cfg, appLogger, runID)
	if err != nil {
		return nil, err
	}

	appLogger.Info().Msg("Application initialized")
	return &app{config: cfg, logger: appLogger, orchestrator: orch}, nil
}

func (a *app) close() {
	a.orchestrator.Close()
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
