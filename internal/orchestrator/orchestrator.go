package orchestrator

import (
	"context"
	"path/filepath"

	"printgrab/internal/common"
	"printgrab/internal/config"
	"printgrab/internal/crawler"
	"printgrab/internal/datastore"
	"printgrab/internal/downloads"
	"printgrab/internal/reconciler"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Orchestrator wires the crawler, download verification, and datastore
// components into the two pipeline stages: URL collection and model
// processing.
type Orchestrator struct {
	config          *config.GlobalConfig
	logger          zerolog.Logger
	runID           string
	tempDownloadDir string

	browserManager  *crawler.BrowserManager
	listing         *crawler.ListingCollector
	details         *crawler.DetailScraper
	files           *crawler.FileFetcher
	images          *crawler.ImageDownloader
	reconciler      *reconciler.Reconciler
	urlListStore    *datastore.URLListStore
	modelStore      *datastore.ModelStore
	parquetExporter *datastore.ParquetExporter
	crawlStore      *datastore.CrawlStore
	fileManager     *common.FileManager
}

// NewOrchestrator builds an orchestrator and its component graph from the
// global configuration. An empty runID gets a generated one. The browser is
// not launched until a pipeline stage needs it.
func NewOrchestrator(cfg *config.GlobalConfig, logger zerolog.Logger, runID string) (*Orchestrator, error) {
	if runID == "" {
		runID = uuid.New().String()
	}
	componentLogger := logger.With().Str("component", "Orchestrator").Logger()

	tempDownloadDir := cfg.DownloadsConfig.TempDir
	if tempDownloadDir == "" {
		tempDownloadDir = filepath.Join(cfg.StorageConfig.OutputBaseDir, config.DefaultTempDirName)
	}
	downloadsCfg := cfg.DownloadsConfig
	downloadsCfg.TempDir = tempDownloadDir

	watcher := downloads.NewWatcher(downloads.WatcherConfigFrom(downloadsCfg), logger)
	browserManager := crawler.NewBrowserManager(cfg.CrawlerConfig, logger)

	crawlDBPath := filepath.Join(cfg.StorageConfig.OutputBaseDir, cfg.StorageConfig.CrawlDBFile)
	crawlStore, err := datastore.OpenCrawlStore(crawlDBPath, logger)
	if err != nil {
		return nil, common.WrapError(err, "failed to open crawl store")
	}

	return &Orchestrator{
		config:          cfg,
		logger:          componentLogger,
		runID:           runID,
		tempDownloadDir: tempDownloadDir,
		browserManager:  browserManager,
		listing:         crawler.NewListingCollector(browserManager, cfg.CrawlerConfig, logger),
		details:         crawler.NewDetailScraper(browserManager, cfg.CrawlerConfig, logger),
		files:           crawler.NewFileFetcher(watcher, downloadsCfg, cfg.CrawlerConfig, logger),
		images:          crawler.NewImageDownloader(cfg.CrawlerConfig, logger),
		reconciler:      reconciler.NewReconciler(logger),
		urlListStore:    datastore.NewURLListStore(logger),
		modelStore:      datastore.NewModelStore(logger),
		parquetExporter: datastore.NewParquetExporter(logger),
		crawlStore:      crawlStore,
		fileManager:     common.NewFileManager(componentLogger),
	}, nil
}

// RunID returns the identifier assigned to this run.
func (o *Orchestrator) RunID() string {
	return o.runID
}

// Close releases resources held across pipeline stages.
func (o *Orchestrator) Close() {
	o.browserManager.Stop()
	if err := o.crawlStore.Close(); err != nil {
		o.logger.Warn().Err(err).Msg("Could not close crawl store")
	}
}

// CollectURLs scrapes the listing page and persists the discovered model
// URLs. A limit of 0 collects everything the listing yields.
func (o *Orchestrator) CollectURLs(ctx context.Context, limit int) ([]string, error) {
	if err := o.browserManager.Start(); err != nil {
		return nil, common.WrapError(err, "failed to start browser")
	}

	urls, err := o.listing.CollectModelURLs(ctx, limit)
	if err != nil {
		return nil, common.WrapError(err, "URL collection failed")
	}

	listPath := filepath.Join(o.config.StorageConfig.OutputBaseDir, o.config.StorageConfig.URLListFile)
	if err := o.urlListStore.Save(listPath, urls); err != nil {
		return nil, err
	}
	return urls, nil
}

// LoadURLList reads a previously saved model URL list.
func (o *Orchestrator) LoadURLList(path string) ([]string, error) {
	return o.urlListStore.Load(path)
}

// Run executes the full pipeline: collect URLs, process every model, then
// build the aggregate outputs.
func (o *Orchestrator) Run(ctx context.Context, limit int) error {
	urls, err := o.CollectURLs(ctx, limit)
	if err != nil {
		return err
	}
	if err := o.ProcessModels(ctx, urls); err != nil {
		return err
	}
	return o.ExportAggregates()
}

// ExportAggregates rebuilds the aggregate JSON file, and the Parquet export
// when enabled, from all per-model record files on disk.
func (o *Orchestrator) ExportAggregates() error {
	records, err := o.modelStore.CollectRecords(o.config.StorageConfig.OutputBaseDir, o.config.StorageConfig.AggregateFile)
	if err != nil {
		return common.WrapError(err, "failed to collect model records")
	}
	if len(records) == 0 {
		o.logger.Warn().Msg("No model records found, skipping aggregate export")
		return nil
	}

	aggregatePath := filepath.Join(o.config.StorageConfig.OutputBaseDir, o.config.StorageConfig.AggregateFile)
	if err := o.modelStore.SaveAggregate(aggregatePath, records); err != nil {
		return err
	}

	if o.config.StorageConfig.ParquetEnabled {
		parquetPath := filepath.Join(o.config.StorageConfig.OutputBaseDir, o.config.StorageConfig.ParquetFile)
		if err := o.parquetExporter.Export(parquetPath, records); err != nil {
			return err
		}
	}
	return nil
}
