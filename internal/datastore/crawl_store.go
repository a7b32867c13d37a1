package datastore

import (
	"database/sql"
	"path/filepath"
	"time"

	"printgrab/internal/common"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// CrawlStore tracks which model URLs were already processed so interrupted
// runs can resume without redoing work.
type CrawlStore struct {
	db     *sql.DB
	logger zerolog.Logger
}

const crawlSchema = `
CREATE TABLE IF NOT EXISTS processed_models (
	url        TEXT PRIMARY KEY,
	model_id   TEXT NOT NULL,
	run_id     TEXT NOT NULL,
	final_dir  TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);
`

// OpenCrawlStore opens (or creates) the crawl state database at path.
func OpenCrawlStore(path string, logger zerolog.Logger) (*CrawlStore, error) {
	componentLogger := logger.With().Str("component", "CrawlStore").Logger()

	fileManager := common.NewFileManager(componentLogger)
	if err := fileManager.EnsureDirectory(filepath.Dir(path), 0755); err != nil {
		return nil, common.WrapError(err, "failed to create crawl store directory")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, common.WrapError(err, "failed to open crawl state database")
	}
	// modernc sqlite serializes writes itself, a single connection avoids
	// SQLITE_BUSY between them.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(crawlSchema); err != nil {
		db.Close()
		return nil, common.WrapError(err, "failed to initialize crawl state schema")
	}

	componentLogger.Debug().Str("path", path).Msg("Crawl state database opened")
	return &CrawlStore{db: db, logger: componentLogger}, nil
}

// Close releases the underlying database handle.
func (cs *CrawlStore) Close() error {
	return cs.db.Close()
}

// IsProcessed reports whether the URL was completed in a previous run.
func (cs *CrawlStore) IsProcessed(url string) (bool, error) {
	var count int
	err := cs.db.QueryRow("SELECT COUNT(1) FROM processed_models WHERE url = ?", url).Scan(&count)
	if err != nil {
		return false, common.WrapError(err, "failed to query crawl state")
	}
	return count > 0, nil
}

// MarkProcessed records a completed model. Re-marking an existing URL
// updates its row.
func (cs *CrawlStore) MarkProcessed(url, modelID, runID, finalDir string) error {
	_, err := cs.db.Exec(
		"INSERT INTO processed_models (url, model_id, run_id, final_dir, created_at) VALUES (?, ?, ?, ?, ?) "+
			"ON CONFLICT(url) DO UPDATE SET model_id = excluded.model_id, run_id = excluded.run_id, final_dir = excluded.final_dir, created_at = excluded.created_at",
		url, modelID, runID, finalDir, time.Now().UTC(),
	)
	if err != nil {
		return common.WrapError(err, "failed to record processed model")
	}
	return nil
}

// ProcessedCount returns the number of models recorded as processed.
func (cs *CrawlStore) ProcessedCount() (int, error) {
	var count int
	if err := cs.db.QueryRow("SELECT COUNT(1) FROM processed_models").Scan(&count); err != nil {
		return 0, common.WrapError(err, "failed to count processed models")
	}
	return count, nil
}
