package crawler

import (
	"path/filepath"
	"strings"
	"time"

	"printgrab/internal/common"
	"printgrab/internal/config"
	"printgrab/internal/downloads"
	"printgrab/internal/models"
	"printgrab/internal/pathutil"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/rs/zerolog"
)

// FileFetcher triggers model file downloads through the browser and verifies
// their completion before handing them to the record.
type FileFetcher struct {
	watcher         *downloads.Watcher
	fileManager     *common.FileManager
	downloadsConfig config.DownloadsConfig
	crawlerConfig   config.CrawlerConfig
	logger          zerolog.Logger
}

// NewFileFetcher creates a file fetcher.
func NewFileFetcher(watcher *downloads.Watcher, downloadsCfg config.DownloadsConfig, crawlerCfg config.CrawlerConfig, logger zerolog.Logger) *FileFetcher {
	componentLogger := logger.With().Str("component", "FileFetcher").Logger()
	return &FileFetcher{
		watcher:         watcher,
		fileManager:     common.NewFileManager(componentLogger),
		downloadsConfig: downloadsCfg,
		crawlerConfig:   crawlerCfg,
		logger:          componentLogger,
	}
}

// FetchModelFiles opens the Files tab and downloads the model's files into
// destDir via the shared temporary download directory. The bulk "download
// all" archive is preferred; individual file buttons are the fallback. Every
// failure downgrades to "this file was not obtained" and the record simply
// omits it.
func (ff *FileFetcher) FetchModelFiles(page *rod.Page, record *models.ModelRecord, destDir string) {
	clickTimeout := time.Duration(ff.crawlerConfig.ClickTimeoutSecs) * time.Second
	scrollPause := time.Duration(ff.crawlerConfig.ScrollPauseSecs) * time.Second

	if err := clickElement(page, filesTabSelector, clickTimeout); err != nil {
		ff.logger.Warn().Err(err).Msg("Files tab not found, no files downloaded")
		return
	}
	time.Sleep(scrollPause)

	if ff.fetchBulkArchive(page, record, destDir, clickTimeout) {
		return
	}
	ff.fetchIndividualFiles(page, record, destDir, clickTimeout)
}

// fetchBulkArchive clicks the "download all" button and reports whether a
// verified archive was obtained.
func (ff *FileFetcher) fetchBulkArchive(page *rod.Page, record *models.ModelRecord, destDir string, clickTimeout time.Duration) bool {
	tempDir := ff.downloadsConfig.TempDir

	// The baseline must be captured before the click, or the archive is
	// invisible to the snapshot diff.
	baseline := ff.watcher.TakeSnapshot(tempDir)

	if err := clickElement(page, downloadAllSelector, clickTimeout); err != nil {
		ff.logger.Debug().Err(err).Msg("'Download all' button not found, trying individual files")
		return false
	}
	ff.logger.Info().Msg("Triggered 'download all', waiting for archive")

	bulkTimeout := time.Duration(ff.downloadsConfig.BulkTimeoutSecs) * time.Second
	result := ff.watcher.WaitForCompletion(tempDir, baseline, bulkTimeout)
	if !result.Completed() {
		ff.logger.Warn().Msg("'Download all' timed out or failed to verify")
		ff.logPartialLeftovers(tempDir)
		return false
	}

	return ff.stashDownload(result.Path, destDir, record)
}

// fetchIndividualFiles walks the per-file download buttons, verifying each
// triggered download before moving on to the next.
func (ff *FileFetcher) fetchIndividualFiles(page *rod.Page, record *models.ModelRecord, destDir string, clickTimeout time.Duration) {
	buttons, err := page.Timeout(clickTimeout).Elements(downloadFileSelector)
	if err != nil || len(buttons) == 0 {
		ff.logger.Warn().Msg("No individual file download buttons found")
		return
	}
	ff.logger.Info().Int("count", len(buttons)).Msg("Downloading individual files")

	tempDir := ff.downloadsConfig.TempDir
	fileTimeout := time.Duration(ff.downloadsConfig.FileTimeoutSecs) * time.Second

	for index, button := range buttons {
		fileName := ff.fileNameForButton(button)
		baseline := ff.watcher.TakeSnapshot(tempDir)

		if err := button.Click(proto.InputMouseButtonLeft, 1); err != nil {
			ff.logger.Warn().Err(err).Int("index", index).Str("file", fileName).Msg("Could not click download button, skipping file")
			continue
		}

		result := ff.watcher.WaitForCompletion(tempDir, baseline, fileTimeout)
		if !result.Completed() {
			ff.logger.Warn().Str("file", fileName).Msg("Individual download timed out or failed to verify")
			ff.logPartialLeftovers(tempDir)
			continue
		}

		ff.stashDownload(result.Path, destDir, record)
	}
}

// fileNameForButton resolves the display name next to a download button, for
// logging only.
func (ff *FileFetcher) fileNameForButton(button *rod.Element) string {
	nameElement, err := button.Timeout(2 * time.Second).ElementX(fileNameSiblingXPath)
	if err != nil {
		return "unknown"
	}
	text, err := nameElement.Text()
	if err != nil {
		return "unknown"
	}
	return strings.TrimSpace(text)
}

// stashDownload moves a verified download out of the shared temporary
// directory into the model's files directory, avoiding basename collisions.
func (ff *FileFetcher) stashDownload(verifiedPath, destDir string, record *models.ModelRecord) bool {
	if err := ff.fileManager.EnsureDirectory(destDir, 0755); err != nil {
		ff.logger.Error().Err(err).Str("dir", destDir).Msg("Cannot create files directory")
		return false
	}

	base := filepath.Base(verifiedPath)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	destPath := pathutil.AllocatePath(destDir, stem, ext)

	if err := ff.fileManager.MoveFile(verifiedPath, destPath); err != nil {
		// Keep the temp path in the record rather than losing the file; the
		// reconciler re-derives paths from what actually moved later.
		ff.logger.Warn().Err(err).Str("path", verifiedPath).Msg("Could not move verified download, recording temp path")
		record.DownloadedFilePaths = append(record.DownloadedFilePaths, verifiedPath)
		return true
	}

	ff.logger.Info().Str("path", destPath).Msg("Download verified and stored")
	record.DownloadedFilePaths = append(record.DownloadedFilePaths, destPath)
	return true
}

// logPartialLeftovers reports in-progress download remnants after a timeout,
// which usually means the transfer was still running when the budget ran out.
func (ff *FileFetcher) logPartialLeftovers(tempDir string) {
	names, err := downloads.OSDirFS().List(tempDir)
	if err != nil {
		return
	}
	var partials []string
	for _, name := range names {
		lower := strings.ToLower(name)
		for _, ext := range ff.downloadsConfig.PartialExtensions {
			if strings.HasSuffix(lower, ext) {
				partials = append(partials, name)
				break
			}
		}
	}
	if len(partials) > 0 {
		ff.logger.Warn().Strs("partials", partials).Msg("Partial download files left in temp directory")
	}
}
