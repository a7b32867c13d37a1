package orchestrator

import (
	"context"
	"os"
	"path/filepath"
	"regexp"

	"printgrab/internal/common"
	"printgrab/internal/models"
	"printgrab/internal/pathutil"

	"github.com/cheggaaa/pb/v3"
	"github.com/go-rod/rod"
)

// modelIDRegex extracts the numeric model identifier from a model page URL.
var modelIDRegex = regexp.MustCompile(`/model/(\d+)`)

const (
	tempModelDirSuffix = "_temp_model_folder"
	fallbackCategory   = "Uncategorized"
)

// ProcessModels runs the per-model pipeline for every URL. A failing model
// is logged and skipped so one broken page cannot sink the whole run.
func (o *Orchestrator) ProcessModels(ctx context.Context, urls []string) error {
	if len(urls) == 0 {
		o.logger.Warn().Msg("No model URLs to process")
		return nil
	}
	if err := o.browserManager.Start(); err != nil {
		return common.WrapError(err, "failed to start browser")
	}
	if err := o.fileManager.EnsureDirectory(o.tempDownloadDir, 0755); err != nil {
		return common.WrapError(err, "failed to create temp download directory")
	}

	bar := pb.StartNew(len(urls))
	defer bar.Finish()

	processed := 0
	for _, modelURL := range urls {
		if err := ctx.Err(); err != nil {
			return common.WrapError(err, "processing interrupted")
		}

		done, err := o.crawlStore.IsProcessed(modelURL)
		if err != nil {
			o.logger.Warn().Err(err).Str("url", modelURL).Msg("Crawl state lookup failed, processing anyway")
		} else if done {
			o.logger.Debug().Str("url", modelURL).Msg("Already processed, skipping")
			bar.Increment()
			continue
		}

		if err := o.processModel(ctx, modelURL); err != nil {
			o.logger.Error().Err(err).Str("url", modelURL).Msg("Model processing failed, continuing with next")
		} else {
			processed++
		}
		bar.Increment()
	}

	o.logger.Info().Int("processed", processed).Int("total", len(urls)).Msg("Model processing finished")
	return nil
}

// processModel runs the full pipeline for a single model: scrape details,
// download files and images into a temporary work directory, then reconcile
// everything into the final category layout.
func (o *Orchestrator) processModel(ctx context.Context, modelURL string) error {
	modelID := modelIDFromURL(modelURL)
	logger := o.logger.With().Str("model_id", modelID).Logger()
	logger.Info().Str("url", modelURL).Msg("Processing model")

	// The shared download directory must be empty before the trigger so
	// snapshot diffs only ever see this model's downloads.
	if err := o.fileManager.CleanDirectory(o.tempDownloadDir); err != nil {
		return common.WrapError(err, "failed to clean temp download directory")
	}

	tempModelDir := filepath.Join(o.config.StorageConfig.OutputBaseDir, modelID+tempModelDirSuffix)
	tempImagesDir := filepath.Join(tempModelDir, o.config.StorageConfig.ImagesSubdir)
	tempFilesDir := filepath.Join(tempModelDir, o.config.StorageConfig.FilesSubdir)
	for _, dir := range []string{tempImagesDir, tempFilesDir} {
		if err := o.fileManager.EnsureDirectory(dir, 0755); err != nil {
			return common.WrapError(err, "failed to create temp model directory")
		}
	}
	defer func() {
		if err := os.RemoveAll(tempModelDir); err != nil {
			logger.Warn().Err(err).Str("dir", tempModelDir).Msg("Could not remove temp model directory")
		}
	}()

	record := models.NewModelRecord(modelURL)
	if err := o.scrapeAndDownload(ctx, record, tempFilesDir); err != nil {
		return err
	}
	o.images.DownloadImages(ctx, record, tempImagesDir)

	finalModelDir := o.finalModelDir(modelID, record)
	finalImagesDir := filepath.Join(finalModelDir, o.config.StorageConfig.ImagesSubdir)
	finalFilesDir := filepath.Join(finalModelDir, o.config.StorageConfig.FilesSubdir)
	o.reconciler.RelocateRecord(record, tempFilesDir, finalFilesDir, tempImagesDir, finalImagesDir)

	if err := o.modelStore.SaveRecord(finalModelDir, modelID, record); err != nil {
		return err
	}
	if err := o.crawlStore.MarkProcessed(modelURL, modelID, o.runID, finalModelDir); err != nil {
		logger.Warn().Err(err).Msg("Could not record processed model")
	}

	logger.Info().Str("dir", finalModelDir).Msg("Model stored")
	return nil
}

// scrapeAndDownload drives the browser against the model page: details
// first, then the Files tab downloads. The page and browser are released
// before the HTTP image downloads run.
func (o *Orchestrator) scrapeAndDownload(ctx context.Context, record *models.ModelRecord, tempFilesDir string) error {
	browser, err := o.browserManager.GetBrowser()
	if err != nil {
		return common.WrapError(err, "failed to get browser from pool")
	}
	defer o.browserManager.ReturnBrowser(browser)

	if err := o.browserManager.RouteDownloads(browser, o.tempDownloadDir); err != nil {
		return common.WrapError(err, "failed to route browser downloads")
	}

	page, err := o.details.OpenModelPage(ctx, browser, record.URL)
	if err != nil {
		return common.WrapError(err, "failed to open model page")
	}
	defer o.closePage(page)

	if err := o.details.ScrapeDetails(page, record); err != nil {
		return common.WrapError(err, "failed to scrape model details")
	}
	o.files.FetchModelFiles(page, record, tempFilesDir)
	return nil
}

func (o *Orchestrator) closePage(page *rod.Page) {
	if err := page.Close(); err != nil {
		o.logger.Debug().Err(err).Msg("Could not close page")
	}
}

// finalModelDir derives the category/model output directory from the
// scraped record.
func (o *Orchestrator) finalModelDir(modelID string, record *models.ModelRecord) string {
	category := pathutil.SanitizeFilename(record.FirstTag(fallbackCategory))
	if category == "" {
		category = fallbackCategory
	}
	title := pathutil.SanitizeFilename(record.Title)
	if title == "" {
		title = "untitled"
	}
	return filepath.Join(o.config.StorageConfig.OutputBaseDir, category, modelID+"_"+title)
}

// modelIDFromURL extracts the numeric model ID, falling back to a sanitized
// last path segment for URLs that do not match the usual shape.
func modelIDFromURL(modelURL string) string {
	if match := modelIDRegex.FindStringSubmatch(modelURL); match != nil {
		return match[1]
	}
	base := pathutil.SanitizeFilename(filepath.Base(modelURL))
	if base == "" {
		return "unknown"
	}
	return base
}
