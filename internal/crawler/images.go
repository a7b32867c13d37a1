package crawler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"

	"printgrab/internal/common"
	"printgrab/internal/config"
	"printgrab/internal/models"
	"printgrab/internal/pathutil"

	"github.com/rs/zerolog"
)

// imageExtensionRegex pulls a usable extension out of a gallery image URL,
// tolerating query strings after the extension.
var imageExtensionRegex = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|webp)(\?|$)`)

// ImageDownloader fetches gallery images over plain HTTP. Images come from a
// CDN and need no browser session.
type ImageDownloader struct {
	httpClient  *http.Client
	fileManager *common.FileManager
	config      config.CrawlerConfig
	logger      zerolog.Logger
}

// NewImageDownloader creates an image downloader.
func NewImageDownloader(cfg config.CrawlerConfig, logger zerolog.Logger) *ImageDownloader {
	componentLogger := logger.With().Str("component", "ImageDownloader").Logger()

	httpConfig := common.DefaultHTTPClientConfig()
	httpConfig.UserAgent = cfg.UserAgent

	return &ImageDownloader{
		httpClient:  common.NewHTTPClient(httpConfig, componentLogger),
		fileManager: common.NewFileManager(componentLogger),
		config:      cfg,
		logger:      componentLogger,
	}
}

// DownloadImages fetches every image URL on the record into destDir and
// appends the stored paths to the record. Individual failures are logged and
// skipped.
func (id *ImageDownloader) DownloadImages(ctx context.Context, record *models.ModelRecord, destDir string) {
	if len(record.Images) == 0 {
		return
	}
	if err := id.fileManager.EnsureDirectory(destDir, 0755); err != nil {
		id.logger.Error().Err(err).Str("dir", destDir).Msg("Cannot create images directory")
		return
	}

	pause := time.Duration(id.config.ImagePauseMs) * time.Millisecond

	for index, imageURL := range record.Images {
		path, err := id.downloadOne(ctx, imageURL, destDir, index+1)
		if err != nil {
			id.logger.Warn().Err(err).Str("url", imageURL).Msg("Image download failed, skipping")
			continue
		}
		record.DownloadedImagePaths = append(record.DownloadedImagePaths, path)

		if pause > 0 && index < len(record.Images)-1 {
			time.Sleep(pause)
		}
	}

	id.logger.Info().
		Int("downloaded", len(record.DownloadedImagePaths)).
		Int("total", len(record.Images)).
		Msg("Gallery images downloaded")
}

// downloadOne fetches a single image and writes it as image_<n> with the
// extension inferred from the URL.
func (id *ImageDownloader) downloadOne(ctx context.Context, imageURL, destDir string, ordinal int) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", common.WrapError(err, "failed to build image request")
	}
	req.Header.Set("User-Agent", id.config.UserAgent)

	resp, err := id.httpClient.Do(req)
	if err != nil {
		return "", common.WrapError(err, "image request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", common.NewError("image request returned status %d", resp.StatusCode)
	}

	file, err := pathutil.CreateUnique(destDir, fmt.Sprintf("image_%d", ordinal), imageExtension(imageURL))
	if err != nil {
		return "", common.WrapError(err, "failed to create image file")
	}

	if _, err := io.Copy(file, resp.Body); err != nil {
		file.Close()
		return "", common.WrapError(err, "failed to write image data")
	}
	if err := file.Close(); err != nil {
		return "", common.WrapError(err, "failed to close image file")
	}

	return file.Name(), nil
}

// imageExtension infers the file extension from an image URL, defaulting to
// .jpg when the URL gives no hint.
func imageExtension(imageURL string) string {
	match := imageExtensionRegex.FindStringSubmatch(imageURL)
	if match == nil {
		return ".jpg"
	}
	return "." + match[1]
}
