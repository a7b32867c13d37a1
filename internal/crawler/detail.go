package crawler

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"printgrab/internal/common"
	"printgrab/internal/config"
	"printgrab/internal/models"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-rod/rod"
	"github.com/rs/zerolog"
)

var gramsValueRegex = regexp.MustCompile(`(?i)(\d+(\.\d+)?)\s*g`)

// DetailScraper extracts model metadata from a model detail page.
type DetailScraper struct {
	browserManager *BrowserManager
	config         config.CrawlerConfig
	logger         zerolog.Logger
}

// NewDetailScraper creates a detail scraper.
func NewDetailScraper(browserManager *BrowserManager, cfg config.CrawlerConfig, logger zerolog.Logger) *DetailScraper {
	return &DetailScraper{
		browserManager: browserManager,
		config:         cfg,
		logger:         logger.With().Str("component", "DetailScraper").Logger(),
	}
}

// OpenModelPage navigates to the model page, handles the cookie banner and
// waits for the detail header to render.
func (ds *DetailScraper) OpenModelPage(ctx context.Context, browser *rod.Browser, modelURL string) (*rod.Page, error) {
	page, err := ds.browserManager.NewPage(ctx, browser)
	if err != nil {
		return nil, err
	}

	if err := page.Navigate(modelURL); err != nil {
		page.Close()
		return nil, common.WrapError(err, "failed to navigate to model page: "+modelURL)
	}
	if err := page.WaitLoad(); err != nil {
		page.Close()
		return nil, common.WrapError(err, "model page load timed out: "+modelURL)
	}

	cookieTimeout := time.Duration(ds.config.CookieTimeoutSecs) * time.Second
	clickTimeout := time.Duration(ds.config.ClickTimeoutSecs) * time.Second
	dismissCookieBanner(page, cookieTimeout, clickTimeout, ds.logger)

	if _, err := page.Timeout(clickTimeout).Element(detailHeaderSelector); err != nil {
		page.Close()
		return nil, common.WrapError(err, "detail header never appeared: "+modelURL)
	}

	return page, nil
}

// ScrapeDetails fills the record with title, description, weight, tags and
// gallery image URLs from the rendered page.
func (ds *DetailScraper) ScrapeDetails(page *rod.Page, record *models.ModelRecord) error {
	html, err := page.HTML()
	if err != nil {
		return common.WrapError(err, "failed to read model page HTML")
	}
	if err := extractModelDetails(html, record); err != nil {
		return err
	}

	ds.logger.Info().
		Str("title", record.Title).
		Int("images", len(record.Images)).
		Int("tags", len(record.Tags)).
		Msg("Scraped model details")
	return nil
}

// extractModelDetails parses a model detail document into the record.
func extractModelDetails(html string, record *models.ModelRecord) error {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return common.WrapError(err, "failed to parse model page HTML")
	}

	if title := strings.TrimSpace(doc.Find(modelTitleSelector).First().Text()); title != "" {
		record.Title = title
	}

	if description := strings.TrimSpace(doc.Find(descriptionSelector).First().Text()); description != "" {
		record.Description = description
	}

	doc.Find(gallerySelector).Each(func(_ int, selection *goquery.Selection) {
		if src, ok := selection.Attr("src"); ok {
			record.AddImageURL(src)
		}
	})

	record.Grams = extractGrams(doc)

	doc.Find(breadcrumbsSelector).Each(func(_ int, selection *goquery.Selection) {
		tag := strings.TrimSpace(selection.Text())
		if tag != "" && tag != "3D Models" {
			record.AddTag(tag)
		}
	})
	doc.Find(attributeTagSelector).Each(func(_ int, selection *goquery.Selection) {
		record.AddTag(strings.TrimSpace(selection.Text()))
	})

	return nil
}

// extractGrams finds the attribute block carrying the scale icon and parses
// the printed weight out of its text.
func extractGrams(doc *goquery.Document) models.Grams {
	grams := models.Grams{}
	doc.Find(attributeSelector).EachWithBreak(func(_ int, selection *goquery.Selection) bool {
		if selection.Find(gramsIconSelector).Length() == 0 {
			return true
		}

		text := strings.TrimSpace(selection.Find("div").Last().Text())
		match := gramsValueRegex.FindStringSubmatch(text)
		if match == nil {
			return true
		}

		value, err := strconv.ParseFloat(match[1], 64)
		if err != nil {
			return true
		}
		grams = models.KnownGrams(value)
		return false
	})
	return grams
}
