package crawler

import (
	"context"
	"strings"
	"time"

	"printgrab/internal/common"
	"printgrab/internal/config"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/rs/zerolog"
)

// ListingCollector walks the infinite-scroll model listing and collects
// unique model page URLs.
type ListingCollector struct {
	browserManager *BrowserManager
	config         config.CrawlerConfig
	logger         zerolog.Logger
}

// NewListingCollector creates a listing collector.
func NewListingCollector(browserManager *BrowserManager, cfg config.CrawlerConfig, logger zerolog.Logger) *ListingCollector {
	return &ListingCollector{
		browserManager: browserManager,
		config:         cfg,
		logger:         logger.With().Str("component", "ListingCollector").Logger(),
	}
}

// CollectModelURLs scrolls the listing page until no new content loads or the
// limit is reached. A limit of 0 means no limit.
func (lc *ListingCollector) CollectModelURLs(ctx context.Context, limit int) ([]string, error) {
	browser, err := lc.browserManager.GetBrowser()
	if err != nil {
		return nil, err
	}
	defer lc.browserManager.ReturnBrowser(browser)

	page, err := lc.browserManager.NewPage(ctx, browser)
	if err != nil {
		return nil, err
	}
	defer page.Close()

	if err := page.Navigate(lc.config.ListingURL); err != nil {
		return nil, common.WrapError(err, "failed to navigate to listing: "+lc.config.ListingURL)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, common.WrapError(err, "listing page load timed out")
	}

	cookieTimeout := time.Duration(lc.config.CookieTimeoutSecs) * time.Second
	clickTimeout := time.Duration(lc.config.ClickTimeoutSecs) * time.Second
	scrollPause := time.Duration(lc.config.ScrollPauseSecs) * time.Second

	dismissCookieBanner(page, cookieTimeout, clickTimeout, lc.logger)
	lc.applyFilters(page, clickTimeout, scrollPause)

	seen := make(map[string]struct{})
	var urls []string
	lastHeight := 0
	scrollAttempts := 0

	lc.logger.Info().Msg("Starting infinite scroll to collect model links")

	for {
		if err := ctx.Err(); err != nil {
			return urls, err
		}

		countBefore := lc.countModelLinks(page)

		if err := scrollToBottom(page); err != nil {
			lc.logger.Warn().Err(err).Msg("Scroll failed")
		}
		time.Sleep(scrollPause)

		newHeight, err := documentHeight(page)
		if err != nil {
			lc.logger.Warn().Err(err).Msg("Could not read document height")
		}
		countAfter := lc.countModelLinks(page)

		if newHeight == lastHeight && countAfter <= countBefore {
			scrollAttempts++
			lc.logger.Debug().
				Int("attempt", scrollAttempts).
				Int("max_attempts", lc.config.MaxScrollAttempts).
				Msg("No new content after scroll")
			if scrollAttempts >= lc.config.MaxScrollAttempts {
				lc.logger.Info().Msg("Reached max scroll attempts with no new content, ending scroll")
				break
			}
		} else {
			scrollAttempts = 0
		}
		lastHeight = newHeight

		for _, link := range lc.extractModelLinks(page) {
			if _, ok := seen[link]; ok {
				continue
			}
			seen[link] = struct{}{}
			urls = append(urls, link)
		}

		lc.logger.Info().Int("collected", len(urls)).Msg("Unique model links so far")

		if limit > 0 && len(urls) >= limit {
			lc.logger.Info().Int("limit", limit).Msg("Collection limit reached, ending scroll")
			urls = urls[:limit]
			break
		}
	}

	return urls, nil
}

// applyFilters activates the "Makes" filter and switches the period to
// "All time". Filter controls that cannot be found are logged and skipped:
// the listing is still usable without them.
func (lc *ListingCollector) applyFilters(page *rod.Page, clickTimeout, scrollPause time.Duration) {
	makesButton, err := page.Timeout(clickTimeout).ElementX(makesFilterXPath)
	if err != nil {
		lc.logger.Warn().Err(err).Msg("'Makes' filter button not found")
	} else {
		class, _ := makesButton.Attribute("class")
		if class == nil || !strings.Contains(*class, "active") {
			if err := makesButton.Click(proto.InputMouseButtonLeft, 1); err != nil {
				lc.logger.Warn().Err(err).Msg("Could not click 'Makes' filter")
			} else {
				lc.logger.Debug().Msg("Clicked 'Makes' filter")
				time.Sleep(scrollPause + 2*time.Second)
			}
		}
	}

	if err := clickElementX(page, periodDropdownXPath, clickTimeout); err != nil {
		lc.logger.Warn().Err(err).Msg("Period dropdown not found")
		return
	}
	time.Sleep(time.Second)

	if err := clickElementX(page, allTimeOptionXPath, clickTimeout); err != nil {
		lc.logger.Warn().Err(err).Msg("'All time' option not found")
		return
	}
	lc.logger.Debug().Msg("Selected 'All time' period")
	time.Sleep(scrollPause + 2*time.Second)
}

// countModelLinks counts model card links currently in the DOM.
func (lc *ListingCollector) countModelLinks(page htmlSource) int {
	doc, err := lc.parsePage(page)
	if err != nil {
		return 0
	}
	return doc.Find(modelCardLinkSelector).Length()
}

// extractModelLinks returns absolute, query-stripped model URLs in the DOM.
func (lc *ListingCollector) extractModelLinks(page htmlSource) []string {
	doc, err := lc.parsePage(page)
	if err != nil {
		lc.logger.Warn().Err(err).Msg("Failed to parse listing HTML")
		return nil
	}

	var links []string
	doc.Find(modelCardLinkSelector).Each(func(_ int, selection *goquery.Selection) {
		href, ok := selection.Attr("href")
		if !ok || !strings.HasPrefix(href, modelPathPrefix) {
			return
		}
		if idx := strings.IndexByte(href, '?'); idx >= 0 {
			href = href[:idx]
		}
		links = append(links, printablesBaseURL+href)
	})
	return links
}

type htmlSource interface {
	HTML() (string, error)
}

func (lc *ListingCollector) parsePage(page htmlSource) (*goquery.Document, error) {
	html, err := page.HTML()
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}
