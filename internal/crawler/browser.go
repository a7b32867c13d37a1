package crawler

import (
	"context"
	"sync"
	"time"

	"printgrab/internal/common"
	"printgrab/internal/config"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/rs/zerolog"
)

// BrowserManager manages a pool of headless browser instances
type BrowserManager struct {
	config      config.CrawlerConfig
	logger      zerolog.Logger
	browserPool chan *rod.Browser
	launcher    *launcher.Launcher
	mutex       sync.Mutex
	isRunning   bool
}

// NewBrowserManager creates a new browser manager
func NewBrowserManager(cfg config.CrawlerConfig, logger zerolog.Logger) *BrowserManager {
	return &BrowserManager{
		config:      cfg,
		logger:      logger.With().Str("component", "BrowserManager").Logger(),
		browserPool: make(chan *rod.Browser, cfg.BrowserPoolSize),
	}
}

// Start launches Chrome and fills the browser pool
func (bm *BrowserManager) Start() error {
	bm.mutex.Lock()
	defer bm.mutex.Unlock()

	if bm.isRunning {
		return nil
	}

	browserLauncher := launcher.New().Headless(bm.config.Headless)

	if bm.config.ChromePath != "" {
		browserLauncher = browserLauncher.Bin(bm.config.ChromePath)
	}

	browserLauncher = browserLauncher.
		Set("no-sandbox").
		Set("disable-gpu").
		Set("disable-dev-shm-usage").
		Set("no-first-run").
		Set("disable-default-apps").
		Set("disable-sync")

	controlURL, err := browserLauncher.Launch()
	if err != nil {
		return common.WrapError(err, "failed to launch browser")
	}
	bm.launcher = browserLauncher

	// A fresh pool channel each start keeps the manager restartable after
	// Stop has drained the previous one.
	bm.browserPool = make(chan *rod.Browser, bm.config.BrowserPoolSize)
	for i := 0; i < bm.config.BrowserPoolSize; i++ {
		browser := rod.New().ControlURL(controlURL)
		if err := browser.Connect(); err != nil {
			bm.logger.Error().Err(err).Int("browser_index", i).Msg("Failed to connect browser")
			continue
		}
		bm.browserPool <- browser
	}

	bm.isRunning = true
	bm.logger.Info().Int("pool_size", bm.config.BrowserPoolSize).Msg("Browser manager started")
	return nil
}

// Stop closes all browser instances and the launcher
func (bm *BrowserManager) Stop() {
	bm.mutex.Lock()
	defer bm.mutex.Unlock()

	if !bm.isRunning {
		return
	}

	// Drain without closing the channel so a later Start cannot send on a
	// closed pool.
drain:
	for {
		select {
		case browser := <-bm.browserPool:
			if browser != nil {
				_ = browser.Close()
			}
		default:
			break drain
		}
	}

	if bm.launcher != nil {
		bm.launcher.Cleanup()
	}

	bm.isRunning = false
	bm.logger.Info().Msg("Browser manager stopped")
}

// GetBrowser gets a browser from the pool
func (bm *BrowserManager) GetBrowser() (*rod.Browser, error) {
	if !bm.isRunning {
		return nil, common.NewError("browser manager not running")
	}

	select {
	case browser := <-bm.browserPool:
		return browser, nil
	case <-time.After(10 * time.Second):
		return nil, common.NewError("timeout waiting for browser from pool")
	}
}

// ReturnBrowser returns a browser to the pool
func (bm *BrowserManager) ReturnBrowser(browser *rod.Browser) {
	if !bm.isRunning || browser == nil {
		return
	}

	select {
	case bm.browserPool <- browser:
	default:
		_ = browser.Close()
	}
}

// RouteDownloads instructs the browser to write all downloads into dir
// without prompting. Every triggered download for this browser lands there
// until re-routed.
func (bm *BrowserManager) RouteDownloads(browser *rod.Browser, dir string) error {
	err := proto.BrowserSetDownloadBehavior{
		Behavior:     proto.BrowserSetDownloadBehaviorBehaviorAllow,
		DownloadPath: dir,
	}.Call(browser)
	if err != nil {
		return common.WrapError(err, "failed to set download directory: "+dir)
	}
	bm.logger.Debug().Str("dir", dir).Msg("Downloads routed to temp directory")
	return nil
}

// NewPage creates a page with the configured viewport and user agent
func (bm *BrowserManager) NewPage(ctx context.Context, browser *rod.Browser) (*rod.Page, error) {
	page, err := browser.Context(ctx).Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, common.WrapError(err, "failed to create page")
	}

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:  bm.config.WindowWidth,
		Height: bm.config.WindowHeight,
	}); err != nil {
		bm.logger.Warn().Err(err).Msg("Failed to set viewport")
	}

	if bm.config.UserAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
			UserAgent: bm.config.UserAgent,
		}); err != nil {
			bm.logger.Warn().Err(err).Msg("Failed to set user agent")
		}
	}

	return page, nil
}
