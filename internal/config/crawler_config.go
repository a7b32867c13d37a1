package config

// Default crawler settings
const (
	DefaultListingURL          = "https://www.printables.com/model"
	DefaultUserAgent           = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36"
	DefaultWindowWidth         = 1920
	DefaultWindowHeight        = 1080
	DefaultBrowserPoolSize     = 1
	DefaultPageLoadTimeoutSecs = 30
	DefaultCookieTimeoutSecs   = 15
	DefaultClickTimeoutSecs    = 10
	DefaultScrollPauseSecs     = 3
	DefaultMaxScrollAttempts   = 20
	DefaultImagePauseMs        = 500
)

// CrawlerConfig holds settings for driving the headless browser against the site.
type CrawlerConfig struct {
	ListingURL          string `json:"listing_url,omitempty" yaml:"listing_url,omitempty" validate:"required,url"`
	UserAgent           string `json:"user_agent,omitempty" yaml:"user_agent,omitempty"`
	ChromePath          string `json:"chrome_path,omitempty" yaml:"chrome_path,omitempty"`
	Headless            bool   `json:"headless,omitempty" yaml:"headless,omitempty"`
	BrowserPoolSize     int    `json:"browser_pool_size,omitempty" yaml:"browser_pool_size,omitempty" validate:"min=1,max=8"`
	WindowWidth         int    `json:"window_width,omitempty" yaml:"window_width,omitempty"`
	WindowHeight        int    `json:"window_height,omitempty" yaml:"window_height,omitempty"`
	PageLoadTimeoutSecs int    `json:"page_load_timeout_secs,omitempty" yaml:"page_load_timeout_secs,omitempty" validate:"min=1"`
	CookieTimeoutSecs   int    `json:"cookie_timeout_secs,omitempty" yaml:"cookie_timeout_secs,omitempty" validate:"min=1"`
	ClickTimeoutSecs    int    `json:"click_timeout_secs,omitempty" yaml:"click_timeout_secs,omitempty" validate:"min=1"`
	ScrollPauseSecs     int    `json:"scroll_pause_secs,omitempty" yaml:"scroll_pause_secs,omitempty" validate:"min=1"`
	MaxScrollAttempts   int    `json:"max_scroll_attempts,omitempty" yaml:"max_scroll_attempts,omitempty" validate:"min=1"`
	ImagePauseMs        int    `json:"image_pause_ms,omitempty" yaml:"image_pause_ms,omitempty"`
}

// NewDefaultCrawlerConfig creates a CrawlerConfig with default values
func NewDefaultCrawlerConfig() CrawlerConfig {
	return CrawlerConfig{
		ListingURL:          DefaultListingURL,
		UserAgent:           DefaultUserAgent,
		Headless:            true,
		BrowserPoolSize:     DefaultBrowserPoolSize,
		WindowWidth:         DefaultWindowWidth,
		WindowHeight:        DefaultWindowHeight,
		PageLoadTimeoutSecs: DefaultPageLoadTimeoutSecs,
		CookieTimeoutSecs:   DefaultCookieTimeoutSecs,
		ClickTimeoutSecs:    DefaultClickTimeoutSecs,
		ScrollPauseSecs:     DefaultScrollPauseSecs,
		MaxScrollAttempts:   DefaultMaxScrollAttempts,
		ImagePauseMs:        DefaultImagePauseMs,
	}
}
