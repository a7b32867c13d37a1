package crawler

import (
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/rs/zerolog"
)

// dismissCookieBanner accepts the cookie consent dialog when present. The
// banner intercepts clicks anywhere on the page, so downloads cannot be
// triggered until it is gone. Absence of the banner is not an error.
func dismissCookieBanner(page *rod.Page, cookieTimeout, clickTimeout time.Duration, logger zerolog.Logger) {
	acceptButton, err := page.Timeout(cookieTimeout).Element(cookieAcceptSelector)
	if err != nil {
		logger.Debug().Msg("No cookie consent banner found within timeout")
		return
	}

	if err := acceptButton.Click(proto.InputMouseButtonLeft, 1); err != nil {
		logger.Warn().Err(err).Msg("Failed to click cookie accept button")
		return
	}
	logger.Debug().Msg("Accepted cookie consent")

	waitUntilGone(page, cookieBannerSelector, clickTimeout)
}

// waitUntilGone polls until the selector no longer matches, or the timeout
// elapses.
func waitUntilGone(page *rod.Page, selector string, timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		has, _, err := page.Has(selector)
		if err != nil || !has {
			return
		}
		time.Sleep(250 * time.Millisecond)
	}
}

// clickElement finds an element within the timeout and clicks it.
func clickElement(page *rod.Page, selector string, timeout time.Duration) error {
	element, err := page.Timeout(timeout).Element(selector)
	if err != nil {
		return err
	}
	return element.Click(proto.InputMouseButtonLeft, 1)
}

// clickElementX is clickElement for XPath selectors.
func clickElementX(page *rod.Page, xpath string, timeout time.Duration) error {
	element, err := page.Timeout(timeout).ElementX(xpath)
	if err != nil {
		return err
	}
	return element.Click(proto.InputMouseButtonLeft, 1)
}

// documentHeight reads the current scroll height of the page body.
func documentHeight(page *rod.Page) (int, error) {
	result, err := page.Eval(documentHeightScript)
	if err != nil {
		return 0, err
	}
	return result.Value.Int(), nil
}

// scrollToBottom scrolls the page to the bottom to trigger lazy loading.
func scrollToBottom(page *rod.Page) error {
	_, err := page.Eval(scrollToBottomScript)
	return err
}
