package crawler

import (
	"testing"

	"printgrab/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func newTestBrowserManager() *BrowserManager {
	return NewBrowserManager(config.NewDefaultCrawlerConfig(), zerolog.Nop())
}

func TestBrowserManagerGetBrowserWhenNotRunning(t *testing.T) {
	bm := newTestBrowserManager()

	browser, err := bm.GetBrowser()
	assert.Error(t, err)
	assert.Nil(t, browser)
}

func TestBrowserManagerStopBeforeStartIsNoOp(t *testing.T) {
	bm := newTestBrowserManager()

	assert.NotPanics(t, bm.Stop)
	assert.NotPanics(t, bm.Stop)
}

func TestBrowserManagerStopLeavesPoolOpen(t *testing.T) {
	bm := newTestBrowserManager()
	bm.isRunning = true

	bm.Stop()
	assert.False(t, bm.isRunning)

	// The pool channel must survive Stop so a subsequent Start can fill it
	// again; sending on it must not panic.
	assert.NotPanics(t, func() { bm.browserPool <- nil })
}

func TestBrowserManagerReturnBrowserWhenStopped(t *testing.T) {
	bm := newTestBrowserManager()

	assert.NotPanics(t, func() { bm.ReturnBrowser(nil) })
}
