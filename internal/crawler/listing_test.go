package crawler

import (
	"errors"
	"testing"

	"printgrab/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

// staticPage serves canned listing HTML in place of a live browser page.
type staticPage struct {
	html string
	err  error
}

func (p staticPage) HTML() (string, error) {
	return p.html, p.err
}

func newTestListingCollector() *ListingCollector {
	return NewListingCollector(nil, config.NewDefaultCrawlerConfig(), zerolog.Nop())
}

func TestExtractModelLinks(t *testing.T) {
	page := staticPage{html: `
<div class="grid">
  <a class="card-image" href="/model/101-flexi-dragon">dragon</a>
  <a class="card-image" href="/model/102-widget?lang=en">widget</a>
  <a class="card-image" href="/blog/some-post">blog</a>
  <a class="card-link" href="/model/103-no-image-class">other</a>
  <a class="card-image" href="https://elsewhere.example/model/104">absolute</a>
</div>`}

	lc := newTestListingCollector()
	links := lc.extractModelLinks(page)

	// Relative /model/ hrefs only, query strings stripped, prefixed with the
	// site base URL.
	assert.Equal(t, []string{
		"https://www.printables.com/model/101-flexi-dragon",
		"https://www.printables.com/model/102-widget",
	}, links)
}

func TestExtractModelLinksEmptyPage(t *testing.T) {
	lc := newTestListingCollector()

	assert.Empty(t, lc.extractModelLinks(staticPage{html: "<html><body></body></html>"}))
}

func TestExtractModelLinksHTMLError(t *testing.T) {
	lc := newTestListingCollector()

	assert.Empty(t, lc.extractModelLinks(staticPage{err: errors.New("page gone")}))
}

func TestCountModelLinks(t *testing.T) {
	page := staticPage{html: `
<a class="card-image" href="/model/1">a</a>
<a class="card-image" href="/model/2">b</a>
<a class="card-image" href="/other/3">c</a>`}

	lc := newTestListingCollector()

	assert.Equal(t, 2, lc.countModelLinks(page))
}
