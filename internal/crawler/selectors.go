package crawler

// CSS and XPath selectors for the model site. Kept in one place because the
// site's generated svelte class names churn between deployments.
const (
	cookieAcceptSelector = "button.cky-btn.cky-btn-accept"
	cookieBannerSelector = "div.cky-consent-bar"

	makesFilterXPath    = `//button[contains(@class, 't') and contains(@class, 'svelte-l6pc2w') and text()='Makes']`
	periodDropdownXPath = `//div[./span[@class='period-label' and text()='In:']]//button[contains(@class, 'f') and contains(@class, 'svelte-ar8eb')]`
	allTimeOptionXPath  = `//div[contains(@class, 'dropdown-menu')]//button[text()='All time']`

	modelCardLinkSelector = `a.card-image[href*="/model/"]`

	detailHeaderSelector = "div.detail-header h1"
	modelTitleSelector   = "div.model-header h1"
	descriptionSelector  = "div.summary"
	breadcrumbsSelector  = "div.breadcrumbs a"
	attributeTagSelector = "div.attributes div.attr a"
	attributeSelector    = "div.attr"
	gramsIconSelector    = "i.fa-scale-balanced"
	gallerySelector      = `div.image-gallery img[src*="/media/prints/"], div.image-gallery img[src*="/media/stls/"]`

	filesTabSelector       = `a[data-testid="model-tab-files"]`
	downloadAllSelector    = `button[data-testid="download-all-model"]`
	downloadFileSelector   = `button[data-testid="download-file"]`
	fileNameSiblingXPath   = `./ancestor::div[contains(@class, 'download-wrapper')]/preceding-sibling::div[contains(@class, 'info')]//h5[contains(@class, 'name-on-desktop')]//div[contains(@class, 'shrink')]`
	scrollToBottomScript   = `() => window.scrollTo(0, document.body.scrollHeight)`
	documentHeightScript   = `() => document.body.scrollHeight`
	printablesBaseURL      = "https://www.printables.com"
	modelPathPrefix        = "/model/"
)
