package browser

import (
	"context"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"

// mediaBlockPatterns keeps image/video/audio subresources off the wire;
// the extractors only read text and markup.
var mediaBlockPatterns = []string{
	"*.png", "*.jpg", "*.jpeg", "*.gif", "*.webp", "*.svg", "*.ico",
	"*.mp4", "*.webm", "*.avi", "*.mov",
	"*.mp3", "*.wav", "*.ogg",
	"*.woff", "*.woff2", "*.ttf",
}

// ChromeProvider implements PageProvider on a shared headless Chrome
// allocator. One allocator serves many tabs; each Open gets its own tab.
type ChromeProvider struct {
	allocCtx context.Context
	cancel   context.CancelFunc
}

// ChromeOption configures the provider.
type ChromeOption func(*chromeConfig)

type chromeConfig struct {
	headless bool
}

// WithHeadful runs the browser with a visible window, for debugging.
func WithHeadful() ChromeOption {
	return func(c *chromeConfig) {
		c.headless = false
	}
}

// NewChromeProvider starts a Chrome allocator with the hardened flag set.
func NewChromeProvider(ctx context.Context, opts ...ChromeOption) *ChromeProvider {
	cfg := chromeConfig{headless: true}
	for _, o := range opts {
		o(&cfg)
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(userAgent),
	)
	allocCtx, cancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	return &ChromeProvider{allocCtx: allocCtx, cancel: cancel}
}

// Open navigates a fresh tab to url and snapshots the rendered page.
func (p *ChromeProvider) Open(ctx context.Context, url string, timeout time.Duration) (*Page, error) {
	tabCtx, cancelTab := chromedp.NewContext(p.allocCtx)
	defer cancelTab()

	tabCtx, cancelBound := boundContext(tabCtx, ctx, timeout)
	defer cancelBound()

	var text, html string
	err := chromedp.Run(tabCtx,
		network.Enable(),
		network.SetBlockedURLs(mediaBlockPatterns),
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Evaluate(`document.body ? document.body.innerText : ""`, &text),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		// honor the caller's context over tab-local timeouts
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, eris.Wrapf(err, "browser: open %s", url)
	}

	zap.L().Debug("page rendered",
		zap.String("url", url),
		zap.Int("text_len", len(text)),
	)

	return NewPage(url, text, html), nil
}

// Close tears down the allocator and every tab under it.
func (p *ChromeProvider) Close() {
	p.cancel()
}

// boundContext derives a context from parent that is canceled by the local
// timeout or by the caller's context, whichever fires first. Tab contexts
// descend from the allocator, not the caller, so without this a stop request
// would wait out the full navigation timeout.
func boundContext(parent, caller context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	stop := context.AfterFunc(caller, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}
