package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/mapleads-cli/internal/collector"
)

const searchBaseURL = "https://www.google.com/maps/search/"

const (
	resultsSelector = `.Nv2PK, div[role="article"], .hfpxzc`
	detailSelector  = `h1, .fontHeadlineLarge, .DUwDvf`
)

// visibleScript lists the rendered result cards. The fingerprint mixes the
// card's position, markup size and title so a re-rendered list does not
// look like fresh cards.
const visibleScript = `(function () {
  const cards = Array.from(document.querySelectorAll('.Nv2PK, div[role="article"], .hfpxzc'));
  return JSON.stringify(cards.map((card, idx) => {
    const title = card.querySelector('div.fontHeadlineSmall');
    return {
      index: idx,
      htmlLength: card.outerHTML.length,
      title: title ? title.textContent.trim() : ''
    };
  }));
})();`

// detailFieldsScript scrapes the fallback fields from the opened detail
// pane with fixed selectors.
const detailFieldsScript = `(function () {
  const pick = (selector) => {
    const node = document.querySelector(selector);
    return node ? node.textContent.trim() : '';
  };
  const pickHref = (selector) => {
    const node = document.querySelector(selector);
    return node ? (node.href || node.getAttribute('href') || '') : '';
  };
  const hoursNode = document.querySelector('[data-item-id="oh"], .t39EBf, .OMl5r, [aria-label*="hour"]');
  let hours = '';
  if (hoursNode) {
    hours = hoursNode.getAttribute('aria-label') || hoursNode.textContent || '';
    hours = hours.trim();
  }
  return JSON.stringify({
    name: pick('h1, .fontHeadlineLarge, .DUwDvf, [data-item-id="title"]'),
    category: pick('.fontBodyMedium button[jsaction*="pane.rating.category"], .skqShb'),
    address: pick('[data-item-id="address"], .rogA2c, .Io6YTe.fontBodyMedium, .LrzXr'),
    phone: pick('[data-item-id="phone"], .UsdlK'),
    website: pickHref('a[data-item-id="authority"], a[aria-label*="Website"]'),
    email: pickHref('a[href^="mailto:"]').replace(/^mailto:/, ''),
    hours: hours
  });
})();`

// scrollScript advances the results list by one viewport-ish step.
const scrollScript = `(function () {
  const feed = document.querySelector('div[role="main"] div[aria-label][tabindex="0"], div[role="feed"]');
  if (feed) {
    feed.scrollBy(0, 1500);
  } else {
    window.scrollBy(0, 1500);
  }
})();`

// aggressiveScrollScript jumps much further, for lists that stall.
const aggressiveScrollScript = `(function () {
  const feed = document.querySelector('div[role="main"] div[aria-label][tabindex="0"], div[role="feed"]');
  for (let i = 0; i < 5; i++) {
    if (feed) {
      feed.scrollBy(0, 3000);
    }
    window.scrollBy(0, 2000);
  }
})();`

// MapsFeed implements collector.Feed against a live map search results tab.
// The tab stays open for the life of the feed; Visible, Open and Scroll all
// act on the same page.
type MapsFeed struct {
	tabCtx context.Context
	cancel context.CancelFunc
}

// NewMapsFeed opens a search tab for the query and waits for the results
// list to render.
func NewMapsFeed(provider *ChromeProvider, query string) (*MapsFeed, error) {
	tabCtx, cancel := chromedp.NewContext(provider.allocCtx)

	searchURL := searchBaseURL + url.PathEscape(query)
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(searchURL),
		chromedp.WaitVisible(`div[role="feed"]`, chromedp.ByQuery),
	)
	if err != nil {
		cancel()
		return nil, eris.Wrapf(err, "browser: open search %q", query)
	}

	zap.L().Info("search results loaded", zap.String("query", query))
	return &MapsFeed{tabCtx: tabCtx, cancel: cancel}, nil
}

type visibleCard struct {
	Index      int    `json:"index"`
	HTMLLength int    `json:"htmlLength"`
	Title      string `json:"title"`
}

// Visible lists the currently rendered result cards.
func (f *MapsFeed) Visible(ctx context.Context) ([]collector.CardRef, error) {
	runCtx, cancel := f.runContext(ctx, 15*time.Second)
	defer cancel()

	var raw string
	if err := chromedp.Run(runCtx, chromedp.Evaluate(visibleScript, &raw)); err != nil {
		return nil, eris.Wrap(err, "browser: list visible cards")
	}

	var cards []visibleCard
	if err := json.Unmarshal([]byte(raw), &cards); err != nil {
		return nil, eris.Wrap(err, "browser: decode visible cards")
	}

	refs := make([]collector.CardRef, 0, len(cards))
	for _, c := range cards {
		refs = append(refs, collector.CardRef{
			Index:       c.Index,
			Fingerprint: fmt.Sprintf("%d_%d_%s", c.Index, c.HTMLLength, c.Title),
			Title:       c.Title,
		})
	}
	return refs, nil
}

// Open clicks the referenced card and captures the detail pane: the full
// visible text for the extractors plus selector-scraped fallback fields.
func (f *MapsFeed) Open(ctx context.Context, ref collector.CardRef) (*collector.Card, error) {
	runCtx, cancel := f.runContext(ctx, 30*time.Second)
	defer cancel()

	clickScript := fmt.Sprintf(
		`(function () {
  const cards = document.querySelectorAll(%q);
  if (cards[%d]) {
    cards[%d].click();
  }
})();`, resultsSelector, ref.Index, ref.Index)

	var text, rawFields string
	err := chromedp.Run(runCtx,
		chromedp.Evaluate(clickScript, nil),
		chromedp.WaitVisible(detailSelector, chromedp.ByQuery),
		chromedp.Sleep(time.Second),
		chromedp.Evaluate(`document.body ? document.body.innerText : ""`, &text),
		chromedp.Evaluate(detailFieldsScript, &rawFields),
	)
	if err != nil {
		return nil, eris.Wrapf(err, "browser: open card %q", ref.Title)
	}

	var fields struct {
		Name     string `json:"name"`
		Category string `json:"category"`
		Address  string `json:"address"`
		Phone    string `json:"phone"`
		Website  string `json:"website"`
		Email    string `json:"email"`
		Hours    string `json:"hours"`
	}
	if err := json.Unmarshal([]byte(rawFields), &fields); err != nil {
		return nil, eris.Wrapf(err, "browser: decode card fields %q", ref.Title)
	}

	return &collector.Card{
		CardRef: ref,
		Text:    text,
		Manual: collector.ManualFields{
			Name:      fields.Name,
			Category:  fields.Category,
			Address:   fields.Address,
			Phone:     fields.Phone,
			Website:   fields.Website,
			Email:     fields.Email,
			HoursText: fields.Hours,
		},
	}, nil
}

// Scroll advances the results list and gives the page a moment to load the
// next batch.
func (f *MapsFeed) Scroll(ctx context.Context, aggressive bool) error {
	runCtx, cancel := f.runContext(ctx, 15*time.Second)
	defer cancel()

	script := scrollScript
	wait := time.Second
	if aggressive {
		script = aggressiveScrollScript
		wait = 1500 * time.Millisecond
	}

	err := chromedp.Run(runCtx,
		chromedp.Evaluate(script, nil),
		chromedp.Sleep(wait),
	)
	return eris.Wrap(err, "browser: scroll results")
}

// Close tears down the search tab.
func (f *MapsFeed) Close() {
	f.cancel()
}

// runContext bounds a tab action by both the caller's context and a local
// timeout.
func (f *MapsFeed) runContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return boundContext(f.tabCtx, ctx, timeout)
}
