// Package enrich extracts social links and email addresses from business
// websites, layering structural page signals over free-text extraction.
package enrich

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/sells-group/mapleads-cli/internal/browser"
	"github.com/sells-group/mapleads-cli/internal/extract"
	"github.com/sells-group/mapleads-cli/internal/model"
)

const (
	primaryTimeout   = 45 * time.Second
	secondaryTimeout = 20 * time.Second

	// enoughPlatforms stops the secondary crawl once this many are found.
	enoughPlatforms = 4

	maxSecondaryPages = 2
)

// secondaryPaths are the pages most likely to carry a social row when the
// home page did not.
var secondaryPaths = []string{"/contact", "/about", "/social"}

// Extractor enriches business records from their websites. Results are
// cached per domain for the lifetime of the run.
type Extractor struct {
	provider browser.PageProvider
	cache    *Cache
}

func NewExtractor(provider browser.PageProvider) *Extractor {
	return &Extractor{provider: provider, cache: NewCache()}
}

// Enrich visits the website and returns validated social links and emails.
// A failed primary navigation returns the error alongside whatever partial
// data was gathered; secondary page failures are swallowed.
func (e *Extractor) Enrich(ctx context.Context, website string) (model.SocialLinks, []string, error) {
	website = extract.NormalizeURL(website)
	if !extract.IsValidURL(website) {
		return model.NewSocialLinks(), nil, nil
	}

	domain := extract.Domain(website)
	return e.cache.GetOrCompute(domain, func() (model.SocialLinks, []string, error) {
		return e.extract(ctx, website)
	})
}

func (e *Extractor) extract(ctx context.Context, website string) (model.SocialLinks, []string, error) {
	social := model.NewSocialLinks()
	var emails []string

	zap.L().Debug("enriching from website", zap.String("url", website))

	page, err := e.provider.Open(ctx, website, primaryTimeout)
	if err != nil {
		return social, emails, err
	}

	doc, docErr := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))

	// Structural signals outrank free text: anchors first, then page
	// metadata, then the text tier filling what is still empty.
	anchorSignals(page.Links, social)
	if docErr == nil {
		metadataSignals(doc, social)
	}

	text := page.Text
	if docErr == nil {
		text += " " + metaText(doc)
	}
	social.Merge(extract.Social(text))

	emails = appendEmails(emails, extract.Emails(page.Text)...)
	for _, addr := range page.MailtoAddresses() {
		if extract.IsValidEmail(addr) {
			emails = appendEmails(emails, addr)
		}
	}

	// The secondary crawl only runs when the home page looked like a real
	// business site (at least one signal) but left most platforms empty.
	if social.Count() < enoughPlatforms && (social.Count() > 0 || len(emails) > 0) {
		emails = e.crawlSecondary(ctx, website, social, emails)

		if docErr == nil {
			footerSignals(doc, social)
		}
	}

	zap.L().Debug("website enrichment done",
		zap.String("url", website),
		zap.Int("social", social.Count()),
		zap.Int("emails", len(emails)),
	)
	return social, emails, nil
}

// crawlSecondary visits up to two of the well-known contact pages, filling
// empty platforms and collecting more emails. Failures are logged and
// skipped; a run never fails on a secondary page.
func (e *Extractor) crawlSecondary(ctx context.Context, website string, social model.SocialLinks, emails []string) []string {
	base, err := url.Parse(website)
	if err != nil {
		return emails
	}

	visited := 0
	for _, path := range secondaryPaths {
		if social.Count() >= enoughPlatforms || visited >= maxSecondaryPages {
			break
		}
		if ctx.Err() != nil {
			break
		}

		pageURL := base.Scheme + "://" + base.Host + path
		visited++

		page, err := e.provider.Open(ctx, pageURL, secondaryTimeout)
		if err != nil {
			zap.L().Debug("secondary page failed", zap.String("url", pageURL), zap.Error(err))
			continue
		}

		anchorSignals(page.Links, social)
		social.Merge(extract.Social(page.Text))

		emails = appendEmails(emails, extract.Emails(page.Text)...)
		for _, addr := range page.MailtoAddresses() {
			if extract.IsValidEmail(addr) {
				emails = appendEmails(emails, addr)
			}
		}
	}
	return emails
}

// appendEmails adds addresses not already present, preserving order.
func appendEmails(existing []string, addrs ...string) []string {
	for _, a := range addrs {
		dup := false
		for _, have := range existing {
			if have == a {
				dup = true
				break
			}
		}
		if !dup {
			existing = append(existing, a)
		}
	}
	return existing
}
