// Package browser drives a headless Chrome instance and exposes rendered
// pages to the enrichment and collection layers.
package browser

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Link is one anchor on a rendered page.
type Link struct {
	Href  string
	Rel   string
	Aria  string
	Class string
	Title string
	Text  string
}

// Page is a rendered snapshot of one URL: visible text, the full HTML, and
// the anchors already split out of it.
type Page struct {
	URL   string
	Text  string
	HTML  string
	Links []Link
}

// PageProvider opens URLs and returns rendered pages. Implementations own
// the browser lifecycle; Close releases it.
type PageProvider interface {
	Open(ctx context.Context, url string, timeout time.Duration) (*Page, error)
	Close()
}

// NewPage builds a Page from a rendered snapshot, parsing the anchors out
// of the HTML.
func NewPage(url, text, html string) *Page {
	return &Page{URL: url, Text: text, HTML: html, Links: parseLinks(html)}
}

// MailtoAddresses returns the addresses behind mailto: links on the page.
func (p *Page) MailtoAddresses() []string {
	var out []string
	seen := make(map[string]bool)
	for _, l := range p.Links {
		if !strings.HasPrefix(strings.ToLower(l.Href), "mailto:") {
			continue
		}
		addr := strings.ToLower(strings.TrimSpace(l.Href[len("mailto:"):]))
		if i := strings.IndexByte(addr, '?'); i >= 0 {
			addr = addr[:i]
		}
		if addr != "" && !seen[addr] {
			seen[addr] = true
			out = append(out, addr)
		}
	}
	return out
}

// parseLinks extracts all anchors from rendered HTML.
func parseLinks(html string) []Link {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}
	var links []Link
	doc.Find("a").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok || href == "" {
			return
		}
		links = append(links, Link{
			Href:  strings.TrimSpace(href),
			Rel:   sel.AttrOr("rel", ""),
			Aria:  sel.AttrOr("aria-label", ""),
			Class: sel.AttrOr("class", ""),
			Title: sel.AttrOr("title", ""),
			Text:  strings.TrimSpace(sel.Text()),
		})
	})
	return links
}
