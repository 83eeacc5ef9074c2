package enrich

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sells-group/mapleads-cli/internal/browser"
	"github.com/sells-group/mapleads-cli/internal/extract"
	"github.com/sells-group/mapleads-cli/internal/model"
)

// iconKeywords identify icon-only social buttons by class, aria-label,
// title or inner markup when the href alone is not a recognizable profile.
var iconKeywords = map[model.Platform][]string{
	model.PlatformFacebook:  {"fa-facebook", "facebook", "icon-facebook", "fb"},
	model.PlatformInstagram: {"fa-instagram", "instagram", "icon-instagram", "insta"},
	model.PlatformTwitter:   {"fa-twitter", "fa-x-twitter", "twitter", "icon-twitter", "tweet"},
	model.PlatformLinkedIn:  {"fa-linkedin", "linkedin", "icon-linkedin"},
	model.PlatformYouTube:   {"fa-youtube", "youtube", "icon-youtube"},
	model.PlatformTikTok:    {"fa-tiktok", "tiktok", "icon-tiktok"},
	model.PlatformYelp:      {"fa-yelp", "yelp", "icon-yelp"},
	model.PlatformWhatsApp:  {"fa-whatsapp", "whatsapp", "icon-whatsapp"},
	model.PlatformPinterest: {"fa-pinterest", "pinterest", "icon-pinterest"},
}

func domainMatches(host string, platform model.Platform) bool {
	host = strings.ToLower(host)
	for _, d := range extract.RuleFor(platform).Domains {
		if strings.Contains(host, d) {
			return true
		}
	}
	return false
}

// anchorSignals scans every anchor for profile links: first by href domain,
// then by the icon heuristics for anchors whose destination alone is not
// conclusive. Fills only empty slots, validated.
func anchorSignals(links []browser.Link, into model.SocialLinks) {
	for _, l := range links {
		href := l.Href
		lower := strings.ToLower(href)
		if href == "" || href == "#" ||
			strings.HasPrefix(lower, "javascript:") ||
			strings.HasPrefix(lower, "mailto:") ||
			strings.HasPrefix(lower, "tel:") {
			continue
		}
		host := extract.Domain(href)

		for _, p := range model.AllPlatforms {
			if into[p] != "" {
				continue
			}
			if domainMatches(host, p) && extract.IsValidSocialURL(href, p) {
				into[p] = href
				continue
			}

			hay := strings.ToLower(l.Class + " " + l.Aria + " " + l.Title + " " + l.Text)
			for _, kw := range iconKeywords[p] {
				if strings.Contains(hay, kw) && domainMatches(host, p) && extract.IsValidSocialURL(href, p) {
					into[p] = href
					break
				}
			}
		}
	}
}

// metadataSignals pulls profile URLs out of JSON-LD sameAs arrays and
// og:/twitter: meta tags. Fills only empty slots, validated.
func metadataSignals(doc *goquery.Document, into model.SocialLinks) {
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, sel *goquery.Selection) {
		var payload struct {
			SameAs []string `json:"sameAs"`
		}
		if err := json.Unmarshal([]byte(sel.Text()), &payload); err != nil {
			return
		}
		for _, u := range payload.SameAs {
			fillByDomain(u, into)
		}
	})

	doc.Find(`meta[property^="og:"], meta[name^="twitter:"]`).Each(func(_ int, sel *goquery.Selection) {
		content := sel.AttrOr("content", "")
		if strings.HasPrefix(content, "http") {
			fillByDomain(content, into)
		}
	})
}

// footerSignals re-scans anchors inside footer regions. Footers are where
// small-business sites keep their social row, so these get a second look.
func footerSignals(doc *goquery.Document, into model.SocialLinks) {
	doc.Find(`footer a[href], .footer a[href], [class*="footer"] a[href], [id*="footer"] a[href]`).
		Each(func(_ int, sel *goquery.Selection) {
			href := sel.AttrOr("href", "")
			if href == "" || strings.HasPrefix(strings.ToLower(href), "javascript:") {
				return
			}
			fillByDomain(href, into)
		})
}

func fillByDomain(href string, into model.SocialLinks) {
	host := extract.Domain(href)
	for _, p := range model.AllPlatforms {
		if into[p] == "" && domainMatches(host, p) && extract.IsValidSocialURL(href, p) {
			into[p] = href
		}
	}
}

// metaText collects meta tag content and link tag hrefs, appended to the
// page text before the free-text extraction tier.
func metaText(doc *goquery.Document) string {
	var b strings.Builder
	doc.Find("meta").Each(func(_ int, sel *goquery.Selection) {
		if c := sel.AttrOr("content", ""); c != "" {
			b.WriteString(c)
			b.WriteByte(' ')
		}
	})
	doc.Find("link").Each(func(_ int, sel *goquery.Selection) {
		if h := sel.AttrOr("href", ""); h != "" {
			b.WriteString(h)
			b.WriteByte(' ')
		}
	})
	return b.String()
}
