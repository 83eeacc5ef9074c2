// Package extract implements the rule-based extraction and normalization
// engine: field cleanup, email and social-link extraction, business-hours
// standardization, and the business identity hash used for deduplication.
package extract

import (
	"net/url"
	"strings"
)

// invisibleRunes are zero-width characters that leak out of rendered page
// text and break downstream matching.
var invisibleRunes = map[rune]bool{
	'\u200b': true,
	'\u200c': true,
	'\u200d': true,
	'\ufeff': true,
}

// CleanField canonicalizes a raw scalar field: strips invisible runes,
// trims each line, drops empty and exact-duplicate lines (first occurrence
// wins), and rejoins with single spaces. Total: empty in, empty out.
func CleanField(raw string) string {
	if raw == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if !invisibleRunes[r] {
			b.WriteRune(r)
		}
	}

	seen := make(map[string]bool)
	var lines []string
	for _, line := range strings.Split(b.String(), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || seen[line] {
			continue
		}
		seen[line] = true
		lines = append(lines, line)
	}
	return strings.TrimSpace(strings.Join(lines, " "))
}

// NormalizeURL prefixes https:// when the scheme is missing. Idempotent.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}
	return raw
}

// IsValidURL reports whether raw parses to an http(s) URL with a host.
func IsValidURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Host != "" && (u.Scheme == "http" || u.Scheme == "https")
}

// Domain extracts the lowercased host of a URL, or "" if it cannot be parsed.
func Domain(raw string) string {
	u, err := url.Parse(NormalizeURL(raw))
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Host)
}
