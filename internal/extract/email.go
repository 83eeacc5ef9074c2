package extract

import (
	"regexp"
	"sort"
	"strings"
)

// emailPatterns are applied in order; when a pattern carries a capture group
// the captured address is taken, otherwise the whole match.
var emailPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
	regexp.MustCompile(`(?i)mailto:([A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,})`),
	regexp.MustCompile(`(?i)email\s*:?\s*([A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,})`),
	regexp.MustCompile(`(?i)contact\s*:?\s*([A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,})`),
}

// emailShape is the strict local@domain.tld check applied last.
var emailShape = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// placeholderDomains never belong to a real business contact.
var placeholderDomains = map[string]bool{
	"example.com": true, "test.com": true, "domain.com": true,
	"placeholder.com": true, "sample.com": true, "yoursite.com": true,
	"website.com": true, "company.com": true, "business.com": true,
	"email.com": true,
}

// noReplyMarkers flag machine mailboxes and template leftovers anywhere in
// the address.
var noReplyMarkers = []string{"noreply", "no-reply", "donotreply", "example"}

// Emails finds all valid email addresses in free text. The returned slice is
// deduplicated and sorted for deterministic output; order carries no meaning.
func Emails(text string) []string {
	found := make(map[string]bool)
	for _, pat := range emailPatterns {
		for _, m := range pat.FindAllStringSubmatch(text, -1) {
			addr := m[0]
			if len(m) > 1 && m[1] != "" {
				addr = m[1]
			}
			addr = strings.ToLower(strings.TrimSpace(addr))
			if IsValidEmail(addr) {
				found[addr] = true
			}
		}
	}

	out := make([]string, 0, len(found))
	for addr := range found {
		out = append(out, addr)
	}
	sort.Strings(out)
	return out
}

// IsValidEmail applies the layered validity checks: presence and position of
// "@", minimum part lengths, the placeholder-domain deny list, no-reply
// markers, and the strict shape check.
func IsValidEmail(email string) bool {
	if email == "" || !strings.Contains(email, "@") {
		return false
	}

	at := strings.LastIndex(email, "@")
	local, domain := email[:at], email[at+1:]
	if len(local) < 1 || len(domain) < 3 {
		return false
	}

	if placeholderDomains[domain] {
		return false
	}

	for _, marker := range noReplyMarkers {
		if strings.Contains(email, marker) {
			return false
		}
	}

	return emailShape.MatchString(email)
}
