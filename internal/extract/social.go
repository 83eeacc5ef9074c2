package extract

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/sells-group/mapleads-cli/internal/model"
)

var (
	genericURLPattern = regexp.MustCompile(`https?://[^\s'"<>()]+\.[a-zA-Z]{2,}[^\s'"<>()]*`)
	handlePattern     = regexp.MustCompile(`@([A-Za-z0-9._]{3,30})\b`)

	usernamePath  = regexp.MustCompile(`/[a-zA-Z][\w.]{2,}/?`)
	twitterPath   = regexp.MustCompile(`/[a-zA-Z]\w{2,}/?`)
	atHandlePath  = regexp.MustCompile(`/@[\w-]{3,}/?`)
	tiktokAtPath  = regexp.MustCompile(`/@[\w.]{3,}/?`)
	yelpBizPath   = regexp.MustCompile(`/biz/[a-zA-Z0-9_-]{3,}/?`)
	waPhonePath   = regexp.MustCompile(`/\d{7,}/?`)
	numericOnly   = regexp.MustCompile(`^/\d+/?$`)
	pinterestPath = regexp.MustCompile(`/[a-zA-Z][\w-]{2,}/?`)
)

// Social extracts one profile URL per platform from free text. Matching runs
// in three tiers of decreasing confidence: direct platform URL patterns,
// a sweep over every https URL in the text, then bare @handles resolved by
// nearby platform keywords. Every candidate passes IsValidSocialURL before
// it lands; an all-empty map means nothing survived.
func Social(text string) model.SocialLinks {
	results := model.NewSocialLinks()
	if len(text) < 20 {
		return results
	}
	textLower := strings.ToLower(text)

	// Tier 1: direct platform patterns, guarded by a cheap domain substring
	// check so the regexes only run on text that can match.
	for _, platform := range model.AllPlatforms {
		rule := platformRules[platform]
		if !containsAny(textLower, rule.Domains) {
			continue
		}
		for _, pat := range rule.Patterns {
			for _, m := range pat.FindAllStringSubmatch(text, -1) {
				full := buildProfileURL(platform, m)
				if IsValidSocialURL(full, platform) {
					results[platform] = strings.TrimSpace(full)
					break
				}
			}
			if results[platform] != "" {
				break
			}
		}
	}

	// Tier 2: sweep every URL in the text against the platforms still empty.
	if hasGap(results) {
		for _, u := range genericURLPattern.FindAllString(text, -1) {
			uLower := strings.ToLower(u)
			for _, platform := range model.AllPlatforms {
				if results[platform] != "" {
					continue
				}
				if containsAny(uLower, platformRules[platform].Domains) && IsValidSocialURL(u, platform) {
					results[platform] = u
				}
			}
		}
	}

	// Tier 3: bare @handles claimed by the platform named within 20 chars of
	// the handle. Only handle-centric platforms participate.
	if results[model.PlatformInstagram] == "" || results[model.PlatformTwitter] == "" || results[model.PlatformTikTok] == "" {
		for _, loc := range handlePattern.FindAllStringSubmatchIndex(text, -1) {
			handle := text[loc[2]:loc[3]]
			start := max(0, loc[0]-20)
			end := min(len(text), loc[1]+20)
			context := strings.ToLower(text[start:end])

			switch {
			case results[model.PlatformInstagram] == "" && (strings.Contains(context, "instagram") || strings.Contains(context, "insta")):
				results[model.PlatformInstagram] = "https://instagram.com/" + handle
			case results[model.PlatformTwitter] == "" && (strings.Contains(context, "twitter") || strings.Contains(context, "tweet") || strings.Contains(context, "x.com")):
				results[model.PlatformTwitter] = "https://x.com/" + handle
			case results[model.PlatformTikTok] == "" && (strings.Contains(context, "tiktok") || strings.Contains(context, "tik tok")):
				results[model.PlatformTikTok] = "https://tiktok.com/@" + handle
			}
		}
	}

	// Every entry is validated once more so tier 3 synthesis cannot leak a
	// malformed URL through.
	for _, platform := range model.AllPlatforms {
		if results[platform] != "" && !IsValidSocialURL(results[platform], platform) {
			results[platform] = ""
		}
	}
	return results
}

// buildProfileURL turns a pattern match into a full profile URL, synthesizing
// the canonical form when the match is a bare handle or path fragment.
func buildProfileURL(platform model.Platform, m []string) string {
	full := m[0]
	if strings.HasPrefix(full, "http") {
		return full
	}

	if strings.HasPrefix(full, "@") {
		switch platform {
		case model.PlatformInstagram:
			return "https://instagram.com/" + full[1:]
		case model.PlatformTwitter:
			return "https://x.com/" + full[1:]
		}
	}

	username := full
	if len(m) > 1 && m[1] != "" {
		username = m[1]
	}
	switch platform {
	case model.PlatformFacebook:
		return "https://facebook.com/" + username
	case model.PlatformInstagram:
		return "https://instagram.com/" + username
	case model.PlatformTwitter:
		return "https://x.com/" + username
	case model.PlatformLinkedIn:
		if strings.Contains(strings.ToLower(full), "company") {
			return "https://linkedin.com/company/" + username
		}
		return "https://linkedin.com/in/" + username
	case model.PlatformYouTube:
		if strings.Contains(username, "@") {
			return "https://youtube.com/" + username
		}
		return "https://youtube.com/channel/" + username
	case model.PlatformTikTok:
		return "https://tiktok.com/@" + username
	case model.PlatformYelp:
		return "https://yelp.com/biz/" + username
	case model.PlatformPinterest:
		return "https://pinterest.com/" + username
	}
	return full
}

// IsValidSocialURL reports whether raw is a plausible profile URL for the
// platform. It checks the domain against the platform's known hosts, rejects
// oversized paths and fragments, then applies per-platform shape rules that
// weed out login pages, posts, hashtags and other non-profile URLs.
func IsValidSocialURL(raw string, platform model.Platform) bool {
	if len(raw) < 10 {
		return false
	}
	raw = NormalizeURL(raw)

	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	domain := strings.ToLower(u.Host)
	path := strings.ToLower(u.Path)

	rule, ok := platformRules[platform]
	if !ok {
		return false
	}
	domainOK := false
	for _, d := range rule.Domains {
		if strings.HasSuffix(domain, d) || strings.Contains(domain, d) {
			domainOK = true
			break
		}
	}
	if !domainOK {
		return false
	}

	if len(path) > 100 {
		return false
	}
	if len(u.Fragment) > 20 {
		return false
	}

	switch platform {
	case model.PlatformFacebook:
		switch path {
		case "/", "/login", "/signup", "/home", "/pages", "/groups", "/hashtag", "/events":
			return false
		}
		if numericOnly.MatchString(path) {
			return false
		}
		if !usernamePath.MatchString(path) {
			return false
		}

	case model.PlatformInstagram:
		if path == "" || path == "/" || strings.Contains(path, "/p/") {
			return false
		}
		for _, seg := range []string{"/explore/", "/reels/", "/stories/"} {
			if strings.Contains(path, seg) {
				return false
			}
		}
		if !usernamePath.MatchString(path) {
			return false
		}

	case model.PlatformTwitter:
		switch path {
		case "", "/", "/home", "/explore", "/notifications", "/messages":
			return false
		}
		for _, seg := range []string{"/status/", "/lists/", "/i/", "/hashtag/"} {
			if strings.Contains(path, seg) {
				return false
			}
		}
		if !twitterPath.MatchString(path) {
			return false
		}

	case model.PlatformLinkedIn:
		sectioned := false
		for _, seg := range []string{"/company/", "/school/", "/in/", "/pub/"} {
			if strings.Contains(path, seg) {
				sectioned = true
				break
			}
		}
		if !sectioned {
			return false
		}
		for _, suffix := range []string{"/company/", "/in/", "/school/"} {
			if strings.HasSuffix(path, suffix) {
				return false
			}
		}

	case model.PlatformYouTube:
		if strings.Contains(domain, "youtu.be") {
			return true
		}
		sectioned := false
		for _, seg := range []string{"/channel/", "/user/", "/c/", "/@"} {
			if strings.Contains(path, seg) {
				sectioned = true
				break
			}
		}
		if !sectioned {
			return false
		}
		if strings.Contains(path, "/@") && !atHandlePath.MatchString(path) {
			return false
		}

	case model.PlatformTikTok:
		if path == "" {
			return false
		}
		if strings.HasPrefix(path, "/@") {
			if !tiktokAtPath.MatchString(path) {
				return false
			}
		} else if !usernamePath.MatchString(path) {
			return false
		}

	case model.PlatformYelp:
		if !strings.HasPrefix(path, "/biz/") {
			return false
		}
		if !yelpBizPath.MatchString(path) {
			return false
		}

	case model.PlatformWhatsApp:
		if strings.Contains(domain, "wa.me") {
			return waPhonePath.MatchString(path)
		}
		if strings.Contains(domain, "whatsapp.com") {
			return strings.Contains(u.RawQuery, "phone=")
		}

	case model.PlatformPinterest:
		switch path {
		case "", "/", "/login", "/explore", "/search":
			return false
		}
		if !pinterestPath.MatchString(path) {
			return false
		}
		if strings.Contains(path, "/pin/") {
			return false
		}
	}

	return true
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func hasGap(s model.SocialLinks) bool {
	for _, p := range model.AllPlatforms {
		if s[p] == "" {
			return true
		}
	}
	return false
}
