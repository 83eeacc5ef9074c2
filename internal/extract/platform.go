package extract

import (
	"regexp"

	"github.com/sells-group/mapleads-cli/internal/model"
)

// PlatformRule is the static recognition configuration for one platform:
// the domains it lives on, the ordered URL-shape patterns (first capture
// group, when present, yields the username/id), and free-text keywords used
// for weak signal matching. Immutable after init.
type PlatformRule struct {
	Domains  []string
	Patterns []*regexp.Regexp
	Keywords []string
}

// platformRules covers every model.Platform variant; init panics if a
// variant is missing so the set stays exhaustive.
var platformRules = map[model.Platform]PlatformRule{
	model.PlatformFacebook: {
		Domains: []string{"facebook.com", "fb.com", "m.facebook.com", "www.facebook.com", "fb.me"},
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(?:https?://)?(?:www\.|m\.)?facebook\.com/(?:pages/)?([^/?&#\s]+)`),
			regexp.MustCompile(`(?i)(?:https?://)?fb\.com/([^/?&#\s]+)`),
			regexp.MustCompile(`(?i)(?:https?://)?fb\.me/([^/?&#\s]+)`),
		},
		Keywords: []string{"facebook", "fb page", "find us on facebook", "like us on facebook"},
	},
	model.PlatformInstagram: {
		Domains: []string{"instagram.com", "instagr.am", "www.instagram.com"},
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?instagram\.com/([^/?&#\s]+)`),
			regexp.MustCompile(`(?i)(?:https?://)?instagr\.am/([^/?&#\s]+)`),
			regexp.MustCompile(`(?i)@([a-zA-Z0-9._]{1,30})\s*(?:on\s+)?instagram`),
		},
		Keywords: []string{"instagram", "insta", "follow us on instagram", "@"},
	},
	model.PlatformTwitter: {
		Domains: []string{"twitter.com", "x.com", "m.twitter.com", "www.twitter.com", "www.x.com"},
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(?:https?://)?(?:www\.|m\.)?(?:twitter|x)\.com/([^/?&#\s]+)`),
			regexp.MustCompile(`(?i)@([a-zA-Z0-9_]{1,15})\s*(?:on\s+)?(?:twitter|x)`),
		},
		Keywords: []string{"twitter", "tweet", "follow us on twitter", "x.com", "@"},
	},
	model.PlatformLinkedIn: {
		Domains: []string{"linkedin.com", "www.linkedin.com", "m.linkedin.com"},
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(?:https?://)?(?:www\.|m\.)?linkedin\.com/(?:company|in)/([^/?&#\s]+)`),
			regexp.MustCompile(`(?i)(?:https?://)?(?:www\.|m\.)?linkedin\.com/pub/([^/?&#\s]+)`),
		},
		Keywords: []string{"linkedin", "connect with us on linkedin", "professional network"},
	},
	model.PlatformYouTube: {
		Domains: []string{"youtube.com", "youtu.be", "m.youtube.com", "www.youtube.com"},
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(?:https?://)?(?:www\.|m\.)?youtube\.com/(?:channel|user|c)/([^/?&#\s]+)`),
			regexp.MustCompile(`(?i)(?:https?://)?youtu\.be/([^/?&#\s]+)`),
			regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?youtube\.com/@([^/?&#\s]+)`),
		},
		Keywords: []string{"youtube", "subscribe", "youtube channel", "watch us on youtube"},
	},
	model.PlatformTikTok: {
		Domains: []string{"tiktok.com", "vm.tiktok.com", "www.tiktok.com"},
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(?:https?://)?(?:www\.|vm\.)?tiktok\.com/@([^/?&#\s]+)`),
			regexp.MustCompile(`(?i)(?:https?://)?(?:www\.|vm\.)?tiktok\.com/([^/?&#\s]+)`),
			regexp.MustCompile(`(?i)@([a-zA-Z0-9._]{1,24})\s*(?:on\s+)?tiktok`),
		},
		Keywords: []string{"tiktok", "follow us on tiktok", "tik tok"},
	},
	model.PlatformYelp: {
		Domains: []string{"yelp.com", "m.yelp.com", "www.yelp.com"},
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(?:https?://)?(?:www\.|m\.)?yelp\.com/biz/([^/?&#\s]+)`),
			regexp.MustCompile(`(?i)(?:https?://)?(?:www\.|m\.)?yelp\.com/([^/?&#\s]+)`),
		},
		Keywords: []string{"yelp", "review us on yelp", "find us on yelp"},
	},
	model.PlatformWhatsApp: {
		Domains: []string{"wa.me", "api.whatsapp.com", "whatsapp.com"},
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(?:https?://)?wa\.me/([0-9]+)`),
			regexp.MustCompile(`(?i)(?:https?://)?api\.whatsapp\.com/send\?phone=([0-9]+)`),
			regexp.MustCompile(`(?i)whatsapp:([0-9+\s\-()]+)`),
		},
		Keywords: []string{"whatsapp", "message us on whatsapp", "whatsapp business"},
	},
	model.PlatformPinterest: {
		Domains: []string{"pinterest.com", "pin.it", "www.pinterest.com"},
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?pinterest\.com/([^/?&#\s]+)`),
			regexp.MustCompile(`(?i)(?:https?://)?pin\.it/([^/?&#\s]+)`),
		},
		Keywords: []string{"pinterest", "pin us", "follow us on pinterest"},
	},
}

func init() {
	for _, p := range model.AllPlatforms {
		if _, ok := platformRules[p]; !ok {
			panic("extract: missing platform rule for " + p.String())
		}
	}
}

// RuleFor returns the static rule for a platform.
func RuleFor(p model.Platform) PlatformRule {
	return platformRules[p]
}
