package model

// Platform identifies one of the supported social/review services.
type Platform string

// The closed set of supported platforms. Extraction, validation, merging and
// export all iterate AllPlatforms so a new platform only needs a constant
// here plus a rule entry in the extract package.
const (
	PlatformFacebook  Platform = "Facebook"
	PlatformInstagram Platform = "Instagram"
	PlatformTwitter   Platform = "Twitter"
	PlatformLinkedIn  Platform = "LinkedIn"
	PlatformYouTube   Platform = "YouTube"
	PlatformTikTok    Platform = "TikTok"
	PlatformYelp      Platform = "Yelp"
	PlatformWhatsApp  Platform = "WhatsApp"
	PlatformPinterest Platform = "Pinterest"
)

// AllPlatforms lists every platform in export column order.
var AllPlatforms = []Platform{
	PlatformFacebook,
	PlatformInstagram,
	PlatformTwitter,
	PlatformLinkedIn,
	PlatformYouTube,
	PlatformTikTok,
	PlatformYelp,
	PlatformWhatsApp,
	PlatformPinterest,
}

func (p Platform) String() string { return string(p) }

// SocialLinks maps each platform to a validated profile URL or "".
// Always contains exactly the known platform keys.
type SocialLinks map[Platform]string

// NewSocialLinks returns a SocialLinks with every platform present and empty.
func NewSocialLinks() SocialLinks {
	s := make(SocialLinks, len(AllPlatforms))
	for _, p := range AllPlatforms {
		s[p] = ""
	}
	return s
}

// Merge copies non-empty entries from other into s without overwriting
// entries already populated. Earlier, more trusted sources therefore win.
func (s SocialLinks) Merge(other SocialLinks) {
	for _, p := range AllPlatforms {
		if s[p] == "" && other[p] != "" {
			s[p] = other[p]
		}
	}
}

// Count returns the number of populated platform entries.
func (s SocialLinks) Count() int {
	n := 0
	for _, p := range AllPlatforms {
		if s[p] != "" {
			n++
		}
	}
	return n
}

// Clone returns an independent copy with all platform keys present.
func (s SocialLinks) Clone() SocialLinks {
	out := NewSocialLinks()
	for _, p := range AllPlatforms {
		out[p] = s[p]
	}
	return out
}
