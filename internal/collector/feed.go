package collector

import "context"

// CardRef identifies one visible result card. The fingerprint combines the
// card's position and content so re-rendered lists do not re-process cards.
type CardRef struct {
	// Index is the card's position in the rendered list, used to click it.
	Index       int
	Fingerprint string
	Title       string
}

// ManualFields are the selector-scraped fallback values for a card, used
// when the oracle yields nothing.
type ManualFields struct {
	Name        string
	Category    string
	Address     string
	Phone       string
	Website     string
	Email       string
	OpeningTime string
	ClosingTime string
	HoursText   string
}

// Card is one opened result card: the full rendered detail text plus the
// selector-scraped fallback fields.
type Card struct {
	CardRef
	Text   string
	Manual ManualFields
}

// Feed is the source of result cards. The live implementation drives the
// map search results page; tests substitute a fixture.
type Feed interface {
	// Visible lists the currently rendered cards.
	Visible(ctx context.Context) ([]CardRef, error)

	// Open clicks a card and captures its detail pane.
	Open(ctx context.Context, ref CardRef) (*Card, error)

	// Scroll advances the results list. Aggressive scrolling jumps further
	// and is used after several empty batches.
	Scroll(ctx context.Context, aggressive bool) error
}
