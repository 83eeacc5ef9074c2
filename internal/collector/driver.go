// Package collector drives the incremental walk over the search results
// feed and assembles the deduplicated record set for a run.
package collector

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/mapleads-cli/internal/model"
)

const (
	// maxNoNewCardScrolls ends the run when this many consecutive scrolls
	// surface nothing new.
	maxNoNewCardScrolls = 12

	// aggressiveScrollThreshold switches to long-jump scrolling after this
	// many consecutive empty batches.
	aggressiveScrollThreshold = 5

	emptyFeedWait = 2 * time.Second
)

// Driver runs the collection loop: process visible cards, scroll, repeat,
// until the target count is reached, the feed is exhausted, or a stop is
// requested.
type Driver struct {
	feed   Feed
	proc   *CardProcessor
	ctrl   *Controller
	target int
}

func NewDriver(feed Feed, proc *CardProcessor, ctrl *Controller, target int) *Driver {
	if ctrl == nil {
		ctrl = NewController()
	}
	return &Driver{feed: feed, proc: proc, ctrl: ctrl, target: target}
}

// Run executes the loop and returns the accepted records. A stop request or
// feed exhaustion is a normal return with whatever was collected; only
// context cancellation and feed listing failures are errors.
func (d *Driver) Run(ctx context.Context) ([]model.BusinessRecord, error) {
	set := NewResultSet()
	seenCards := make(map[string]struct{})
	seenTitles := make(map[string]struct{})
	noNewScrolls := 0
	emptyBatches := 0

	zap.L().Info("starting collection", zap.Int("target", d.target))

	for set.Len() < d.target {
		if err := ctx.Err(); err != nil {
			return set.Records(), err
		}
		if d.ctrl.Stopped() {
			zap.L().Info("run stopped by request", zap.Int("collected", set.Len()))
			return set.Records(), nil
		}

		refs, err := d.feed.Visible(ctx)
		if err != nil {
			return set.Records(), eris.Wrap(err, "collector: list visible cards")
		}
		if len(refs) == 0 {
			zap.L().Debug("no cards visible yet, waiting")
			select {
			case <-ctx.Done():
				return set.Records(), ctx.Err()
			case <-time.After(emptyFeedWait):
			}
			continue
		}

		newCards := d.processBatch(ctx, refs, set, seenCards, seenTitles)

		if set.Len() >= d.target {
			zap.L().Info("target reached", zap.Int("collected", set.Len()))
			break
		}
		if d.ctrl.ScrollingStopped() {
			zap.L().Info("scrolling stopped by request", zap.Int("collected", set.Len()))
			break
		}

		aggressive := false
		if newCards == 0 {
			noNewScrolls++
			emptyBatches++
			zap.L().Debug("no new cards in batch",
				zap.Int("attempt", noNewScrolls),
				zap.Int("max", maxNoNewCardScrolls),
			)
			if noNewScrolls >= maxNoNewCardScrolls {
				zap.L().Info("feed exhausted", zap.Int("collected", set.Len()))
				break
			}
			aggressive = emptyBatches >= aggressiveScrollThreshold
		} else {
			noNewScrolls = 0
			emptyBatches = 0
		}

		if err := d.feed.Scroll(ctx, aggressive); err != nil {
			zap.L().Warn("scroll failed", zap.Bool("aggressive", aggressive), zap.Error(err))
		}
	}

	return set.Records(), nil
}

// processBatch opens and processes every not-yet-seen visible card, stopping
// early on target or a stop-all request. Returns how many cards were newly
// attempted.
func (d *Driver) processBatch(ctx context.Context, refs []CardRef, set *ResultSet, seenCards, seenTitles map[string]struct{}) int {
	newCards := 0
	for _, ref := range refs {
		if ctx.Err() != nil || d.ctrl.Stopped() {
			return newCards
		}
		if _, dup := seenCards[ref.Fingerprint]; dup {
			continue
		}
		seenCards[ref.Fingerprint] = struct{}{}

		titleKey := strings.ToLower(ref.Title)
		if titleKey != "" {
			if _, dup := seenTitles[titleKey]; dup {
				zap.L().Debug("skipping duplicate title", zap.String("title", ref.Title))
				continue
			}
		}
		newCards++

		card, err := d.feed.Open(ctx, ref)
		if err != nil {
			zap.L().Warn("failed to open card", zap.String("title", ref.Title), zap.Error(err))
			continue
		}

		rec, err := d.proc.Process(ctx, card, set)
		if err != nil {
			zap.L().Warn("card processing failed", zap.String("title", ref.Title), zap.Error(err))
			continue
		}
		if titleKey != "" {
			seenTitles[titleKey] = struct{}{}
		}
		if rec != nil && set.Len() >= d.target {
			return newCards
		}
	}
	return newCards
}
