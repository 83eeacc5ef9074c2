package collector

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/mapleads-cli/internal/model"
)

// stubFeed serves a fixed sequence of card batches; each Scroll advances to
// the next batch. The last batch repeats once exhausted.
type stubFeed struct {
	batches          [][]Card
	batch            int
	scrolls          int
	aggressiveCalled int
}

func (f *stubFeed) current() []Card {
	if len(f.batches) == 0 {
		return nil
	}
	i := f.batch
	if i >= len(f.batches) {
		i = len(f.batches) - 1
	}
	return f.batches[i]
}

func (f *stubFeed) Visible(_ context.Context) ([]CardRef, error) {
	var refs []CardRef
	for _, c := range f.current() {
		refs = append(refs, c.CardRef)
	}
	return refs, nil
}

func (f *stubFeed) Open(_ context.Context, ref CardRef) (*Card, error) {
	for _, c := range f.current() {
		if c.Fingerprint == ref.Fingerprint {
			card := c
			return &card, nil
		}
	}
	return nil, fmt.Errorf("card %s not visible", ref.Fingerprint)
}

func (f *stubFeed) Scroll(_ context.Context, aggressive bool) error {
	f.scrolls++
	if aggressive {
		f.aggressiveCalled++
	}
	f.batch++
	return nil
}

func manualCard(fp, name, address, phone string) Card {
	return Card{
		CardRef: CardRef{Fingerprint: fp, Title: name},
		Text:    "detail text for " + name + " padded out beyond twenty chars",
		Manual:  ManualFields{Name: name, Address: address, Phone: phone},
	}
}

func newTestDriver(feed Feed, target int, ctrl *Controller) *Driver {
	return NewDriver(feed, NewCardProcessor(nil, nil), ctrl, target)
}

func TestDriver_ReachesTarget(t *testing.T) {
	feed := &stubFeed{batches: [][]Card{
		{
			manualCard("a", "Acme Plumbing", "123 Main St", "2125551234"),
			manualCard("b", "Apex Roofing", "45 Oak Ave", "2125555678"),
			manualCard("c", "Zen Cafe", "9 Elm St", "2125559999"),
		},
	}}
	records, err := newTestDriver(feed, 2, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, "Acme Plumbing", records[0].Name)
	assert.Equal(t, "Apex Roofing", records[1].Name)
}

func TestDriver_DeduplicatesAcrossBatches(t *testing.T) {
	feed := &stubFeed{batches: [][]Card{
		{manualCard("a", "Acme Plumbing", "123 Main St, Springfield", "2125551234")},
		{manualCard("b", "ACME PLUMBING", "123 Main St, Springfield", "(212) 555-1234")},
		{manualCard("c", "Apex Roofing", "45 Oak Ave", "2125555678")},
	}}
	records, err := newTestDriver(feed, 5, nil).Run(context.Background())
	require.NoError(t, err)

	var names []string
	for _, r := range records {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"Acme Plumbing", "Apex Roofing"}, names)
}

func TestDriver_StopAllBeforeFirstScroll(t *testing.T) {
	ctrl := NewController()
	ctrl.StopAll()
	feed := &stubFeed{batches: [][]Card{
		{manualCard("a", "Acme Plumbing", "123 Main St", "2125551234")},
	}}
	records, err := newTestDriver(feed, 10, ctrl).Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Zero(t, feed.scrolls)
}

func TestDriver_StopScrollingFinishesBatch(t *testing.T) {
	ctrl := NewController()
	ctrl.StopScrolling()
	feed := &stubFeed{batches: [][]Card{
		{
			manualCard("a", "Acme Plumbing", "123 Main St", "2125551234"),
			manualCard("b", "Apex Roofing", "45 Oak Ave", "2125555678"),
		},
	}}
	records, err := newTestDriver(feed, 10, ctrl).Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Zero(t, feed.scrolls)
}

func TestDriver_ExhaustsFeedAfterMaxEmptyScrolls(t *testing.T) {
	feed := &stubFeed{batches: [][]Card{
		{manualCard("a", "Acme Plumbing", "123 Main St", "2125551234")},
	}}
	records, err := newTestDriver(feed, 10, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, maxNoNewCardScrolls, feed.scrolls)
	assert.Positive(t, feed.aggressiveCalled)
}

func TestDriver_DiscardsEmptyNames(t *testing.T) {
	feed := &stubFeed{batches: [][]Card{
		{
			manualCard("a", "", "123 Main St", "2125551234"),
			manualCard("b", "Apex Roofing", "45 Oak Ave", "2125555678"),
		},
	}}
	records, err := newTestDriver(feed, 2, nil).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Apex Roofing", records[0].Name)
}

func TestResultSet_NameAddressPreCheck(t *testing.T) {
	set := NewResultSet()
	set.Add(model.BusinessRecord{Name: "Acme Plumbing", Address: "123 Main St, Springfield"}, "h1")

	assert.True(t, set.MatchesExisting("acme plumbing", "123 Main St, Springfield"))
	assert.True(t, set.MatchesExisting("Acme Plumbing", ""))
	assert.True(t, set.MatchesExisting("Acme Plumbing", "123 Main St, Shelbyville"))
	assert.False(t, set.MatchesExisting("Apex Roofing", "123 Main St, Springfield"))
	assert.False(t, set.MatchesExisting("Acme Plumbing", "99 Other Rd, Springfield"))
}
