package collector

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/mapleads-cli/internal/model"
)

type stubOracle struct {
	text string
	err  error
}

func (s *stubOracle) GenerateContent(_ context.Context, _ string) (string, error) {
	return s.text, s.err
}

type stubEnricher struct {
	social model.SocialLinks
	emails []string
	err    error
	calls  int
}

func (s *stubEnricher) Enrich(_ context.Context, _ string) (model.SocialLinks, []string, error) {
	s.calls++
	return s.social, s.emails, s.err
}

func TestCardProcessor_OracleFieldsPreferred(t *testing.T) {
	oracle := &stubOracle{text: `{"Business Name": "Acme Plumbing", "Business Type": "Plumber", "Address": "123 Main St", "Phone Number": "2125551234", "Email": "", "Website": "", "Opening Time": "", "Closing Time": "", "Business Hours": "Monday: 9-5"}`}
	proc := NewCardProcessor(oracle, nil)

	card := manualCard("a", "Wrong Manual Name", "99 Other Rd", "0000000000")
	set := NewResultSet()
	rec, err := proc.Process(context.Background(), &card, set)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "Acme Plumbing", rec.Name)
	assert.Equal(t, "Plumber", rec.Type)
	assert.Contains(t, rec.BusinessHours, "Monday: 9-5")
	assert.Contains(t, rec.BusinessHours, "Sunday: Hours not available")
}

func TestCardProcessor_OracleFailureFallsBackToManual(t *testing.T) {
	oracle := &stubOracle{err: errors.New("connection refused")}
	proc := NewCardProcessor(oracle, nil)

	card := manualCard("a", "Acme Plumbing", "123 Main St", "2125551234")
	set := NewResultSet()
	rec, err := proc.Process(context.Background(), &card, set)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "Acme Plumbing", rec.Name)
	assert.Equal(t, "123 Main St", rec.Address)
}

func TestCardProcessor_EnrichmentMergeCardWins(t *testing.T) {
	enr := &stubEnricher{
		social: func() model.SocialLinks {
			s := model.NewSocialLinks()
			s[model.PlatformFacebook] = "https://facebook.com/from-website"
			s[model.PlatformLinkedIn] = "https://linkedin.com/company/acme"
			return s
		}(),
		emails: []string{"info@acmeplumbing.com"},
	}
	proc := NewCardProcessor(nil, enr)

	card := manualCard("a", "Acme Plumbing", "123 Main St", "2125551234")
	card.Manual.Website = "acmeplumbing.com"
	card.Text = "Acme Plumbing official page. Visit https://facebook.com/acmeplumbing for updates."

	set := NewResultSet()
	rec, err := proc.Process(context.Background(), &card, set)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 1, enr.calls)
	assert.Equal(t, "https://facebook.com/acmeplumbing", rec.Social[model.PlatformFacebook])
	assert.Equal(t, "https://linkedin.com/company/acme", rec.Social[model.PlatformLinkedIn])
	assert.Equal(t, "info@acmeplumbing.com", rec.Email)
	assert.Equal(t, "https://acmeplumbing.com", rec.Website)
}

func TestCardProcessor_EnrichmentFailureKeepsCardData(t *testing.T) {
	enr := &stubEnricher{err: errors.New("navigation timeout")}
	proc := NewCardProcessor(nil, enr)

	card := manualCard("a", "Acme Plumbing", "123 Main St", "2125551234")
	card.Manual.Website = "acmeplumbing.com"

	set := NewResultSet()
	rec, err := proc.Process(context.Background(), &card, set)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "Acme Plumbing", rec.Name)
}

func TestCardProcessor_PhoneFormattingDoesNotSplitIdentity(t *testing.T) {
	proc := NewCardProcessor(nil, nil)
	set := NewResultSet()

	first := manualCard("a", "Joe's Pizza", "7 Bleecker St, New York", "(212) 555-1234")
	rec, err := proc.Process(context.Background(), &first, set)
	require.NoError(t, err)
	require.NotNil(t, rec)

	// same business, formatted differently, different street spelling
	second := manualCard("b", "Joes Pizza", "7 Bleecker St, New York", "2125551234")
	rec, err = proc.Process(context.Background(), &second, set)
	require.NoError(t, err)
	assert.Nil(t, rec)
	assert.Equal(t, 1, set.Len())
}
