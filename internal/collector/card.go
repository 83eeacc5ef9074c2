package collector

import (
	"context"
	"regexp"

	"go.uber.org/zap"

	"github.com/sells-group/mapleads-cli/internal/extract"
	"github.com/sells-group/mapleads-cli/internal/model"
	"github.com/sells-group/mapleads-cli/pkg/gemini"
)

// Enricher pulls additional social links and emails from a business website.
// Implemented by enrich.Extractor; nil disables enrichment.
type Enricher interface {
	Enrich(ctx context.Context, website string) (model.SocialLinks, []string, error)
}

// Sink receives each accepted record as it is emitted, so an aborted run
// keeps the records collected so far.
type Sink interface {
	Persist(ctx context.Context, rec model.BusinessRecord, hash string) error
}

// CardProcessor turns one opened card into a finalized BusinessRecord.
// Extraction is oracle-first with a manual fallback; scalars are normalized,
// duplicates discarded, and the website enrichment merged in with the card's
// own data taking precedence.
type CardProcessor struct {
	oracle   gemini.Client
	enricher Enricher
	sink     Sink
}

func NewCardProcessor(oracle gemini.Client, enricher Enricher) *CardProcessor {
	return &CardProcessor{oracle: oracle, enricher: enricher}
}

// SetSink registers a destination for accepted records. Persist failures are
// logged, not fatal; the in-memory set remains authoritative.
func (p *CardProcessor) SetSink(s Sink) {
	p.sink = s
}

// Process evaluates a card against the accepted set. It returns nil for
// discards: empty name, duplicate by name/address, duplicate by hash.
// Accepted records are added to set before returning.
func (p *CardProcessor) Process(ctx context.Context, card *Card, set *ResultSet) (*model.BusinessRecord, error) {
	rec := p.extractScalars(ctx, card)

	rec.Name = extract.CleanField(rec.Name)
	rec.Type = extract.CleanField(rec.Type)
	rec.Address = extract.CleanField(rec.Address)
	rec.Phone = extract.CleanField(rec.Phone)
	rec.Email = extract.CleanField(rec.Email)
	rec.Website = extract.CleanField(rec.Website)
	rec.OpeningTime = extract.CleanField(rec.OpeningTime)
	rec.ClosingTime = extract.CleanField(rec.ClosingTime)
	rec.BusinessHours = extract.StandardizeHours(extract.CleanField(rec.BusinessHours))

	if rec.Name == "" {
		zap.L().Debug("discarding card with empty name", zap.String("title", card.Title))
		return nil, nil
	}

	if set.MatchesExisting(rec.Name, rec.Address) {
		zap.L().Debug("duplicate by name/address", zap.String("name", rec.Name))
		return nil, nil
	}

	hash := extract.BusinessHash(rec.Name, rec.Address, rec.Phone)
	if set.HasHash(hash) {
		zap.L().Debug("duplicate by identity hash", zap.String("name", rec.Name))
		return nil, nil
	}

	if rec.Website != "" {
		rec.Website = extract.NormalizeURL(rec.Website)
	}

	// Card text is the most trusted social source; the website merge below
	// only fills platforms the card left empty.
	rec.Social = extract.Social(card.Text)

	var emails []string
	if rec.Email != "" {
		emails = append(emails, rec.Email)
	}

	if p.enricher != nil && rec.Website != "" && extract.IsValidURL(rec.Website) {
		webSocial, webEmails, err := p.enricher.Enrich(ctx, rec.Website)
		if err != nil {
			zap.L().Warn("website enrichment failed",
				zap.String("website", rec.Website),
				zap.Error(err),
			)
		} else {
			rec.Social.Merge(webSocial)
			emails = append(emails, webEmails...)
		}
	}

	if rec.Email == "" && len(emails) > 0 {
		rec.Email = emails[0]
	}

	set.Add(rec, hash)
	if p.sink != nil {
		if err := p.sink.Persist(ctx, rec, hash); err != nil {
			zap.L().Warn("failed to persist record", zap.String("name", rec.Name), zap.Error(err))
		}
	}
	zap.L().Info("accepted business",
		zap.String("name", rec.Name),
		zap.Bool("email", rec.Email != ""),
		zap.Int("social", rec.Social.Count()),
	)
	return &rec, nil
}

// extractScalars runs the oracle over the card's detail text and falls back
// to the selector-scraped fields when the oracle is unavailable, fails, or
// returns nothing parseable.
func (p *CardProcessor) extractScalars(ctx context.Context, card *Card) model.BusinessRecord {
	if p.oracle != nil && card.Text != "" {
		fields, err := gemini.ExtractFields(ctx, p.oracle, card.Text)
		if err != nil {
			zap.L().Warn("oracle extraction failed, using manual fallback", zap.Error(err))
		} else if fields != nil {
			return model.BusinessRecord{
				Name:          fields.Name,
				Type:          fields.Type,
				Address:       fields.Address,
				Phone:         fields.Phone,
				Email:         fields.Email,
				Website:       fields.Website,
				OpeningTime:   fields.OpeningTime,
				ClosingTime:   fields.ClosingTime,
				BusinessHours: fields.BusinessHours,
			}
		}
	}

	m := card.Manual
	name := m.Name
	if name == "" {
		name = card.Title
	}
	rec := model.BusinessRecord{
		Name:          name,
		Type:          m.Category,
		Address:       m.Address,
		Phone:         m.Phone,
		Email:         m.Email,
		Website:       m.Website,
		OpeningTime:   m.OpeningTime,
		ClosingTime:   m.ClosingTime,
		BusinessHours: m.HoursText,
	}
	if rec.Phone == "" {
		if m := phonePattern.FindString(card.Text); m != "" {
			rec.Phone = m
		}
	}
	if rec.Website == "" {
		if m := bareDomainPattern.FindString(card.Text); m != "" {
			rec.Website = m
		}
	}
	if rec.Email == "" {
		if found := extract.Emails(card.Text); len(found) > 0 {
			rec.Email = found[0]
		}
	}
	return rec
}

var (
	phonePattern      = regexp.MustCompile(`\+?\d[\d\s\-().]{8,}\d`)
	bareDomainPattern = regexp.MustCompile(`[a-zA-Z0-9\-.]+\.(com|net|org|biz|info|co|us|in|uk|ca|au|io|me|site|store|online|tech|ai|app)\b`)
)
