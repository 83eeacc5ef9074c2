// Package exporter writes the final record set to an xlsx workbook with a
// Businesses sheet and a Summary sheet.
package exporter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/sells-group/mapleads-cli/internal/extract"
	"github.com/sells-group/mapleads-cli/internal/model"
)

var phoneExportChars = regexp.MustCompile(`[^\d+]`)

// Columns is the full fixed export order: scalar columns followed by one
// column per platform.
func Columns() []string {
	cols := make([]string, 0, len(model.ScalarColumns)+len(model.AllPlatforms))
	cols = append(cols, model.ScalarColumns...)
	for _, p := range model.AllPlatforms {
		cols = append(cols, p.String())
	}
	return cols
}

// WriteXLSX exports records to path. Records are normalized one final time,
// deduplicated by identity hash (first kept), and the summary statistics
// computed over the surviving set.
func WriteXLSX(records []model.BusinessRecord, path string) (model.RunSummary, error) {
	cleaned := normalizeForExport(records)
	unique, removed := dedupe(cleaned)
	summary := model.Summarize(unique, removed)

	f := xlsx.NewFile()

	sheet, err := f.AddSheet("Businesses")
	if err != nil {
		return summary, eris.Wrap(err, "exporter: add businesses sheet")
	}
	writeHeader(sheet)
	for _, rec := range unique {
		writeRecord(sheet, rec)
	}

	if err := writeSummarySheet(f, summary); err != nil {
		return summary, err
	}

	if err := f.Save(path); err != nil {
		return summary, eris.Wrap(err, "exporter: save workbook")
	}

	zap.L().Info("export complete",
		zap.String("path", path),
		zap.Int("businesses", summary.Total),
		zap.Int("duplicates_removed", summary.DuplicatesRemoved),
	)
	return summary, nil
}

// normalizeForExport applies the final cleanup pass: fields re-cleaned,
// phone reduced to digits and +, email lowercased, website URL normalized.
func normalizeForExport(records []model.BusinessRecord) []model.BusinessRecord {
	out := make([]model.BusinessRecord, len(records))
	for i, rec := range records {
		rec.Name = extract.CleanField(rec.Name)
		rec.Address = extract.CleanField(rec.Address)
		rec.Phone = phoneExportChars.ReplaceAllString(extract.CleanField(rec.Phone), "")
		rec.Email = strings.ToLower(strings.TrimSpace(extract.CleanField(rec.Email)))
		if w := extract.CleanField(rec.Website); w != "" {
			rec.Website = extract.NormalizeURL(w)
		} else {
			rec.Website = ""
		}
		if rec.Social == nil {
			rec.Social = model.NewSocialLinks()
		}
		out[i] = rec
	}
	return out
}

// dedupe re-runs the identity hash over the final set, keeping the first
// record for each digest.
func dedupe(records []model.BusinessRecord) ([]model.BusinessRecord, int) {
	seen := make(map[string]struct{}, len(records))
	out := make([]model.BusinessRecord, 0, len(records))
	for _, rec := range records {
		h := extract.BusinessHash(rec.Name, rec.Address, rec.Phone)
		if _, dup := seen[h]; dup {
			continue
		}
		seen[h] = struct{}{}
		out = append(out, rec)
	}
	return out, len(records) - len(out)
}

func writeHeader(sheet *xlsx.Sheet) {
	row := sheet.AddRow()
	for _, col := range Columns() {
		row.AddCell().SetString(col)
	}
}

func writeRecord(sheet *xlsx.Sheet, rec model.BusinessRecord) {
	row := sheet.AddRow()
	for _, v := range []string{
		rec.Name, rec.Type, rec.Address, rec.Phone, rec.Email,
		rec.Website, rec.OpeningTime, rec.ClosingTime, rec.BusinessHours,
	} {
		row.AddCell().SetString(v)
	}
	for _, p := range model.AllPlatforms {
		row.AddCell().SetString(rec.Social[p])
	}
}

func writeSummarySheet(f *xlsx.File, s model.RunSummary) error {
	sheet, err := f.AddSheet("Summary")
	if err != nil {
		return eris.Wrap(err, "exporter: add summary sheet")
	}

	header := sheet.AddRow()
	for _, col := range []string{"Metric", "Value", "Percentage"} {
		header.AddCell().SetString(col)
	}

	initial := s.Total + s.DuplicatesRemoved
	addMetric(sheet, "Total Businesses", s.Total, "100%")
	addMetric(sheet, "Duplicates Removed", s.DuplicatesRemoved, pct(s.DuplicatesRemoved, initial))
	addMetric(sheet, "Businesses with Email", s.WithEmail, pct(s.WithEmail, s.Total))
	addMetric(sheet, "Businesses with Website", s.WithWebsite, pct(s.WithWebsite, s.Total))
	addMetric(sheet, "Businesses with 0 Social Platforms", s.SocialBuckets[0], pct(s.SocialBuckets[0], s.Total))
	addMetric(sheet, "Businesses with 1-3 Social Platforms", s.SocialBuckets[1], pct(s.SocialBuckets[1], s.Total))
	addMetric(sheet, "Businesses with 4-6 Social Platforms", s.SocialBuckets[2], pct(s.SocialBuckets[2], s.Total))
	addMetric(sheet, "Businesses with 7+ Social Platforms", s.SocialBuckets[3], pct(s.SocialBuckets[3], s.Total))

	avgRow := sheet.AddRow()
	avgRow.AddCell().SetString("Average Social Platforms per Business")
	avgRow.AddCell().SetString(fmt.Sprintf("%.1f", s.AvgSocial))
	avgRow.AddCell().SetString("N/A")

	for _, p := range model.AllPlatforms {
		n := s.PerPlatform[p]
		addMetric(sheet, "Businesses with "+p.String(), n, pct(n, s.Total))
	}
	return nil
}

func addMetric(sheet *xlsx.Sheet, metric string, value int, percentage string) {
	row := sheet.AddRow()
	row.AddCell().SetString(metric)
	row.AddCell().SetInt(value)
	row.AddCell().SetString(percentage)
}

func pct(n, total int) string {
	if total <= 0 {
		return "0%"
	}
	return fmt.Sprintf("%.1f%%", 100*float64(n)/float64(total))
}
