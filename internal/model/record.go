// Package model defines the data types shared across the collection pipeline.
package model

import "time"

// BusinessRecord is one finalized row of output for a single business.
// Records are immutable once appended to a run's result set: a later
// duplicate is dropped, never merged in.
type BusinessRecord struct {
	Name          string      `json:"name"`
	Type          string      `json:"type"`
	Address       string      `json:"address"`
	Phone         string      `json:"phone"`
	Email         string      `json:"email"`
	Website       string      `json:"website"`
	OpeningTime   string      `json:"opening_time"`
	ClosingTime   string      `json:"closing_time"`
	BusinessHours string      `json:"business_hours"`
	Social        SocialLinks `json:"social"`
}

// ScalarColumns is the fixed export order for the non-social columns.
var ScalarColumns = []string{
	"Business Name", "Business Type", "Address", "Phone Number",
	"Email", "Website", "Opening Time", "Closing Time", "Business Hours",
}

// RunStatus tracks a collection run through its lifecycle.
type RunStatus string

const (
	RunStatusQueued    RunStatus = "queued"
	RunStatusRunning   RunStatus = "running"
	RunStatusStopping  RunStatus = "stopping"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Run describes one collection run against the results feed.
type Run struct {
	ID          string    `json:"id"`
	Query       string    `json:"query"`
	Target      int       `json:"target"`
	Status      RunStatus `json:"status"`
	RecordCount int       `json:"record_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RunSummary aggregates fill statistics over a record set. It drives the
// export Summary sheet and the end-of-run log line.
type RunSummary struct {
	Total             int              `json:"total"`
	DuplicatesRemoved int              `json:"duplicates_removed"`
	WithEmail         int              `json:"with_email"`
	WithWebsite       int              `json:"with_website"`
	SocialBuckets     [4]int           `json:"social_buckets"` // 0, 1-3, 4-6, 7+
	AvgSocial         float64          `json:"avg_social"`
	PerPlatform       map[Platform]int `json:"per_platform"`
}

// Summarize computes run statistics over a deduplicated record set.
// duplicatesRemoved is supplied by the caller (export-time dedupe).
func Summarize(records []BusinessRecord, duplicatesRemoved int) RunSummary {
	s := RunSummary{
		Total:             len(records),
		DuplicatesRemoved: duplicatesRemoved,
		PerPlatform:       make(map[Platform]int, len(AllPlatforms)),
	}
	for _, p := range AllPlatforms {
		s.PerPlatform[p] = 0
	}

	totalSocial := 0
	for _, r := range records {
		if r.Email != "" {
			s.WithEmail++
		}
		if r.Website != "" {
			s.WithWebsite++
		}
		n := r.Social.Count()
		totalSocial += n
		switch {
		case n == 0:
			s.SocialBuckets[0]++
		case n <= 3:
			s.SocialBuckets[1]++
		case n <= 6:
			s.SocialBuckets[2]++
		default:
			s.SocialBuckets[3]++
		}
		for _, p := range AllPlatforms {
			if r.Social[p] != "" {
				s.PerPlatform[p]++
			}
		}
	}
	if len(records) > 0 {
		s.AvgSocial = float64(totalSocial) / float64(len(records))
	}
	return s
}
