package extract

import (
	"regexp"
	"strings"
)

var daysOfWeek = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

var hoursSplit = regexp.MustCompile(`[;,]`)

var hoursAfterDay = func() map[string]*regexp.Regexp {
	m := make(map[string]*regexp.Regexp, len(daysOfWeek))
	for _, day := range daysOfWeek {
		m[day] = regexp.MustCompile(`(?i)` + day + `:?\s*(.*)`)
	}
	return m
}()

// StandardizeHours rewrites a free-form hours string into the fixed
// Monday-through-Sunday form, one "Day: hours" segment per day joined with
// "; ". Days the input never mentions read "Hours not available". The first
// segment naming a day wins; later mentions of the same day are ignored.
// Empty input stays empty.
func StandardizeHours(raw string) string {
	if raw == "" {
		return ""
	}

	dayHours := make(map[string]string, len(daysOfWeek))
	for _, day := range daysOfWeek {
		dayHours[day] = "Hours not available"
	}
	seen := make(map[string]bool, len(daysOfWeek))

	for _, part := range hoursSplit.Split(raw, -1) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		for _, day := range daysOfWeek {
			if !strings.HasPrefix(strings.ToLower(part), strings.ToLower(day)) {
				continue
			}
			if !seen[day] {
				if m := hoursAfterDay[day].FindStringSubmatch(part); m != nil {
					dayHours[day] = strings.TrimSpace(m[1])
					seen[day] = true
				}
			}
			break
		}
	}

	segments := make([]string, 0, len(daysOfWeek))
	for _, day := range daysOfWeek {
		segments = append(segments, day+": "+dayHours[day])
	}
	return strings.Join(segments, "; ")
}
