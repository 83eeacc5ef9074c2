package collector

import (
	"strings"

	"github.com/sells-group/mapleads-cli/internal/model"
)

// ResultSet accumulates accepted records for one run. Append-only: a record
// that makes it in is never merged with or replaced by a later duplicate.
type ResultSet struct {
	records []model.BusinessRecord
	hashes  map[string]struct{}
}

func NewResultSet() *ResultSet {
	return &ResultSet{hashes: make(map[string]struct{})}
}

// MatchesExisting is the cheap duplicate pre-check run before hashing: an
// accepted record with the same lowercased name and a matching, compatible
// or empty address flags the candidate as a duplicate. Addresses also match
// on their street line alone (text before the first comma).
func (s *ResultSet) MatchesExisting(name, address string) bool {
	nameLower := strings.ToLower(name)
	addrLower := strings.ToLower(address)
	for i := range s.records {
		if strings.ToLower(s.records[i].Name) != nameLower {
			continue
		}
		existing := strings.ToLower(s.records[i].Address)
		if addrLower == "" || existing == "" || addrLower == existing {
			return true
		}
		if streetLine(addrLower) == streetLine(existing) {
			return true
		}
	}
	return false
}

func streetLine(addr string) string {
	if i := strings.IndexByte(addr, ','); i >= 0 {
		return strings.TrimSpace(addr[:i])
	}
	return strings.TrimSpace(addr)
}

// HasHash reports whether an identity hash was already accepted.
func (s *ResultSet) HasHash(hash string) bool {
	_, ok := s.hashes[hash]
	return ok
}

// Add appends an accepted record under its identity hash.
func (s *ResultSet) Add(rec model.BusinessRecord, hash string) {
	s.hashes[hash] = struct{}{}
	s.records = append(s.records, rec)
}

func (s *ResultSet) Len() int { return len(s.records) }

// Records returns the accepted records in acceptance order.
func (s *ResultSet) Records() []model.BusinessRecord { return s.records }
