package contacts

import (
	"strings"

	"speakermap/internal/model"
)

// Entry is a contact record keyed by the meeting email it was fetched for.
type Entry struct {
	Email  string
	Record model.ContactRecord
}

// Set is the materialized result of the per-meeting batch contact lookup.
// Entries keep the roster's email order so that "first match" decisions in
// the resolver are deterministic.
type Set struct {
	entries []Entry
	byEmail map[string]model.ContactRecord
}

// NewSet builds a Set from the batch lookup result, preserving the order of
// emails. Emails without a record are skipped.
func NewSet(emails []string, records map[string]model.ContactRecord) *Set {
	s := &Set{byEmail: make(map[string]model.ContactRecord, len(records))}
	seen := make(map[string]bool, len(emails))
	for _, email := range emails {
		key := strings.ToLower(strings.TrimSpace(email))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		rec, ok := records[key]
		if !ok {
			// Providers may key results by the original casing.
			rec, ok = records[email]
		}
		if !ok {
			continue
		}
		s.entries = append(s.entries, Entry{Email: key, Record: rec})
		s.byEmail[key] = rec
	}
	return s
}

// Entries returns the contact entries in roster email order.
func (s *Set) Entries() []Entry {
	if s == nil {
		return nil
	}
	return s.entries
}

// ByEmail returns the contact record fetched for email, if any.
func (s *Set) ByEmail(email string) (model.ContactRecord, bool) {
	if s == nil {
		return model.ContactRecord{}, false
	}
	rec, ok := s.byEmail[strings.ToLower(strings.TrimSpace(email))]
	return rec, ok
}

// Len returns the number of resolved contacts.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}
