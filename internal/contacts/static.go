package contacts

import (
	"context"
	"strings"

	"speakermap/internal/model"
)

// StaticDirectory serves contact records from a fixed in-memory list. Used
// by tests and by offline deployments that load contacts from a file.
type StaticDirectory struct {
	records []model.ContactRecord
}

// NewStaticDirectory creates a directory over the given records.
func NewStaticDirectory(records []model.ContactRecord) *StaticDirectory {
	return &StaticDirectory{records: records}
}

// FindByEmails returns the records owning any of the requested emails,
// keyed by the (lowercased) requested email.
func (d *StaticDirectory) FindByEmails(_ context.Context, emails []string) (map[string]model.ContactRecord, error) {
	result := make(map[string]model.ContactRecord)
	for _, email := range emails {
		key := strings.ToLower(strings.TrimSpace(email))
		if key == "" {
			continue
		}
		for _, rec := range d.records {
			if ownsEmail(rec, key) {
				result[key] = rec
				break
			}
		}
	}
	return result, nil
}

// FindByName returns the first record whose name equals name,
// case-insensitively.
func (d *StaticDirectory) FindByName(_ context.Context, name string) (*model.ContactRecord, error) {
	want := strings.ToLower(strings.TrimSpace(name))
	if want == "" {
		return nil, nil
	}
	for _, rec := range d.records {
		if strings.ToLower(strings.TrimSpace(rec.Name)) == want {
			recCopy := rec
			return &recCopy, nil
		}
	}
	return nil, nil
}

func ownsEmail(rec model.ContactRecord, email string) bool {
	for _, e := range rec.Emails {
		if strings.ToLower(strings.TrimSpace(e)) == email {
			return true
		}
	}
	return false
}
