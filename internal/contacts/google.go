package contacts

import (
	"context"
	"fmt"
	"log"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/people/v1"

	"speakermap/internal/model"
)

const personFields = "names,emailAddresses,organizations"

// GoogleDirectory looks contacts up through the Google People API.
type GoogleDirectory struct {
	service *people.Service
}

// NewGoogleDirectory creates a People API directory from a credentials file.
func NewGoogleDirectory(ctx context.Context, credentialsFile string) (*GoogleDirectory, error) {
	srv, err := people.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(people.ContactsReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to create People service: %w", err)
	}
	return &GoogleDirectory{service: srv}, nil
}

// FindByEmails resolves each email via contact search. The People API has no
// batch email lookup, so this issues one search per email; callers still see
// a single batch call, and the surrounding cache keeps repeat traffic down.
func (d *GoogleDirectory) FindByEmails(ctx context.Context, emails []string) (map[string]model.ContactRecord, error) {
	result := make(map[string]model.ContactRecord, len(emails))
	for _, email := range emails {
		key := strings.ToLower(strings.TrimSpace(email))
		if key == "" {
			continue
		}
		rec, ok, err := d.searchOne(ctx, key)
		if err != nil {
			// Batch semantics: one failing lookup fails the batch, and the
			// caller degrades to "no contact data".
			return nil, fmt.Errorf("contact search failed for %s: %w", key, err)
		}
		if ok {
			result[key] = rec
		}
	}
	return result, nil
}

// FindByName searches contacts by display name and returns an exact match.
func (d *GoogleDirectory) FindByName(ctx context.Context, name string) (*model.ContactRecord, error) {
	want := strings.ToLower(strings.TrimSpace(name))
	if want == "" {
		return nil, nil
	}

	resp, err := d.service.People.SearchContacts().
		Query(name).
		ReadMask(personFields).
		PageSize(10).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("contact search failed for %q: %w", name, err)
	}

	for _, res := range resp.Results {
		rec := recordFromPerson(res.Person)
		if strings.ToLower(strings.TrimSpace(rec.Name)) == want {
			return &rec, nil
		}
	}
	return nil, nil
}

func (d *GoogleDirectory) searchOne(ctx context.Context, email string) (model.ContactRecord, bool, error) {
	resp, err := d.service.People.SearchContacts().
		Query(email).
		ReadMask(personFields).
		PageSize(3).
		Context(ctx).
		Do()
	if err != nil {
		return model.ContactRecord{}, false, err
	}

	for _, res := range resp.Results {
		rec := recordFromPerson(res.Person)
		if ownsEmail(rec, email) {
			return rec, true, nil
		}
	}
	if len(resp.Results) > 0 {
		log.Printf("[Contacts] Search for %s returned %d contacts, none owning the email", email, len(resp.Results))
	}
	return model.ContactRecord{}, false, nil
}

func recordFromPerson(p *people.Person) model.ContactRecord {
	var rec model.ContactRecord
	if p == nil {
		return rec
	}
	if len(p.Names) > 0 {
		rec.Name = p.Names[0].DisplayName
		rec.GivenName = p.Names[0].GivenName
		rec.FamilyName = p.Names[0].FamilyName
	}
	for _, e := range p.EmailAddresses {
		if e.Value != "" {
			rec.Emails = append(rec.Emails, e.Value)
		}
	}
	if len(p.Organizations) > 0 {
		rec.Organization = p.Organizations[0].Name
	}
	return rec
}
