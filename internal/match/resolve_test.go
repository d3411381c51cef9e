package match_test

import (
	"testing"

	"speakermap/internal/contacts"
	"speakermap/internal/match"
	"speakermap/internal/model"
)

func setOf(records map[string]model.ContactRecord, emails ...string) *contacts.Set {
	return contacts.NewSet(emails, records)
}

func TestResolveEmailFirstNameNeedsCompanyContext(t *testing.T) {
	// Two contacts share the first name Stephanie; the other attendees are
	// from Acme, so the Acme Stephanie wins.
	records := map[string]model.ContactRecord{
		"s.jones@acme.com": {Name: "Stephanie Jones", GivenName: "Stephanie", Organization: "Acme"},
		"s.brown@beta.com": {Name: "Stephanie Brown", GivenName: "Stephanie", Organization: "Beta"},
	}
	participants := []model.Participant{
		{DisplayName: "Stephanie"},
		{DisplayName: "Bob Lee", Email: "bob@acme.com"},
	}
	set := setOf(records, "s.jones@acme.com", "s.brown@beta.com")

	got := match.ResolveEmail("Stephanie", participants, set, "", match.Options{})
	if got != "s.jones@acme.com" {
		t.Fatalf("ResolveEmail = %q, want s.jones@acme.com", got)
	}
}

func TestResolveEmailFirstNameRefusesToGuess(t *testing.T) {
	// Exactly one first-name candidate, but the other attendee only has a
	// free-mail address, so there is no company context to agree with.
	records := map[string]model.ContactRecord{
		"s.brown@beta.com": {Name: "Stephanie Brown", GivenName: "Stephanie", Organization: "Beta"},
	}
	participants := []model.Participant{
		{DisplayName: "Stephanie"},
		{DisplayName: "Bob Lee", Email: "bob@gmail.com"},
	}
	set := setOf(records, "s.brown@beta.com")

	if got := match.ResolveEmail("Stephanie", participants, set, "", match.Options{}); got != "" {
		t.Fatalf("ResolveEmail = %q, want empty (refuse to guess)", got)
	}
}

func TestResolveEmailFullNameMatch(t *testing.T) {
	records := map[string]model.ContactRecord{
		"jenn@acme.com": {Name: "Jenn Kenning", GivenName: "Jenn", FamilyName: "Kenning"},
	}
	set := setOf(records, "jenn@acme.com")

	got := match.ResolveEmail("Jenn Kenning", nil, set, "", match.Options{})
	if got != "jenn@acme.com" {
		t.Fatalf("ResolveEmail = %q, want jenn@acme.com", got)
	}
}

func TestResolveEmailPrefersFullNameOverFirstName(t *testing.T) {
	records := map[string]model.ContactRecord{
		"amy.chan@acme.com": {Name: "Amy Chan", GivenName: "Amy"},
		"amy@beta.com":      {Name: "Amy", GivenName: "Amy"},
	}
	set := setOf(records, "amy.chan@acme.com", "amy@beta.com")

	// "Amy" matches amy@beta.com by full name and amy.chan@acme.com by
	// first name; with no hint or context the full-name match wins.
	got := match.ResolveEmail("Amy", nil, set, "", match.Options{})
	if got != "amy@beta.com" {
		t.Fatalf("ResolveEmail = %q, want amy@beta.com", got)
	}
}

func TestResolveEmailCompanyHintBreaksTies(t *testing.T) {
	records := map[string]model.ContactRecord{
		"lee.park@acme.com": {Name: "Lee Park", GivenName: "Lee", Organization: "Acme"},
		"lee.park@beta.com": {Name: "Lee Park", GivenName: "Lee", Organization: "Beta"},
	}
	set := setOf(records, "lee.park@acme.com", "lee.park@beta.com")

	got := match.ResolveEmail("Lee Park", nil, set, "Beta", match.Options{})
	if got != "lee.park@beta.com" {
		t.Fatalf("ResolveEmail = %q, want lee.park@beta.com", got)
	}
}

func TestResolveEmailDerivesNameFromLocalPart(t *testing.T) {
	participants := []model.Participant{
		{DisplayName: "Jenn Kenning", Email: "jenn.kenning@acme.com"},
		{DisplayName: "Jon D. Jones", Email: "jon@acme.com"},
	}
	set := setOf(nil)

	got := match.ResolveEmail("Jenn Kenning", participants, set, "", match.Options{})
	if got != "jenn.kenning@acme.com" {
		t.Fatalf("ResolveEmail = %q, want jenn.kenning@acme.com", got)
	}

	// "jon" alone does not spell "Jon D. Jones".
	if got := match.ResolveEmail("Jon D. Jones", participants, set, "", match.Options{}); got != "" {
		t.Fatalf("ResolveEmail = %q, want empty", got)
	}
}

func TestResolveEmailEmptyQuery(t *testing.T) {
	if got := match.ResolveEmail("  ", nil, setOf(nil), "", match.Options{}); got != "" {
		t.Fatalf("ResolveEmail = %q, want empty", got)
	}
}
