package contacts_test

import (
	"context"
	"errors"
	"testing"

	"speakermap/internal/contacts"
	"speakermap/internal/model"
)

// countingDirectory records which emails and names were actually fetched.
type countingDirectory struct {
	inner        contacts.Directory
	emailFetches []string
	nameFetches  []string
	fail         bool
}

func (d *countingDirectory) FindByEmails(ctx context.Context, emails []string) (map[string]model.ContactRecord, error) {
	d.emailFetches = append(d.emailFetches, emails...)
	if d.fail {
		return nil, errors.New("directory down")
	}
	return d.inner.FindByEmails(ctx, emails)
}

func (d *countingDirectory) FindByName(ctx context.Context, name string) (*model.ContactRecord, error) {
	d.nameFetches = append(d.nameFetches, name)
	if d.fail {
		return nil, errors.New("directory down")
	}
	return d.inner.FindByName(ctx, name)
}

func fixtureDirectory() contacts.Directory {
	return contacts.NewStaticDirectory([]model.ContactRecord{
		{Name: "Jenn Kenning", Organization: "Acme", Emails: []string{"jenn@acme.com"}},
		{Name: "Jon Jones", Emails: []string{"jon@acme.com"}},
	})
}

func TestCacheFetchesOnlyMissingEmails(t *testing.T) {
	counting := &countingDirectory{inner: fixtureDirectory()}
	cache := contacts.NewCache(counting)
	ctx := context.Background()

	got, err := cache.FindByEmails(ctx, []string{"jenn@acme.com", "nobody@acme.com"})
	if err != nil {
		t.Fatalf("FindByEmails: %v", err)
	}
	if len(got) != 1 || got["jenn@acme.com"].Name != "Jenn Kenning" {
		t.Fatalf("unexpected result: %+v", got)
	}
	if len(counting.emailFetches) != 2 {
		t.Fatalf("fetched %v, want both emails", counting.emailFetches)
	}

	// Second call: the hit and the remembered miss are both served from the
	// cache; only the new email reaches the directory.
	counting.emailFetches = nil
	got, err = cache.FindByEmails(ctx, []string{"jenn@acme.com", "nobody@acme.com", "jon@acme.com"})
	if err != nil {
		t.Fatalf("FindByEmails: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("unexpected result: %+v", got)
	}
	if len(counting.emailFetches) != 1 || counting.emailFetches[0] != "jon@acme.com" {
		t.Fatalf("fetched %v, want only jon@acme.com", counting.emailFetches)
	}
}

func TestCacheNormalizesEmailCase(t *testing.T) {
	cache := contacts.NewCache(&countingDirectory{inner: fixtureDirectory()})
	ctx := context.Background()

	got, err := cache.FindByEmails(ctx, []string{"  JENN@Acme.com "})
	if err != nil {
		t.Fatalf("FindByEmails: %v", err)
	}
	if _, ok := got["jenn@acme.com"]; !ok {
		t.Fatalf("result not keyed by normalized email: %+v", got)
	}
}

func TestCacheReturnsPartialOnError(t *testing.T) {
	counting := &countingDirectory{inner: fixtureDirectory()}
	cache := contacts.NewCache(counting)
	ctx := context.Background()

	if _, err := cache.FindByEmails(ctx, []string{"jenn@acme.com"}); err != nil {
		t.Fatalf("warm-up fetch: %v", err)
	}

	counting.fail = true
	got, err := cache.FindByEmails(ctx, []string{"jenn@acme.com", "jon@acme.com"})
	if err == nil {
		t.Fatal("expected an error from the failing directory")
	}
	if len(got) != 1 || got["jenn@acme.com"].Name != "Jenn Kenning" {
		t.Fatalf("cached hit not returned alongside error: %+v", got)
	}
}

func TestCacheFindByNameCachesMisses(t *testing.T) {
	counting := &countingDirectory{inner: fixtureDirectory()}
	cache := contacts.NewCache(counting)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		rec, err := cache.FindByName(ctx, "Nobody Here")
		if err != nil {
			t.Fatalf("FindByName: %v", err)
		}
		if rec != nil {
			t.Fatalf("unexpected record: %+v", rec)
		}
	}
	if len(counting.nameFetches) != 1 {
		t.Fatalf("name fetched %d times, want 1", len(counting.nameFetches))
	}

	rec, err := cache.FindByName(ctx, "jenn kenning")
	if err != nil {
		t.Fatalf("FindByName: %v", err)
	}
	if rec == nil || rec.Organization != "Acme" {
		t.Fatalf("unexpected record: %+v", rec)
	}

	// Mutating the returned copy must not poison the cache.
	rec.Organization = "Mutated"
	again, err := cache.FindByName(ctx, "Jenn Kenning")
	if err != nil {
		t.Fatalf("FindByName: %v", err)
	}
	if again.Organization != "Acme" {
		t.Fatalf("cache poisoned: %+v", again)
	}
}
