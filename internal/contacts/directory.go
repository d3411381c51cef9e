package contacts

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"speakermap/internal/model"
)

// Directory is the contact lookup collaborator. Implementations may be
// remote (Google People) or fixture-backed; lookups can fail and callers
// must degrade to "no contact data" rather than aborting a match.
type Directory interface {
	// FindByEmails resolves a batch of emails to contact records. Emails
	// with no known contact are simply absent from the returned map.
	FindByEmails(ctx context.Context, emails []string) (map[string]model.ContactRecord, error)

	// FindByName returns the contact whose name exactly equals name, or nil.
	FindByName(ctx context.Context, name string) (*model.ContactRecord, error)
}

// CreateDirectory creates a contact directory based on environment
// configuration. Returns nil when no provider is configured, which callers
// treat as "run without contact data".
func CreateDirectory(ctx context.Context) (Directory, error) {
	providerName := strings.ToLower(os.Getenv("CONTACTS_PROVIDER"))

	switch providerName {
	case "":
		log.Printf("[Contacts] CONTACTS_PROVIDER not set, running without contact directory")
		return nil, nil
	case "google":
		return createGoogleDirectory(ctx)
	default:
		return nil, fmt.Errorf("unsupported contacts provider: %s. Supported: google", providerName)
	}
}

func createGoogleDirectory(ctx context.Context) (Directory, error) {
	keyFile := os.Getenv("GOOGLE_CONTACTS_KEY_FILE")
	if keyFile == "" {
		return nil, fmt.Errorf("GOOGLE_CONTACTS_KEY_FILE environment variable is not set")
	}

	log.Printf("[Contacts] Creating Google People contact directory")
	return NewGoogleDirectory(ctx, keyFile)
}
