package model

// ContactRecord is a single contact sourced from the contacts integration.
type ContactRecord struct {
	Name         string   `json:"name"`
	GivenName    string   `json:"given_name,omitempty"`
	FamilyName   string   `json:"family_name,omitempty"`
	Organization string   `json:"organization,omitempty"`
	Emails       []string `json:"emails,omitempty"`
}

// PrimaryEmail returns the first known email for the contact, or "".
func (c ContactRecord) PrimaryEmail() string {
	if len(c.Emails) == 0 {
		return ""
	}
	return c.Emails[0]
}
