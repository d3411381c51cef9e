package match

import (
	"strings"

	"speakermap/internal/contacts"
	"speakermap/internal/model"
)

// resolveCandidate is one contact considered for a bare-name query, keyed by
// the meeting email it was fetched for.
type resolveCandidate struct {
	email    string
	record   model.ContactRecord
	fullName bool
}

// ResolveEmail picks the best email for a bare display name, using the
// meeting's contact records and, when the name is ambiguous, the company
// context inferred from the other participants. Returns "" when no match is
// defensible; guessing is worse than leaving a speaker unresolved.
//
// companyHint, when non-empty, is an explicit caller-supplied organization
// name that outranks the inferred context.
func ResolveEmail(name string, participants []model.Participant, set *contacts.Set, companyHint string, opts Options) string {
	opts = opts.withDefaults()
	query := normalizeName(name)
	if query == "" {
		return ""
	}
	queryWords := strings.Fields(query)
	singleWord := len(queryWords) == 1

	var full, first []resolveCandidate
	for _, ent := range set.Entries() {
		recName := normalizeName(ent.Record.Name)
		if recName == query {
			full = append(full, resolveCandidate{email: ent.Email, record: ent.Record, fullName: true})
			continue
		}
		// First-name matches only apply when the query carries no surname.
		if singleWord && normalizeName(ent.Record.GivenName) == query {
			first = append(first, resolveCandidate{email: ent.Email, record: ent.Record})
		}
	}

	// A bare first name with no full-name contact is resolvable only when
	// the co-attendee company context agrees.
	if len(full) == 0 && len(first) > 0 {
		context := companyContext(name, participants, set, opts)
		var qualified []resolveCandidate
		for _, c := range first {
			if inCompanyContext(c, context) {
				qualified = append(qualified, c)
			}
		}
		if len(qualified) == 0 {
			return ""
		}
		return qualified[0].email
	}

	all := append(append([]resolveCandidate{}, full...), first...)
	switch {
	case len(all) > 1:
		if companyHint != "" {
			for _, c := range all {
				if strings.EqualFold(strings.TrimSpace(c.record.Organization), strings.TrimSpace(companyHint)) {
					return c.email
				}
			}
		}
		context := companyContext(name, participants, set, opts)
		for _, c := range all {
			if inCompanyContext(c, context) {
				return c.email
			}
		}
		if len(full) > 0 {
			return full[0].email
		}
		return all[0].email
	case len(all) == 1:
		return all[0].email
	}

	// No contact-based match: an email local part like "jenn.kenning" still
	// names its owner.
	for _, p := range participants {
		if p.Email == "" {
			continue
		}
		if normalizeName(displayNameFromEmail(p.Email)) == query {
			return strings.ToLower(strings.TrimSpace(p.Email))
		}
	}
	return ""
}

// companyContext collects the organizations and email domains of every
// participant other than the one being resolved. Free mail providers are
// excluded from domain inference: gmail.com says nothing about a company.
func companyContext(name string, participants []model.Participant, set *contacts.Set, opts Options) map[string]bool {
	context := make(map[string]bool)
	for _, p := range participants {
		if NameMatch(p.DisplayName, name) || NameMatch(p.OriginalName, name) {
			continue
		}
		if p.Email != "" {
			if domain := emailDomain(p.Email); domain != "" && !opts.isFreeEmailDomain(domain) {
				context[domain] = true
			}
			if rec, ok := set.ByEmail(p.Email); ok {
				if org := normalizeName(rec.Organization); org != "" {
					context[org] = true
				}
			}
		}
	}
	return context
}

func inCompanyContext(c resolveCandidate, context map[string]bool) bool {
	if org := normalizeName(c.record.Organization); org != "" && context[org] {
		return true
	}
	if domain := emailDomain(c.email); domain != "" && context[domain] {
		return true
	}
	for _, e := range c.record.Emails {
		if domain := emailDomain(e); domain != "" && context[domain] {
			return true
		}
	}
	return false
}

// displayNameFromEmail derives a readable name from an email local part:
// "jenn.kenning@acme.com" becomes "Jenn Kenning".
func displayNameFromEmail(email string) string {
	local := email
	if at := strings.Index(email, "@"); at >= 0 {
		local = email[:at]
	}
	local = strings.NewReplacer(".", " ", "_", " ", "-", " ", "+", " ").Replace(local)
	words := strings.Fields(local)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

func emailDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(email[at+1:]))
}
