package match

import (
	"strings"

	"speakermap/internal/model"
)

// Owner is the recording device owner's known identity, supplied by the
// caller when available.
type Owner struct {
	Emails []string `json:"emails,omitempty"`
	Names  []string `json:"names,omitempty"`
}

func (o Owner) empty() bool {
	return len(o.Emails) == 0 && len(o.Names) == 0
}

// IdentifyCurrentUser determines which diarization label belongs to the
// recording owner. labelFor supplies the participant→label association
// (derived from provider-attached speaker names); participants without a
// label cannot be identified and are skipped. First success wins:
//
//  1. a roster entry matching the owner by email (high) or name (medium);
//  2. the host entry matching the owner by email or name (medium);
//  3. nil — the owner is never guessed.
func IdentifyCurrentUser(owner Owner, participants []model.Participant, labelFor func(model.Participant) string) *model.MatchResult {
	if owner.empty() || len(participants) == 0 || labelFor == nil {
		return nil
	}

	for _, p := range participants {
		if !ownerEmailMatches(owner, p.Email) {
			continue
		}
		if label := labelFor(p); label != "" {
			return ownerResult(label, p, model.ConfidenceHigh, model.MethodCurrentUserEmail)
		}
	}

	for _, p := range participants {
		if !ownerNameMatches(owner, p) {
			continue
		}
		if label := labelFor(p); label != "" {
			return ownerResult(label, p, model.ConfidenceMedium, model.MethodCurrentUserName)
		}
	}

	// The recording owner is very often the meeting host.
	for _, p := range participants {
		if !p.IsHost {
			continue
		}
		if !ownerEmailMatches(owner, p.Email) && !ownerNameMatches(owner, p) {
			continue
		}
		if label := labelFor(p); label != "" {
			return ownerResult(label, p, model.ConfidenceMedium, model.MethodCurrentUserHost)
		}
	}

	return nil
}

func ownerResult(label string, p model.Participant, confidence model.Confidence, method string) *model.MatchResult {
	return &model.MatchResult{
		Label:         label,
		ResolvedName:  participantName(p),
		ResolvedEmail: strings.ToLower(strings.TrimSpace(p.Email)),
		Confidence:    confidence,
		Method:        method,
	}
}

func ownerEmailMatches(owner Owner, email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false
	}
	for _, e := range owner.Emails {
		if strings.ToLower(strings.TrimSpace(e)) == email {
			return true
		}
	}
	return false
}

func ownerNameMatches(owner Owner, p model.Participant) bool {
	for _, n := range owner.Names {
		if NameMatch(n, p.DisplayName) || NameMatch(n, p.OriginalName) {
			return true
		}
	}
	return false
}

// participantName prefers the display name, falling back to the original
// roster name or the pieces of a structured name.
func participantName(p model.Participant) string {
	if strings.TrimSpace(p.DisplayName) != "" {
		return p.DisplayName
	}
	if strings.TrimSpace(p.OriginalName) != "" {
		return p.OriginalName
	}
	return strings.TrimSpace(strings.TrimSpace(p.GivenName) + " " + strings.TrimSpace(p.FamilyName))
}
