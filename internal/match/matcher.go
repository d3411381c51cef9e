package match

import (
	"context"
	"log"
	"strings"

	"speakermap/internal/contacts"
	"speakermap/internal/model"
)

// Matcher maps anonymous diarization labels onto identified meeting
// participants. It is a pure computation over already-materialized inputs;
// its only suspension point is the single batch contact lookup at the start
// of a match.
type Matcher struct {
	directory contacts.Directory
	opts      Options
}

// New creates a matcher. directory may be nil, in which case every match
// runs without contact data.
func New(directory contacts.Directory, opts Options) *Matcher {
	return &Matcher{directory: directory, opts: opts.withDefaults()}
}

// Input is everything known about one completed meeting.
type Input struct {
	Utterances   []model.Utterance
	Participants []model.Participant
	// Timeline is the platform's speech-activity record, present only when
	// that subscription was active during the meeting.
	Timeline model.SpeechTimeline
	// Owner identifies the recording device owner, when known.
	Owner *Owner
	// CompanyHint is an optional caller-supplied organization name used to
	// break ties between same-named contacts.
	CompanyHint string
}

// Output is the final mapping plus any non-fatal collaborator failures.
type Output struct {
	Mapping  model.SpeakerMapping
	Warnings []string
}

// Match builds a fresh SpeakerMapping for one transcript. The passes run
// strictly in priority order — speech timeline, current user,
// provider-identified names, heuristics — and each writes only labels the
// earlier passes left unresolved, so a stronger result is never overwritten.
// Every label in the transcript ends up in the mapping; "could not identify
// this speaker" is a normal result, not an error.
func (m *Matcher) Match(ctx context.Context, in Input) Output {
	out := Output{Mapping: model.SpeakerMapping{}}
	if len(in.Utterances) == 0 || len(in.Participants) == 0 {
		return out
	}

	opts := m.opts
	set := m.fetchContacts(ctx, in.Participants, &out)

	acc := newAccumulator()
	timelinePass(in, set, acc, opts)
	currentUserPass(in, acc)
	identifiedSpeakerPass(in, set, acc, opts)
	heuristicPass(in, acc, opts)

	out.Mapping = acc.mapping()
	return out
}

// fetchContacts performs the one batch directory call per match. A failing
// directory degrades to "no contact data" and a warning; it never aborts
// the match.
func (m *Matcher) fetchContacts(ctx context.Context, participants []model.Participant, out *Output) *contacts.Set {
	emails := participantEmails(participants)
	if m.directory == nil || len(emails) == 0 {
		return contacts.NewSet(nil, nil)
	}
	records, err := m.directory.FindByEmails(ctx, emails)
	if err != nil {
		log.Printf("[Match] Contact lookup failed, continuing without contact data: %v", err)
		out.Warnings = append(out.Warnings, "contact lookup failed: "+err.Error())
	}
	return contacts.NewSet(emails, records)
}

// currentUserPass maps the recording owner's label, when the owner identity
// and a provider-attached name association make that possible.
func currentUserPass(in Input, acc *accumulator) {
	if in.Owner == nil || in.Owner.empty() {
		return
	}
	names, byName := speakerNameIndex(in.Utterances)
	res := IdentifyCurrentUser(*in.Owner, in.Participants, func(p model.Participant) string {
		return labelForParticipant(p, names, byName)
	})
	if res != nil {
		acc.put(*res)
	}
}

// identifiedSpeakerPass consumes speaker names the transcription provider
// already attached to utterances. It never short-circuits the timeline pass:
// it runs after it and fills only the gaps the timeline left.
func identifiedSpeakerPass(in Input, set *contacts.Set, acc *accumulator, opts Options) {
	seen := make(map[string]bool)
	for _, u := range in.Utterances {
		name := strings.TrimSpace(u.SpeakerName)
		if name == "" || u.Label == "" || seen[u.Label] || acc.has(u.Label) {
			continue
		}
		seen[u.Label] = true

		resolvedName := name
		email := ""
		for _, p := range in.Participants {
			if NameMatch(name, p.DisplayName) || NameMatch(name, p.OriginalName) {
				resolvedName = participantName(p)
				email = p.Email
				break
			}
		}
		if email == "" {
			email = ResolveEmail(name, in.Participants, set, in.CompanyHint, opts)
		}
		acc.put(model.MatchResult{
			Label:         u.Label,
			ResolvedName:  resolvedName,
			ResolvedEmail: strings.ToLower(strings.TrimSpace(email)),
			Confidence:    model.ConfidenceMedium,
			Method:        model.MethodIdentifiedSpeaker,
		})
	}
}

// speakerNameIndex maps provider-attached speaker names (normalized) to the
// label of their first appearance, preserving first-appearance order.
func speakerNameIndex(utterances []model.Utterance) ([]string, map[string]string) {
	var names []string
	byName := make(map[string]string)
	for _, u := range utterances {
		name := normalizeName(u.SpeakerName)
		if name == "" || u.Label == "" {
			continue
		}
		if _, ok := byName[name]; ok {
			continue
		}
		byName[name] = u.Label
		names = append(names, name)
	}
	return names, byName
}

func labelForParticipant(p model.Participant, names []string, byName map[string]string) string {
	for _, n := range names {
		if NameMatch(n, p.DisplayName) || NameMatch(n, p.OriginalName) {
			return byName[n]
		}
	}
	return ""
}

func participantEmails(participants []model.Participant) []string {
	var emails []string
	seen := make(map[string]bool)
	for _, p := range participants {
		email := strings.ToLower(strings.TrimSpace(p.Email))
		if email == "" || seen[email] {
			continue
		}
		seen[email] = true
		emails = append(emails, email)
	}
	return emails
}

// accumulator is the mapping under construction. It only admits results for
// labels that have no result yet and refuses results whose email is already
// earmarked by a confident assignment, which is what mechanically enforces
// both the pass priority and the no-duplicate-identity invariant.
type accumulator struct {
	results map[string]model.MatchResult
	// claimedEmails holds emails assigned with confidence >= medium; later
	// passes may not hand them to a second label.
	claimedEmails map[string]bool
	// assignedEmails holds every assigned email, for participant-claim
	// checks in the heuristics.
	assignedEmails map[string]bool
	resolvedNames  []string
}

func newAccumulator() *accumulator {
	return &accumulator{
		results:        make(map[string]model.MatchResult),
		claimedEmails:  make(map[string]bool),
		assignedEmails: make(map[string]bool),
	}
}

// put records a result unless its label is taken or its email is earmarked.
func (a *accumulator) put(res model.MatchResult) bool {
	if res.Label == "" {
		return false
	}
	if _, ok := a.results[res.Label]; ok {
		return false
	}
	email := strings.ToLower(strings.TrimSpace(res.ResolvedEmail))
	res.ResolvedEmail = email
	if email != "" && a.claimedEmails[email] {
		return false
	}

	a.results[res.Label] = res
	if email != "" {
		a.assignedEmails[email] = true
		if res.Confidence.AtLeast(model.ConfidenceMedium) {
			a.claimedEmails[email] = true
		}
	}
	if res.ResolvedName != "" && res.Method != model.MethodUnmatched {
		a.resolvedNames = append(a.resolvedNames, res.ResolvedName)
	}
	return true
}

func (a *accumulator) has(label string) bool {
	_, ok := a.results[label]
	return ok
}

// participantClaimed reports whether a roster entry is already spoken for,
// by email or by resolved-name equivalence.
func (a *accumulator) participantClaimed(p model.Participant) bool {
	if email := strings.ToLower(strings.TrimSpace(p.Email)); email != "" && a.assignedEmails[email] {
		return true
	}
	for _, name := range a.resolvedNames {
		if NameMatch(name, p.DisplayName) || NameMatch(name, p.OriginalName) {
			return true
		}
	}
	return false
}

func (a *accumulator) mapping() model.SpeakerMapping {
	mapping := make(model.SpeakerMapping, len(a.results))
	for label, res := range a.results {
		mapping[label] = res
	}
	return mapping
}
