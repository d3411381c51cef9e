package match

// Options are the tuning knobs of the matcher. The zero value of any field
// falls back to its default, so callers only set what they need.
type Options struct {
	// TimelineToleranceMs widens every speech-activity segment on both ends
	// before testing utterance overlap, absorbing clock skew between the
	// recording platform and the transcription provider.
	TimelineToleranceMs int64

	// MinTimelineVotes is the evidence floor: a label with fewer overlapping
	// utterances against a participant is not resolved by the timeline pass.
	MinTimelineVotes int

	// HighConfidenceVotes promotes a timeline match from medium to high.
	HighConfidenceVotes int

	// FreeEmailDomains are consumer mail providers whose domains say nothing
	// about a participant's company and are excluded from domain inference.
	FreeEmailDomains []string
}

// DefaultOptions returns the fixed defaults used in production.
func DefaultOptions() Options {
	return Options{
		TimelineToleranceMs: 2000,
		MinTimelineVotes:    2,
		HighConfidenceVotes: 5,
		FreeEmailDomains:    []string{"gmail.com", "yahoo.com", "hotmail.com", "outlook.com"},
	}
}

// withDefaults fills zero-valued fields so partially populated Options
// behave like DefaultOptions for everything left unset.
func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.TimelineToleranceMs <= 0 {
		o.TimelineToleranceMs = def.TimelineToleranceMs
	}
	if o.MinTimelineVotes <= 0 {
		o.MinTimelineVotes = def.MinTimelineVotes
	}
	if o.HighConfidenceVotes <= 0 {
		o.HighConfidenceVotes = def.HighConfidenceVotes
	}
	if len(o.FreeEmailDomains) == 0 {
		o.FreeEmailDomains = def.FreeEmailDomains
	}
	return o
}

func (o Options) isFreeEmailDomain(domain string) bool {
	for _, d := range o.FreeEmailDomains {
		if d == domain {
			return true
		}
	}
	return false
}
