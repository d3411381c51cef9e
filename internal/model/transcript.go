package model

// Word is a single word with provider-supplied timing.
type Word struct {
	Text    string `json:"text"`
	StartMs int64  `json:"start_ms"`
	EndMs   int64  `json:"end_ms"`
}

// Utterance is one diarized segment of a completed transcript, as delivered
// by the transcription provider. Label is the provider's anonymous speaker
// tag ("Speaker A") and carries no identity by itself. SpeakerName is only
// set when the provider already attached a human-readable name.
//
// ResolvedName, ResolvedEmail and Confidence are empty until a speaker
// mapping is applied; Label is never rewritten.
type Utterance struct {
	Label       string `json:"label"`
	Text        string `json:"text"`
	StartMs     int64  `json:"start_ms"`
	EndMs       int64  `json:"end_ms,omitempty"`
	Words       []Word `json:"words,omitempty"`
	SpeakerName string `json:"speaker_name,omitempty"`

	ResolvedName  string     `json:"resolved_name,omitempty"`
	ResolvedEmail string     `json:"resolved_email,omitempty"`
	Confidence    Confidence `json:"confidence,omitempty"`
}

// Participant is one entry of the meeting roster, as delivered by the
// calendar/meeting-metadata integration.
type Participant struct {
	DisplayName  string `json:"display_name"`
	OriginalName string `json:"original_name,omitempty"`
	Email        string `json:"email,omitempty"`
	IsHost       bool   `json:"is_host,omitempty"`
	GivenName    string `json:"given_name,omitempty"`
	FamilyName   string `json:"family_name,omitempty"`
}

// SpeechSegment is one interval during which a participant was speaking,
// according to the recording platform's speech-activity events.
type SpeechSegment struct {
	StartMs int64 `json:"start_ms"`
	EndMs   int64 `json:"end_ms"`
}

// SpeechTimeline groups speech segments per participant identity (the
// platform's display name for that participant). Concurrent speech across
// participants is allowed.
type SpeechTimeline map[string][]SpeechSegment
