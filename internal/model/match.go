package model

import (
	"time"

	"github.com/google/uuid"
)

// Confidence is the ordinal evidentiary strength of a resolved mapping.
type Confidence string

const (
	ConfidenceNone   Confidence = "none"
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Rank returns the ordinal position of the confidence level, with unknown
// values ranking below "none".
func (c Confidence) Rank() int {
	switch c {
	case ConfidenceNone:
		return 0
	case ConfidenceLow:
		return 1
	case ConfidenceMedium:
		return 2
	case ConfidenceHigh:
		return 3
	default:
		return -1
	}
}

// AtLeast reports whether c is at least as strong as other.
func (c Confidence) AtLeast(other Confidence) bool {
	return c.Rank() >= other.Rank()
}

// Match method tags. Each names the signal that produced the assignment.
const (
	MethodSpeechTimeline    = "speech-timeline"
	MethodCurrentUserEmail  = "current-user-email"
	MethodCurrentUserName   = "current-user-name"
	MethodCurrentUserHost   = "current-user-host"
	MethodIdentifiedSpeaker = "identified-speaker"
	MethodTwoSpeakerOrder   = "two-speaker-order"
	MethodWordCountOrder    = "word-count-order"
	MethodHostFirstSpeaker  = "host-first-speaker"
	MethodHostMostTalkative = "host-most-talkative"
	MethodSequential        = "sequential"
	MethodUnmatched         = "unmatched"
	MethodManual            = "manual"
)

// MatchResult is the resolved identity for one diarization label.
type MatchResult struct {
	Label             string     `json:"label"`
	ResolvedName      string     `json:"resolved_name"`
	ResolvedEmail     string     `json:"resolved_email,omitempty"`
	Confidence        Confidence `json:"confidence"`
	Method            string     `json:"method"`
	MatchCount        int        `json:"match_count,omitempty"`
	NeedsVerification bool       `json:"needs_verification,omitempty"`
}

// SpeakerMapping maps each diarization label in a transcript to its
// MatchResult. Built fresh per meeting; never treated as ground truth.
type SpeakerMapping map[string]MatchResult

// MatchRun is one persisted invocation of the matcher over a transcript.
type MatchRun struct {
	ID          uuid.UUID      `json:"id"`
	RecordingID string         `json:"recording_id,omitempty"`
	Utterances  []Utterance    `json:"utterances"`
	Mapping     SpeakerMapping `json:"mapping"`
	Warnings    []string       `json:"warnings,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}
