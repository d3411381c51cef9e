package match

import (
	"sort"

	"speakermap/internal/contacts"
	"speakermap/internal/model"
)

// timelinePass resolves diarization labels purely from time overlap between
// utterances and the platform's per-participant speech-activity segments.
// No name matching happens here; names only enter when the winning identity
// is resolved to an email afterwards.
//
// Labels are processed in descending order of their strongest vote count, so
// the best-evidenced label claims its participant first. A weaker label may
// not reclaim an identity an earlier label took; it falls back to its
// next-best unclaimed candidate or stays unresolved for later passes.
func timelinePass(in Input, set *contacts.Set, acc *accumulator, opts Options) {
	if len(in.Timeline) == 0 || len(in.Utterances) == 0 {
		return
	}

	identities := make([]string, 0, len(in.Timeline))
	for identity := range in.Timeline {
		identities = append(identities, identity)
	}
	sort.Strings(identities)

	// One vote per (utterance, participant), no matter how many widened
	// segments the utterance touches.
	votes := make(map[string]map[string]int)
	for _, u := range in.Utterances {
		start, end := utteranceSpan(u)
		for _, identity := range identities {
			if !touchesAnySegment(start, end, in.Timeline[identity], opts.TimelineToleranceMs) {
				continue
			}
			if votes[u.Label] == nil {
				votes[u.Label] = make(map[string]int)
			}
			votes[u.Label][identity]++
		}
	}

	ordered := labelsByBestVote(votes)
	claimed := make(map[string]bool, len(identities))
	for _, label := range ordered {
		identity, count := bestUnclaimed(votes[label], identities, claimed)
		if identity == "" || count < opts.MinTimelineVotes {
			continue
		}
		confidence := model.ConfidenceMedium
		if count >= opts.HighConfidenceVotes {
			confidence = model.ConfidenceHigh
		}
		email := ResolveEmail(identity, in.Participants, set, "", opts)
		acc.put(model.MatchResult{
			Label:         label,
			ResolvedName:  identity,
			ResolvedEmail: email,
			Confidence:    confidence,
			Method:        model.MethodSpeechTimeline,
			MatchCount:    count,
		})
		claimed[identity] = true
	}
}

// utteranceSpan returns the [start, end] range of an utterance. The end is
// the last word's end; without word-level timing the utterance is treated as
// a point in time at its start.
func utteranceSpan(u model.Utterance) (int64, int64) {
	if len(u.Words) > 0 {
		return u.StartMs, u.Words[len(u.Words)-1].EndMs
	}
	return u.StartMs, u.StartMs
}

// touchesAnySegment reports whether either end of the utterance range falls
// inside any segment widened by tolerance on both sides.
func touchesAnySegment(start, end int64, segments []model.SpeechSegment, tolerance int64) bool {
	for _, seg := range segments {
		lo := seg.StartMs - tolerance
		hi := seg.EndMs + tolerance
		if (start >= lo && start <= hi) || (end >= lo && end <= hi) {
			return true
		}
	}
	return false
}

// labelsByBestVote orders labels by their strongest candidate's vote count,
// descending, with ties broken by label so the order is deterministic.
func labelsByBestVote(votes map[string]map[string]int) []string {
	type labelBest struct {
		label string
		best  int
	}
	ranked := make([]labelBest, 0, len(votes))
	for label, candidates := range votes {
		best := 0
		for _, n := range candidates {
			if n > best {
				best = n
			}
		}
		ranked = append(ranked, labelBest{label: label, best: best})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].best != ranked[j].best {
			return ranked[i].best > ranked[j].best
		}
		return ranked[i].label < ranked[j].label
	})
	labels := make([]string, len(ranked))
	for i, r := range ranked {
		labels[i] = r.label
	}
	return labels
}

// bestUnclaimed picks the unclaimed identity with the most votes for one
// label. Candidates are scanned in sorted identity order, so equal vote
// counts resolve deterministically.
func bestUnclaimed(candidates map[string]int, identities []string, claimed map[string]bool) (string, int) {
	bestIdentity := ""
	bestVotes := 0
	for _, identity := range identities {
		n := candidates[identity]
		if n == 0 || claimed[identity] {
			continue
		}
		if n > bestVotes {
			bestIdentity = identity
			bestVotes = n
		}
	}
	return bestIdentity, bestVotes
}
