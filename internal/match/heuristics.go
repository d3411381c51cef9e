package match

import (
	"sort"
	"strings"

	"speakermap/internal/model"
)

// labelStats are the weak statistical signals precomputed per unresolved
// label: how much it talked and when it first and last appeared.
type labelStats struct {
	label      string
	words      int
	utterances int
	firstMs    int64
	lastMs     int64
	talkMs     int64
}

// heuristicPass assigns whatever earlier passes left unresolved using
// positional and statistical guesses. Everything it produces is confidence
// low (or none for the terminal unknown rule); symmetric pairings that could
// just as well be reversed are flagged needsVerification.
//
// When exactly two labels and two participants remain, the alphabetical
// symmetric pairing runs and the host rules do not: with two candidates the
// host signal is no stronger than the order signal, and the symmetric
// pairing already demands human confirmation.
func heuristicPass(in Input, acc *accumulator, opts Options) {
	labels := remainingLabels(in.Utterances, acc)
	participants := remainingParticipants(in.Participants, acc)
	stats := collectLabelStats(in.Utterances, labels)

	if len(labels) == len(participants) && len(labels) >= 2 {
		if len(labels) == 2 {
			// Talk order between two speakers is a coin flip; pair
			// alphabetically instead and ask a human to confirm.
			ordered := append([]string{}, labels...)
			sort.Strings(ordered)
			for i, label := range ordered {
				acc.put(heuristicResult(label, participants[i], model.MethodTwoSpeakerOrder, true))
			}
		} else {
			// Three or more: the most talkative label pairs with the first
			// roster entry, and so on down.
			ordered := labelsByWordCount(labels, stats)
			for i, label := range ordered {
				acc.put(heuristicResult(label, participants[i], model.MethodWordCountOrder, false))
			}
		}
	} else {
		hostAssigned := false
		if host, ok := firstUnclaimedHost(participants, acc); ok && len(labels) > 0 {
			earliest := earliestLabel(labels, stats)
			if acc.put(heuristicResult(earliest, host, model.MethodHostFirstSpeaker, false)) {
				hostAssigned = true
			}
		}

		if !hostAssigned {
			if host, ok := firstUnclaimedHost(participants, acc); ok {
				if talker := mostTalkativeLabel(labels, stats, acc); talker != "" {
					acc.put(heuristicResult(talker, host, model.MethodHostMostTalkative, false))
				}
			}
		}

		// Sequential pairing of whatever is left, in appearance order
		// against roster order.
		leftParticipants := remainingParticipants(in.Participants, acc)
		idx := 0
		for _, label := range labels {
			if acc.has(label) || idx >= len(leftParticipants) {
				continue
			}
			if acc.put(heuristicResult(label, leftParticipants[idx], model.MethodSequential, true)) {
				idx++
			}
		}
	}

	// Terminal rule: a label surplus gets an explicit unknown entry rather
	// than silently disappearing from the mapping.
	for _, label := range labels {
		if acc.has(label) {
			continue
		}
		acc.put(model.MatchResult{
			Label:        label,
			ResolvedName: "Unknown Speaker (" + label + ")",
			Confidence:   model.ConfidenceNone,
			Method:       model.MethodUnmatched,
		})
	}
}

func heuristicResult(label string, p model.Participant, method string, needsVerification bool) model.MatchResult {
	return model.MatchResult{
		Label:             label,
		ResolvedName:      participantName(p),
		ResolvedEmail:     strings.ToLower(strings.TrimSpace(p.Email)),
		Confidence:        model.ConfidenceLow,
		Method:            method,
		NeedsVerification: needsVerification,
	}
}

// remainingLabels returns the transcript's unresolved labels in order of
// first appearance.
func remainingLabels(utterances []model.Utterance, acc *accumulator) []string {
	var labels []string
	seen := make(map[string]bool)
	for _, u := range utterances {
		if u.Label == "" || seen[u.Label] || acc.has(u.Label) {
			continue
		}
		seen[u.Label] = true
		labels = append(labels, u.Label)
	}
	return labels
}

// remainingParticipants returns roster entries not yet claimed by any
// resolved result, in roster order.
func remainingParticipants(participants []model.Participant, acc *accumulator) []model.Participant {
	var remaining []model.Participant
	for _, p := range participants {
		if acc.participantClaimed(p) {
			continue
		}
		remaining = append(remaining, p)
	}
	return remaining
}

func firstUnclaimedHost(participants []model.Participant, acc *accumulator) (model.Participant, bool) {
	for _, p := range participants {
		if p.IsHost && !acc.participantClaimed(p) {
			return p, true
		}
	}
	return model.Participant{}, false
}

func collectLabelStats(utterances []model.Utterance, labels []string) map[string]*labelStats {
	wanted := make(map[string]bool, len(labels))
	for _, l := range labels {
		wanted[l] = true
	}
	stats := make(map[string]*labelStats, len(labels))
	for _, u := range utterances {
		if !wanted[u.Label] {
			continue
		}
		s := stats[u.Label]
		if s == nil {
			s = &labelStats{label: u.Label, firstMs: u.StartMs}
			stats[u.Label] = s
		}
		start, end := utteranceSpan(u)
		if start < s.firstMs {
			s.firstMs = start
		}
		if end > s.lastMs {
			s.lastMs = end
		}
		s.words += len(strings.Fields(u.Text))
		s.utterances++
		s.talkMs += end - start
	}
	return stats
}

func labelsByWordCount(labels []string, stats map[string]*labelStats) []string {
	ordered := append([]string{}, labels...)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := stats[ordered[i]], stats[ordered[j]]
		if a.words != b.words {
			return a.words > b.words
		}
		return ordered[i] < ordered[j]
	})
	return ordered
}

func earliestLabel(labels []string, stats map[string]*labelStats) string {
	best := labels[0]
	for _, l := range labels[1:] {
		if stats[l].firstMs < stats[best].firstMs {
			best = l
		}
	}
	return best
}

// mostTalkativeLabel returns the unresolved label with the most speech, by
// talk duration then word count.
func mostTalkativeLabel(labels []string, stats map[string]*labelStats, acc *accumulator) string {
	best := ""
	for _, l := range labels {
		if acc.has(l) {
			continue
		}
		if best == "" {
			best = l
			continue
		}
		a, b := stats[l], stats[best]
		if a.talkMs > b.talkMs || (a.talkMs == b.talkMs && a.words > b.words) {
			best = l
		}
	}
	return best
}
