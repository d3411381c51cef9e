package match

import "speakermap/internal/model"

// ApplyMapping attaches resolved identities to a transcript for downstream
// consumption, leaving every diarization label untouched. The attribution
// fields are overwritten, never stacked, so applying the same mapping twice
// produces identical output. The input slice is not modified.
func ApplyMapping(utterances []model.Utterance, mapping model.SpeakerMapping) []model.Utterance {
	out := make([]model.Utterance, len(utterances))
	copy(out, utterances)
	for i := range out {
		res, ok := mapping[out[i].Label]
		if !ok {
			continue
		}
		out[i].ResolvedName = res.ResolvedName
		out[i].ResolvedEmail = res.ResolvedEmail
		out[i].Confidence = res.Confidence
	}
	return out
}
