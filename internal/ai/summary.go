package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/sashabaranov/go-openai"

	"speakermap/internal/model"
)

// SummaryResult represents the AI summary of an attributed transcript.
type SummaryResult struct {
	Title             string            `json:"title"`
	Summary           []string          `json:"summary"`
	ActionItems       []string          `json:"action_items"`
	SpeakerHighlights map[string]string `json:"speaker_highlights"`
	Confidence        float64           `json:"confidence_score,omitempty"`
}

// SummarizeTranscript asks OpenAI for a summary of a transcript that has
// already been through speaker matching, so action items and highlights can
// be attributed to people instead of anonymous labels.
func SummarizeTranscript(ctx context.Context, utterances []model.Utterance) (*SummaryResult, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
	}
	if len(utterances) == 0 {
		return nil, fmt.Errorf("no utterances to summarize")
	}

	transcript := attributedTranscript(utterances)
	systemPrompt, userPrompt := buildSummaryPrompt(transcript)

	log.Printf("[AI] Summarizing attributed transcript: %d utterances, %d characters", len(utterances), len(transcript))

	client := openai.NewClient(apiKey)
	req := openai.ChatCompletionRequest{
		Model: openai.GPT4oMini,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: userPrompt,
			},
		},
		Temperature: 0.3, // Low temperature for factual output
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := client.CreateChatCompletion(ctx, req)
	if err != nil {
		log.Printf("[AI] OpenAI API error: %v", err)
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("OpenAI returned no choices")
	}

	content := resp.Choices[0].Message.Content
	log.Printf("[AI] Response received: %d characters, %d total tokens", len(content), resp.Usage.TotalTokens)

	var result SummaryResult
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		// Some models still wrap JSON in markdown code fences.
		extracted := extractJSONFromMarkdown(content)
		if err := json.Unmarshal([]byte(extracted), &result); err != nil {
			return nil, fmt.Errorf("failed to parse OpenAI response as JSON: %w", err)
		}
	}

	if result.Title == "" && len(result.Summary) > 0 {
		titleWords := strings.Fields(result.Summary[0])
		if len(titleWords) > 10 {
			titleWords = titleWords[:10]
		}
		result.Title = strings.Join(titleWords, " ")
	}
	if len(result.Summary) == 0 {
		log.Printf("[AI] WARNING: empty summary for transcript of %d utterances", len(utterances))
	}

	return &result, nil
}

// attributedTranscript renders the transcript as "Name: text" lines,
// falling back to the diarization label for unresolved speakers.
func attributedTranscript(utterances []model.Utterance) string {
	var b strings.Builder
	for _, u := range utterances {
		name := u.ResolvedName
		if name == "" {
			name = u.Label
		}
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(u.Text)
		b.WriteString("\n")
	}
	return b.String()
}

func buildSummaryPrompt(transcript string) (string, string) {
	systemPrompt := `You are an assistant that summarizes meeting transcripts.
You must be accurate, neutral and fact-based.
Do NOT invent information; use only what is in the transcript.
Return valid JSON with ALL fields present, using empty arrays or objects where there is no data.`

	userPrompt := fmt.Sprintf(`Transcript (speaker-attributed):
"""
%s
"""

Tasks:
1. Write a short title for the meeting.
2. Summarize the meeting in at most 5 bullet points.
3. Extract clear action items, each naming the responsible speaker when the transcript makes that clear.
4. For each named speaker, one sentence on their main contribution.

Return JSON exactly in this format:
{
  "title": "...",
  "summary": ["..."],
  "action_items": ["..."],
  "speaker_highlights": {"Speaker Name": "..."}
}`, transcript)

	return systemPrompt, userPrompt
}

// extractJSONFromMarkdown extracts JSON from markdown code blocks
func extractJSONFromMarkdown(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimSuffix(content, "```")
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
	}
	return strings.TrimSpace(content)
}
