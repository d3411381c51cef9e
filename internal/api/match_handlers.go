package api

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"speakermap/internal/ai"
	"speakermap/internal/match"
	"speakermap/internal/model"
	"speakermap/internal/utils"
)

// MatchRequest is the body of POST /api/v1/match.
type MatchRequest struct {
	RecordingID  string               `json:"recording_id"`
	Utterances   []model.Utterance    `json:"utterances" binding:"required"`
	Participants []model.Participant  `json:"participants"`
	Timeline     model.SpeechTimeline `json:"speech_timeline"`
	Owner        *match.Owner         `json:"owner"`
	CompanyHint  string               `json:"company_hint"`
}

// runMatch handles POST /api/v1/match
func runMatch(c *gin.Context) {
	var req MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "utterances are required: "+err.Error())
		return
	}
	if matcher == nil {
		utils.Error(c, http.StatusInternalServerError, "matcher not initialized")
		return
	}

	log.Printf("[Match] Running match: %d utterances, %d participants, %d timeline identities",
		len(req.Utterances), len(req.Participants), len(req.Timeline))

	out := matcher.Match(c.Request.Context(), match.Input{
		Utterances:   req.Utterances,
		Participants: req.Participants,
		Timeline:     req.Timeline,
		Owner:        req.Owner,
		CompanyHint:  req.CompanyHint,
	})

	run := &model.MatchRun{
		ID:          uuid.New(),
		RecordingID: req.RecordingID,
		Utterances:  req.Utterances,
		Mapping:     out.Mapping,
		Warnings:    out.Warnings,
		CreatedAt:   time.Now(),
	}
	if matchRepo != nil {
		if err := matchRepo.Create(c.Request.Context(), run); err != nil {
			log.Printf("[Match] Error storing match run: %v", err)
			utils.Error(c, http.StatusInternalServerError, "failed to store match run")
			return
		}
	}

	log.Printf("[Match] Run %s complete: %d labels mapped, %d warnings", run.ID, len(out.Mapping), len(out.Warnings))

	utils.Success(c, gin.H{
		"run_id":   run.ID.String(),
		"mapping":  out.Mapping,
		"warnings": out.Warnings,
	})
}

// listMatchRuns handles GET /api/v1/match
func listMatchRuns(c *gin.Context) {
	limitStr := c.DefaultQuery("limit", "20")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100 // Max limit
	}

	runs, err := matchRepo.ListRecent(c.Request.Context(), limit)
	if err != nil {
		log.Printf("[Match] Error listing match runs: %v", err)
		utils.Error(c, http.StatusInternalServerError, "failed to list match runs")
		return
	}

	items := make([]gin.H, 0, len(runs))
	for _, run := range runs {
		items = append(items, gin.H{
			"run_id":       run.ID.String(),
			"recording_id": run.RecordingID,
			"labels":       len(run.Mapping),
			"created_at":   run.CreatedAt,
		})
	}

	utils.Success(c, gin.H{
		"items": items,
		"count": len(items),
	})
}

// getMatchRun handles GET /api/v1/match/:run_id
func getMatchRun(c *gin.Context) {
	run, ok := lookupRun(c)
	if !ok {
		return
	}
	utils.Success(c, gin.H{
		"run_id":       run.ID.String(),
		"recording_id": run.RecordingID,
		"mapping":      run.Mapping,
		"warnings":     run.Warnings,
		"created_at":   run.CreatedAt,
	})
}

// getAttributedTranscript handles GET /api/v1/match/:run_id/transcript
func getAttributedTranscript(c *gin.Context) {
	run, ok := lookupRun(c)
	if !ok {
		return
	}
	attributed := match.ApplyMapping(run.Utterances, run.Mapping)
	utils.Success(c, gin.H{
		"run_id":     run.ID.String(),
		"utterances": attributed,
	})
}

// CorrectLabelRequest is the body of the manual-correction endpoint.
type CorrectLabelRequest struct {
	ResolvedName  string `json:"resolved_name" binding:"required"`
	ResolvedEmail string `json:"resolved_email"`
}

// correctLabel handles PATCH /api/v1/match/:run_id/labels/:label. A human
// correction outranks every automatic signal.
func correctLabel(c *gin.Context) {
	id, ok := parseRunID(c)
	if !ok {
		return
	}
	label := c.Param("label")
	if label == "" {
		utils.Error(c, http.StatusBadRequest, "label is required")
		return
	}

	var req CorrectLabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "resolved_name is required")
		return
	}

	res := model.MatchResult{
		Label:         label,
		ResolvedName:  req.ResolvedName,
		ResolvedEmail: req.ResolvedEmail,
		Confidence:    model.ConfidenceHigh,
		Method:        model.MethodManual,
	}
	if err := matchRepo.UpdateLabel(c.Request.Context(), id, label, res); err != nil {
		log.Printf("[Match] Error correcting label %q in run %s: %v", label, id, err)
		utils.Error(c, http.StatusNotFound, err.Error())
		return
	}

	log.Printf("[Match] Label %q in run %s corrected to %s", label, id, req.ResolvedName)

	utils.Success(c, gin.H{
		"run_id": id.String(),
		"label":  label,
		"result": res,
	})
}

// summarizeMatchRun handles POST /api/v1/match/:run_id/summary
func summarizeMatchRun(c *gin.Context) {
	run, ok := lookupRun(c)
	if !ok {
		return
	}

	attributed := match.ApplyMapping(run.Utterances, run.Mapping)
	result, err := ai.SummarizeTranscript(c.Request.Context(), attributed)
	if err != nil {
		log.Printf("[Match] Summary error for run %s: %v", run.ID, err)
		utils.Error(c, http.StatusServiceUnavailable, "summary failed: "+err.Error())
		return
	}

	utils.Success(c, gin.H{
		"run_id":             run.ID.String(),
		"title":              result.Title,
		"summary":            result.Summary,
		"action_items":       result.ActionItems,
		"speaker_highlights": result.SpeakerHighlights,
	})
}

func parseRunID(c *gin.Context) (uuid.UUID, bool) {
	idStr := c.Param("run_id")
	if idStr == "" {
		utils.Error(c, http.StatusBadRequest, "run_id is required")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid run_id format")
		return uuid.Nil, false
	}
	return id, true
}

func lookupRun(c *gin.Context) (*model.MatchRun, bool) {
	id, ok := parseRunID(c)
	if !ok {
		return nil, false
	}
	if matchRepo == nil {
		utils.Error(c, http.StatusInternalServerError, "match repository not initialized")
		return nil, false
	}
	run, err := matchRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		log.Printf("[Match] Error getting match run %s: %v", id, err)
		utils.Error(c, http.StatusNotFound, "match run not found")
		return nil, false
	}
	return run, true
}
