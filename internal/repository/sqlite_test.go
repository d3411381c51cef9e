package repository_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"speakermap/internal/model"
	"speakermap/internal/repository"
)

func newTestRepository(t *testing.T) repository.MatchRepository {
	t.Helper()
	repo, err := repository.NewSQLiteRepository(filepath.Join(t.TempDir(), "speakermap.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	return repo
}

func testRun(recordingID string, createdAt time.Time) *model.MatchRun {
	return &model.MatchRun{
		ID:          uuid.New(),
		RecordingID: recordingID,
		Utterances: []model.Utterance{
			{Label: "Speaker A", Text: "hello there", StartMs: 0},
			{Label: "Speaker B", Text: "hi", StartMs: 2000},
		},
		Mapping: model.SpeakerMapping{
			"Speaker A": {
				Label:         "Speaker A",
				ResolvedName:  "Jenn Kenning",
				ResolvedEmail: "jenn@acme.com",
				Confidence:    model.ConfidenceHigh,
				Method:        model.MethodSpeechTimeline,
				MatchCount:    5,
			},
			"Speaker B": {
				Label:             "Speaker B",
				ResolvedName:      "Jon Jones",
				Confidence:        model.ConfidenceLow,
				Method:            model.MethodSequential,
				NeedsVerification: true,
			},
		},
		Warnings:  []string{"contact lookup failed: timeout"},
		CreatedAt: createdAt,
	}
}

func TestSQLiteCreateAndGet(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	run := testRun("rec-1", time.Now().UTC())

	if err := repo.Create(ctx, run); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByID(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.ID != run.ID || got.RecordingID != "rec-1" {
		t.Fatalf("identity fields lost: %+v", got)
	}
	if len(got.Utterances) != 2 || got.Utterances[0].Text != "hello there" {
		t.Fatalf("utterances lost: %+v", got.Utterances)
	}
	a := got.Mapping["Speaker A"]
	if a.ResolvedEmail != "jenn@acme.com" || a.MatchCount != 5 || a.Method != model.MethodSpeechTimeline {
		t.Fatalf("mapping lost detail: %+v", a)
	}
	if !got.Mapping["Speaker B"].NeedsVerification {
		t.Fatalf("verification flag lost: %+v", got.Mapping["Speaker B"])
	}
	if len(got.Warnings) != 1 {
		t.Fatalf("warnings lost: %v", got.Warnings)
	}
	if got.CreatedAt.Unix() != run.CreatedAt.Unix() {
		t.Fatalf("created_at = %v, want %v", got.CreatedAt, run.CreatedAt)
	}

	if _, err := repo.GetByID(ctx, uuid.New()); err == nil {
		t.Fatal("GetByID for unknown id did not fail")
	}
}

func TestSQLiteListRecent(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	base := time.Now().UTC().Add(-time.Hour)

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		run := testRun("rec", base.Add(time.Duration(i)*time.Minute))
		if err := repo.Create(ctx, run); err != nil {
			t.Fatalf("Create: %v", err)
		}
		ids = append(ids, run.ID)
	}

	runs, err := repo.ListRecent(ctx, 2)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	if runs[0].ID != ids[2] || runs[1].ID != ids[1] {
		t.Fatalf("runs not newest-first: %v", []uuid.UUID{runs[0].ID, runs[1].ID})
	}
}

func TestSQLiteUpdateLabel(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	run := testRun("rec-1", time.Now().UTC())
	if err := repo.Create(ctx, run); err != nil {
		t.Fatalf("Create: %v", err)
	}

	correction := model.MatchResult{
		ResolvedName:  "Someone Else",
		ResolvedEmail: "someone@acme.com",
		Confidence:    model.ConfidenceHigh,
		Method:        model.MethodManual,
	}
	if err := repo.UpdateLabel(ctx, run.ID, "Speaker B", correction); err != nil {
		t.Fatalf("UpdateLabel: %v", err)
	}

	got, err := repo.GetByID(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	b := got.Mapping["Speaker B"]
	if b.ResolvedName != "Someone Else" || b.Method != model.MethodManual || b.Label != "Speaker B" {
		t.Fatalf("correction not persisted: %+v", b)
	}
	// The other label is untouched.
	if got.Mapping["Speaker A"].ResolvedName != "Jenn Kenning" {
		t.Fatalf("unrelated label changed: %+v", got.Mapping["Speaker A"])
	}

	if err := repo.UpdateLabel(ctx, run.ID, "Speaker Z", correction); err == nil {
		t.Fatal("UpdateLabel for unknown label did not fail")
	}
	if err := repo.UpdateLabel(ctx, uuid.New(), "Speaker B", correction); err == nil {
		t.Fatal("UpdateLabel for unknown run did not fail")
	}
}
