package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"speakermap/internal/model"
	"speakermap/internal/storage"
)

func newRun(recordingID string, createdAt time.Time) *model.MatchRun {
	return &model.MatchRun{
		ID:          uuid.New(),
		RecordingID: recordingID,
		Utterances: []model.Utterance{
			{Label: "Speaker A", Text: "hello", StartMs: 0},
		},
		Mapping: model.SpeakerMapping{
			"Speaker A": {
				Label:        "Speaker A",
				ResolvedName: "Jenn Kenning",
				Confidence:   model.ConfidenceMedium,
				Method:       model.MethodSpeechTimeline,
			},
		},
		Warnings:  []string{"contact lookup failed: timeout"},
		CreatedAt: createdAt,
	}
}

func TestRunStoreCreateAndGet(t *testing.T) {
	store := storage.NewRunStore()
	ctx := context.Background()
	run := newRun("rec-1", time.Now())

	if err := store.Create(ctx, run); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := store.Create(ctx, run); err == nil {
		t.Fatal("duplicate Create did not fail")
	}

	got, err := store.GetByID(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.RecordingID != "rec-1" || len(got.Utterances) != 1 || len(got.Warnings) != 1 {
		t.Fatalf("round trip lost data: %+v", got)
	}

	// Mutating the returned copy must not affect the stored run.
	got.Mapping["Speaker A"] = model.MatchResult{Label: "Speaker A", ResolvedName: "Mutated"}
	again, err := store.GetByID(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if again.Mapping["Speaker A"].ResolvedName != "Jenn Kenning" {
		t.Fatalf("stored run mutated through a copy: %+v", again.Mapping["Speaker A"])
	}

	if _, err := store.GetByID(ctx, uuid.New()); err == nil {
		t.Fatal("GetByID for unknown id did not fail")
	}
}

func TestRunStoreListRecent(t *testing.T) {
	store := storage.NewRunStore()
	ctx := context.Background()
	base := time.Now()

	for i := 0; i < 3; i++ {
		run := newRun("rec", base.Add(time.Duration(i)*time.Minute))
		if err := store.Create(ctx, run); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	runs, err := store.ListRecent(ctx, 2)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	if !runs[0].CreatedAt.After(runs[1].CreatedAt) {
		t.Fatalf("runs not newest-first: %v then %v", runs[0].CreatedAt, runs[1].CreatedAt)
	}
}

func TestRunStoreUpdateLabel(t *testing.T) {
	store := storage.NewRunStore()
	ctx := context.Background()
	run := newRun("rec-1", time.Now())
	if err := store.Create(ctx, run); err != nil {
		t.Fatalf("Create: %v", err)
	}

	correction := model.MatchResult{
		ResolvedName:  "Jon Jones",
		ResolvedEmail: "jon@acme.com",
		Confidence:    model.ConfidenceHigh,
		Method:        model.MethodManual,
	}
	if err := store.UpdateLabel(ctx, run.ID, "Speaker A", correction); err != nil {
		t.Fatalf("UpdateLabel: %v", err)
	}

	got, err := store.GetByID(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	res := got.Mapping["Speaker A"]
	if res.ResolvedName != "Jon Jones" || res.Method != model.MethodManual {
		t.Fatalf("correction not applied: %+v", res)
	}
	if res.Label != "Speaker A" {
		t.Fatalf("label not preserved: %+v", res)
	}

	if err := store.UpdateLabel(ctx, run.ID, "Speaker Z", correction); err == nil {
		t.Fatal("UpdateLabel for unknown label did not fail")
	}
	if err := store.UpdateLabel(ctx, uuid.New(), "Speaker A", correction); err == nil {
		t.Fatal("UpdateLabel for unknown run did not fail")
	}
}
