package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"speakermap/internal/model"
)

// RunStore is the in-memory match-run store used when no database is
// configured. It implements repository.MatchRepository.
type RunStore struct {
	mu   sync.Mutex
	runs map[uuid.UUID]*model.MatchRun
}

// NewRunStore creates an empty in-memory store.
func NewRunStore() *RunStore {
	return &RunStore{runs: make(map[uuid.UUID]*model.MatchRun)}
}

// Create stores a new match run
func (s *RunStore) Create(_ context.Context, run *model.MatchRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.runs[run.ID]; ok {
		return fmt.Errorf("match run %s already exists", run.ID)
	}
	s.runs[run.ID] = copyRun(run)
	return nil
}

// GetByID retrieves a match run by ID
func (s *RunStore) GetByID(_ context.Context, id uuid.UUID) (*model.MatchRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.runs[id]
	if !ok {
		return nil, fmt.Errorf("match run not found")
	}
	return copyRun(run), nil
}

// ListRecent retrieves the most recent match runs
func (s *RunStore) ListRecent(_ context.Context, limit int) ([]model.MatchRun, error) {
	if limit < 1 {
		limit = 20
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	runs := make([]model.MatchRun, 0, len(s.runs))
	for _, run := range s.runs {
		runs = append(runs, *copyRun(run))
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].CreatedAt.After(runs[j].CreatedAt)
	})
	if len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

// UpdateLabel overwrites one label's result in a stored mapping
func (s *RunStore) UpdateLabel(_ context.Context, id uuid.UUID, label string, res model.MatchResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.runs[id]
	if !ok {
		return fmt.Errorf("match run not found")
	}
	if _, ok := run.Mapping[label]; !ok {
		return fmt.Errorf("label %q not present in match run %s", label, id)
	}
	res.Label = label
	run.Mapping[label] = res
	return nil
}

// copyRun deep-copies the mutable parts so callers cannot race on the
// stored state.
func copyRun(run *model.MatchRun) *model.MatchRun {
	out := *run
	out.Utterances = append([]model.Utterance(nil), run.Utterances...)
	out.Mapping = make(model.SpeakerMapping, len(run.Mapping))
	for label, res := range run.Mapping {
		out.Mapping[label] = res
	}
	out.Warnings = append([]string(nil), run.Warnings...)
	return &out
}
