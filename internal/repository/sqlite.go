package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"speakermap/internal/model"
)

type sqliteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository opens (or creates) the match-run database at dbPath.
func NewSQLiteRepository(dbPath string) (MatchRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS match_runs (
		id TEXT PRIMARY KEY,
		recording_id TEXT,
		utterances TEXT NOT NULL,
		mapping TEXT NOT NULL,
		warnings TEXT,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_match_runs_created_at ON match_runs(created_at);
	CREATE INDEX IF NOT EXISTS idx_match_runs_recording_id ON match_runs(recording_id);
	`
	if _, err := db.Exec(createTableSQL); err != nil {
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &sqliteRepository{db: db}, nil
}

// Create stores a new match run
func (r *sqliteRepository) Create(ctx context.Context, run *model.MatchRun) error {
	utterancesJSON, err := json.Marshal(run.Utterances)
	if err != nil {
		return fmt.Errorf("failed to marshal utterances: %w", err)
	}
	mappingJSON, err := json.Marshal(run.Mapping)
	if err != nil {
		return fmt.Errorf("failed to marshal mapping: %w", err)
	}
	warningsJSON, err := json.Marshal(run.Warnings)
	if err != nil {
		return fmt.Errorf("failed to marshal warnings: %w", err)
	}

	query := `
	INSERT INTO match_runs (id, recording_id, utterances, mapping, warnings, created_at)
	VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		run.ID.String(),
		run.RecordingID,
		string(utterancesJSON),
		string(mappingJSON),
		string(warningsJSON),
		run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create match run: %w", err)
	}
	return nil
}

// GetByID retrieves a match run by ID
func (r *sqliteRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.MatchRun, error) {
	query := `
	SELECT id, recording_id, utterances, mapping, warnings, created_at
	FROM match_runs WHERE id = ?
	`
	return r.scanRun(r.db.QueryRowContext(ctx, query, id.String()))
}

// ListRecent retrieves the most recent match runs
func (r *sqliteRepository) ListRecent(ctx context.Context, limit int) ([]model.MatchRun, error) {
	if limit < 1 {
		limit = 20
	}
	query := `
	SELECT id, recording_id, utterances, mapping, warnings, created_at
	FROM match_runs
	ORDER BY created_at DESC
	LIMIT ?
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query match runs: %w", err)
	}
	defer rows.Close()

	var runs []model.MatchRun
	for rows.Next() {
		run, err := r.scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return runs, nil
}

// UpdateLabel overwrites one label's result in a stored mapping. The mapping
// is stored as a JSON document, so this reads, modifies and writes it back.
func (r *sqliteRepository) UpdateLabel(ctx context.Context, id uuid.UUID, label string, res model.MatchResult) error {
	run, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if _, ok := run.Mapping[label]; !ok {
		return fmt.Errorf("label %q not present in match run %s", label, id)
	}
	res.Label = label
	run.Mapping[label] = res

	mappingJSON, err := json.Marshal(run.Mapping)
	if err != nil {
		return fmt.Errorf("failed to marshal mapping: %w", err)
	}
	query := `UPDATE match_runs SET mapping = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query, string(mappingJSON), id.String())
	if err != nil {
		return fmt.Errorf("failed to update match run: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("match run not found")
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *sqliteRepository) scanRun(row rowScanner) (*model.MatchRun, error) {
	var (
		idStr          string
		recordingID    sql.NullString
		utterancesJSON string
		mappingJSON    string
		warningsJSON   sql.NullString
		createdAt      time.Time
	)
	err := row.Scan(&idStr, &recordingID, &utterancesJSON, &mappingJSON, &warningsJSON, &createdAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("match run not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match run: %w", err)
	}

	run := model.MatchRun{CreatedAt: createdAt, RecordingID: recordingID.String}
	run.ID, err = uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid match run id: %w", err)
	}
	if err := json.Unmarshal([]byte(utterancesJSON), &run.Utterances); err != nil {
		return nil, fmt.Errorf("failed to unmarshal utterances: %w", err)
	}
	if err := json.Unmarshal([]byte(mappingJSON), &run.Mapping); err != nil {
		return nil, fmt.Errorf("failed to unmarshal mapping: %w", err)
	}
	if warningsJSON.Valid && warningsJSON.String != "" {
		if err := json.Unmarshal([]byte(warningsJSON.String), &run.Warnings); err != nil {
			return nil, fmt.Errorf("failed to unmarshal warnings: %w", err)
		}
	}
	return &run, nil
}
