// Package runs records pipeline invocations in SQLite: one row per run with
// its kind, input label, status, and result counts, plus a small config
// key/value table.
package runs

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Run statuses.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Run kinds, one per pipeline operation.
const (
	KindNormalize = "normalize"
	KindEnrich    = "enrich"
	KindDraft     = "draft"
	KindSceneMap  = "scene_map"
	KindValidate  = "validate"
)

// Run is one recorded pipeline invocation.
type Run struct {
	ID             string    `json:"id"`
	Kind           string    `json:"kind"`
	Source         string    `json:"source,omitempty"`
	Status         string    `json:"status"`
	SegmentCount   int       `json:"segmentCount"`
	HighlightCount int       `json:"highlightCount"`
	WarningCount   int       `json:"warningCount"`
	Error          string    `json:"error,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// NewRun builds a running Run with a fresh id. The caller supplies the clock
// so logic layers stay deterministic.
func NewRun(kind, source string, now time.Time) *Run {
	return &Run{
		ID:        uuid.NewString(),
		Kind:      kind,
		Source:    source,
		Status:    StatusRunning,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

type Repository interface {
	Create(ctx context.Context, run *Run) error
	Get(ctx context.Context, id string) (*Run, error)
	List(ctx context.Context, limit int) ([]*Run, error)
	Complete(ctx context.Context, id string, segments, highlights, warnings int, now time.Time) error
	Fail(ctx context.Context, id, errorMsg string, now time.Time) error

	GetConfig(ctx context.Context, key string) (string, error)
	SetConfig(ctx context.Context, key, value string) error
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, run *Run) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO runs (id, kind, source, status, segment_count, highlight_count, warning_count, error, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Kind, run.Source, run.Status,
		run.SegmentCount, run.HighlightCount, run.WarningCount, run.Error,
		run.CreatedAt.Format(time.RFC3339), run.UpdatedAt.Format(time.RFC3339))
	return err
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (*Run, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, kind, source, status, segment_count, highlight_count, warning_count, error, created_at, updated_at
		FROM runs WHERE id = ?
	`, id)
	return r.scanRun(row)
}

func (r *SQLiteRepository) scanRun(row *sql.Row) (*Run, error) {
	var run Run
	var createdAt, updatedAt string

	err := row.Scan(&run.ID, &run.Kind, &run.Source, &run.Status,
		&run.SegmentCount, &run.HighlightCount, &run.WarningCount, &run.Error,
		&createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	run.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	run.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &run, nil
}

func (r *SQLiteRepository) List(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, kind, source, status, segment_count, highlight_count, warning_count, error, created_at, updated_at
		FROM runs ORDER BY created_at DESC, id LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Run
	for rows.Next() {
		var run Run
		var createdAt, updatedAt string
		if err := rows.Scan(&run.ID, &run.Kind, &run.Source, &run.Status,
			&run.SegmentCount, &run.HighlightCount, &run.WarningCount, &run.Error,
			&createdAt, &updatedAt); err != nil {
			return nil, err
		}
		run.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		run.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		out = append(out, &run)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) Complete(ctx context.Context, id string, segments, highlights, warnings int, now time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE runs SET status = ?, segment_count = ?, highlight_count = ?, warning_count = ?, updated_at = ?
		WHERE id = ?
	`, StatusCompleted, segments, highlights, warnings, now.Format(time.RFC3339), id)
	return err
}

func (r *SQLiteRepository) Fail(ctx context.Context, id, errorMsg string, now time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE runs SET status = ?, error = ?, updated_at = ? WHERE id = ?
	`, StatusFailed, errorMsg, now.Format(time.RFC3339), id)
	return err
}

func (r *SQLiteRepository) GetConfig(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, "SELECT value FROM config WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

func (r *SQLiteRepository) SetConfig(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}
