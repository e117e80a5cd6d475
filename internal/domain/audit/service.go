package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/matiasleandrokruk/puente/pkg/uuid"
)

var ErrRunNotFound = errors.New("run audit record not found")

// Service provides append-only audit persistence.
type Service struct {
	db *sql.DB
}

// NewService creates an audit Service backed by the given DB.
func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// LogInvocation records one tool invocation attempt. The record ID is
// assigned here if unset.
func (s *Service) LogInvocation(ctx context.Context, rec *InvocationRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewV7().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	args, err := json.Marshal(rec.Arguments)
	if err != nil {
		args = []byte("{}")
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO invocation_audit (
			id, run_id, tool_name, arguments, outcome,
			error_kind, message, duration_ms, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		rec.ID,
		rec.RunID,
		rec.ToolName,
		string(args),
		string(rec.Outcome),
		nullableString(rec.ErrorKind),
		nullableString(rec.Message),
		rec.Duration.Milliseconds(),
		rec.CreatedAt.Format(time.RFC3339Nano),
	)
	return err
}

// LogRun records the terminal outcome of one run.
func (s *Service) LogRun(ctx context.Context, rec *RunRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO run_audit (id, question, status, iterations, tool_calls, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		rec.ID,
		rec.Question,
		rec.Status,
		rec.Iterations,
		rec.ToolCalls,
		rec.CreatedAt.Format(time.RFC3339Nano),
	)
	return err
}

// GetRun fetches one run outcome by id.
func (s *Service) GetRun(ctx context.Context, id string) (*RunRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, question, status, iterations, tool_calls, created_at
		FROM run_audit WHERE id = ?
	`, id)

	rec, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	return rec, err
}

// ListRuns returns run outcomes, newest first.
func (s *Service) ListRuns(ctx context.Context, limit int) ([]*RunRecord, error) {
	if limit < 1 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, question, status, iterations, tool_calls, created_at
		FROM run_audit ORDER BY created_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*RunRecord, 0)
	for rows.Next() {
		rec, scanErr := scanRun(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ListInvocations returns the invocation trail of one run in call order.
func (s *Service) ListInvocations(ctx context.Context, runID string) ([]*InvocationRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_id, tool_name, arguments, outcome, error_kind, message, duration_ms, created_at
		FROM invocation_audit WHERE run_id = ? ORDER BY created_at ASC
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*InvocationRecord, 0)
	for rows.Next() {
		var (
			rec        InvocationRecord
			argsRaw    string
			errorKind  sql.NullString
			message    sql.NullString
			durationMs int64
			createdAt  string
		)
		if scanErr := rows.Scan(
			&rec.ID, &rec.RunID, &rec.ToolName, &argsRaw, (*string)(&rec.Outcome),
			&errorKind, &message, &durationMs, &createdAt,
		); scanErr != nil {
			return nil, scanErr
		}
		_ = json.Unmarshal([]byte(argsRaw), &rec.Arguments)
		rec.ErrorKind = errorKind.String
		rec.Message = message.String
		rec.Duration = time.Duration(durationMs) * time.Millisecond
		rec.CreatedAt = parseTime(createdAt)
		out = append(out, &rec)
	}
	return out, rows.Err()
}

type runScanner interface {
	Scan(dest ...any) error
}

func scanRun(scan runScanner) (*RunRecord, error) {
	var (
		rec       RunRecord
		createdAt string
	)
	if err := scan.Scan(&rec.ID, &rec.Question, &rec.Status, &rec.Iterations, &rec.ToolCalls, &createdAt); err != nil {
		return nil, err
	}
	rec.CreatedAt = parseTime(createdAt)
	return &rec, nil
}

func parseTime(v string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullableString(v string) any {
	if v == "" {
		return nil
	}
	return v
}
