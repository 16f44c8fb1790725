package toolrun

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresStore persists tool runs via database/sql over pgx.
type PostgresStore struct {
	db *sql.DB

	schemaOnce sync.Once
	schemaErr  error
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS tool_runs (
  id TEXT PRIMARY KEY,
  project_id TEXT NOT NULL DEFAULT '',
  tool_name TEXT NOT NULL,
  input_payload JSONB,
  output_payload JSONB,
  status TEXT NOT NULL DEFAULT 'running',
  error_message TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
  completed_at TIMESTAMP WITH TIME ZONE
);
CREATE INDEX IF NOT EXISTS idx_tool_runs_project_id ON tool_runs (project_id);
`)
	})
	return s.schemaErr
}

func (s *PostgresStore) Create(ctx context.Context, run ToolRun) error {
	if err := s.ensureSchema(ctx); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	if strings.TrimSpace(run.ID) == "" {
		return fmt.Errorf("run id is required")
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	if run.Status == "" {
		run.Status = StatusRunning
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO tool_runs (id, project_id, tool_name, input_payload, status, created_at)
VALUES ($1,$2,$3,$4,$5,$6)`,
		run.ID, run.ProjectID, run.ToolName, nullableJSON(run.Input), run.Status, run.CreatedAt)
	return err
}

func (s *PostgresStore) Finish(ctx context.Context, id, status string, output json.RawMessage, errMsg string) error {
	if err := s.ensureSchema(ctx); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `
UPDATE tool_runs
SET status=$2, output_payload=$3, error_message=$4, completed_at=NOW()
WHERE id=$1`,
		id, status, nullableJSON(output), errMsg)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("run %s not found", id)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (ToolRun, bool, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return ToolRun{}, false, err
	}
	row := s.db.QueryRowContext(ctx, `
SELECT id, project_id, tool_name, input_payload, output_payload, status, error_message, created_at, completed_at
FROM tool_runs WHERE id = $1`, strings.TrimSpace(id))
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return ToolRun{}, false, nil
	}
	if err != nil {
		return ToolRun{}, false, err
	}
	return run, true, nil
}

func (s *PostgresStore) ListByProject(ctx context.Context, projectID string, limit int) ([]ToolRun, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, project_id, tool_name, input_payload, output_payload, status, error_message, created_at, completed_at
FROM tool_runs WHERE project_id = $1
ORDER BY created_at DESC LIMIT $2`, strings.TrimSpace(projectID), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]ToolRun, 0, limit)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (ToolRun, error) {
	var (
		run       ToolRun
		input     sql.Null[[]byte]
		output    sql.Null[[]byte]
		completed sql.NullTime
	)
	err := row.Scan(&run.ID, &run.ProjectID, &run.ToolName, &input, &output,
		&run.Status, &run.ErrorMessage, &run.CreatedAt, &completed)
	if err != nil {
		return ToolRun{}, err
	}
	if input.Valid {
		run.Input = json.RawMessage(input.V)
	}
	if output.Valid {
		run.Output = json.RawMessage(output.V)
	}
	if completed.Valid {
		t := completed.Time
		run.CompletedAt = &t
	}
	return run, nil
}

func nullableJSON(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}
