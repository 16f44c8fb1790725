package report

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
CREATE TABLE IF NOT EXISTS reports (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL DEFAULT '',
  report_type TEXT NOT NULL,
  report_name TEXT NOT NULL DEFAULT '',
  report_data JSONB,
  storage_path TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_reports_user_id ON reports (user_id);
`)
	})
	return s.schemaErr
}

func (s *PostgresStore) Create(ctx context.Context, r Report) error {
	if err := s.ensureSchema(ctx); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("report id is required")
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	var data any
	if len(r.Data) > 0 {
		data = []byte(r.Data)
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO reports (id, user_id, report_type, report_name, report_data, storage_path, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		r.ID, r.UserID, r.ReportType, r.ReportName, data, r.StoragePath, r.CreatedAt)
	return err
}

func (s *PostgresStore) Get(ctx context.Context, id string) (Report, bool, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return Report{}, false, err
	}
	row := s.db.QueryRowContext(ctx, `
SELECT id, user_id, report_type, report_name, report_data, storage_path, created_at
FROM reports WHERE id = $1`, strings.TrimSpace(id))
	r, err := scanReport(row)
	if err == sql.ErrNoRows {
		return Report{}, false, nil
	}
	if err != nil {
		return Report{}, false, err
	}
	return r, true, nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID string, limit int) ([]Report, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, user_id, report_type, report_name, report_data, storage_path, created_at
FROM reports WHERE user_id = $1
ORDER BY created_at DESC LIMIT $2`, strings.TrimSpace(userID), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]Report, 0, limit)
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (Report, error) {
	var (
		r    Report
		data sql.Null[[]byte]
	)
	err := row.Scan(&r.ID, &r.UserID, &r.ReportType, &r.ReportName, &data, &r.StoragePath, &r.CreatedAt)
	if err != nil {
		return Report{}, err
	}
	if data.Valid {
		r.Data = json.RawMessage(data.V)
	}
	return r, nil
}
