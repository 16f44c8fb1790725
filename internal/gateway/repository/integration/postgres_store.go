package integration

import (
	"context"
	"database/sql"
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
CREATE TABLE IF NOT EXISTS cms_integrations (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL DEFAULT '',
  cms_type TEXT NOT NULL,
  site_url TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL DEFAULT 'connected',
  credentials TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_cms_integrations_user_id ON cms_integrations (user_id);
`)
	})
	return s.schemaErr
}

func (s *PostgresStore) Upsert(ctx context.Context, in Integration) error {
	if err := s.ensureSchema(ctx); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	if strings.TrimSpace(in.ID) == "" {
		return fmt.Errorf("integration id is required")
	}
	if in.CreatedAt.IsZero() {
		in.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO cms_integrations (id, user_id, cms_type, site_url, status, credentials, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (id)
DO UPDATE SET cms_type=EXCLUDED.cms_type,
  site_url=EXCLUDED.site_url,
  status=EXCLUDED.status,
  credentials=EXCLUDED.credentials`,
		in.ID, in.UserID, in.CMSType, in.SiteURL, in.Status, in.Sealed, in.CreatedAt)
	return err
}

func (s *PostgresStore) Get(ctx context.Context, id string) (Integration, bool, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return Integration{}, false, err
	}
	row := s.db.QueryRowContext(ctx, `
SELECT id, user_id, cms_type, site_url, status, credentials, created_at
FROM cms_integrations WHERE id = $1`, strings.TrimSpace(id))
	var in Integration
	err := row.Scan(&in.ID, &in.UserID, &in.CMSType, &in.SiteURL, &in.Status, &in.Sealed, &in.CreatedAt)
	if err == sql.ErrNoRows {
		return Integration{}, false, nil
	}
	if err != nil {
		return Integration{}, false, err
	}
	return in, true, nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID string) ([]Integration, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, user_id, cms_type, site_url, status, credentials, created_at
FROM cms_integrations WHERE user_id = $1
ORDER BY created_at DESC`, strings.TrimSpace(userID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Integration
	for rows.Next() {
		var in Integration
		if err := rows.Scan(&in.ID, &in.UserID, &in.CMSType, &in.SiteURL, &in.Status, &in.Sealed, &in.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, rows.Err()
}
