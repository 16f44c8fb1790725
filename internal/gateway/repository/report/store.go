// Package report persists generated report rows and their payload blobs.
package report

import (
	"context"
	"encoding/json"
	"time"
)

// Report is one row in reports. Data holds the report payload inline when no
// object store is configured; StoragePath points at the blob otherwise.
type Report struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	ReportType  string          `json:"reportType"`
	ReportName  string          `json:"reportName"`
	Data        json.RawMessage `json:"data,omitempty"`
	StoragePath string          `json:"storagePath,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Store is the reports persistence contract.
type Store interface {
	Create(ctx context.Context, r Report) error
	Get(ctx context.Context, id string) (Report, bool, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]Report, error)
}

// ObjectStore holds report payload blobs.
type ObjectStore interface {
	Put(ctx context.Context, path string, content []byte) error
	Get(ctx context.Context, path string) ([]byte, error)
}
