// Package integration persists per-tenant CMS platform connections. The
// credentials column always holds a sealed token, never plaintext.
package integration

import (
	"context"
	"time"
)

// Integration is one row in cms_integrations.
type Integration struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	CMSType   string    `json:"cmsType"`
	SiteURL   string    `json:"siteUrl"`
	Status    string    `json:"status"`
	Sealed    string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store is the cms_integrations persistence contract.
type Store interface {
	Upsert(ctx context.Context, in Integration) error
	Get(ctx context.Context, id string) (Integration, bool, error)
	ListByUser(ctx context.Context, userID string) ([]Integration, error)
}
