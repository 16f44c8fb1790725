package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"aivis/internal/apperr"
	"aivis/internal/gateway/httpx"
	"aivis/internal/gateway/middleware"
	"aivis/internal/gateway/repository/integration"
	"aivis/internal/secret"
)

// IntegrationsHandler manages CMS platform connections. Credentials are
// sealed before they reach the store and never leave it unsealed.
type IntegrationsHandler struct {
	store integration.Store
	box   *secret.Box
}

func NewIntegrationsHandler(store integration.Store, box *secret.Box) *IntegrationsHandler {
	return &IntegrationsHandler{store: store, box: box}
}

type connectRequest struct {
	CMSType     string            `json:"cmsType"`
	SiteURL     string            `json:"siteUrl"`
	Credentials map[string]string `json:"credentials"`
}

func (h *IntegrationsHandler) HandleConnect(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req connectRequest
	if err := decodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}
	if strings.TrimSpace(req.CMSType) == "" {
		httpx.WriteError(w, apperr.New(apperr.Validation, "cmsType is required"))
		return
	}
	if len(req.Credentials) == 0 {
		httpx.WriteError(w, apperr.New(apperr.Validation, "credentials are required"))
		return
	}
	if h.box == nil {
		httpx.WriteError(w, apperr.New(apperr.Config, "credential sealing key is not configured"))
		return
	}
	plaintext, _ := json.Marshal(req.Credentials)
	sealed, err := h.box.Seal(plaintext)
	if err != nil {
		httpx.WriteError(w, apperr.Wrap(apperr.Internal, "failed to seal credentials", err))
		return
	}
	userID := middleware.UserFrom(r.Context())
	in := integration.Integration{
		ID:        fmt.Sprintf("%s-%s", req.CMSType, userID),
		UserID:    userID,
		CMSType:   req.CMSType,
		SiteURL:   req.SiteURL,
		Status:    "connected",
		Sealed:    sealed,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.store.Upsert(r.Context(), in); err != nil {
		httpx.WriteError(w, apperr.Wrap(apperr.Internal, "failed to save integration", err))
		return
	}
	httpx.WriteSuccess(w, in)
}

func (h *IntegrationsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	userID := middleware.UserFrom(r.Context())
	integrations, err := h.store.ListByUser(r.Context(), userID)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteSuccess(w, map[string]any{"integrations": integrations})
}
