package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"aivis/internal/apperr"
	"aivis/internal/gateway/httpx"
	"aivis/internal/runlog"
	"aivis/internal/webhook"
)

// WebhookHandler receives billing-provider events. The payload is verified
// against the shared secret before anything is recorded; this endpoint is the
// only one outside bearer auth.
type WebhookHandler struct {
	secret string
	runs   *runlog.Logger
}

func NewWebhookHandler(secret string, runs *runlog.Logger) *WebhookHandler {
	return &WebhookHandler{secret: secret, runs: runs}
}

type billingEvent struct {
	Meta struct {
		EventName  string `json:"event_name"`
		CustomData struct {
			Plan   string `json:"plan"`
			UserID string `json:"user_id"`
		} `json:"custom_data"`
	} `json:"meta"`
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

func (h *WebhookHandler) HandleBilling(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	if strings.TrimSpace(h.secret) == "" {
		httpx.WriteError(w, apperr.New(apperr.Config, "webhook secret is not configured"))
		return
	}
	payload, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		httpx.WriteError(w, apperr.Wrap(apperr.Validation, "failed to read payload", err))
		return
	}
	if !webhook.Verify(h.secret, payload, r.Header.Get("x-signature")) {
		httpx.WriteError(w, apperr.New(apperr.Auth, "invalid webhook signature"))
		return
	}
	var event billingEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		httpx.WriteError(w, apperr.Wrap(apperr.Validation, "invalid json body", err))
		return
	}
	if event.Meta.EventName == "" {
		httpx.WriteError(w, apperr.New(apperr.Validation, "event_name is required"))
		return
	}

	// Billing events are recorded as completed runs so downstream reporting
	// sees them alongside tool invocations.
	summary := map[string]string{
		"event":          event.Meta.EventName,
		"subscriptionId": event.Data.ID,
		"plan":           event.Meta.CustomData.Plan,
	}
	runID := h.runs.Start(r.Context(), event.Meta.CustomData.UserID, "billing-webhook", json.RawMessage(payload))
	h.runs.Finish(r.Context(), runID, summary)
	httpx.WriteSuccess(w, map[string]string{"received": event.Meta.EventName})
}
