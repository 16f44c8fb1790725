package handler

import (
	"net/http"
	"strings"

	"aivis/internal/apperr"
	"aivis/internal/audit"
	"aivis/internal/fetch"
	"aivis/internal/gateway/httpx"
	llmmw "aivis/internal/llm/middleware"
	"aivis/internal/runlog"
)

// AuditHandler serves the two audit variants.
type AuditHandler struct {
	pipeline *audit.Pipeline
	pages    fetch.PageFetcher
	runs     *runlog.Logger
}

func NewAuditHandler(pipeline *audit.Pipeline, pages fetch.PageFetcher, runs *runlog.Logger) *AuditHandler {
	return &AuditHandler{pipeline: pipeline, pages: pages, runs: runs}
}

type auditRequest struct {
	ProjectID string `json:"projectId"`
	URL       string `json:"url"`
	Content   string `json:"content,omitempty"`
}

// HandleQuickAudit runs the single-call audit. It degrades to a synthetic
// result on any model failure, so the response is always a 200.
func (h *AuditHandler) HandleQuickAudit(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req auditRequest
	if err := decodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		httpx.WriteError(w, apperr.New(apperr.Validation, "url is required"))
		return
	}
	ctx := llmmw.WithTool(r.Context(), "quick-audit")
	runID := h.runs.Start(ctx, projectRef(r, req.ProjectID), "quick-audit", req)

	content := req.Content
	if strings.TrimSpace(content) == "" {
		content = h.pages.Fetch(ctx, req.URL)
	}
	result := h.pipeline.QuickAudit(ctx, req.URL, content)
	h.runs.Finish(ctx, runID, result)
	httpx.WriteSuccess(w, result)
}

// HandleVisibilityAudit runs the three-step audit. Any step failure fails the
// whole request with no partial results.
func (h *AuditHandler) HandleVisibilityAudit(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req auditRequest
	if err := decodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		httpx.WriteError(w, apperr.New(apperr.Validation, "url is required"))
		return
	}
	ctx := llmmw.WithTool(r.Context(), "visibility-audit")
	runID := h.runs.Start(ctx, projectRef(r, req.ProjectID), "visibility-audit", req)

	content := req.Content
	if strings.TrimSpace(content) == "" {
		content = h.pages.Fetch(ctx, req.URL)
	}
	result, err := h.pipeline.VisibilityAudit(ctx, req.URL, content)
	if err != nil {
		h.runs.Fail(ctx, runID, apperr.As(err).Message)
		httpx.WriteError(w, err)
		return
	}
	h.runs.Finish(ctx, runID, result)
	httpx.WriteSuccess(w, result)
}
