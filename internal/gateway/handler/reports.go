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
	"aivis/internal/gateway/repository/report"
)

// ReportsHandler persists report rows. Payload blobs go to the object store
// when one is configured; otherwise the row carries the data inline.
type ReportsHandler struct {
	store   report.Store
	objects report.ObjectStore
}

func NewReportsHandler(store report.Store, objects report.ObjectStore) *ReportsHandler {
	return &ReportsHandler{store: store, objects: objects}
}

type createReportRequest struct {
	ReportType string          `json:"reportType"`
	ReportName string          `json:"reportName"`
	Data       json.RawMessage `json:"data"`
}

func (h *ReportsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req createReportRequest
	if err := decodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}
	if strings.TrimSpace(req.ReportType) == "" {
		httpx.WriteError(w, apperr.New(apperr.Validation, "reportType is required"))
		return
	}
	if len(req.Data) == 0 {
		httpx.WriteError(w, apperr.New(apperr.Validation, "data is required"))
		return
	}

	rep := report.Report{
		ID:         fmt.Sprintf("report-%d", time.Now().UnixNano()),
		UserID:     middleware.UserFrom(r.Context()),
		ReportType: req.ReportType,
		ReportName: req.ReportName,
		CreatedAt:  time.Now().UTC(),
	}
	if h.objects != nil {
		path := fmt.Sprintf("reports/%s.json", rep.ID)
		if err := h.objects.Put(r.Context(), path, req.Data); err != nil {
			httpx.WriteError(w, apperr.Wrap(apperr.Internal, "failed to store report payload", err))
			return
		}
		rep.StoragePath = path
	} else {
		rep.Data = req.Data
	}
	if err := h.store.Create(r.Context(), rep); err != nil {
		httpx.WriteError(w, apperr.Wrap(apperr.Internal, "failed to save report", err))
		return
	}
	httpx.WriteSuccess(w, rep)
}

func (h *ReportsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	userID := middleware.UserFrom(r.Context())
	reports, err := h.store.ListByUser(r.Context(), userID, 50)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteSuccess(w, map[string]any{"reports": reports})
}

// HandleGet answers GET /v1/reports/{id}, inlining the blob from the object
// store when the row only carries a storage path.
func (h *ReportsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		httpx.WriteError(w, apperr.New(apperr.Validation, "report id is required"))
		return
	}
	rep, ok, err := h.store.Get(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	if !ok {
		httpx.WriteError(w, apperr.New(apperr.Validation, "report not found"))
		return
	}
	if len(rep.Data) == 0 && rep.StoragePath != "" && h.objects != nil {
		if data, err := h.objects.Get(r.Context(), rep.StoragePath); err == nil {
			rep.Data = data
		}
	}
	httpx.WriteSuccess(w, rep)
}
