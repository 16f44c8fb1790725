package handler

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"aivis/internal/apperr"
	"aivis/internal/gateway/httpx"
	"aivis/internal/gateway/repository/toolrun"
)

// RunsHandler serves the read-only run endpoints and the live status stream.
type RunsHandler struct {
	store toolrun.Store
}

func NewRunsHandler(store toolrun.Store) *RunsHandler {
	return &RunsHandler{store: store}
}

// HandleList answers GET /v1/runs?project_id=...
func (h *RunsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	projectID := strings.TrimSpace(r.URL.Query().Get("project_id"))
	if projectID == "" {
		httpx.WriteError(w, apperr.New(apperr.Validation, "project_id is required"))
		return
	}
	runs, err := h.store.ListByProject(r.Context(), projectID, 50)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteSuccess(w, map[string]any{"runs": runs})
}

// HandleGet answers GET /v1/runs/{id}.
func (h *RunsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		httpx.WriteError(w, apperr.New(apperr.Validation, "run id is required"))
		return
	}
	run, ok, err := h.store.Get(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	if !ok {
		httpx.WriteError(w, apperr.New(apperr.Validation, "run not found"))
		return
	}
	httpx.WriteSuccess(w, run)
}

const (
	watchWriteWait = 10 * time.Second
	watchPongWait  = 60 * time.Second
	watchPingEvery = (watchPongWait * 9) / 10
	watchPollEvery = time.Second
)

var watchUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

type watchEvent struct {
	RunID        string `json:"runId"`
	Status       string `json:"status"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

// HandleWatch streams run-status transitions over a websocket until the run
// reaches a terminal status.
func (h *RunsHandler) HandleWatch(w http.ResponseWriter, r *http.Request) {
	runID := strings.TrimSpace(r.URL.Query().Get("run_id"))
	if runID == "" {
		http.Error(w, "run_id is required", http.StatusBadRequest)
		return
	}
	conn, err := watchUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	if err := conn.SetReadDeadline(time.Now().Add(watchPongWait)); err != nil {
		log.Printf("run watch: set read deadline failed: %v", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(watchPongWait))
	})

	// Drain inbound frames so pong handling keeps running.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	pollTicker := time.NewTicker(watchPollEvery)
	defer pollTicker.Stop()
	pingTicker := time.NewTicker(watchPingEvery)
	defer pingTicker.Stop()

	lastStatus := ""
	for {
		select {
		case <-r.Context().Done():
			return
		case <-pingTicker.C:
			if err := conn.SetWriteDeadline(time.Now().Add(watchWriteWait)); err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-pollTicker.C:
			run, ok, err := h.store.Get(r.Context(), runID)
			if err != nil || !ok {
				return
			}
			if run.Status == lastStatus {
				continue
			}
			lastStatus = run.Status
			if err := conn.SetWriteDeadline(time.Now().Add(watchWriteWait)); err != nil {
				return
			}
			if err := conn.WriteJSON(watchEvent{RunID: run.ID, Status: run.Status, ErrorMessage: run.ErrorMessage}); err != nil {
				return
			}
			if run.Status != toolrun.StatusRunning {
				return
			}
		}
	}
}
