// Package runlog records one tool_runs row per handler invocation.
//
// Logging failures are always non-fatal: Start returns an empty run id on
// store errors and Finish/Fail degrade to a warning, so the primary operation
// is never blocked by the run log.
package runlog

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"aivis/internal/gateway/repository/toolrun"
)

type Logger struct {
	store toolrun.Store
	log   *log.Logger
}

func New(store toolrun.Store, logger *log.Logger) *Logger {
	if logger == nil {
		logger = log.Default()
	}
	return &Logger{store: store, log: logger}
}

// Start creates a run row with status=running and returns its id, or "" when
// the write fails.
func (l *Logger) Start(ctx context.Context, projectID, toolName string, input any) string {
	snapshot, err := json.Marshal(input)
	if err != nil {
		snapshot = nil
	}
	run := toolrun.ToolRun{
		ID:        newRunID(toolName),
		ProjectID: projectID,
		ToolName:  toolName,
		Input:     snapshot,
		Status:    toolrun.StatusRunning,
		CreatedAt: time.Now().UTC(),
	}
	if err := l.store.Create(ctx, run); err != nil {
		l.log.Printf("runlog: failed to create run for %s: %v", toolName, err)
		return ""
	}
	return run.ID
}

// Finish marks the run completed with the given output.
func (l *Logger) Finish(ctx context.Context, runID string, output any) {
	if runID == "" {
		l.log.Printf("runlog: finish skipped, no run id")
		return
	}
	payload, err := json.Marshal(output)
	if err != nil {
		payload = nil
	}
	if err := l.store.Finish(ctx, runID, toolrun.StatusCompleted, payload, ""); err != nil {
		l.log.Printf("runlog: failed to complete run %s: %v", runID, err)
	}
}

// Fail marks the run errored with the given message.
func (l *Logger) Fail(ctx context.Context, runID, message string) {
	if runID == "" {
		l.log.Printf("runlog: fail skipped, no run id")
		return
	}
	if err := l.store.Finish(ctx, runID, toolrun.StatusError, nil, message); err != nil {
		l.log.Printf("runlog: failed to mark run %s errored: %v", runID, err)
	}
}

func newRunID(toolName string) string {
	return fmt.Sprintf("%s-%d", toolName, time.Now().UnixNano())
}
