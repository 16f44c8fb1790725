// Package toolrun persists one record per tool invocation.
package toolrun

import (
	"context"
	"encoding/json"
	"time"
)

// Statuses of a tool run. A run is created as StatusRunning and mutated
// exactly once to StatusCompleted or StatusError.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusError     = "error"
)

// ToolRun is one row in tool_runs.
type ToolRun struct {
	ID           string          `json:"id"`
	ProjectID    string          `json:"projectId"`
	ToolName     string          `json:"toolName"`
	Input        json.RawMessage `json:"input,omitempty"`
	Output       json.RawMessage `json:"output,omitempty"`
	Status       string          `json:"status"`
	ErrorMessage string          `json:"errorMessage,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	CompletedAt  *time.Time      `json:"completedAt,omitempty"`
}

// Store is the tool_runs persistence contract.
type Store interface {
	Create(ctx context.Context, run ToolRun) error
	// Finish sets the terminal status, output or error message, and the
	// completion timestamp. Calling twice overwrites the prior update.
	Finish(ctx context.Context, id, status string, output json.RawMessage, errMsg string) error
	Get(ctx context.Context, id string) (ToolRun, bool, error)
	ListByProject(ctx context.Context, projectID string, limit int) ([]ToolRun, error)
}
