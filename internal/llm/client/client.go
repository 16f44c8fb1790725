// Package llmclient defines the generative-model client interface and its
// Gemini implementation.
package llmclient

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrInvalidJSON is returned when the model produced no usable content.
var ErrInvalidJSON = errors.New("llmclient: invalid JSON from model")

// Client is the interface for generative-model providers.
type Client interface {
	Name() string
	Close() error
	// GenerateJSON assembles a single request from prompt + input and asks
	// the model for a JSON object response.
	GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error)
	// GenerateText asks for a plain-text response. Used by the labeled
	// free-text tools.
	GenerateText(ctx context.Context, prompt string, input any) (string, error)
}
