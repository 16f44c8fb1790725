// Package llmmw provides decorators for the model client interface.
package llmmw

import (
	"context"

	llmclient "aivis/internal/llm/client"
)

// Middleware wraps a model client with additional behavior.
type Middleware func(llmclient.Client) llmclient.Client

// Chain applies middlewares left to right, so the first one is outermost.
func Chain(base llmclient.Client, mws ...Middleware) llmclient.Client {
	for i := len(mws) - 1; i >= 0; i-- {
		base = mws[i](base)
	}
	return base
}

type ctxKeyTool struct{}

// WithTool attaches the calling tool's name to the context for logging.
func WithTool(ctx context.Context, tool string) context.Context {
	return context.WithValue(ctx, ctxKeyTool{}, tool)
}

// ToolFrom returns the tool name stored in the context.
func ToolFrom(ctx context.Context) string {
	if v := ctx.Value(ctxKeyTool{}); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return "unknown"
}
