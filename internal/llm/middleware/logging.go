package llmmw

import (
	"context"
	"encoding/json"
	"log"

	llmclient "aivis/internal/llm/client"
)

// WithLogging logs request sizes and errors. Provide a custom logger or nil
// to use log.Default().
func WithLogging(logger *log.Logger) Middleware {
	if logger == nil {
		logger = log.Default()
	}
	return func(next llmclient.Client) llmclient.Client {
		return &logging{next: next, log: logger}
	}
}

type logging struct {
	next llmclient.Client
	log  *log.Logger
}

func (l *logging) Name() string { return l.next.Name() }
func (l *logging) Close() error { return l.next.Close() }

func (l *logging) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	in, _ := json.Marshal(input)
	l.log.Printf("model request (%s): %d bytes", ToolFrom(ctx), len(prompt)+len(in))
	raw, err := l.next.GenerateJSON(ctx, prompt, input)
	if err != nil {
		l.log.Printf("model error (%s): %v", ToolFrom(ctx), err)
	}
	return raw, err
}

func (l *logging) GenerateText(ctx context.Context, prompt string, input any) (string, error) {
	in, _ := json.Marshal(input)
	l.log.Printf("model request (%s): %d bytes", ToolFrom(ctx), len(prompt)+len(in))
	txt, err := l.next.GenerateText(ctx, prompt, input)
	if err != nil {
		l.log.Printf("model error (%s): %v", ToolFrom(ctx), err)
	}
	return txt, err
}
