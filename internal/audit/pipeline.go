package audit

import (
	"context"
	"fmt"
	"log"

	"aivis/internal/apperr"
	llmclient "aivis/internal/llm/client"
	"aivis/internal/util/jsonutil"
)

// Pipeline runs the audit variants against a model client.
//
// Failure policy differs by variant: QuickAudit degrades to a synthetic
// result on any model or parse failure so the tool stays available, while
// VisibilityAudit fails the whole request on any step failure and returns no
// partial results.
type Pipeline struct {
	LLM llmclient.Client
	Log *log.Logger
}

func NewPipeline(llm llmclient.Client, logger *log.Logger) *Pipeline {
	if logger == nil {
		logger = log.Default()
	}
	return &Pipeline{LLM: llm, Log: logger}
}

// QuickAudit issues one labeled free-text model call and parses it
// best-effort. It never returns an error.
func (p *Pipeline) QuickAudit(ctx context.Context, pageURL, content string) Result {
	if p.LLM == nil {
		return Synthetic()
	}
	input := map[string]any{"url": pageURL, "content": content}
	text, err := p.LLM.GenerateText(ctx, quickAuditPrompt, input)
	if err != nil {
		p.Log.Printf("quick audit: model call failed, using synthetic result: %v", err)
		return Synthetic()
	}
	return ParseText(text)
}

// VisibilityAudit runs the three scoring steps in order. Each step owns a
// disjoint subset of the dimensions; any step failure aborts the pipeline.
func (p *Pipeline) VisibilityAudit(ctx context.Context, pageURL, content string) (Result, error) {
	if p.LLM == nil {
		return Result{}, apperr.New(apperr.Config, "model client is not configured")
	}
	input := map[string]any{"url": pageURL, "content": content}

	onPage, err := p.runStep(ctx, "on-page", onPageStepPrompt, input, []string{"aiUnderstanding", "citationLikelihood"})
	if err != nil {
		return Result{}, err
	}
	structure, err := p.runStep(ctx, "structure", structureStepPrompt, input, []string{"contentStructure"})
	if err != nil {
		return Result{}, err
	}
	conversational, err := p.runStep(ctx, "conversational", conversationalStepPrompt, input, []string{"conversationalReadiness"})
	if err != nil {
		return Result{}, err
	}
	return Aggregate([]StepResult{onPage, structure, conversational}), nil
}

type stepBody struct {
	AIUnderstanding         *int     `json:"aiUnderstanding"`
	CitationLikelihood      *int     `json:"citationLikelihood"`
	ConversationalReadiness *int     `json:"conversationalReadiness"`
	ContentStructure        *int     `json:"contentStructure"`
	Recommendations         []string `json:"recommendations"`
	Issues                  []string `json:"issues"`
}

func (p *Pipeline) runStep(ctx context.Context, name, stepPrompt string, input map[string]any, required []string) (StepResult, error) {
	raw, err := p.LLM.GenerateJSON(ctx, stepPrompt, input)
	if err != nil {
		return StepResult{}, fmt.Errorf("audit step %s: %w", name, err)
	}
	var body stepBody
	if err := jsonutil.UnmarshalFlex(raw, &body); err != nil {
		return StepResult{}, apperr.Wrap(apperr.Malformed, "Failed to extract JSON from AI response", err)
	}
	fields := map[string]*int{
		"aiUnderstanding":         body.AIUnderstanding,
		"citationLikelihood":      body.CitationLikelihood,
		"conversationalReadiness": body.ConversationalReadiness,
		"contentStructure":        body.ContentStructure,
	}
	for _, f := range required {
		if fields[f] == nil {
			return StepResult{}, apperr.New(apperr.Validation,
				fmt.Sprintf("audit step %s: response missing %s", name, f))
		}
	}
	return StepResult{
		AIUnderstanding:         body.AIUnderstanding,
		CitationLikelihood:      body.CitationLikelihood,
		ConversationalReadiness: body.ConversationalReadiness,
		ContentStructure:        body.ContentStructure,
		Recommendations:         body.Recommendations,
		Issues:                  body.Issues,
	}, nil
}
