package handler

import (
	"context"
	"net/http"
	"strings"

	"aivis/internal/apperr"
	"aivis/internal/audit"
	"aivis/internal/fetch"
	"aivis/internal/gateway/httpx"
	llmclient "aivis/internal/llm/client"
	llmmw "aivis/internal/llm/middleware"
	"aivis/internal/prompt"
	"aivis/internal/runlog"
	"aivis/internal/util/jsonutil"
)

// ContentHandler serves the strict-JSON single-call tools: optimizer,
// summary, playbook, entity analyzer, and content generator. Parse failures
// are fatal for these tools; only the audits degrade to synthetic results.
type ContentHandler struct {
	llm   llmclient.Client
	pages fetch.PageFetcher
	runs  *runlog.Logger
}

func NewContentHandler(llm llmclient.Client, pages fetch.PageFetcher, runs *runlog.Logger) *ContentHandler {
	return &ContentHandler{llm: llm, pages: pages, runs: runs}
}

type contentRequest struct {
	ProjectID string `json:"projectId"`
	URL       string `json:"url,omitempty"`
	Content   string `json:"content,omitempty"`
	Keyword   string `json:"keyword,omitempty"`
	Topic     string `json:"topic,omitempty"`
	Brand     string `json:"brand,omitempty"`
}

// OptimizerResult scores the page for a target keyword and suggests edits.
type OptimizerResult struct {
	Score               int      `json:"score"`
	Suggestions         []string `json:"suggestions"`
	ImprovedTitle       string   `json:"improvedTitle,omitempty"`
	ImprovedDescription string   `json:"improvedDescription,omitempty"`
}

// SummaryResult condenses the page for AI-assistant consumption.
type SummaryResult struct {
	Summary   string   `json:"summary"`
	KeyTopics []string `json:"keyTopics"`
	Questions []string `json:"questions,omitempty"`
}

// PlaybookSection is one actionable section of a visibility playbook.
type PlaybookSection struct {
	Title   string   `json:"title"`
	Actions []string `json:"actions"`
}

// PlaybookResult is an ordered improvement plan.
type PlaybookResult struct {
	Sections []PlaybookSection `json:"sections"`
}

// Entity is one named entity the page covers or misses.
type Entity struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Covered bool   `json:"covered"`
}

// EntityResult reports entity coverage against the topic's expected entities.
type EntityResult struct {
	Entities        []Entity `json:"entities"`
	MissingEntities []string `json:"missingEntities"`
	CoverageScore   int      `json:"coverageScore"`
}

// GeneratorResult is a generated article draft.
type GeneratorResult struct {
	Title   string   `json:"title"`
	Outline []string `json:"outline"`
	Draft   string   `json:"draft"`
}

var optimizerPrompt = prompt.Spec{
	Purpose: "Suggest edits that make the given page more likely to be cited by AI assistants for the target keyword.",
	OutputFields: []prompt.Field{
		{Name: "score", Type: "int", Required: true, Description: "0-100 optimization score for the keyword."},
		{Name: "suggestions", Type: "[]string", Required: true},
		{Name: "improvedTitle", Type: "string", Required: false},
		{Name: "improvedDescription", Type: "string", Required: false},
	},
	OutputFormat: "JSON only.",
}.MustBuild()

var summaryPrompt = prompt.Spec{
	Purpose: "Summarize the given page the way an AI assistant would digest it.",
	OutputFields: []prompt.Field{
		{Name: "summary", Type: "string", Required: true},
		{Name: "keyTopics", Type: "[]string", Required: true},
		{Name: "questions", Type: "[]string", Required: false, Description: "Questions the page answers well."},
	},
	OutputFormat: "JSON only.",
}.MustBuild()

var playbookPrompt = prompt.Spec{
	Purpose: "Produce a prioritized AI-visibility playbook for the given page.",
	OutputFields: []prompt.Field{
		{Name: "sections", Type: "[]{title, actions}", Required: true, Description: "Ordered sections, each with concrete actions."},
	},
	OutputFormat: "JSON only.",
}.MustBuild()

var entityPrompt = prompt.Spec{
	Purpose: "List the named entities the page covers and the ones it is missing for its topic.",
	OutputFields: []prompt.Field{
		{Name: "entities", Type: "[]{name, type, covered}", Required: true},
		{Name: "missingEntities", Type: "[]string", Required: true},
		{Name: "coverageScore", Type: "int", Required: true, Description: "0-100 coverage of the topic's expected entities."},
	},
	OutputFormat: "JSON only.",
}.MustBuild()

var generatorPrompt = prompt.Spec{
	Purpose: "Write an article draft on the given topic optimized for AI-assistant citation.",
	OutputFields: []prompt.Field{
		{Name: "title", Type: "string", Required: true},
		{Name: "outline", Type: "[]string", Required: true},
		{Name: "draft", Type: "string", Required: true},
	},
	Constraints:  []string{"Short, quotable paragraphs.", "Question-style headings where natural."},
	OutputFormat: "JSON only.",
}.MustBuild()

func (h *ContentHandler) HandleOptimizer(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "optimizer", optimizerPrompt, true, func(raw []byte) (any, error) {
		var out OptimizerResult
		if err := jsonutil.UnmarshalFlex(raw, &out); err != nil {
			return nil, apperr.Wrap(apperr.Malformed, "Failed to extract JSON from AI response", err)
		}
		if len(out.Suggestions) == 0 {
			return nil, apperr.New(apperr.Validation, "incomplete optimizer response: missing suggestions")
		}
		out.Score = audit.Clamp(out.Score)
		return out, nil
	})
}

func (h *ContentHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "summary", summaryPrompt, true, func(raw []byte) (any, error) {
		var out SummaryResult
		if err := jsonutil.UnmarshalFlex(raw, &out); err != nil {
			return nil, apperr.Wrap(apperr.Malformed, "Failed to extract JSON from AI response", err)
		}
		if strings.TrimSpace(out.Summary) == "" {
			return nil, apperr.New(apperr.Validation, "incomplete summary response: missing summary")
		}
		return out, nil
	})
}

func (h *ContentHandler) HandlePlaybook(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "playbook", playbookPrompt, true, func(raw []byte) (any, error) {
		var out PlaybookResult
		if err := jsonutil.UnmarshalFlex(raw, &out); err != nil {
			return nil, apperr.Wrap(apperr.Malformed, "Failed to extract JSON from AI response", err)
		}
		if len(out.Sections) == 0 {
			return nil, apperr.New(apperr.Validation, "incomplete playbook response: missing sections")
		}
		return out, nil
	})
}

func (h *ContentHandler) HandleEntityAnalyzer(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "entity-analyzer", entityPrompt, true, func(raw []byte) (any, error) {
		var out EntityResult
		if err := jsonutil.UnmarshalFlex(raw, &out); err != nil {
			return nil, apperr.Wrap(apperr.Malformed, "Failed to extract JSON from AI response", err)
		}
		if len(out.Entities) == 0 {
			return nil, apperr.New(apperr.Validation, "incomplete entity response: missing entities")
		}
		out.CoverageScore = audit.Clamp(out.CoverageScore)
		return out, nil
	})
}

func (h *ContentHandler) HandleContentGenerator(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "content-generator", generatorPrompt, false, func(raw []byte) (any, error) {
		var out GeneratorResult
		if err := jsonutil.UnmarshalFlex(raw, &out); err != nil {
			return nil, apperr.Wrap(apperr.Malformed, "Failed to extract JSON from AI response", err)
		}
		if strings.TrimSpace(out.Draft) == "" {
			return nil, apperr.New(apperr.Validation, "incomplete generator response: missing draft")
		}
		return out, nil
	})
}

// serve is the shared single-call strict-JSON tool flow: decode, log run,
// fetch page content when the tool needs it, call the model, extract and
// validate the JSON region, and wrap up the run record.
func (h *ContentHandler) serve(w http.ResponseWriter, r *http.Request, tool, toolPrompt string, needsPage bool, parse func([]byte) (any, error)) {
	if !requirePost(w, r) {
		return
	}
	var req contentRequest
	if err := decodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}
	if needsPage && strings.TrimSpace(req.URL) == "" {
		httpx.WriteError(w, apperr.New(apperr.Validation, "url is required"))
		return
	}
	if !needsPage && strings.TrimSpace(req.Topic) == "" {
		httpx.WriteError(w, apperr.New(apperr.Validation, "topic is required"))
		return
	}
	ctx := llmmw.WithTool(r.Context(), tool)
	runID := h.runs.Start(ctx, projectRef(r, req.ProjectID), tool, req)

	result, err := h.invoke(ctx, toolPrompt, req, needsPage, parse)
	if err != nil {
		h.runs.Fail(ctx, runID, apperr.As(err).Message)
		httpx.WriteError(w, err)
		return
	}
	h.runs.Finish(ctx, runID, result)
	httpx.WriteSuccess(w, result)
}

func (h *ContentHandler) invoke(ctx context.Context, toolPrompt string, req contentRequest, needsPage bool, parse func([]byte) (any, error)) (any, error) {
	if h.llm == nil {
		return nil, apperr.New(apperr.Config, "model client is not configured")
	}
	input := map[string]any{}
	if needsPage {
		content := req.Content
		if strings.TrimSpace(content) == "" {
			content = h.pages.Fetch(ctx, req.URL)
		}
		input["url"] = req.URL
		input["content"] = content
	}
	for k, v := range map[string]string{"keyword": req.Keyword, "topic": req.Topic, "brand": req.Brand} {
		if strings.TrimSpace(v) != "" {
			input[k] = v
		}
	}
	text, err := h.llm.GenerateText(ctx, toolPrompt, input)
	if err != nil {
		return nil, err
	}
	raw, err := audit.ExtractJSON(text)
	if err != nil {
		return nil, err
	}
	return parse(raw)
}
