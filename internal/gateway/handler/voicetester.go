package handler

import (
	"math"
	"net/http"
	"strings"
	"sync"

	"aivis/internal/apperr"
	"aivis/internal/fetch"
	"aivis/internal/gateway/httpx"
	"aivis/internal/runlog"
)

// VoiceTesterHandler fans out prompts to the answer-engine search provider
// and measures how often the brand is mentioned in the answers.
type VoiceTesterHandler struct {
	search fetch.Searcher
	runs   *runlog.Logger
}

func NewVoiceTesterHandler(search fetch.Searcher, runs *runlog.Logger) *VoiceTesterHandler {
	return &VoiceTesterHandler{search: search, runs: runs}
}

type voiceTesterRequest struct {
	ProjectID string   `json:"projectId"`
	Brand     string   `json:"brand"`
	Prompts   []string `json:"prompts"`
}

// PromptResult is the outcome of one answer-engine query.
type PromptResult struct {
	Query     string   `json:"query"`
	Answer    string   `json:"answer"`
	Mentioned bool     `json:"mentioned"`
	Sources   []string `json:"sources,omitempty"`
}

// VoiceTestResult aggregates the fan-out.
type VoiceTestResult struct {
	Brand       string         `json:"brand"`
	Results     []PromptResult `json:"results"`
	MentionRate int            `json:"mentionRate"`
}

// HandleVoiceTest issues all queries concurrently and joins all-or-nothing:
// each goroutine writes to its own slot and any single failure fails the
// whole request.
func (h *VoiceTesterHandler) HandleVoiceTest(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req voiceTesterRequest
	if err := decodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}
	if strings.TrimSpace(req.Brand) == "" {
		httpx.WriteError(w, apperr.New(apperr.Validation, "brand is required"))
		return
	}
	if len(req.Prompts) == 0 {
		httpx.WriteError(w, apperr.New(apperr.Validation, "at least one prompt is required"))
		return
	}
	if h.search == nil {
		httpx.WriteError(w, apperr.New(apperr.Config, "search provider is not configured"))
		return
	}
	ctx := r.Context()
	runID := h.runs.Start(ctx, projectRef(r, req.ProjectID), "voice-tester", req)

	results := make([]PromptResult, len(req.Prompts))
	errs := make([]error, len(req.Prompts))
	var wg sync.WaitGroup
	for i, query := range req.Prompts {
		wg.Add(1)
		go func(i int, query string) {
			defer wg.Done()
			answer, err := h.search.Search(ctx, query)
			if err != nil {
				errs[i] = err
				return
			}
			results[i] = PromptResult{
				Query:     query,
				Answer:    answer.Answer,
				Mentioned: containsBrand(answer.Answer, req.Brand),
				Sources:   answer.Sources,
			}
		}(i, query)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			h.runs.Fail(ctx, runID, apperr.As(err).Message)
			httpx.WriteError(w, err)
			return
		}
	}

	mentioned := 0
	for _, res := range results {
		if res.Mentioned {
			mentioned++
		}
	}
	out := VoiceTestResult{
		Brand:       req.Brand,
		Results:     results,
		MentionRate: int(math.Round(float64(mentioned) / float64(len(results)) * 100)),
	}
	h.runs.Finish(ctx, runID, out)
	httpx.WriteSuccess(w, out)
}

func containsBrand(answer, brand string) bool {
	return strings.Contains(strings.ToLower(answer), strings.ToLower(strings.TrimSpace(brand)))
}
