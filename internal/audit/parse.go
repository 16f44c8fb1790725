package audit

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"aivis/internal/apperr"
	"aivis/internal/util/jsonutil"
)

var (
	fencedJSONRe = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")
	numberedRe   = regexp.MustCompile(`\d+\.`)
)

// ExtractJSON locates the JSON object region in a model response, stripping
// one optional markdown code fence. It does not validate fields, only that a
// parseable object exists.
func ExtractJSON(text string) (json.RawMessage, error) {
	if m := fencedJSONRe.FindStringSubmatch(text); m != nil {
		candidate := strings.TrimSpace(m[1])
		if json.Valid([]byte(candidate)) {
			return json.RawMessage(candidate), nil
		}
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		candidate := strings.TrimSpace(text[start : end+1])
		if json.Valid([]byte(candidate)) {
			return json.RawMessage(candidate), nil
		}
	}
	return nil, apperr.New(apperr.Malformed, "Failed to extract JSON from AI response")
}

// ParseJSON parses a strict-JSON-mode audit response. Missing score fields
// are a validation failure, not a parse failure, so callers can distinguish
// "no JSON at all" from "JSON with holes".
func ParseJSON(text string) (Result, error) {
	raw, err := ExtractJSON(text)
	if err != nil {
		return Result{}, err
	}
	var body struct {
		AIUnderstanding         *int     `json:"aiUnderstanding"`
		CitationLikelihood      *int     `json:"citationLikelihood"`
		ConversationalReadiness *int     `json:"conversationalReadiness"`
		ContentStructure        *int     `json:"contentStructure"`
		Recommendations         []string `json:"recommendations"`
		Issues                  []string `json:"issues"`
	}
	if err := jsonutil.UnmarshalFlex(raw, &body); err != nil {
		return Result{}, apperr.Wrap(apperr.Malformed, "Failed to extract JSON from AI response", err)
	}
	var missing []string
	for _, f := range []struct {
		name string
		val  *int
	}{
		{"aiUnderstanding", body.AIUnderstanding},
		{"citationLikelihood", body.CitationLikelihood},
		{"conversationalReadiness", body.ConversationalReadiness},
		{"contentStructure", body.ContentStructure},
	} {
		if f.val == nil {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return Result{}, apperr.New(apperr.Validation,
			fmt.Sprintf("incomplete audit response: missing %s", strings.Join(missing, ", ")))
	}
	if len(body.Recommendations) == 0 {
		body.Recommendations = defaultRecommendations()
	}
	if len(body.Issues) == 0 {
		body.Issues = defaultIssues()
	}
	r := Result{
		AIUnderstanding:         Clamp(*body.AIUnderstanding),
		CitationLikelihood:      Clamp(*body.CitationLikelihood),
		ConversationalReadiness: Clamp(*body.ConversationalReadiness),
		ContentStructure:        Clamp(*body.ContentStructure),
		Recommendations:         trimList(body.Recommendations),
		Issues:                  trimList(body.Issues),
	}
	r.OverallScore = Overall(r.AIUnderstanding, r.CitationLikelihood, r.ConversationalReadiness, r.ContentStructure)
	return r, nil
}

// ParseText parses a labeled free-text audit response. It never fails:
// missing scores take their documented defaults and empty list sections take
// a fixed two-item default.
func ParseText(text string) Result {
	r := Result{
		AIUnderstanding:         ScoreForLabel(text, LabelAIUnderstanding, DefaultAIUnderstanding),
		CitationLikelihood:      ScoreForLabel(text, LabelCitationLikelihood, DefaultCitationLikelihood),
		ConversationalReadiness: ScoreForLabel(text, LabelConversationalReadiness, DefaultConversationalReadiness),
		ContentStructure:        ScoreForLabel(text, LabelContentStructure, DefaultContentStructure),
		Recommendations:         ListForLabel(text, LabelRecommendations),
		Issues:                  ListForLabel(text, LabelIssues),
	}
	if len(r.Recommendations) == 0 {
		r.Recommendations = defaultRecommendations()
	}
	if len(r.Issues) == 0 {
		r.Issues = defaultIssues()
	}
	r.OverallScore = Overall(r.AIUnderstanding, r.CitationLikelihood, r.ConversationalReadiness, r.ContentStructure)
	return r
}

// ScoreForLabel searches case-insensitively for `<label>:? <digits>` and
// returns the first captured integer clamped to [0,100], or def when absent.
func ScoreForLabel(text, label string, def int) int {
	re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(label) + `:?\s*(\d+)`)
	m := re.FindStringSubmatch(text)
	if m == nil {
		return def
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return def
	}
	return Clamp(n)
}

// ListForLabel captures the section under the given header up to the next
// known section header (or end of text), splits it on numbered-list
// delimiters, and drops empty fragments. Returns nil when the header is
// absent or yields no items.
func ListForLabel(text, label string) []string {
	section, ok := sectionBody(text, label)
	if !ok {
		return nil
	}
	parts := numberedRe.Split(section, -1)
	var out []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

var knownHeaders = []string{
	LabelAIUnderstanding,
	LabelCitationLikelihood,
	LabelConversationalReadiness,
	LabelContentStructure,
	LabelRecommendations,
	LabelIssues,
}

func sectionBody(text, label string) (string, bool) {
	headRe := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(label) + `:?`)
	loc := headRe.FindStringIndex(text)
	if loc == nil {
		return "", false
	}
	body := text[loc[1]:]
	end := len(body)
	for _, h := range knownHeaders {
		if strings.EqualFold(h, label) {
			continue
		}
		re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(h) + `:?`)
		if l := re.FindStringIndex(body); l != nil && l[0] < end {
			end = l[0]
		}
	}
	return body[:end], true
}

// Clamp bounds a score to [0,100].
func Clamp(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

// Overall derives the overall score as the round-half-up mean of the four
// dimension scores.
func Overall(a, b, c, d int) int {
	return Clamp(int(math.Round(float64(a+b+c+d) / 4.0)))
}

func defaultRecommendations() []string {
	return []string{
		"Add concise, self-contained answers near the top of the page",
		"Use descriptive headings that match how people phrase questions",
	}
}

func defaultIssues() []string {
	return []string{
		"Key facts are buried in long paragraphs",
		"Headings do not reflect conversational queries",
	}
}

func trimList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		it = strings.TrimSpace(it)
		if it != "" {
			out = append(out, it)
		}
	}
	return out
}
