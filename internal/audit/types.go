// Package audit implements the AI-visibility scoring core: parsing model
// responses into structured results, aggregating multi-step pipelines, and
// generating synthetic fallbacks when the model is unavailable.
package audit

// Result is the output payload of an audit tool run. Scores are integers in
// [0,100]; OverallScore is always derived locally from the four dimensions.
type Result struct {
	OverallScore            int      `json:"overallScore"`
	AIUnderstanding         int      `json:"aiUnderstanding"`
	CitationLikelihood      int      `json:"citationLikelihood"`
	ConversationalReadiness int      `json:"conversationalReadiness"`
	ContentStructure        int      `json:"contentStructure"`
	Recommendations         []string `json:"recommendations"`
	Issues                  []string `json:"issues"`
	// Note is set only on synthetic results so consumers can tell them
	// apart from model-derived ones.
	Note string `json:"note,omitempty"`
}

// Default scores substituted when a labeled dimension is absent from
// free-text model output.
const (
	DefaultAIUnderstanding         = 72
	DefaultCitationLikelihood      = 68
	DefaultConversationalReadiness = 70
	DefaultContentStructure        = 65
)

// Section labels expected in labeled free-text model output.
const (
	LabelAIUnderstanding         = "AI Understanding"
	LabelCitationLikelihood      = "Citation Likelihood"
	LabelConversationalReadiness = "Conversational Readiness"
	LabelContentStructure        = "Content Structure"
	LabelRecommendations         = "Recommendations"
	LabelIssues                  = "Issues"
)
