package audit

// StepResult holds the contribution of one pipeline step. Each step owns a
// disjoint subset of the score dimensions; nil means the step does not score
// that dimension.
type StepResult struct {
	AIUnderstanding         *int
	CitationLikelihood      *int
	ConversationalReadiness *int
	ContentStructure        *int
	Recommendations         []string
	Issues                  []string
}

// Aggregate merges step contributions in order: direct assignment for scores
// (steps own disjoint dimensions, so no conflict is possible) and
// concatenation for lists. Dimensions no step scored take their documented
// defaults, and the overall score is always derived from the four dimensions.
func Aggregate(steps []StepResult) Result {
	r := Result{
		AIUnderstanding:         DefaultAIUnderstanding,
		CitationLikelihood:      DefaultCitationLikelihood,
		ConversationalReadiness: DefaultConversationalReadiness,
		ContentStructure:        DefaultContentStructure,
	}
	for _, s := range steps {
		if s.AIUnderstanding != nil {
			r.AIUnderstanding = Clamp(*s.AIUnderstanding)
		}
		if s.CitationLikelihood != nil {
			r.CitationLikelihood = Clamp(*s.CitationLikelihood)
		}
		if s.ConversationalReadiness != nil {
			r.ConversationalReadiness = Clamp(*s.ConversationalReadiness)
		}
		if s.ContentStructure != nil {
			r.ContentStructure = Clamp(*s.ContentStructure)
		}
		r.Recommendations = append(r.Recommendations, trimList(s.Recommendations)...)
		r.Issues = append(r.Issues, trimList(s.Issues)...)
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

// AsStep converts a full result into a single step contribution. Feeding a
// result through Aggregate again reproduces the same overall score.
func (r Result) AsStep() StepResult {
	a, b, c, d := r.AIUnderstanding, r.CitationLikelihood, r.ConversationalReadiness, r.ContentStructure
	return StepResult{
		AIUnderstanding:         &a,
		CitationLikelihood:      &b,
		ConversationalReadiness: &c,
		ContentStructure:        &d,
		Recommendations:         r.Recommendations,
		Issues:                  r.Issues,
	}
}
