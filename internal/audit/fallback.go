package audit

import "math/rand/v2"

// SyntheticNote tags results that were generated locally instead of by the
// model, so consumers can tell them apart.
const SyntheticNote = "Synthetic result: model response unavailable"

// Per-dimension bands for synthetic scores. Chosen to look plausible for a
// demo while staying clearly mid-range.
var syntheticBands = struct {
	aiUnderstanding         [2]int
	citationLikelihood      [2]int
	conversationalReadiness [2]int
	contentStructure        [2]int
}{
	aiUnderstanding:         [2]int{70, 90},
	citationLikelihood:      [2]int{60, 85},
	conversationalReadiness: [2]int{65, 88},
	contentStructure:        [2]int{60, 85},
}

// Synthetic produces a randomized placeholder result for when the model call
// fails, is unconfigured, or its response cannot be parsed. The note field is
// always set.
func Synthetic() Result {
	r := Result{
		AIUnderstanding:         randIn(syntheticBands.aiUnderstanding),
		CitationLikelihood:      randIn(syntheticBands.citationLikelihood),
		ConversationalReadiness: randIn(syntheticBands.conversationalReadiness),
		ContentStructure:        randIn(syntheticBands.contentStructure),
		Recommendations: []string{
			"Publish question-and-answer sections that address your core topics directly",
			"Keep critical facts in short, quotable sentences",
		},
		Issues: []string{
			"Content visibility to AI assistants could not be verified",
			"Automated scoring was unavailable for this run",
		},
		Note: SyntheticNote,
	}
	r.OverallScore = Overall(r.AIUnderstanding, r.CitationLikelihood, r.ConversationalReadiness, r.ContentStructure)
	return r
}

func randIn(band [2]int) int {
	return band[0] + rand.IntN(band[1]-band[0]+1)
}
