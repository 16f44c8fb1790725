package audit

import "aivis/internal/prompt"

// quickAuditPrompt instructs the model to answer in labeled free text. The
// labeled parser tolerates formatting drift, so this variant stays usable
// with models that ignore JSON instructions.
var quickAuditPrompt = prompt.Spec{
	Purpose:    "Score how visible and useful the given web page is to AI assistants.",
	Background: "The page content follows in the input. Score each dimension from 0 to 100.",
	Constraints: []string{
		"Answer in plain text with exactly these labeled lines: 'AI Understanding: <score>', 'Citation Likelihood: <score>', 'Conversational Readiness: <score>', 'Content Structure: <score>'.",
		"Then a 'Recommendations:' section as a numbered list.",
		"Then an 'Issues:' section as a numbered list.",
	},
	OutputFormat: "Labeled plain text, no markdown.",
}.MustBuild()

var onPageStepPrompt = prompt.Spec{
	Purpose:    "Evaluate on-page AI visibility of the given web page.",
	Background: "Step 1 of 3. Score only comprehension and citation dimensions.",
	OutputFields: []prompt.Field{
		{Name: "aiUnderstanding", Type: "int", Required: true, Description: "0-100: how well an AI assistant can understand the page."},
		{Name: "citationLikelihood", Type: "int", Required: true, Description: "0-100: how likely an assistant is to cite this page."},
		{Name: "recommendations", Type: "[]string", Required: true, Description: "Concrete on-page improvements."},
	},
	Constraints:  []string{"Scores are integers in [0,100]."},
	OutputFormat: "JSON only.",
}.MustBuild()

var structureStepPrompt = prompt.Spec{
	Purpose:    "Evaluate the structural markup quality of the given web page.",
	Background: "Step 2 of 3. Score only the content structure dimension.",
	OutputFields: []prompt.Field{
		{Name: "contentStructure", Type: "int", Required: true, Description: "0-100: heading hierarchy, schema markup, answer-friendly layout."},
		{Name: "issues", Type: "[]string", Required: true, Description: "Structural problems found."},
	},
	Constraints:  []string{"Scores are integers in [0,100]."},
	OutputFormat: "JSON only.",
}.MustBuild()

var conversationalStepPrompt = prompt.Spec{
	Purpose:    "Evaluate how well the page answers conversational queries.",
	Background: "Step 3 of 3. Score only the conversational readiness dimension.",
	OutputFields: []prompt.Field{
		{Name: "conversationalReadiness", Type: "int", Required: true, Description: "0-100: coverage of question-style queries."},
		{Name: "recommendations", Type: "[]string", Required: true, Description: "Improvements for conversational coverage."},
	},
	Constraints:  []string{"Scores are integers in [0,100]."},
	OutputFormat: "JSON only.",
}.MustBuild()
