package audit

import (
	"reflect"
	"testing"
)

func intp(n int) *int { return &n }

func TestAggregateMergesDisjointSteps(t *testing.T) {
	steps := []StepResult{
		{
			AIUnderstanding:    intp(80),
			CitationLikelihood: intp(90),
			Recommendations:    []string{"first"},
			Issues:             []string{"issue one"},
		},
		{
			ContentStructure: intp(60),
			Recommendations:  []string{"second"},
		},
		{
			ConversationalReadiness: intp(70),
			Issues:                  []string{"issue two"},
		},
	}
	r := Aggregate(steps)

	if r.AIUnderstanding != 80 || r.CitationLikelihood != 90 ||
		r.ContentStructure != 60 || r.ConversationalReadiness != 70 {
		t.Fatalf("scores: %+v", r)
	}
	if r.OverallScore != 75 {
		t.Fatalf("overall = %d, want 75", r.OverallScore)
	}
	if want := []string{"first", "second"}; !reflect.DeepEqual(r.Recommendations, want) {
		t.Fatalf("recommendations = %v, want %v", r.Recommendations, want)
	}
	if want := []string{"issue one", "issue two"}; !reflect.DeepEqual(r.Issues, want) {
		t.Fatalf("issues = %v, want %v", r.Issues, want)
	}
}

func TestAggregateUnscoredDimensionsDefault(t *testing.T) {
	r := Aggregate([]StepResult{{AIUnderstanding: intp(100)}})

	if r.AIUnderstanding != 100 {
		t.Fatalf("aiUnderstanding = %d", r.AIUnderstanding)
	}
	if r.CitationLikelihood != DefaultCitationLikelihood ||
		r.ConversationalReadiness != DefaultConversationalReadiness ||
		r.ContentStructure != DefaultContentStructure {
		t.Fatalf("expected defaults for unscored dimensions: %+v", r)
	}
	if len(r.Recommendations) == 0 || len(r.Issues) == 0 {
		t.Fatal("lists must never be empty after aggregation")
	}
}

func TestAggregateRoundTripIdempotent(t *testing.T) {
	first := Aggregate([]StepResult{
		{AIUnderstanding: intp(83), CitationLikelihood: intp(61)},
		{ContentStructure: intp(74), ConversationalReadiness: intp(69),
			Recommendations: []string{"keep answers short"}, Issues: []string{"slow pages"}},
	})
	second := Aggregate([]StepResult{first.AsStep()})

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("round-trip changed the result:\nfirst  %+v\nsecond %+v", first, second)
	}
}

func TestAggregateClampsStepScores(t *testing.T) {
	r := Aggregate([]StepResult{{AIUnderstanding: intp(300), ContentStructure: intp(-5)}})
	if r.AIUnderstanding != 100 {
		t.Fatalf("aiUnderstanding = %d, want 100", r.AIUnderstanding)
	}
	if r.ContentStructure != 0 {
		t.Fatalf("contentStructure = %d, want 0", r.ContentStructure)
	}
}
