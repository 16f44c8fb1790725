package prompt

import (
	"strings"
	"testing"
)

func TestBuildRendersSections(t *testing.T) {
	spec := Spec{
		Purpose:    "Score the page.",
		Background: "AI-visibility audit.",
		OutputFields: []Field{
			{Name: "score", Type: "int", Required: true, Description: "0-100."},
			{Name: "notes", Type: "[]string", Required: false},
		},
		Constraints:  []string{"No markdown."},
		Rules:        []string{"Be concise."},
		OutputFormat: "JSON only.",
	}
	out, err := spec.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	for _, sec := range []string{"[PURPOSE]", "[BACKGROUND]", "[OUTPUT]", "[CONSTRAINTS]", "[RULES]", "[OUTPUT_FORMAT]"} {
		if !strings.Contains(out, sec) {
			t.Fatalf("expected section %s in prompt:\n%s", sec, out)
		}
	}
	if !strings.Contains(out, "- score (int, required): 0-100.") {
		t.Fatalf("field line missing:\n%s", out)
	}
	if !strings.Contains(out, "- notes ([]string, optional)") {
		t.Fatalf("optional field line missing:\n%s", out)
	}
}

func TestBuildSkipsEmptySections(t *testing.T) {
	out, err := Spec{Purpose: "Only purpose."}.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if strings.Contains(out, "[BACKGROUND]") || strings.Contains(out, "[CONSTRAINTS]") {
		t.Fatalf("empty sections must be omitted:\n%s", out)
	}
}

func TestBuildRequiresPurpose(t *testing.T) {
	if _, err := (Spec{OutputFormat: "JSON only."}).Build(); err == nil {
		t.Fatal("expected error for empty purpose")
	}
}
