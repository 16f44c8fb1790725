package jsonutil

import (
	"strings"
	"testing"
)

func TestUnmarshalFlexDirect(t *testing.T) {
	var out struct {
		Score int `json:"score"`
	}
	if err := UnmarshalFlex([]byte(`{"score": 80}`), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Score != 80 {
		t.Fatalf("score = %d", out.Score)
	}
}

func TestUnmarshalFlexQuotedPayload(t *testing.T) {
	// A whole JSON object arriving as a quoted string.
	raw := []byte(`"{\"summary\": \"short\"}"`)
	var out struct {
		Summary string `json:"summary"`
	}
	if err := UnmarshalFlex(raw, &out); err != nil {
		t.Fatalf("unmarshal quoted payload: %v", err)
	}
	if out.Summary != "short" {
		t.Fatalf("summary = %q", out.Summary)
	}
}

func TestMarshalNoEscapeKeepsAngleBrackets(t *testing.T) {
	got, err := MarshalNoEscape(map[string]string{"html": "<h1>title</h1>"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(got), "<h1>") {
		t.Fatalf("output = %s", got)
	}
	if strings.HasSuffix(string(got), "\n") {
		t.Fatal("trailing newline must be trimmed")
	}
}

func TestNormalizeUnicodeRejectsGarbage(t *testing.T) {
	if _, err := NormalizeUnicode([]byte("not json")); err == nil {
		t.Fatal("expected error")
	}
}
