package gemini

import (
	"encoding/json"
	"testing"
)

func TestExtractJSONDirect(t *testing.T) {
	raw, ok := ExtractJSON(`{"core_issue": "billing", "summaries": {"one_sentence": "short"}}`)
	if !ok {
		t.Fatal("expected direct parse to succeed")
	}
	var obj map[string]interface{}
	if err := json.Unmarshal(raw, &obj); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if obj["core_issue"] != "billing" {
		t.Errorf("core_issue = %v", obj["core_issue"])
	}
}

func TestExtractJSONFenced(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{
			"json fence",
			"Here is the analysis:\n```json\n{\"executive_summary\": \"a summary long enough\"}\n```\nDone.",
		},
		{
			"bare fence",
			"```\n[{\"comment_id\": \"c1\", \"quality_score\": 7.0}]\n```",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, ok := ExtractJSON(tt.text)
			if !ok {
				t.Fatal("expected fenced extraction to succeed")
			}
			if !json.Valid(raw) {
				t.Errorf("extracted invalid JSON: %s", raw)
			}
		})
	}
}

func TestExtractJSONEmbedded(t *testing.T) {
	text := `The model says: based on the comments, {"key_issue": "latency",
"recommended_actions": ["profile the handler", "add caching"]} which covers it.`

	raw, ok := ExtractJSON(text)
	if !ok {
		t.Fatal("expected balanced scan to succeed")
	}
	var obj struct {
		KeyIssue string `json:"key_issue"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if obj.KeyIssue != "latency" {
		t.Errorf("key_issue = %q", obj.KeyIssue)
	}
}

func TestExtractJSONSkipsTinyFragments(t *testing.T) {
	// The small inline object is below the substantial threshold; the larger
	// one later in the text should win.
	text := `Use {"a": 1} as a shape. Full result: {"executive_summary": "the community mostly agrees", "key_issue": "pricing"}`

	raw, ok := ExtractJSON(text)
	if !ok {
		t.Fatal("expected extraction to succeed")
	}
	var obj map[string]interface{}
	if err := json.Unmarshal(raw, &obj); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, present := obj["executive_summary"]; !present {
		t.Errorf("picked wrong fragment: %s", raw)
	}
}

func TestExtractJSONFailures(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"prose only", "I could not produce the analysis you asked for."},
		{"unbalanced", `{"key": "value", "missing": `},
		{"scalar", `42`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if raw, ok := ExtractJSON(tt.text); ok {
				t.Errorf("expected failure, got %s", raw)
			}
		})
	}
}

func TestExtractJSONBracesInsideStrings(t *testing.T) {
	text := `noise {"executive_summary": "use } and { carefully in code", "key_issue": "escaping"} noise`

	raw, ok := ExtractJSON(text)
	if !ok {
		t.Fatal("expected extraction to succeed")
	}
	var obj struct {
		KeyIssue string `json:"key_issue"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if obj.KeyIssue != "escaping" {
		t.Errorf("key_issue = %q", obj.KeyIssue)
	}
}
