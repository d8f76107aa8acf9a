package llm

import "testing"

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantKey string
		wantErr bool
	}{
		{
			name:    "bare object",
			text:    `{"tone": "playful"}`,
			wantKey: "tone",
		},
		{
			name:    "object wrapped in prose",
			text:    "Sure! Here's the plan:\n{\"tone\": \"formal\"}\nLet me know.",
			wantKey: "tone",
		},
		{
			name:    "object inside markdown fence",
			text:    "```json\n{\"tone\": \"bold\"}\n```",
			wantKey: "tone",
		},
		{
			name:    "braces inside string literals",
			text:    `{"tone": "use {curly} braces literally"}`,
			wantKey: "tone",
		},
		{
			name:    "top-level array wrapped as items",
			text:    `["a", "b", "c"]`,
			wantKey: "items",
		},
		{
			name:    "no json at all",
			text:    "I cannot produce that.",
			wantErr: true,
		},
		{
			name:    "unbalanced braces",
			text:    `{"tone": "truncated`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.text)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("ExtractJSON(%q) expected error, got %v", tt.text, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractJSON(%q) error = %v", tt.text, err)
			}
			if _, ok := got[tt.wantKey]; !ok {
				t.Errorf("result missing key %q: %v", tt.wantKey, got)
			}
		})
	}
}

func TestExtractJSONPicksFirstSpan(t *testing.T) {
	got, err := ExtractJSON(`first {"a": 1} then {"b": 2}`)
	if err != nil {
		t.Fatalf("ExtractJSON() error = %v", err)
	}
	if _, ok := got["a"]; !ok {
		t.Errorf("expected first object, got %v", got)
	}
	if _, ok := got["b"]; ok {
		t.Errorf("second object should be ignored, got %v", got)
	}
}
