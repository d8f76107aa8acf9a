package llm

import "testing"

func TestSplitSystem(t *testing.T) {
	system, rest := SplitSystem([]Message{
		{Role: "system", Content: "be concise"},
		{Role: "user", Content: "hello"},
		{Role: "assistant", Content: "hi"},
	})

	if system != "be concise" {
		t.Errorf("system = %q", system)
	}
	if len(rest) != 2 {
		t.Fatalf("rest = %d messages, want 2", len(rest))
	}
	if rest[0].Role != "user" || rest[1].Role != "assistant" {
		t.Errorf("rest order wrong: %v", rest)
	}
}

func TestSplitSystemKeepsSecondSystemMessage(t *testing.T) {
	system, rest := SplitSystem([]Message{
		{Role: "system", Content: "first"},
		{Role: "system", Content: "second"},
	})

	if system != "first" {
		t.Errorf("system = %q", system)
	}
	if len(rest) != 1 || rest[0].Content != "second" {
		t.Errorf("rest = %v", rest)
	}
}

func TestSplitSystemNoSystemMessage(t *testing.T) {
	system, rest := SplitSystem([]Message{{Role: "user", Content: "hello"}})

	if system != "" {
		t.Errorf("system = %q, want empty", system)
	}
	if len(rest) != 1 {
		t.Errorf("rest = %d messages, want 1", len(rest))
	}
}

func TestFlattenMessages(t *testing.T) {
	got := FlattenMessages([]Message{
		{Role: "user", Content: "write a tagline"},
		{Role: "assistant", Content: "Fresh brews daily"},
		{Role: "user", Content: "shorter"},
	})

	want := "User: write a tagline\n\nAssistant: Fresh brews daily\n\nUser: shorter"
	if got != want {
		t.Errorf("FlattenMessages() = %q, want %q", got, want)
	}
}
