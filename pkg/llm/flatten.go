package llm

import "strings"

// SplitSystem extracts the first system-role message and returns it alongside
// the remaining messages. Providers that take the system prompt as a
// top-level field (anthropic, gemini) need this shape.
func SplitSystem(messages []Message) (string, []Message) {
	system := ""
	rest := make([]Message, 0, len(messages))
	for _, msg := range messages {
		if system == "" && msg.Role == "system" {
			system = msg.Content
			continue
		}
		rest = append(rest, msg)
	}
	return system, rest
}

// FlattenMessages collapses a message list into a single prompt string with
// each turn labeled by role, for providers that want one user turn.
func FlattenMessages(messages []Message) string {
	var b strings.Builder
	for i, msg := range messages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		switch msg.Role {
		case "assistant", "model":
			b.WriteString("Assistant: ")
		case "system":
			b.WriteString("System: ")
		default:
			b.WriteString("User: ")
		}
		b.WriteString(msg.Content)
	}
	return b.String()
}
