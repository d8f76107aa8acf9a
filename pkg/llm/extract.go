package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractJSON pulls the first {...} or [...] span out of generated text and
// unmarshals it. Models frequently wrap JSON in prose or markdown fences, so
// this is a best-effort scan rather than a strict parse of the whole text.
func ExtractJSON(text string) (map[string]interface{}, error) {
	objStart := strings.Index(text, "{")
	arrStart := strings.Index(text, "[")

	start := objStart
	open, close := byte('{'), byte('}')
	if start == -1 || (arrStart != -1 && arrStart < start) {
		start = arrStart
		open, close = '[', ']'
	}
	if start == -1 {
		return nil, fmt.Errorf("no JSON found in model output")
	}

	// Walk forward balancing brackets, skipping over string literals.
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return unmarshalSpan(text[start : i+1])
			}
		}
	}

	return nil, fmt.Errorf("no JSON found in model output")
}

func unmarshalSpan(span string) (map[string]interface{}, error) {
	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(span), &obj); err == nil {
		return obj, nil
	}

	// Top-level arrays are wrapped so callers always get an object.
	var arr []interface{}
	if err := json.Unmarshal([]byte(span), &arr); err == nil {
		return map[string]interface{}{"items": arr}, nil
	}

	return nil, fmt.Errorf("no JSON found in model output")
}
