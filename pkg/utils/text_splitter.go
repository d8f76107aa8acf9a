package utils

import "strings"

// SplitText splits a long string into chunks of at most 'chunkSize' characters.
// Consecutive chunks overlap by 'overlap' characters to preserve context at
// boundaries. This is a simple character-based splitter; a tokenizer-aware
// splitter would be more precise but is not worth the dependency here.
//
// Degenerate cases:
//   - empty or whitespace-only text yields no chunks
//   - chunkSize <= 0 yields a single chunk containing the whole text
func SplitText(text string, chunkSize int, overlap int) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	if chunkSize <= 0 {
		return []string{text}
	}

	runes := []rune(text)
	totalLen := len(runes)

	step := chunkSize - overlap
	if step <= 0 {
		step = chunkSize // fallback if overlap >= chunkSize
	}

	var chunks []string
	for i := 0; i < totalLen; i += step {
		end := i + chunkSize
		if end > totalLen {
			end = totalLen
		}

		chunks = append(chunks, string(runes[i:end]))

		if end == totalLen {
			break
		}
	}

	return chunks
}
