package utils

import (
	"strings"
	"testing"
)

func TestSplitText(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		chunkSize  int
		overlap    int
		wantChunks int
	}{
		{
			name:       "empty text yields no chunks",
			text:       "",
			chunkSize:  100,
			overlap:    10,
			wantChunks: 0,
		},
		{
			name:       "whitespace only yields no chunks",
			text:       "   \n\t  ",
			chunkSize:  100,
			overlap:    10,
			wantChunks: 0,
		},
		{
			name:       "zero chunk size returns whole text",
			text:       strings.Repeat("a", 5000),
			chunkSize:  0,
			overlap:    0,
			wantChunks: 1,
		},
		{
			name:       "negative chunk size returns whole text",
			text:       "hello world",
			chunkSize:  -1,
			overlap:    0,
			wantChunks: 1,
		},
		{
			name:       "text shorter than chunk size",
			text:       "short text",
			chunkSize:  100,
			overlap:    10,
			wantChunks: 1,
		},
		{
			name:       "3000 chars at 1200/200 yields 3 chunks",
			text:       strings.Repeat("x", 3000),
			chunkSize:  1200,
			overlap:    200,
			wantChunks: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := SplitText(tt.text, tt.chunkSize, tt.overlap)

			if len(chunks) != tt.wantChunks {
				t.Fatalf("chunk count = %d, want %d", len(chunks), tt.wantChunks)
			}

			for i, chunk := range chunks {
				if tt.chunkSize > 0 && len([]rune(chunk)) > tt.chunkSize {
					t.Errorf("chunk %d has %d runes, exceeds max %d", i, len([]rune(chunk)), tt.chunkSize)
				}
			}
		})
	}
}

func TestSplitTextOverlap(t *testing.T) {
	text := strings.Repeat("abcdefghij", 300) // 3000 chars
	chunks := SplitText(text, 1200, 200)

	if len(chunks) != 3 {
		t.Fatalf("chunk count = %d, want 3", len(chunks))
	}

	// Each chunk must begin with the last 200 chars of the previous one.
	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1]
		tail := prev[len(prev)-200:]
		if !strings.HasPrefix(chunks[i], tail) {
			t.Errorf("chunk %d does not start with the previous chunk's 200-char tail", i)
		}
	}
}

func TestSplitTextZeroOverlapReconstruction(t *testing.T) {
	text := strings.Repeat("0123456789", 250) // 2500 chars
	chunks := SplitText(text, 1000, 0)

	if got := strings.Join(chunks, ""); got != text {
		t.Error("concatenated zero-overlap chunks do not reconstruct the original text")
	}
}

func TestSplitTextDeterminism(t *testing.T) {
	text := strings.Repeat("lorem ipsum dolor sit amet ", 200)

	first := SplitText(text, 500, 100)
	second := SplitText(text, 500, 100)

	if len(first) != len(second) {
		t.Fatalf("chunk counts differ across runs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("chunk %d differs across runs", i)
		}
	}
}

func TestSplitTextOverlapLargerThanChunk(t *testing.T) {
	text := strings.Repeat("z", 500)
	chunks := SplitText(text, 100, 150)

	// Overlap >= chunkSize falls back to non-overlapping steps instead of
	// looping forever.
	if len(chunks) != 5 {
		t.Fatalf("chunk count = %d, want 5", len(chunks))
	}
}
