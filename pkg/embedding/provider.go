package embedding

import (
	"context"
	"math"
)

// IndexedEmbedding is one vector tagged with the index of the input it was
// computed for. Providers are not guaranteed to preserve input order, so
// callers must pair by Index, not by position.
type IndexedEmbedding struct {
	Index  int
	Values []float32
}

// Provider generates embeddings for a batch of inputs in a single call.
type Provider interface {
	EmbedBatch(ctx context.Context, inputs []string, taskType string) ([]IndexedEmbedding, error)
}

// normalizeVector normalizes a vector to unit length (magnitude = 1).
// Cosine distance in pgvector requires normalized vectors for accurate
// similarity scores.
func normalizeVector(vec []float32) []float32 {
	var magnitude float64
	for _, v := range vec {
		magnitude += float64(v) * float64(v)
	}
	magnitude = math.Sqrt(magnitude)

	if magnitude == 0 {
		return vec
	}

	normalized := make([]float32, len(vec))
	for i, v := range vec {
		normalized[i] = float32(float64(v) / magnitude)
	}
	return normalized
}
