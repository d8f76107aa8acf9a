package contract

import (
	"context"

	"agency-ops-be/internal/entity"
	"agency-ops-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ScoredKnowledgeChunk wraps a chunk with its similarity score
type ScoredKnowledgeChunk struct {
	Chunk      *entity.KnowledgeChunk
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

type IKnowledgeChunkRepository interface {
	CreateBulk(ctx context.Context, chunks []*entity.KnowledgeChunk) error
	DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.KnowledgeChunk, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchSimilarWithScore returns chunks owned by ownerId whose cosine
	// similarity to the query embedding exceeds threshold, best first.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, ownerId uuid.UUID, threshold float64) ([]*ScoredKnowledgeChunk, error)
}
