package dto

import (
	"time"

	"github.com/google/uuid"
)

type IngestKnowledgeRequest struct {
	OwnerId    uuid.UUID              `json:"owner_id" validate:"required"`
	Title      string                 `json:"title"`
	SourceType string                 `json:"source_type"`
	RawText    string                 `json:"raw_text" validate:"required"`
	Metadata   map[string]interface{} `json:"metadata"`
}

type IngestKnowledgeResponse struct {
	DocumentId    uuid.UUID `json:"document_id"`
	ChunksCreated int       `json:"chunks_created"`
}

type SearchKnowledgeRequest struct {
	OwnerId             uuid.UUID `json:"owner_id" validate:"required"`
	Query               string    `json:"query" validate:"required"`
	TopK                int       `json:"top_k"`
	SimilarityThreshold float64   `json:"similarity_threshold"`
}

type KnowledgeMatchResponse struct {
	ChunkId    uuid.UUID `json:"chunk_id"`
	DocumentId uuid.UUID `json:"document_id"`
	ChunkIndex int       `json:"chunk_index"`
	Content    string    `json:"content"`
	Similarity float64   `json:"similarity"`
}

type KnowledgeDocumentResponse struct {
	Id         uuid.UUID  `json:"id"`
	OwnerId    uuid.UUID  `json:"owner_id"`
	Title      string     `json:"title"`
	SourceType string     `json:"source_type"`
	ChunkCount int64      `json:"chunk_count"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at"`
}

type UpdateKnowledgeDocumentRequest struct {
	Id      uuid.UUID
	Title   *string `json:"title"`
	RawText *string `json:"raw_text"`
}

// ReindexDocumentMessage is the payload published on the reindex topic when
// a document's raw text changes.
type ReindexDocumentMessage struct {
	DocumentId uuid.UUID `json:"document_id"`
}
