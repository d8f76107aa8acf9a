package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"agency-ops-be/internal/dto"
	"agency-ops-be/internal/entity"
	"agency-ops-be/internal/pkg/logger"
	"agency-ops-be/internal/repository/contract"
	"agency-ops-be/internal/repository/specification"
	"agency-ops-be/internal/repository/unitofwork"
	"agency-ops-be/pkg/embedding"
	"agency-ops-be/pkg/events"
	pkgNats "agency-ops-be/pkg/nats"
	"agency-ops-be/pkg/utils"

	"github.com/google/uuid"
)

// contextQueries are the canonical probes used to assemble a compact brand
// profile without a caller-supplied query.
var contextQueries = []string{
	"brand voice and personality",
	"brand values and mission",
	"target audience and customers",
	"visual identity and guidelines",
}

const contextSummaryLimit = 8

type IKnowledgeService interface {
	Ingest(ctx context.Context, req *dto.IngestKnowledgeRequest) (*dto.IngestKnowledgeResponse, error)
	Search(ctx context.Context, ownerId uuid.UUID, query string, topK int, threshold float64) []*contract.ScoredKnowledgeChunk
	BuildContextSummary(ctx context.Context, ownerId uuid.UUID) string
	ReindexDocument(ctx context.Context, documentId uuid.UUID) error
	GetDocuments(ctx context.Context, ownerId uuid.UUID) ([]*dto.KnowledgeDocumentResponse, error)
	UpdateDocument(ctx context.Context, req *dto.UpdateKnowledgeDocumentRequest) error
	DeleteDocument(ctx context.Context, id uuid.UUID) error
}

type knowledgeService struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.Provider
	reindexPublisher  IReindexPublisherService
	eventPublisher    *pkgNats.Publisher // nil when NATS is unavailable
	logger            logger.ILogger
	chunkSize         int
	chunkOverlap      int
}

func NewKnowledgeService(
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.Provider,
	reindexPublisher IReindexPublisherService,
	eventPublisher *pkgNats.Publisher,
	sysLogger logger.ILogger,
	chunkSize int,
	chunkOverlap int,
) IKnowledgeService {
	return &knowledgeService{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		reindexPublisher:  reindexPublisher,
		eventPublisher:    eventPublisher,
		logger:            sysLogger,
		chunkSize:         chunkSize,
		chunkOverlap:      chunkOverlap,
	}
}

// Ingest creates the document, chunks its text, embeds all chunks in one
// batch call and persists chunk+vector pairs.
func (s *knowledgeService) Ingest(ctx context.Context, req *dto.IngestKnowledgeRequest) (*dto.IngestKnowledgeResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sourceType := req.SourceType
	if sourceType == "" {
		sourceType = "manual"
	}

	doc := &entity.KnowledgeDocument{
		Id:         uuid.New(),
		OwnerId:    req.OwnerId,
		Title:      req.Title,
		SourceType: sourceType,
		RawText:    req.RawText,
		Metadata:   req.Metadata,
	}

	// Document and chunks land together or not at all: an embed or bulk
	// insert failure must not leave an orphan document behind.
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.KnowledgeDocumentRepository().Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}

	created, err := s.embedAndStore(ctx, uow, doc)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, "KNOWLEDGE_INGESTED", map[string]interface{}{
		"document_id": doc.Id.String(),
		"owner_id":    doc.OwnerId.String(),
		"chunks":      created,
	})

	return &dto.IngestKnowledgeResponse{
		DocumentId:    doc.Id,
		ChunksCreated: created,
	}, nil
}

// publishEvent mirrors a knowledge mutation onto the ops bus. Best-effort:
// a publish failure is logged and swallowed.
func (s *knowledgeService) publishEvent(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.eventPublisher == nil {
		return
	}

	event := events.BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Warn("knowledge", "failed to publish ops event", map[string]interface{}{
			"event_type": eventType,
			"error":      err.Error(),
		})
	}
}

// embedAndStore chunks one document and persists the embedded chunks.
// Providers may return vectors in any order, so results are re-sorted by
// their declared index before being paired back with source chunks.
func (s *knowledgeService) embedAndStore(ctx context.Context, uow unitofwork.UnitOfWork, doc *entity.KnowledgeDocument) (int, error) {
	chunks := utils.SplitText(doc.RawText, s.chunkSize, s.chunkOverlap)
	if len(chunks) == 0 {
		return 0, nil
	}

	vectors, err := s.embeddingProvider.EmbedBatch(ctx, chunks, "RETRIEVAL_DOCUMENT")
	if err != nil {
		return 0, fmt.Errorf("embed document %s: %w", doc.Id, err)
	}
	if len(vectors) != len(chunks) {
		return 0, fmt.Errorf("embed document %s: got %d vectors for %d chunks", doc.Id, len(vectors), len(chunks))
	}

	sort.Slice(vectors, func(i, j int) bool {
		return vectors[i].Index < vectors[j].Index
	})

	newChunks := make([]*entity.KnowledgeChunk, len(chunks))
	for i, content := range chunks {
		newChunks[i] = &entity.KnowledgeChunk{
			Id:         uuid.New(),
			DocumentId: doc.Id,
			ChunkIndex: i,
			Content:    content,
			Embedding:  vectors[i].Values,
		}
	}

	if err := uow.KnowledgeChunkRepository().CreateBulk(ctx, newChunks); err != nil {
		return 0, fmt.Errorf("persist chunks for document %s: %w", doc.Id, err)
	}

	return len(newChunks), nil
}

// Search embeds the query and asks the store for the topK most similar
// chunks. Retrieval is an enhancement, not a correctness requirement, so any
// failure is logged and an empty result is returned.
func (s *knowledgeService) Search(ctx context.Context, ownerId uuid.UUID, query string, topK int, threshold float64) []*contract.ScoredKnowledgeChunk {
	vectors, err := s.embeddingProvider.EmbedBatch(ctx, []string{query}, "RETRIEVAL_QUERY")
	if err != nil || len(vectors) == 0 {
		reason := "empty embedding response"
		if err != nil {
			reason = err.Error()
		}
		s.logger.Warn("knowledge", "query embedding failed, returning no matches", map[string]interface{}{
			"owner_id": ownerId.String(),
			"error":    reason,
		})
		return nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	matches, err := uow.KnowledgeChunkRepository().SearchSimilarWithScore(ctx, vectors[0].Values, topK, ownerId, threshold)
	if err != nil {
		s.logger.Warn("knowledge", "similarity search failed, returning no matches", map[string]interface{}{
			"owner_id": ownerId.String(),
			"error":    err.Error(),
		})
		return nil
	}

	return matches
}

// BuildContextSummary runs the canonical queries against one owner, merges
// and de-duplicates the matches by chunk identity, and concatenates the top
// results into a compact brand profile.
func (s *knowledgeService) BuildContextSummary(ctx context.Context, ownerId uuid.UUID) string {
	seen := make(map[uuid.UUID]bool)
	var merged []*contract.ScoredKnowledgeChunk

	for _, query := range contextQueries {
		for _, match := range s.Search(ctx, ownerId, query, 5, 0.3) {
			if seen[match.Chunk.Id] {
				continue
			}
			seen[match.Chunk.Id] = true
			merged = append(merged, match)
		}
	}

	sort.Slice(merged, func(i, j int) bool {
		return merged[i].Similarity > merged[j].Similarity
	})

	if len(merged) > contextSummaryLimit {
		merged = merged[:contextSummaryLimit]
	}

	parts := make([]string, len(merged))
	for i, match := range merged {
		parts[i] = match.Chunk.Content
	}
	return strings.Join(parts, "\n\n")
}

// ReindexDocument replaces a document's chunk set after its text changed.
// Called from the reindex consumer, not from request handlers.
func (s *knowledgeService) ReindexDocument(ctx context.Context, documentId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.KnowledgeDocumentRepository().FindOne(ctx, specification.ByID{ID: documentId})
	if err != nil {
		return fmt.Errorf("load document %s: %w", documentId, err)
	}
	if doc == nil {
		return fmt.Errorf("document %s not found", documentId)
	}

	// The old chunk set is only dropped if the new one makes it in.
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.KnowledgeChunkRepository().DeleteByDocumentId(ctx, documentId); err != nil {
		return fmt.Errorf("clear chunks for document %s: %w", documentId, err)
	}

	created, err := s.embedAndStore(ctx, uow, doc)
	if err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	s.logger.Info("knowledge", "document reindexed", map[string]interface{}{
		"document_id": documentId.String(),
		"chunks":      created,
	})
	return nil
}

func (s *knowledgeService) GetDocuments(ctx context.Context, ownerId uuid.UUID) ([]*dto.KnowledgeDocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	docs, err := uow.KnowledgeDocumentRepository().FindAll(ctx,
		specification.ByOwner{OwnerId: ownerId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.KnowledgeDocumentResponse, len(docs))
	for i, doc := range docs {
		count, err := uow.KnowledgeChunkRepository().Count(ctx, specification.ByDocument{DocumentId: doc.Id})
		if err != nil {
			count = 0
		}
		responses[i] = &dto.KnowledgeDocumentResponse{
			Id:         doc.Id,
			OwnerId:    doc.OwnerId,
			Title:      doc.Title,
			SourceType: doc.SourceType,
			ChunkCount: count,
			CreatedAt:  doc.CreatedAt,
			UpdatedAt:  doc.UpdatedAt,
		}
	}
	return responses, nil
}

// UpdateDocument applies metadata/text changes. A text change publishes a
// reindex message instead of re-embedding inline.
func (s *knowledgeService) UpdateDocument(ctx context.Context, req *dto.UpdateKnowledgeDocumentRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.KnowledgeDocumentRepository().FindOne(ctx, specification.ByID{ID: req.Id})
	if err != nil {
		return err
	}
	if doc == nil {
		return fmt.Errorf("document %s not found", req.Id)
	}

	textChanged := false
	if req.Title != nil {
		doc.Title = *req.Title
	}
	if req.RawText != nil && *req.RawText != doc.RawText {
		doc.RawText = *req.RawText
		textChanged = true
	}

	if err := uow.KnowledgeDocumentRepository().Update(ctx, doc); err != nil {
		return err
	}

	if textChanged && s.reindexPublisher != nil {
		if err := s.reindexPublisher.PublishReindex(ctx, doc.Id); err != nil {
			// Stale chunks are tolerable; the next reindex catches up.
			s.logger.Warn("knowledge", "failed to publish reindex message", map[string]interface{}{
				"document_id": doc.Id.String(),
				"error":       err.Error(),
			})
		}
	}

	return nil
}

func (s *knowledgeService) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.KnowledgeDocumentRepository().Delete(ctx, id)
}
