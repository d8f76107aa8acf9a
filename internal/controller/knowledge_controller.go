package controller

import (
	"agency-ops-be/internal/dto"
	"agency-ops-be/internal/pkg/serverutils"
	"agency-ops-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IKnowledgeController interface {
	RegisterRoutes(r fiber.Router)
	Ingest(ctx *fiber.Ctx) error
	Search(ctx *fiber.Ctx) error
	ListDocuments(ctx *fiber.Ctx) error
	UpdateDocument(ctx *fiber.Ctx) error
	DeleteDocument(ctx *fiber.Ctx) error
}

type knowledgeController struct {
	knowledgeService service.IKnowledgeService
}

func NewKnowledgeController(knowledgeService service.IKnowledgeService) IKnowledgeController {
	return &knowledgeController{
		knowledgeService: knowledgeService,
	}
}

func (c *knowledgeController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/knowledge/v1")
	h.Post("ingest", c.Ingest)
	h.Post("search", c.Search)
	h.Get("documents", c.ListDocuments)
	h.Put("documents/:id", c.UpdateDocument)
	h.Delete("documents/:id", c.DeleteDocument)
}

func (c *knowledgeController) Ingest(ctx *fiber.Ctx) error {
	var req dto.IngestKnowledgeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.knowledgeService.Ingest(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success ingest document", res))
}

func (c *knowledgeController) Search(ctx *fiber.Ctx) error {
	var req dto.SearchKnowledgeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	topK := req.TopK
	if topK <= 0 {
		topK = 5
	}
	threshold := req.SimilarityThreshold
	if threshold <= 0 {
		threshold = 0.3
	}

	matches := c.knowledgeService.Search(ctx.Context(), req.OwnerId, req.Query, topK, threshold)

	res := make([]dto.KnowledgeMatchResponse, len(matches))
	for i, match := range matches {
		res[i] = dto.KnowledgeMatchResponse{
			ChunkId:    match.Chunk.Id,
			DocumentId: match.Chunk.DocumentId,
			ChunkIndex: match.Chunk.ChunkIndex,
			Content:    match.Chunk.Content,
			Similarity: match.Similarity,
		}
	}

	return ctx.JSON(serverutils.SuccessResponse("Success search knowledge", res))
}

func (c *knowledgeController) ListDocuments(ctx *fiber.Ctx) error {
	ownerIdParam := ctx.Query("owner_id", "")
	ownerId, err := uuid.Parse(ownerIdParam)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid owner_id")
	}

	res, err := c.knowledgeService.GetDocuments(ctx.Context(), ownerId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list documents", res))
}

func (c *knowledgeController) UpdateDocument(ctx *fiber.Ctx) error {
	idParam := ctx.Params("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid document id")
	}

	var req dto.UpdateKnowledgeDocumentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.Id = id

	if err := c.knowledgeService.UpdateDocument(ctx.Context(), &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success update document", nil))
}

func (c *knowledgeController) DeleteDocument(ctx *fiber.Ctx) error {
	idParam := ctx.Params("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid document id")
	}

	if err := c.knowledgeService.DeleteDocument(ctx.Context(), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete document", nil))
}
