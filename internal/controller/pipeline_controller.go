package controller

import (
	"agency-ops-be/internal/dto"
	"agency-ops-be/internal/pkg/serverutils"
	"agency-ops-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IPipelineController interface {
	RegisterRoutes(r fiber.Router)
	Kickoff(ctx *fiber.Ctx) error
}

type pipelineController struct {
	pipelineService service.IPipelineService
}

func NewPipelineController(pipelineService service.IPipelineService) IPipelineController {
	return &pipelineController{
		pipelineService: pipelineService,
	}
}

func (c *pipelineController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/pipeline/v1")
	h.Post("kickoff", c.Kickoff)
}

func (c *pipelineController) Kickoff(ctx *fiber.Ctx) error {
	var req dto.KickoffRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.pipelineService.Kickoff(ctx.Context(), &req)
	if err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}

	return ctx.JSON(serverutils.SuccessResponse("Success run pipeline", res))
}
