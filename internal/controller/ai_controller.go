package controller

import (
	"agency-ops-be/internal/dto"
	"agency-ops-be/internal/pkg/serverutils"
	"agency-ops-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAiController interface {
	RegisterRoutes(r fiber.Router)
	Invoke(ctx *fiber.Ctx) error
	ListProviderConfigs(ctx *fiber.Ctx) error
	UpdateModelPolicy(ctx *fiber.Ctx) error
}

type aiController struct {
	aiService service.IAiService
}

func NewAiController(aiService service.IAiService) IAiController {
	return &aiController{
		aiService: aiService,
	}
}

func (c *aiController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/ai/v1")
	h.Post("invoke", c.Invoke)
	h.Get("providers", c.ListProviderConfigs)
	h.Put("providers/:providerId/policy", c.UpdateModelPolicy)
}

func (c *aiController) Invoke(ctx *fiber.Ctx) error {
	var req dto.InvokeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.aiService.Invoke(ctx.Context(), &req)
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}

	return ctx.JSON(serverutils.SuccessResponse("Success invoke model", res))
}

func (c *aiController) ListProviderConfigs(ctx *fiber.Ctx) error {
	res, err := c.aiService.GetProviderConfigs(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list provider configs", res))
}

func (c *aiController) UpdateModelPolicy(ctx *fiber.Ctx) error {
	providerId := ctx.Params("providerId")

	var req dto.UpdateModelPolicyRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.aiService.UpdateModelPolicy(ctx.Context(), providerId, &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Model policy updated", nil))
}
