package controller

import (
	"techno-ai-be/internal/dto"
	"techno-ai-be/internal/pkg/serverutils"
	"techno-ai-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAiController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
}

type aiController struct {
	service service.ICompletionService
}

func NewAiController(service service.ICompletionService) IAiController {
	return &aiController{service: service}
}

func (c *aiController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/ai")
	h.Get("/health", c.Health)
	h.Post("/chat", serverutils.JwtMiddleware, c.Chat)
}

func (c *aiController) Chat(ctx *fiber.Ctx) error {
	var req dto.AiChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewBadRequestError("Invalid request body")
	}

	res, err := c.service.Chat(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Response generated", res))
}

func (c *aiController) Health(ctx *fiber.Ctx) error {
	res := c.service.Health(ctx.UserContext())

	switch res.Status {
	case "ok":
		return ctx.JSON(serverutils.SuccessResponse("Backend and Gemini API are working properly", res))
	case "unconfigured":
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(&serverutils.BaseResponse[*dto.AiHealthResponse]{
			Code:    fiber.StatusServiceUnavailable,
			Message: "Gemini API key not configured in backend",
			Data:    res,
		})
	default:
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(&serverutils.BaseResponse[*dto.AiHealthResponse]{
			Code:    fiber.StatusServiceUnavailable,
			Message: "Gemini API is not responding correctly",
			Data:    res,
		})
	}
}
