package controller

import (
	"net/url"

	"techno-ai-be/internal/dto"
	"techno-ai-be/internal/pkg/serverutils"
	"techno-ai-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IMessageController interface {
	RegisterRoutes(r fiber.Router)
	Titles(ctx *fiber.Ctx) error
	Messages(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	CreateBatch(ctx *fiber.Ctx) error
	Rename(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type messageController struct {
	service service.IMessageService
}

func NewMessageController(service service.IMessageService) IMessageController {
	return &messageController{service: service}
}

func (c *messageController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/messages")
	h.Use(serverutils.JwtMiddleware)
	h.Get("/titles", c.Titles)
	h.Get("/chat/:title", c.Messages)
	h.Post("/", c.Create)
	h.Post("/batch", c.CreateBatch)
	h.Put("/chat/:title", c.Rename)
	h.Delete("/chat/:title", c.Delete)
}

func (c *messageController) Titles(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Summaries(ctx.UserContext(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Chat titles retrieved", res))
}

func (c *messageController) Messages(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}
	title, err := titleParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Messages(ctx.UserContext(), userId, title)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Messages retrieved", res))
}

func (c *messageController) Create(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewBadRequestError("Invalid request body")
	}

	res, err := c.service.Create(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.CreatedResponse("Message saved", res))
}

func (c *messageController) CreateBatch(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateMessagesBatchRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewBadRequestError("Invalid request body")
	}

	res, err := c.service.CreateBatch(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.CreatedResponse("Messages saved", res))
}

func (c *messageController) Rename(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}
	title, err := titleParam(ctx)
	if err != nil {
		return err
	}

	var req dto.RenameConversationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewBadRequestError("Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Rename(ctx.UserContext(), userId, title, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Chat renamed", res))
}

func (c *messageController) Delete(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}
	title, err := titleParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Delete(ctx.UserContext(), userId, title)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Chat deleted", res))
}

// titleParam decodes the percent-encoded :title segment.
func titleParam(ctx *fiber.Ctx) (string, error) {
	title, err := url.PathUnescape(ctx.Params("title"))
	if err != nil {
		return "", serverutils.NewBadRequestError("Invalid chat title")
	}
	return title, nil
}
