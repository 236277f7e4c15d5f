package controller

import (
	"techno-ai-be/internal/dto"
	"techno-ai-be/internal/pkg/serverutils"
	"techno-ai-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	State(ctx *fiber.Ctx) error
	Send(ctx *fiber.Ctx) error
	NewConversation(ctx *fiber.Ctx) error
	Switch(ctx *fiber.Ctx) error
	Rename(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Conversations(ctx *fiber.Ctx) error
	Format(ctx *fiber.Ctx) error
}

type chatController struct {
	service service.IChatService
}

func NewChatController(service service.IChatService) IChatController {
	return &chatController{service: service}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat")
	h.Use(serverutils.JwtMiddleware)
	h.Get("/state", c.State)
	h.Post("/send", c.Send)
	h.Post("/new", c.NewConversation)
	h.Post("/switch", c.Switch)
	h.Put("/rename", c.Rename)
	h.Get("/conversations", c.Conversations)
	h.Delete("/conversations/:title", c.Delete)
	h.Post("/format", c.Format)
}

func (c *chatController) State(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.State(ctx.UserContext(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Chat state retrieved", res))
}

func (c *chatController) Send(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	var req dto.SendChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewBadRequestError("Invalid request body")
	}

	res, err := c.service.Send(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Message sent", res))
}

func (c *chatController) NewConversation(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.NewConversation(ctx.UserContext(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("New conversation started", res))
}

func (c *chatController) Switch(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	var req dto.SwitchConversationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewBadRequestError("Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Switch(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Conversation loaded", res))
}

func (c *chatController) Rename(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	var req dto.RenameChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewBadRequestError("Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Rename(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Conversation renamed", res))
}

func (c *chatController) Delete(ctx *fiber.Ctx) error {
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
	return ctx.JSON(serverutils.SuccessResponse("Conversation deleted", res))
}

func (c *chatController) Conversations(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Conversations(ctx.UserContext(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Conversations retrieved", res))
}

func (c *chatController) Format(ctx *fiber.Ctx) error {
	var req dto.FormatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewBadRequestError("Invalid request body")
	}
	return ctx.JSON(serverutils.SuccessResponse("Content formatted", c.service.Format(&req)))
}
