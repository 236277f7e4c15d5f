package controller

import (
	"techno-ai-be/internal/dto"
	"techno-ai-be/internal/pkg/serverutils"
	"techno-ai-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router)
	Register(ctx *fiber.Ctx) error
	Login(ctx *fiber.Ctx) error
	GoogleLogin(ctx *fiber.Ctx) error
	Test(ctx *fiber.Ctx) error
}

type authController struct {
	service service.IAuthService
}

func NewAuthController(service service.IAuthService) IAuthController {
	return &authController{service: service}
}

func (c *authController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth")
	h.Get("/test", c.Test)
	h.Post("/register", c.Register)
	h.Post("/login", c.Login)
	h.Post("/google", c.GoogleLogin)
}

func (c *authController) Test(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse[any]("Auth routes are working!", nil))
}

func (c *authController) Register(ctx *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewBadRequestError("Invalid request body")
	}

	res, err := c.service.Register(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.CreatedResponse("User registered successfully", res))
}

func (c *authController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewBadRequestError("Invalid request body")
	}

	res, err := c.service.Login(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Login successful", res))
}

// GoogleLogin accepts a profile already verified by the client-side Google
// sign-in.
func (c *authController) GoogleLogin(ctx *fiber.Ctx) error {
	var req dto.GoogleLoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewBadRequestError("Invalid request body")
	}

	res, err := c.service.GoogleLogin(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	if res.Created {
		return ctx.Status(fiber.StatusCreated).JSON(serverutils.CreatedResponse("Google registration successful", res))
	}
	return ctx.JSON(serverutils.SuccessResponse("Google login successful", res))
}
