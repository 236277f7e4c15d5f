package controller

import (
	"fmt"

	"techno-ai-be/internal/pkg/logger"
	"techno-ai-be/internal/pkg/serverutils"
	"techno-ai-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IOAuthController interface {
	RegisterRoutes(r fiber.Router)
	Login(ctx *fiber.Ctx) error
	Callback(ctx *fiber.Ctx) error
}

type oauthController struct {
	service   service.IOAuthService
	clientURL string
	logger    logger.ILogger
}

func NewOAuthController(service service.IOAuthService, clientURL string, logger logger.ILogger) IOAuthController {
	return &oauthController{service: service, clientURL: clientURL, logger: logger}
}

func (c *oauthController) RegisterRoutes(r fiber.Router) {
	// e.g., /auth/oauth/google
	h := r.Group("/auth/oauth")
	h.Get("/:provider", c.Login)
	h.Get("/:provider/callback", c.Callback)
}

func (c *oauthController) Login(ctx *fiber.Ctx) error {
	provider := ctx.Params("provider")

	url, err := c.service.GetLoginURL(provider, ctx.QueryBool("agreed_to_terms"))
	if err != nil {
		return err
	}
	return ctx.Redirect(url)
}

func (c *oauthController) Callback(ctx *fiber.Ctx) error {
	provider := ctx.Params("provider")
	code := ctx.Query("code")
	if code == "" {
		return serverutils.NewBadRequestError("Missing code")
	}

	res, err := c.service.HandleCallback(ctx.UserContext(), provider, ctx.Query("state"), code)
	if err != nil {
		c.logger.Warn("OAuthController", "Callback failed", map[string]interface{}{
			"provider": provider,
			"error":    err.Error(),
		})
		return err
	}

	return ctx.Redirect(fmt.Sprintf("%s/app?token=%s", c.clientURL, res.Token), fiber.StatusTemporaryRedirect)
}
