package controller

import (
	"techno-ai-be/internal/pkg/logger"
	"techno-ai-be/internal/pkg/serverutils"
	internalWS "techno-ai-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type IWebsocketController interface {
	RegisterRoutes(r fiber.Router)
	ServeWs(ctx *fiber.Ctx) error
}

type websocketController struct {
	hub    *internalWS.Hub
	logger logger.ILogger
}

func NewWebsocketController(hub *internalWS.Hub, logger logger.ILogger) IWebsocketController {
	return &websocketController{hub: hub, logger: logger}
}

func (c *websocketController) RegisterRoutes(r fiber.Router) {
	r.Get("/ws", c.ServeWs)
}

// ServeWs authenticates the handshake, then hands the connection to the hub.
func (c *websocketController) ServeWs(ctx *fiber.Ctx) error {
	tokenStr := serverutils.TokenFromRequest(ctx)
	if tokenStr == "" {
		return serverutils.NewUnauthorizedError("Missing token")
	}

	userID, err := serverutils.ParseToken(tokenStr)
	if err != nil {
		c.logger.Warn("WebsocketController", "Invalid token in handshake", map[string]interface{}{"ip": ctx.IP()})
		return serverutils.NewUnauthorizedError("Invalid token")
	}

	if websocket.IsWebSocketUpgrade(ctx) {
		return websocket.New(func(conn *websocket.Conn) {
			c.logger.Info("WebsocketController", "Session started", map[string]interface{}{"user_id": userID})
			internalWS.ServeWs(c.hub, conn, userID)
			c.logger.Info("WebsocketController", "Session ended", map[string]interface{}{"user_id": userID})
		})(ctx)
	}
	return fiber.ErrUpgradeRequired
}
