package controller

import (
	ws "ai-coach-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

type IWsController interface {
	RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler)
}

type wsController struct {
	hub *ws.Hub
}

func NewWsController(hub *ws.Hub) IWsController {
	return &wsController{hub: hub}
}

// RegisterRoutes mounts /ws. Browsers cannot set headers on the upgrade, so
// the token usually arrives as ?token=.
func (c *wsController) RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler) {
	r.Get("/ws", jwtMiddleware, func(ctx *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(ctx) {
			return fiber.ErrUpgradeRequired
		}
		if _, err := athleteID(ctx); err != nil {
			return err
		}
		return ctx.Next()
	}, websocket.New(func(conn *websocket.Conn) {
		userId, _ := uuid.Parse(conn.Locals("user_id").(string))
		ws.ServeWs(c.hub, conn, userId)
	}))
}
