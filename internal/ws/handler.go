package ws

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

func Handler(hub *Hub) fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		operatorValue := c.Locals("operator")
		if operatorValue == nil {
			_ = c.Close()
			return
		}

		operator, ok := operatorValue.(string)
		if !ok {
			_ = c.Close()
			return
		}

		client := &Client{
			hub:      hub,
			conn:     c,
			operator: operator,
			send:     make(chan []byte, 256),
		}

		hub.register <- client

		go client.WritePump()
		client.ReadPump()
	})
}

func UpgradeMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}
}
