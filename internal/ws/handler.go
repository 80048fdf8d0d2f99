package ws

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// Handler upgrades a connection into the live feed. The token carries the
// section the client is allowed to watch.
func Handler(hub *Hub, tokens *TokenService) fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		claims, err := tokens.ValidateToken(c.Query("token"))
		if err != nil {
			_ = c.Close()
			return
		}

		client := &Client{
			hub:     hub,
			conn:    c,
			section: claims.Section,
			send:    make(chan []byte, 256),
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
