package websocket

import (
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ServeWs handles websocket requests from the peer. locationID may be
// uuid.Nil for notification-only connections.
func ServeWs(hub *Hub, c *websocket.Conn, userID, locationID uuid.UUID) {
	client := &Client{Hub: hub, Conn: c, UserID: userID, LocationID: locationID, Send: make(chan []byte, 256)}
	client.Hub.register <- client

	go client.writePump()
	client.readPump() // Run readPump in current goroutine (handler)
}
