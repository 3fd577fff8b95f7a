package websocket

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/harborchat/chat_backend/chat"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins
	},
}

// HandleConnection upgrades the request and starts the session pumps.
// Connections begin anonymous; identity binds when the peer sends
// register-user or join-room.
func HandleConnection(hub *Hub, core *chat.Core) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("error upgrading connection: %v", err)
			return
		}

		client := &Client{
			hub:       hub,
			core:      core,
			conn:      conn,
			send:      make(chan []byte, 256),
			sessionID: uuid.NewString(),
		}

		client.hub.Register(client)

		go client.writePump()
		go client.readPump()

		core.Connected(client.sessionID)
	}
}
