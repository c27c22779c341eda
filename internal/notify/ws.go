package notify

import (
	"gig-marketplace-api/internal/middleware"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo"
)

const (
	pingInterval = 30 * time.Second
	writeWait    = 5 * time.Second
	maxReadSize  = 512
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWS upgrades the request to a websocket and keeps the user in the
// online registry until the connection drops. Browsers can't set headers on
// websocket requests, so the JWT comes in as a query parameter.
func (h *Hub) ServeWS(secret []byte) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, err := middleware.ParseToken(c.QueryParam("token"), secret)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"reason": "Invalid token"})
		}

		conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			log.Println("websocket upgrade failed:", err)
			return nil
		}

		cl := &client{
			userID: claims.UserID,
			conn:   conn,
			send:   make(chan []byte, clientSendBuffer),
		}
		h.add(cl)

		go cl.writePump()
		cl.readPump(h)

		return nil
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case data := <-c.send:
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

// readPump discards inbound frames; the socket is push-only. It exists to
// detect the close and purge the registry entry. The send channel is never
// closed, because Notify may still hold a reference to this client; the
// write pump exits on its next failed write instead.
func (c *client) readPump(h *Hub) {
	defer func() {
		h.remove(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxReadSize)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
