package handlers

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"carelink-backend/internal/models"
	"carelink-backend/internal/realtime"
	"carelink-backend/internal/services"
	"carelink-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ChatDeps is what a websocket connection needs to serve the chat and list screens.
type ChatDeps struct {
	Chat          *services.ChatService
	Conversations *services.ConversationService
	Hub           *realtime.Hub
	Presence      *Presence
}

// wsSession is one open websocket. Only the read loop changes room and list; the feed
// goroutines each own the fold they write to.
type wsSession struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
	session *models.Session
	connID  string
	deps    ChatDeps

	roomID  int64
	roomSub *realtime.Subscription
	listSub *realtime.Subscription
	feeds   sync.WaitGroup
}

func (ws *wsSession) send(payload interface{}) {
	utils.LogError(utils.SendJSON(&ws.writeMu, ws.conn, payload), "SendJSON")
}

func (ws *wsSession) sendError(room int64, err error) {
	ws.send(models.WSMessage{
		Event:     "error",
		Room:      room,
		Error:     err.Error(),
		Timestamp: time.Now().UnixMilli(),
	})
}

// follow runs a feed goroutine that teardown waits for.
func (ws *wsSession) follow(fn func()) {
	ws.feeds.Add(1)
	go func() {
		defer ws.feeds.Done()
		fn()
	}()
}

// unsubscribe releases every subscription the connection holds. Feeds end once their
// channel drains, or on their next failed write.
func (ws *wsSession) unsubscribe() {
	if ws.roomSub != nil {
		ws.roomSub.Close()
		ws.roomSub = nil
	}
	if ws.listSub != nil {
		ws.listSub.Close()
		ws.listSub = nil
	}
}

// WebSocketHandler handles the websocket connection
func WebSocketHandler(deps ChatDeps) fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		session, ok := c.Locals(sessionKey).(*models.Session)
		if !ok || session == nil {
			_ = c.Close()
			return
		}

		ws := &wsSession{
			conn:    c,
			session: session,
			connID:  uuid.New().String(),
			deps:    deps,
		}

		if deps.Presence.RegisterConnection(ws.connID, session.UserID, session.Name) {
			slog.Debug("ws: User online", "user_id", session.UserID)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer func() {
			cancel()
			ws.unsubscribe()
			// Closing the socket first unblocks a feed stuck writing to a dead peer.
			c.Close()
			ws.feeds.Wait()
			if deps.Presence.UnregisterConnection(ws.connID) {
				slog.Debug("ws: User offline", "user_id", session.UserID)
			}
		}()

		ws.send(fiber.Map{
			"event":   "connected",
			"user_id": session.UserID,
		})

		for {
			msgType, msg, err := c.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					utils.LogError(err, "ReadMessage")
				}
				break
			}

			handleMessage(ctx, ws, msgType, msg)
		}
	})
}
