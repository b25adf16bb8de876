package handlers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"carelink-backend/internal/models"
	"carelink-backend/internal/realtime"
	"carelink-backend/internal/services"
	"carelink-backend/internal/utils"

	"github.com/gofiber/websocket/v2"
)

func handleMessage(ctx context.Context, ws *wsSession, msgType int, msg []byte) {
	if msgType != websocket.TextMessage {
		return
	}

	var wsMsg models.WSMessage
	if err := utils.SafeJSONParse(msg, &wsMsg); err != nil {
		utils.LogError(err, "JSON Parse")
		return
	}

	switch wsMsg.Event {
	case "join":
		handleJoin(ctx, ws, wsMsg.Room)
	case "leave":
		handleLeave(ws)
	case "chat":
		handleChat(ctx, ws, &wsMsg)
	case "list":
		handleList(ctx, ws)
	default:
		slog.Debug("ws: Unknown event", "event", wsMsg.Event)
	}
}

func chatEvent(m models.Message) models.WSMessage {
	return models.WSMessage{
		Event:     "chat",
		ID:        m.ID,
		Room:      m.RoomID,
		Text:      m.Content,
		SenderID:  m.SenderID,
		Timestamp: m.CreatedAt.UnixMilli(),
	}
}

func historyItem(m models.Message, viewerID int64) models.ChatHistoryItem {
	return models.ChatHistoryItem{
		ID:            m.ID,
		Room:          m.RoomID,
		Text:          m.Content,
		SenderID:      m.SenderID,
		Timestamp:     m.CreatedAt.UnixMilli(),
		IsYourMessage: m.SenderID == viewerID,
	}
}

// handleJoin subscribes to the room before loading history so nothing inserted in between
// is missed; the thread fold drops the overlap.
func handleJoin(ctx context.Context, ws *wsSession, roomID int64) {
	if roomID <= 0 {
		return
	}
	userID := ws.session.UserID

	detail, err := ws.deps.Chat.RoomDetail(ctx, roomID, userID)
	if err != nil {
		ws.sendError(roomID, err)
		return
	}

	handleLeave(ws)
	sub := ws.deps.Hub.Subscribe(realtime.Room(roomID))

	history, err := ws.deps.Chat.ListByRoom(ctx, roomID, userID)
	if err != nil {
		sub.Close()
		ws.sendError(roomID, err)
		return
	}
	ws.roomID = roomID
	ws.roomSub = sub

	ws.send(models.WSMessage{
		Event:     "joined",
		Room:      roomID,
		Timestamp: time.Now().UnixMilli(),
	})

	thread := realtime.NewThread(roomID, history)
	items := make([]models.ChatHistoryItem, 0, len(history))
	for _, m := range thread.Messages() {
		items = append(items, historyItem(m, userID))
	}
	ws.send(models.WSMessage{
		Event:       "history",
		Room:        roomID,
		History:     items,
		Counterpart: detail.Counterpart,
		Timestamp:   time.Now().UnixMilli(),
	})

	ws.follow(func() {
		for m := range sub.C() {
			if thread.Append(m) {
				ws.send(chatEvent(m))
			}
		}
	})
}

func handleLeave(ws *wsSession) {
	if ws.roomSub != nil {
		ws.roomSub.Close()
		ws.roomSub = nil
		ws.roomID = 0
	}
}

// handleChat persists the message. The sender sees it through its own room subscription.
func handleChat(ctx context.Context, ws *wsSession, msg *models.WSMessage) {
	roomID := ws.roomID
	if roomID == 0 {
		roomID = msg.Room
	}
	if roomID == 0 {
		ws.sendError(0, errors.New("join a room first"))
		return
	}

	if _, err := ws.deps.Chat.Send(ctx, roomID, ws.session.UserID, msg.Text); err != nil {
		utils.LogError(err, "Send")
		ws.sendError(roomID, err)
	}
}

// handleList sends the conversation list and keeps it current: known rooms are folded
// in place and announced as room_update; a message in a room the list does not have yet
// triggers a fresh list.
func handleList(ctx context.Context, ws *wsSession) {
	if ws.listSub != nil {
		ws.listSub.Close()
		ws.listSub = nil
	}
	sub := ws.deps.Hub.Subscribe(realtime.AllRooms())

	rows, err := ws.sendList(ctx)
	if err != nil {
		sub.Close()
		return
	}
	ws.listSub = sub

	ws.follow(func() { ws.followList(ctx, sub, rows) })
}

func (ws *wsSession) sendList(ctx context.Context) ([]models.ConversationSummary, error) {
	rows, err := ws.deps.Conversations.List(ctx, ws.session.UserID)
	if err != nil {
		utils.LogError(err, "Conversations.List")
		ws.send(models.WSMessage{Event: "list", Rooms: []models.ConversationSummary{}, Error: err.Error()})
		return nil, err
	}
	ws.deps.Presence.FillStatus(rows)
	ws.send(models.WSMessage{Event: "list", Rooms: rows})
	return rows, nil
}

func (ws *wsSession) followList(ctx context.Context, sub *realtime.Subscription, rows []models.ConversationSummary) {
	summaries, index := listState(rows)
	foreign := make(map[int64]bool)

	for m := range sub.C() {
		if foreign[m.RoomID] {
			continue
		}

		row, known := summaries[m.RoomID]
		if !known {
			member, err := ws.deps.Chat.IsParticipant(ctx, m.RoomID, ws.session.UserID)
			if err != nil && !errors.Is(err, services.ErrNotFound) {
				utils.LogError(err, "IsParticipant")
				continue
			}
			if !member {
				foreign[m.RoomID] = true
				continue
			}
			fresh, err := ws.sendList(ctx)
			if err != nil {
				continue
			}
			summaries, index = listState(fresh)
			continue
		}

		if !index.Apply(m) {
			continue
		}
		msg := m
		ts := m.CreatedAt
		row.LastMessage = &msg
		row.LastMessageTime = &ts
		row.CounterpartStatus = ws.deps.Presence.Status(row.CounterpartID)
		summaries[m.RoomID] = row

		ws.send(models.WSMessage{Event: "room_update", Room: m.RoomID, Rooms: []models.ConversationSummary{row}})
	}
}

func listState(rows []models.ConversationSummary) (map[int64]models.ConversationSummary, *realtime.LatestIndex) {
	summaries := make(map[int64]models.ConversationSummary, len(rows))
	latest := make(map[int64]models.Message)
	for _, r := range rows {
		summaries[r.RoomID] = r
		if r.LastMessage != nil {
			latest[r.RoomID] = *r.LastMessage
		}
	}
	return summaries, realtime.NewLatestIndex(latest)
}
