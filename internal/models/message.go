package models

import "time"

type Message struct {
	ID        int64     `json:"id"`
	RoomID    int64     `json:"room_id"`
	SenderID  int64     `json:"sender_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Newer reports whether m sorts after other in room order (created_at, then id).
func (m Message) Newer(other Message) bool {
	if !m.CreatedAt.Equal(other.CreatedAt) {
		return m.CreatedAt.After(other.CreatedAt)
	}
	return m.ID > other.ID
}

type SendMessageRequest struct {
	Text string `json:"text"`
}

// WebSocket Message Structure
type WSMessage struct {
	Event       string                `json:"event"` // "join", "leave", "chat", "list"
	ID          int64                 `json:"id,omitempty"`
	Room        int64                 `json:"room,omitempty"`
	Text        string                `json:"text,omitempty"`
	SenderID    int64                 `json:"sender_id,omitempty"`
	Timestamp   int64                 `json:"timestamp,omitempty"`
	Error       string                `json:"error,omitempty"`
	Rooms       []ConversationSummary `json:"rooms,omitempty"`
	History     []ChatHistoryItem     `json:"history,omitempty"`
	Counterpart *UserInfo             `json:"counterpart,omitempty"`
}

type ChatHistoryItem struct {
	ID            int64  `json:"id"`
	Room          int64  `json:"room"`
	Text          string `json:"text"`
	SenderID      int64  `json:"sender_id"`
	Timestamp     int64  `json:"timestamp"`
	IsYourMessage bool   `json:"is_your_message"`
}
