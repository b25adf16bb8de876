package models

import "time"

const RoomTypeDirect = "dm"

type Room struct {
	ID           int64     `json:"id"`
	Type         string    `json:"type"`
	RoomKey      string    `json:"room_key"`
	Participants []int64   `json:"participants"`
	CreatedAt    time.Time `json:"created_at"`
}

type CreateDirectRoomRequest struct {
	RecipientID int64 `json:"recipient_id"`
}

type RoomResponse struct {
	RoomID  int64  `json:"room_id"`
	RoomKey string `json:"room_key"`
	IsNew   bool   `json:"is_new"`
}

// RoomDetail is what the chat screen header needs: the room plus who is on the other side.
type RoomDetail struct {
	Room            Room      `json:"room"`
	Counterpart     *UserInfo `json:"counterpart,omitempty"`
	HelperProfileID *int64    `json:"helper_profile_id,omitempty"`
}

// ConversationSummary is one row of the conversation list.
type ConversationSummary struct {
	RoomID            int64      `json:"room_id"`
	CounterpartID     *int64     `json:"counterpart_id,omitempty"`
	Counterpart       *UserInfo  `json:"counterpart,omitempty"`
	CounterpartStatus string     `json:"counterpart_status,omitempty"`
	LastMessage       *Message   `json:"last_message,omitempty"`
	LastMessageTime   *time.Time `json:"last_message_time,omitempty"`
}
