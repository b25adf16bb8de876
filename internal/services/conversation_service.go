package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"carelink-backend/internal/models"
)

type ConversationService struct {
	rooms RoomStore
	users UserStore
	chat  *ChatService
}

func NewConversationService(store Store, chat *ChatService) *ConversationService {
	return &ConversationService{rooms: store, users: store, chat: chat}
}

// List builds the caller's conversation list, newest activity first.
// Rooms without messages come last. Running it twice on the same data yields the same order.
func (s *ConversationService) List(ctx context.Context, userID int64) ([]models.ConversationSummary, error) {
	if userID <= 0 {
		return nil, ErrAuth
	}

	rooms, err := s.rooms.RoomsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("rooms for user %d: %w", userID, err)
	}
	if len(rooms) == 0 {
		return []models.ConversationSummary{}, nil
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID > rooms[j].ID })

	summaries := make([]models.ConversationSummary, len(rooms))
	roomIDs := make([]int64, len(rooms))
	var otherIDs []int64
	seen := make(map[int64]bool)

	for i, room := range rooms {
		roomIDs[i] = room.ID
		summaries[i].RoomID = room.ID

		otherID, ok, err := Counterpart(room.RoomKey, room.Participants, userID)
		if err != nil {
			slog.Warn("conversations: Skipping counterpart", "room_id", room.ID, "error", err)
			continue
		}
		if !ok {
			continue
		}
		id := otherID
		summaries[i].CounterpartID = &id
		if !seen[otherID] {
			seen[otherID] = true
			otherIDs = append(otherIDs, otherID)
		}
	}

	users := map[int64]models.User{}
	if len(otherIDs) > 0 {
		users, err = s.users.UsersByIDs(ctx, otherIDs)
		if err != nil {
			return nil, fmt.Errorf("counterpart users: %w", err)
		}
	}

	latest, err := s.chat.LatestPerRoom(ctx, roomIDs)
	if err != nil && !errors.Is(err, ErrNotConfigured) {
		return nil, err
	}

	for i := range summaries {
		if id := summaries[i].CounterpartID; id != nil {
			if u, ok := users[*id]; ok {
				info := u.Info()
				summaries[i].Counterpart = &info
			}
		}
		if m, ok := latest[summaries[i].RoomID]; ok {
			msg := m
			ts := m.CreatedAt
			summaries[i].LastMessage = &msg
			summaries[i].LastMessageTime = &ts
		}
	}

	SortConversations(summaries)
	return summaries, nil
}

// SortConversations orders by last message time, newest first; rooms with no message
// count as the zero time. The sort is stable so equal rows keep their incoming order.
func SortConversations(summaries []models.ConversationSummary) {
	sort.SliceStable(summaries, func(i, j int) bool {
		return lastTime(summaries[i]).After(lastTime(summaries[j]))
	})
}

func lastTime(s models.ConversationSummary) time.Time {
	if s.LastMessageTime == nil {
		return time.Time{}
	}
	return *s.LastMessageTime
}
