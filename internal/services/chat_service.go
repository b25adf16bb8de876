package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"carelink-backend/internal/models"
)

// MaxMessageLength is in bytes of UTF-8 text, after trimming.
const MaxMessageLength = 5 * 1024

type ChatService struct {
	rooms    RoomStore
	messages MessageStore
	users    UserStore
	helpers  HelpStore
	now      func() time.Time
}

func NewChatService(store Store) *ChatService {
	return &ChatService{
		rooms:    store,
		messages: store,
		users:    store,
		helpers:  store,
		now:      time.Now,
	}
}

// ResolveDirectRoom returns the single room for the pair, creating it on first contact.
func (s *ChatService) ResolveDirectRoom(ctx context.Context, userID1, userID2 int64) (*models.RoomResponse, error) {
	if userID1 <= 0 || userID2 <= 0 {
		return nil, invalid("recipient_id", "user ids must be positive")
	}
	if userID1 == userID2 {
		return nil, invalid("recipient_id", "cannot open a room with yourself")
	}

	key := RoomKey(userID1, userID2)

	room, err := s.rooms.FindRoomByKey(ctx, key)
	if err == nil {
		return &models.RoomResponse{RoomID: room.ID, RoomKey: key, IsNew: false}, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("find room %s: %w", key, err)
	}

	a, b := min(userID1, userID2), max(userID1, userID2)
	stored, created, err := s.rooms.UpsertRoom(ctx, models.Room{
		Type:         models.RoomTypeDirect,
		RoomKey:      key,
		Participants: []int64{a, b},
		CreatedAt:    s.now().UTC().Truncate(time.Microsecond),
	})
	if err != nil {
		return nil, fmt.Errorf("upsert room %s: %w", key, err)
	}
	if created {
		slog.Info("chat: Direct room created", "room_id", stored.ID, "room_key", key)
	}

	return &models.RoomResponse{RoomID: stored.ID, RoomKey: key, IsNew: created}, nil
}

// Send persists one message. Delivery to listeners is the store's change feed, not ours.
func (s *ChatService) Send(ctx context.Context, roomID, senderID int64, text string) (*models.Message, error) {
	content := strings.TrimSpace(text)
	if content == "" {
		return nil, invalid("text", "message is empty")
	}
	if len(content) > MaxMessageLength {
		return nil, invalid("text", fmt.Sprintf("message is longer than %d bytes", MaxMessageLength))
	}
	if senderID <= 0 {
		return nil, ErrAuth
	}

	if _, err := s.participantRoom(ctx, roomID, senderID); err != nil {
		return nil, err
	}

	msg := &models.Message{
		RoomID:    roomID,
		SenderID:  senderID,
		Content:   content,
		CreatedAt: s.now().UTC().Truncate(time.Microsecond),
	}
	if err := s.messages.InsertMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	return msg, nil
}

// ListByRoom returns the whole room history, oldest first.
func (s *ChatService) ListByRoom(ctx context.Context, roomID, viewerID int64) ([]models.Message, error) {
	if _, err := s.participantRoom(ctx, roomID, viewerID); err != nil {
		return nil, err
	}
	msgs, err := s.messages.MessagesByRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return msgs, nil
}

// LatestPerRoom returns the newest message of each room that has any.
func (s *ChatService) LatestPerRoom(ctx context.Context, roomIDs []int64) (map[int64]models.Message, error) {
	if len(roomIDs) == 0 {
		return map[int64]models.Message{}, nil
	}
	latest, err := s.messages.LatestMessages(ctx, roomIDs)
	if err != nil {
		return nil, fmt.Errorf("latest messages: %w", err)
	}
	return latest, nil
}

// RoomDetail loads the room with its counterpart and the counterpart's helper profile, if any.
func (s *ChatService) RoomDetail(ctx context.Context, roomID, viewerID int64) (*models.RoomDetail, error) {
	room, err := s.participantRoom(ctx, roomID, viewerID)
	if err != nil {
		return nil, err
	}

	otherID, ok, err := Counterpart(room.RoomKey, room.Participants, viewerID)
	if err != nil {
		return nil, err
	}
	detail := &models.RoomDetail{Room: *room}
	if !ok {
		slog.Warn("chat: Counterpart could not be resolved", "room_id", room.ID)
		return detail, nil
	}

	other, err := s.users.GetUser(ctx, otherID)
	switch {
	case err == nil:
		info := other.Info()
		detail.Counterpart = &info
	case errors.Is(err, ErrNotFound):
		detail.Counterpart = &models.UserInfo{ID: otherID}
	default:
		return nil, fmt.Errorf("load counterpart: %w", err)
	}

	profile, err := s.helpers.LatestHelperProfileByUser(ctx, otherID)
	switch {
	case err == nil:
		detail.HelperProfileID = &profile.ID
		if profile.Name != "" {
			detail.Counterpart.Name = profile.Name
		}
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrNotConfigured):
	default:
		return nil, fmt.Errorf("load counterpart helper profile: %w", err)
	}

	return detail, nil
}

// IsParticipant reports whether userID belongs to roomID.
func (s *ChatService) IsParticipant(ctx context.Context, roomID, userID int64) (bool, error) {
	_, err := s.participantRoom(ctx, roomID, userID)
	if errors.Is(err, ErrForbidden) {
		return false, nil
	}
	return err == nil, err
}

func (s *ChatService) participantRoom(ctx context.Context, roomID, userID int64) (*models.Room, error) {
	if userID <= 0 {
		return nil, ErrAuth
	}
	room, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("room %d: %w", roomID, err)
	}
	for _, id := range room.Participants {
		if id == userID {
			return room, nil
		}
	}
	return nil, ErrForbidden
}
