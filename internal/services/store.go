package services

import (
	"context"

	"carelink-backend/internal/models"
)

// RoomStore persists direct-message rooms. Implementations enforce a unique room_key.
type RoomStore interface {
	FindRoomByKey(ctx context.Context, key string) (*models.Room, error)
	// UpsertRoom inserts room or, when its key already exists, returns the stored row.
	// created reports whether this call inserted it.
	UpsertRoom(ctx context.Context, room models.Room) (stored *models.Room, created bool, err error)
	GetRoom(ctx context.Context, id int64) (*models.Room, error)
	RoomsForUser(ctx context.Context, userID int64) ([]models.Room, error)
}

// MessageStore is append-only.
type MessageStore interface {
	InsertMessage(ctx context.Context, msg *models.Message) error
	MessagesByRoom(ctx context.Context, roomID int64) ([]models.Message, error)
	LatestMessages(ctx context.Context, roomIDs []int64) (map[int64]models.Message, error)
}

type UserStore interface {
	UpsertUserByIdentity(ctx context.Context, identity models.Identity) (*models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	UsersByIDs(ctx context.Context, ids []int64) (map[int64]models.User, error)
	UpdateRole(ctx context.Context, id int64, role string) error
	SetRefreshTokenHash(ctx context.Context, id int64, hash *string) error
}

type HelpStore interface {
	CreateHelpRequest(ctx context.Context, req *models.HelpRequest) error
	GetHelpRequest(ctx context.Context, id int64) (*models.HelpRequest, error)
	LatestHelpRequestByUser(ctx context.Context, userID int64) (*models.HelpRequest, error)
	ListHelpRequests(ctx context.Context, status string) ([]models.HelpRequest, error)
	UpdateHelpRequest(ctx context.Context, req *models.HelpRequest) error
	DeleteHelpRequest(ctx context.Context, id int64) error

	CreateHelperProfile(ctx context.Context, p *models.HelperProfile) error
	GetHelperProfile(ctx context.Context, id int64) (*models.HelperProfile, error)
	LatestHelperProfileByUser(ctx context.Context, userID int64) (*models.HelperProfile, error)
	ListHelperProfiles(ctx context.Context, status string, withLocation bool) ([]models.HelperProfile, error)
	UpdateHelperProfile(ctx context.Context, p *models.HelperProfile) error
	DeleteHelperProfile(ctx context.Context, id int64) error
}

// Store is everything the services need from a backend.
type Store interface {
	RoomStore
	MessageStore
	UserStore
	HelpStore
}

// LatestPerRoom folds messages (in any order) into the newest message per room.
// On an exact (created_at, id) tie the first one seen is kept.
func LatestPerRoom(msgs []models.Message) map[int64]models.Message {
	latest := make(map[int64]models.Message)
	for _, m := range msgs {
		prev, ok := latest[m.RoomID]
		if !ok || m.Newer(prev) {
			latest[m.RoomID] = m
		}
	}
	return latest
}
