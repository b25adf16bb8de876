package storage

import (
	"time"

	"carelink-backend/internal/models"
)

type userRow struct {
	ID               int64  `gorm:"primaryKey"`
	Provider         string `gorm:"uniqueIndex:idx_user_identity;not null"`
	ExternalID       string `gorm:"uniqueIndex:idx_user_identity;not null"`
	Name             string `gorm:"not null"`
	Email            *string
	AvatarURL        *string
	Role             *string
	RefreshTokenHash *string
	LastLoginAt      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (userRow) TableName() string { return "users" }

func (r userRow) toModel() models.User {
	return models.User{
		ID:               r.ID,
		Provider:         r.Provider,
		ExternalID:       r.ExternalID,
		Name:             r.Name,
		Email:            r.Email,
		AvatarURL:        r.AvatarURL,
		Role:             r.Role,
		RefreshTokenHash: r.RefreshTokenHash,
		LastLoginAt:      r.LastLoginAt,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

type roomRow struct {
	ID           int64            `gorm:"primaryKey"`
	Type         string           `gorm:"not null;default:dm"`
	RoomKey      string           `gorm:"uniqueIndex;not null"`
	CreatedAt    time.Time
	Participants []participantRow `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE"`
}

func (roomRow) TableName() string { return "chat_rooms" }

func (r roomRow) toModel() models.Room {
	room := models.Room{
		ID:           r.ID,
		Type:         r.Type,
		RoomKey:      r.RoomKey,
		CreatedAt:    r.CreatedAt,
		Participants: make([]int64, 0, len(r.Participants)),
	}
	for _, p := range r.Participants {
		room.Participants = append(room.Participants, p.UserID)
	}
	return room
}

type participantRow struct {
	RoomID int64 `gorm:"primaryKey"`
	UserID int64 `gorm:"primaryKey;index"`
}

func (participantRow) TableName() string { return "chat_room_participants" }

type messageRow struct {
	ID        int64     `gorm:"primaryKey"`
	RoomID    int64     `gorm:"not null;index:idx_room_created,priority:1"`
	SenderID  int64     `gorm:"not null"`
	Content   string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"index:idx_room_created,priority:2"`
}

func (messageRow) TableName() string { return "chat_messages" }

func (r messageRow) toModel() models.Message {
	return models.Message{ID: r.ID, RoomID: r.RoomID, SenderID: r.SenderID, Content: r.Content, CreatedAt: r.CreatedAt}
}

type helpRequestRow struct {
	ID         int64 `gorm:"primaryKey"`
	UserID     int64 `gorm:"not null;index"`
	Name       *string
	Categories []string `gorm:"serializer:json"`
	Details    string   `gorm:"not null"`
	Status     string   `gorm:"not null;default:published"`
	Lat        *float64
	Lng        *float64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (helpRequestRow) TableName() string { return "help_requests" }

func newHelpRequestRow(r *models.HelpRequest) helpRequestRow {
	return helpRequestRow{
		ID:         r.ID,
		UserID:     r.UserID,
		Name:       r.Name,
		Categories: r.Categories,
		Details:    r.Details,
		Status:     r.Status,
		Lat:        r.Lat,
		Lng:        r.Lng,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func (r helpRequestRow) toModel() models.HelpRequest {
	return models.HelpRequest{
		ID:         r.ID,
		UserID:     r.UserID,
		Name:       r.Name,
		Categories: r.Categories,
		Details:    r.Details,
		Status:     r.Status,
		Lat:        r.Lat,
		Lng:        r.Lng,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

type helperRow struct {
	ID           int64    `gorm:"primaryKey"`
	UserID       int64    `gorm:"not null;index"`
	Name         string   `gorm:"not null"`
	Age          int      `gorm:"not null"`
	Categories   []string `gorm:"serializer:json"`
	Introduction string   `gorm:"not null"`
	Experience   *string
	Status       string `gorm:"not null;default:pending"`
	Lat          *float64
	Lng          *float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (helperRow) TableName() string { return "helper_applications" }

func newHelperRow(p *models.HelperProfile) helperRow {
	return helperRow{
		ID:           p.ID,
		UserID:       p.UserID,
		Name:         p.Name,
		Age:          p.Age,
		Categories:   p.Categories,
		Introduction: p.Introduction,
		Experience:   p.Experience,
		Status:       p.Status,
		Lat:          p.Lat,
		Lng:          p.Lng,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func (r helperRow) toModel() models.HelperProfile {
	return models.HelperProfile{
		ID:           r.ID,
		UserID:       r.UserID,
		Name:         r.Name,
		Age:          r.Age,
		Categories:   r.Categories,
		Introduction: r.Introduction,
		Experience:   r.Experience,
		Status:       r.Status,
		Lat:          r.Lat,
		Lng:          r.Lng,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}
