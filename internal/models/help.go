package models

import "time"

const (
	StatusPublished = "published"
	StatusPrivate   = "private"
	StatusPending   = "pending"
)

type Category struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
	Order int    `json:"order"`
}

type HelpRequest struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	Name       *string   `json:"name,omitempty"`
	Categories []string  `json:"categories"`
	Details    string    `json:"details"`
	Status     string    `json:"status"`
	Lat        *float64  `json:"lat,omitempty"`
	Lng        *float64  `json:"lng,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type HelpRequestInput struct {
	Categories []string `json:"categories"`
	Details    string   `json:"details"`
	Status     string   `json:"status"`
	Lat        *float64 `json:"lat"`
	Lng        *float64 `json:"lng"`
}

type HelperProfile struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	Name         string    `json:"name"`
	Age          int       `json:"age"`
	Categories   []string  `json:"categories"`
	Introduction string    `json:"introduction"`
	Experience   *string   `json:"experience,omitempty"`
	Status       string    `json:"status"`
	Lat          *float64  `json:"lat,omitempty"`
	Lng          *float64  `json:"lng,omitempty"`
	AvatarURL    *string   `json:"avatar_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type HelperProfileInput struct {
	Name         string   `json:"name"`
	Age          string   `json:"age"`
	Categories   []string `json:"categories"`
	Introduction string   `json:"introduction"`
	Experience   *string  `json:"experience"`
	Status       string   `json:"status"`
	Lat          *float64 `json:"lat"`
	Lng          *float64 `json:"lng"`
}
