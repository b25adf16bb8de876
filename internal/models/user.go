package models

import "time"

const (
	RoleSenior   = "senior"
	RoleChildren = "children"
	RoleHelper   = "helper"
)

const ProviderKakao = "kakao"

type User struct {
	ID               int64      `json:"id"`
	Provider         string     `json:"provider"`
	ExternalID       string     `json:"-"`
	Name             string     `json:"name"`
	Email            *string    `json:"email,omitempty"`
	AvatarURL        *string    `json:"avatar_url,omitempty"`
	Role             *string    `json:"role,omitempty"`
	RefreshTokenHash *string    `json:"-"`
	LastLoginAt      *time.Time `json:"last_login_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// UserInfo holds basic user profile info to send with rooms and conversation lists
type UserInfo struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

func (u User) Info() UserInfo {
	return UserInfo{ID: u.ID, Name: u.Name, AvatarURL: u.AvatarURL}
}

// Identity is what a social provider tells us about the person logging in.
type Identity struct {
	Provider   string
	ExternalID string
	Name       string
	Email      *string
	AvatarURL  *string
}

// Session is the authenticated caller, rebuilt from the access token on every request.
type Session struct {
	UserID int64
	Name   string
	Role   string
}

type SocialLoginRequest struct {
	AccessToken string `json:"access_token"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type UpdateRoleRequest struct {
	Role string `json:"role"`
}

type AuthResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}
