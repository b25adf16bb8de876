package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"carelink-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

var ErrInvalidToken = errors.New("invalid token")

// IdentityProvider turns a provider access token into the caller's identity.
type IdentityProvider interface {
	FetchIdentity(ctx context.Context, accessToken string) (*models.Identity, error)
}

type Claims struct {
	UserID    int64  `json:"user_id"`
	Name      string `json:"name"`
	Role      string `json:"role,omitempty"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

type TokenConfig struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	BcryptCost int
}

type UserService struct {
	users     UserStore
	providers map[string]IdentityProvider
	tokens    TokenConfig
	now       func() time.Time
}

func NewUserService(store UserStore, tokens TokenConfig) *UserService {
	if tokens.BcryptCost == 0 {
		tokens.BcryptCost = bcrypt.DefaultCost
	}
	return &UserService{
		users:     store,
		providers: make(map[string]IdentityProvider),
		tokens:    tokens,
		now:       time.Now,
	}
}

// RegisterProvider makes a social login provider available under name.
func (s *UserService) RegisterProvider(name string, p IdentityProvider) {
	s.providers[name] = p
}

// SocialLogin exchanges a provider token for our own token pair, creating or refreshing the user.
func (s *UserService) SocialLogin(ctx context.Context, provider, accessToken string) (*models.AuthResponse, error) {
	p, ok := s.providers[provider]
	if !ok {
		return nil, invalid("provider", "unsupported provider "+provider)
	}
	if strings.TrimSpace(accessToken) == "" {
		return nil, invalid("access_token", "required")
	}

	identity, err := p.FetchIdentity(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuth, err)
	}
	identity.Provider = provider
	identity.Name = displayName(identity)

	user, err := s.users.UpsertUserByIdentity(ctx, *identity)
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	slog.Info("auth: User logged in", "user_id", user.ID, "provider", provider)

	return s.issue(ctx, user)
}

// Refresh rotates the token pair. Only the most recently issued refresh token is accepted.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*models.AuthResponse, error) {
	claims, err := s.ValidateToken(refreshToken, tokenTypeRefresh)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if user.RefreshTokenHash == nil {
		return nil, ErrInvalidToken
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.RefreshTokenHash), []byte(claims.ID)); err != nil {
		return nil, ErrInvalidToken
	}
	return s.issue(ctx, user)
}

// Logout revokes the user's refresh token.
func (s *UserService) Logout(ctx context.Context, session *models.Session) error {
	if session == nil {
		return ErrAuth
	}
	return s.users.SetRefreshTokenHash(ctx, session.UserID, nil)
}

func (s *UserService) GetProfile(ctx context.Context, userID int64) (*models.User, error) {
	return s.users.GetUser(ctx, userID)
}

// UpdateRole changes the caller's role and hands back tokens carrying the new role.
func (s *UserService) UpdateRole(ctx context.Context, session *models.Session, role string) (*models.AuthResponse, error) {
	if session == nil {
		return nil, ErrAuth
	}
	switch role {
	case models.RoleSenior, models.RoleChildren, models.RoleHelper:
	default:
		return nil, invalid("role", "must be one of senior, children, helper")
	}
	if err := s.users.UpdateRole(ctx, session.UserID, role); err != nil {
		return nil, fmt.Errorf("update role: %w", err)
	}
	user, err := s.users.GetUser(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	return s.issue(ctx, user)
}

// Authenticate validates an access token and returns the session it describes.
func (s *UserService) Authenticate(token string) (*models.Session, error) {
	claims, err := s.ValidateToken(token, tokenTypeAccess)
	if err != nil {
		return nil, err
	}
	return &models.Session{UserID: claims.UserID, Name: claims.Name, Role: claims.Role}, nil
}

func (s *UserService) GenerateJWT(user *models.User) (string, error) {
	token, _, err := s.sign(user, tokenTypeAccess, s.tokens.AccessTTL)
	return token, err
}

func (s *UserService) GenerateRefreshToken(user *models.User) (token, jti string, err error) {
	return s.sign(user, tokenTypeRefresh, s.tokens.RefreshTTL)
}

func (s *UserService) ValidateToken(tokenString, tokenType string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.tokens.Secret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.TokenType != tokenType || claims.UserID <= 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *UserService) issue(ctx context.Context, user *models.User) (*models.AuthResponse, error) {
	access, err := s.GenerateJWT(user)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	refresh, jti, err := s.GenerateRefreshToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(jti), s.tokens.BcryptCost)
	if err != nil {
		return nil, err
	}
	h := string(hash)
	if err := s.users.SetRefreshTokenHash(ctx, user.ID, &h); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}
	user.RefreshTokenHash = &h

	return &models.AuthResponse{AccessToken: access, RefreshToken: refresh, User: *user}, nil
}

func (s *UserService) sign(user *models.User, tokenType string, ttl time.Duration) (string, string, error) {
	now := s.now()
	jti := uuid.NewString()
	claims := Claims{
		UserID:    user.ID,
		Name:      user.Name,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if user.Role != nil {
		claims.Role = *user.Role
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.tokens.Secret))
	return signed, jti, err
}

func displayName(id *models.Identity) string {
	if name := strings.TrimSpace(id.Name); name != "" {
		return name
	}
	if id.Email != nil {
		if local, _, ok := strings.Cut(*id.Email, "@"); ok && local != "" {
			return local
		}
	}
	return "Member"
}
