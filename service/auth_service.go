package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/Aisenh037/MBC-sub002/auth"
	"github.com/Aisenh037/MBC-sub002/cache"
	apperrors "github.com/Aisenh037/MBC-sub002/errors"
	logger "github.com/Aisenh037/MBC-sub002/logging"
	"github.com/Aisenh037/MBC-sub002/model"
)

// UserReader is the slice of the user store the auth flow needs.
type UserReader interface {
	GetUser(ctx context.Context, userID string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

// TokenPair is what a successful login or refresh returns.
type TokenPair struct {
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token"`
	User         model.User `json:"user"`
}

// Session is the blob cached per logged-in user. It records where and when
// the login happened and disappears on logout or TTL expiry.
type Session struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	LoginAt   time.Time `json:"login_at"`
	ClientIP  string    `json:"client_ip,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
}

type IAuthService interface {
	Login(ctx context.Context, email, password, clientIP, userAgent string) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, userID string) error
	ActiveSession(ctx context.Context, userID string) (*Session, bool)
}

// AuthService owns login, token refresh and logout.
type AuthService struct {
	users  UserReader
	issuer *auth.TokenIssuer
	cache  *cache.Cache
}

var _ IAuthService = &AuthService{}

func NewAuthService(users UserReader, issuer *auth.TokenIssuer, cacheSvc *cache.Cache) *AuthService {
	return &AuthService{users: users, issuer: issuer, cache: cacheSvc}
}

// Login verifies credentials and issues an access/refresh token pair. A
// wrong email and a wrong password produce the same error so the response
// does not leak which accounts exist.
func (s *AuthService) Login(ctx context.Context, email, password, clientIP, userAgent string) (*TokenPair, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if err == apperrors.ErrUserNotFound {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		logger.Warn("Login failed, bad password", zap.String("email", email))
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.Active {
		return nil, apperrors.ErrUserInactive
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	session := Session{
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		LoginAt:   time.Now(),
		ClientIP:  clientIP,
		UserAgent: userAgent,
	}
	if payload, merr := json.Marshal(session); merr == nil {
		s.cache.SetRaw(ctx, sessionKey(user.ID), payload, cache.TTLSession)
	}

	logger.Info("User logged in", zap.String("userID", user.ID), zap.String("role", user.Role))
	return pair, nil
}

// Refresh exchanges a valid refresh token for a fresh pair. The user is
// re-read so role or institution changes take effect on rotation.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.issuer.ParseToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != auth.TokenTypeRefresh {
		return nil, apperrors.ErrInvalidRefreshToken
	}

	user, err := s.users.GetUser(ctx, claims.UserID)
	if err != nil {
		if err == apperrors.ErrUserNotFound {
			return nil, apperrors.ErrInvalidRefreshToken
		}
		return nil, err
	}
	if !user.Active {
		return nil, apperrors.ErrUserInactive
	}

	return s.issueTokens(user)
}

// Logout drops the cached session. Tokens already issued expire on their
// own; the session blob backs the active-session view served by /auth/me.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if err := s.cache.Delete(ctx, sessionKey(userID)); err != nil {
		logger.Warn("Failed to drop session", zap.Error(err), zap.String("userID", userID))
	}
	logger.Info("User logged out", zap.String("userID", userID))
	return nil
}

// ActiveSession reports whether a session blob exists for the user.
func (s *AuthService) ActiveSession(ctx context.Context, userID string) (*Session, bool) {
	raw := s.cache.GetRaw(ctx, sessionKey(userID))
	if raw == nil {
		return nil, false
	}
	var session Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, false
	}
	return &session, true
}

func (s *AuthService) issueTokens(user *model.User) (*TokenPair, error) {
	claims := auth.Claims{
		UserID:        user.ID,
		Email:         user.Email,
		Role:          user.Role,
		InstitutionID: user.InstitutionID,
		BranchID:      user.BranchID,
	}

	access, err := s.issuer.AccessToken(claims)
	if err != nil {
		return nil, err
	}
	refresh, err := s.issuer.RefreshToken(claims)
	if err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh, User: *user}, nil
}

func sessionKey(userID string) string {
	return cache.EntityKey("session", userID)
}
