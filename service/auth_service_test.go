package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aisenh037/MBC-sub002/auth"
	"github.com/Aisenh037/MBC-sub002/cache"
	apperrors "github.com/Aisenh037/MBC-sub002/errors"
	"github.com/Aisenh037/MBC-sub002/model"
	"github.com/Aisenh037/MBC-sub002/service"
	"github.com/Aisenh037/MBC-sub002/test/mock"
)

type fakeUserReader struct {
	byID    map[string]*model.User
	byEmail map[string]*model.User
}

func (f *fakeUserReader) GetUser(ctx context.Context, userID string) (*model.User, error) {
	u, ok := f.byID[userID]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserReader) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return u, nil
}

func authFixture(t *testing.T) (*service.AuthService, *auth.TokenIssuer, *fakeUserReader) {
	t.Helper()
	hash, err := auth.HashPassword("correct horse")
	require.NoError(t, err)
	user := &model.User{
		ID:            "u1",
		Email:         "asha@example.edu",
		PasswordHash:  hash,
		Role:          "professor",
		InstitutionID: "inst-1",
		Active:        true,
	}
	users := &fakeUserReader{
		byID:    map[string]*model.User{"u1": user},
		byEmail: map[string]*model.User{"asha@example.edu": user},
	}
	issuer := auth.NewTokenIssuer("test-secret", "mbc-test", 15*time.Minute, 24*time.Hour)
	c := cache.New(mock.NewStore(), "mbc", cache.DefaultTTLs())
	return service.NewAuthService(users, issuer, c), issuer, users
}

func TestLoginIssuesPairAndSession(t *testing.T) {
	svc, issuer, _ := authFixture(t)
	ctx := context.Background()

	pair, err := svc.Login(ctx, "asha@example.edu", "correct horse", "10.0.0.1", "cli")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, "u1", pair.User.ID)

	claims, err := issuer.ParseToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "inst-1", claims.InstitutionID)
	assert.Equal(t, auth.TokenTypeAccess, claims.TokenType)

	session, ok := svc.ActiveSession(ctx, "u1")
	require.True(t, ok)
	assert.Equal(t, "asha@example.edu", session.Email)
	assert.Equal(t, "10.0.0.1", session.ClientIP)
}

func TestLoginWrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	svc, _, _ := authFixture(t)
	ctx := context.Background()

	_, badPass := svc.Login(ctx, "asha@example.edu", "wrong", "", "")
	_, badEmail := svc.Login(ctx, "nobody@example.edu", "correct horse", "", "")

	assert.ErrorIs(t, badPass, apperrors.ErrInvalidCredentials)
	assert.ErrorIs(t, badEmail, apperrors.ErrInvalidCredentials)
}

func TestLoginInactiveUser(t *testing.T) {
	svc, _, users := authFixture(t)
	users.byEmail["asha@example.edu"].Active = false

	_, err := svc.Login(context.Background(), "asha@example.edu", "correct horse", "", "")
	assert.ErrorIs(t, err, apperrors.ErrUserInactive)
}

func TestRefreshRotatesPair(t *testing.T) {
	svc, issuer, _ := authFixture(t)
	ctx := context.Background()

	pair, err := svc.Login(ctx, "asha@example.edu", "correct horse", "", "")
	require.NoError(t, err)

	rotated, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, rotated.AccessToken)

	claims, err := issuer.ParseToken(rotated.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc, issuer, _ := authFixture(t)

	access, err := issuer.AccessToken(auth.Claims{UserID: "u1", Role: "professor"})
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), access)
	assert.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)
}

func TestRefreshForDeletedUser(t *testing.T) {
	svc, issuer, users := authFixture(t)

	refresh, err := issuer.RefreshToken(auth.Claims{UserID: "u1", Role: "professor"})
	require.NoError(t, err)
	delete(users.byID, "u1")

	_, err = svc.Refresh(context.Background(), refresh)
	assert.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)
}

func TestLogoutDropsSession(t *testing.T) {
	svc, _, _ := authFixture(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, "asha@example.edu", "correct horse", "", "")
	require.NoError(t, err)
	_, ok := svc.ActiveSession(ctx, "u1")
	require.True(t, ok)

	require.NoError(t, svc.Logout(ctx, "u1"))
	_, ok = svc.ActiveSession(ctx, "u1")
	assert.False(t, ok)
}
