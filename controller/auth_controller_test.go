package controller_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aisenh037/MBC-sub002/audit"
	"github.com/Aisenh037/MBC-sub002/auth"
	"github.com/Aisenh037/MBC-sub002/cache"
	"github.com/Aisenh037/MBC-sub002/controller"
	apperrors "github.com/Aisenh037/MBC-sub002/errors"
	"github.com/Aisenh037/MBC-sub002/middleware"
	"github.com/Aisenh037/MBC-sub002/model"
	"github.com/Aisenh037/MBC-sub002/service"
	"github.com/Aisenh037/MBC-sub002/test/mock"
	"github.com/Aisenh037/MBC-sub002/util"
)

type fakeUserReader struct {
	byID    map[string]*model.User
	byEmail map[string]*model.User
}

func (f *fakeUserReader) GetUser(ctx context.Context, userID string) (*model.User, error) {
	user, ok := f.byID[userID]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserReader) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

func authStack(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hash, err := auth.HashPassword("correct horse")
	require.NoError(t, err)
	user := &model.User{
		ID:            "u1",
		Email:         "prof@example.edu",
		PasswordHash:  hash,
		Role:          "professor",
		InstitutionID: "inst-1",
		Active:        true,
	}
	users := &fakeUserReader{
		byID:    map[string]*model.User{"u1": user},
		byEmail: map[string]*model.User{"prof@example.edu": user},
	}

	issuer := auth.NewTokenIssuer("test-secret", "mbc-test", 15*time.Minute, 24*time.Hour)
	cacheSvc := cache.New(mock.NewStore(), "mbc", cache.DefaultTTLs())
	authCtl := controller.NewAuthController(service.NewAuthService(users, issuer, cacheSvc))
	mw := middleware.NewAuthMiddleware(issuer, users, nil, audit.NewNopService())

	r := gin.New()
	r.POST("/auth/login", authCtl.Login)
	authed := r.Group("", mw.Authenticate(), mw.TenantScope())
	authed.POST("/auth/logout", authCtl.Logout)
	authed.GET("/auth/me", authCtl.Me)
	return r
}

func responseData(t *testing.T, body []byte) map[string]interface{} {
	t.Helper()
	var resp util.Response
	require.NoError(t, json.Unmarshal(body, &resp))
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	return data
}

// The session recorded at login shows up on /auth/me and disappears after
// logout, while the token itself keeps authenticating until expiry.
func TestMeReportsSessionUntilLogout(t *testing.T) {
	r := authStack(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"prof@example.edu","password":"correct horse"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	token, _ := responseData(t, w.Body.Bytes())["access_token"].(string)
	require.NotEmpty(t, token)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	data := responseData(t, w.Body.Bytes())
	session, ok := data["session"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "prof@example.edu", session["email"])

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	data = responseData(t, w.Body.Bytes())
	assert.NotContains(t, data, "session")
	principal, ok := data["principal"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "u1", principal["ID"])
}
