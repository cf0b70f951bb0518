package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aisenh037/MBC-sub002/audit"
	"github.com/Aisenh037/MBC-sub002/auth"
	apperrors "github.com/Aisenh037/MBC-sub002/errors"
	"github.com/Aisenh037/MBC-sub002/middleware"
	"github.com/Aisenh037/MBC-sub002/model"
	"github.com/Aisenh037/MBC-sub002/util"
)

type fakeIdentityStore struct {
	users map[string]*model.User
	err   error
}

func (f *fakeIdentityStore) GetUser(ctx context.Context, userID string) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	user, ok := f.users[userID]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

// fakeProfileResolver maps account ids to owned student record ids.
type fakeProfileResolver struct {
	owned map[string]string
}

func (f *fakeProfileResolver) StudentIDForUser(ctx context.Context, userID string) (string, error) {
	id, ok := f.owned[userID]
	if !ok {
		return "", apperrors.ErrStudentNotFound
	}
	return id, nil
}

func testSetup(users *fakeIdentityStore) (*auth.TokenIssuer, *middleware.AuthMiddleware) {
	issuer := auth.NewTokenIssuer("test-secret", "mbc-test", 15*time.Minute, 24*time.Hour)
	return issuer, middleware.NewAuthMiddleware(issuer, users, nil, audit.NewNopService())
}

func activeUser(id, role, institution string) *model.User {
	return &model.User{ID: id, Email: id + "@example.edu", Role: role, InstitutionID: institution, Active: true}
}

func tokenFor(t *testing.T, issuer *auth.TokenIssuer, user *model.User) string {
	t.Helper()
	token, err := issuer.AccessToken(auth.Claims{
		UserID:        user.ID,
		Email:         user.Email,
		Role:          user.Role,
		InstitutionID: user.InstitutionID,
	})
	require.NoError(t, err)
	return token
}

func errorReason(t *testing.T, body []byte) string {
	t.Helper()
	var resp util.Response
	require.NoError(t, json.Unmarshal(body, &resp))
	reason, _ := resp.Error.(string)
	return reason
}

func newEngine(mw *middleware.AuthMiddleware, register func(r *gin.RouterGroup)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	group := r.Group("/", mw.Authenticate(), mw.TenantScope())
	register(group)
	return r
}

func okHandler(c *gin.Context) {
	scope, _ := middleware.ScopeFromContext(c)
	util.RespondOK(c, http.StatusOK, gin.H{"institution": scope.InstitutionID, "global": scope.Global})
}

func TestMissingCredential(t *testing.T) {
	_, mw := testSetup(&fakeIdentityStore{})
	r := newEngine(mw, func(g *gin.RouterGroup) { g.GET("/ping", okHandler) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "missing-credential", errorReason(t, w.Body.Bytes()))
}

func TestExpiredTokenReason(t *testing.T) {
	store := &fakeIdentityStore{users: map[string]*model.User{"u1": activeUser("u1", "student", "inst-1")}}
	_, mw := testSetup(store)
	r := newEngine(mw, func(g *gin.RouterGroup) { g.GET("/ping", okHandler) })

	expiredIssuer := auth.NewTokenIssuer("test-secret", "mbc-test", -time.Minute, -time.Minute)
	token, err := expiredIssuer.AccessToken(auth.Claims{UserID: "u1", Role: "student"})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "expired", errorReason(t, w.Body.Bytes()))
}

func TestInactiveUserReason(t *testing.T) {
	inactive := activeUser("u1", "student", "inst-1")
	inactive.Active = false
	store := &fakeIdentityStore{users: map[string]*model.User{"u1": inactive}}
	issuer, mw := testSetup(store)
	r := newEngine(mw, func(g *gin.RouterGroup) { g.GET("/ping", okHandler) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, issuer, inactive))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "inactive", errorReason(t, w.Body.Bytes()))
}

func TestIdentityStoreOutageIs500NotInvalid(t *testing.T) {
	user := activeUser("u1", "student", "inst-1")
	store := &fakeIdentityStore{users: map[string]*model.User{"u1": user}}
	issuer, mw := testSetup(store)
	r := newEngine(mw, func(g *gin.RouterGroup) { g.GET("/ping", okHandler) })
	token := tokenFor(t, issuer, user)

	store.err = errors.New("connection refused")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "service-unavailable", errorReason(t, w.Body.Bytes()))
}

func TestRefreshTokenRejectedOnProtectedRoute(t *testing.T) {
	user := activeUser("u1", "student", "inst-1")
	store := &fakeIdentityStore{users: map[string]*model.User{"u1": user}}
	issuer, mw := testSetup(store)
	r := newEngine(mw, func(g *gin.RouterGroup) { g.GET("/ping", okHandler) })

	refresh, err := issuer.RefreshToken(auth.Claims{UserID: "u1", Role: "student"})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid", errorReason(t, w.Body.Bytes()))
}

func TestCookieCredentialAccepted(t *testing.T) {
	user := activeUser("u1", "student", "inst-1")
	store := &fakeIdentityStore{users: map[string]*model.User{"u1": user}}
	issuer, mw := testSetup(store)
	r := newEngine(mw, func(g *gin.RouterGroup) { g.GET("/ping", okHandler) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.AddCookie(&http.Cookie{Name: middleware.CookieName, Value: tokenFor(t, issuer, user)})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRoleGate(t *testing.T) {
	student := activeUser("s1", "student", "inst-1")
	admin := activeUser("a1", "admin", "")
	store := &fakeIdentityStore{users: map[string]*model.User{"s1": student, "a1": admin}}
	issuer, mw := testSetup(store)
	r := newEngine(mw, func(g *gin.RouterGroup) {
		g.GET("/admin-only", mw.RequireRoles(auth.RoleAdmin), okHandler)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin-only", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, issuer, student))
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "insufficient-role", errorReason(t, w.Body.Bytes()))

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/admin-only", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, issuer, admin))
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSelfPermissionGate(t *testing.T) {
	student := activeUser("s1", "student", "inst-1")
	store := &fakeIdentityStore{users: map[string]*model.User{"s1": student}}
	issuer, mw := testSetup(store)
	r := newEngine(mw, func(g *gin.RouterGroup) {
		g.GET("/students/:id/marks", mw.RequirePermission("marks", "read"), okHandler)
	})
	token := tokenFor(t, issuer, student)

	// Own marks.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/students/s1/marks", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// Another student's marks.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/students/s2/marks", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "insufficient-permission", errorReason(t, w.Body.Bytes()))
}

// Student routes address records by the record's own id. The self-access
// condition compares account ids, so the gate must resolve the record back to
// its owning account instead of comparing the two id spaces directly.
func TestSelfPermissionResolvesOwnedStudentRecord(t *testing.T) {
	student := activeUser("u-42", "student", "inst-1")
	store := &fakeIdentityStore{users: map[string]*model.User{"u-42": student}}
	issuer := auth.NewTokenIssuer("test-secret", "mbc-test", 15*time.Minute, 24*time.Hour)
	profiles := &fakeProfileResolver{owned: map[string]string{"u-42": "s-abc"}}
	mw := middleware.NewAuthMiddleware(issuer, store, profiles, audit.NewNopService())
	r := newEngine(mw, func(g *gin.RouterGroup) {
		g.GET("/students/:id/marks", mw.RequirePermission("marks", "read"), okHandler)
	})
	token := tokenFor(t, issuer, student)

	// The record id differs from the account id but belongs to the caller.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/students/s-abc/marks", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// Someone else's record stays forbidden.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/students/s-other/marks", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "insufficient-permission", errorReason(t, w.Body.Bytes()))
}

func TestTenantScopeInjection(t *testing.T) {
	prof := activeUser("p1", "professor", "inst-1")
	admin := activeUser("a1", "admin", "")
	orphan := activeUser("o1", "professor", "")
	store := &fakeIdentityStore{users: map[string]*model.User{"p1": prof, "a1": admin, "o1": orphan}}
	issuer, mw := testSetup(store)
	r := newEngine(mw, func(g *gin.RouterGroup) { g.GET("/scope", okHandler) })

	// Professor is bound to the institution from the identity record.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/scope?institutionId=inst-other", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, issuer, prof))
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	var resp util.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "inst-1", data["institution"])
	assert.Equal(t, false, data["global"])

	// Admin is unscoped.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/scope", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, issuer, admin))
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	resp = util.Response{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp.Data.(map[string]interface{})["global"])

	// Non-admin with no institution association is rejected.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/scope", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, issuer, orphan))
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "no-tenant", errorReason(t, w.Body.Bytes()))
}
