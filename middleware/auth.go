package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Aisenh037/MBC-sub002/audit"
	"github.com/Aisenh037/MBC-sub002/auth"
	apperrors "github.com/Aisenh037/MBC-sub002/errors"
	logger "github.com/Aisenh037/MBC-sub002/logging"
	"github.com/Aisenh037/MBC-sub002/model"
	"github.com/Aisenh037/MBC-sub002/util"
)

const (
	principalKey = "principal"
	scopeKey     = "tenantScope"

	// CookieName is the fallback credential transport next to the
	// Authorization header.
	CookieName = "access_token"
)

// IdentityStore resolves a verified credential's subject to its backing
// identity record.
type IdentityStore interface {
	GetUser(ctx context.Context, userID string) (*model.User, error)
}

// ProfileResolver maps an account id to the id of the student record that
// account owns. Student routes address records by their own id, not the
// account id, so self-access conditions need this translation.
type ProfileResolver interface {
	StudentIDForUser(ctx context.Context, userID string) (string, error)
}

// AuthMiddleware carries the collaborators of the authentication and
// authorization chain.
type AuthMiddleware struct {
	issuer   *auth.TokenIssuer
	users    IdentityStore
	profiles ProfileResolver
	audit    audit.Service
}

func NewAuthMiddleware(issuer *auth.TokenIssuer, users IdentityStore, profiles ProfileResolver, auditSvc audit.Service) *AuthMiddleware {
	return &AuthMiddleware{issuer: issuer, users: users, profiles: profiles, audit: auditSvc}
}

// Authenticate verifies the bearer credential, loads the backing identity,
// and attaches the principal to the request. Failures are terminal and carry
// a distinct machine-readable reason.
func (am *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractCredential(c)
		if tokenString == "" {
			am.deny(c, http.StatusUnauthorized, apperrors.ErrMissingCredential, "")
			return
		}

		claims, err := am.issuer.ParseToken(tokenString)
		if err != nil {
			am.deny(c, http.StatusUnauthorized, err, "")
			return
		}
		if claims.TokenType != auth.TokenTypeAccess {
			am.deny(c, http.StatusUnauthorized, apperrors.ErrTokenInvalid, claims.UserID)
			return
		}

		user, err := am.users.GetUser(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, apperrors.ErrUserNotFound) {
				am.deny(c, http.StatusUnauthorized, apperrors.ErrTokenInvalid, claims.UserID)
				return
			}
			// Identity store unreachable: authentication cannot proceed.
			logger.Error("Identity lookup failed", zap.Error(err), zap.String("userID", claims.UserID))
			util.RespondWithReason(c, http.StatusInternalServerError, "service-unavailable", "identity store unavailable")
			return
		}
		if !user.Active {
			am.deny(c, http.StatusUnauthorized, apperrors.ErrUserInactive, claims.UserID)
			return
		}

		role := auth.Role(user.Role)
		principal := &auth.Principal{
			ID:            user.ID,
			Email:         user.Email,
			Role:          role,
			InstitutionID: user.InstitutionID,
			BranchID:      user.BranchID,
			Permissions:   auth.PermissionsFor(role),
		}
		c.Set(principalKey, principal)

		audit.LogDecision(c.Request.Context(), am.audit, principal.ID, "authenticate", c.FullPath(), "", true)
		c.Next()
	}
}

// RequireRoles rejects principals whose role is not in the allowed set.
func (am *AuthMiddleware) RequireRoles(roles ...auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := PrincipalFromContext(c)
		if principal == nil {
			am.deny(c, http.StatusUnauthorized, apperrors.ErrMissingCredential, "")
			return
		}
		for _, role := range roles {
			if principal.Role == role {
				c.Next()
				return
			}
		}
		audit.LogDecision(c.Request.Context(), am.audit, principal.ID, "role-check", c.FullPath(), apperrors.ReasonInsufficientRole, false)
		am.deny(c, http.StatusForbidden, apperrors.ErrInsufficientRole, principal.ID)
	}
}

// RequirePermission evaluates the principal's permission set against the
// (resource, action) pair. Condition context comes from the request: the
// contextual user id is the ":id"/":userId" path parameter or the
// "studentId"/"userId" query parameter; with none supplied, the principal
// refers to itself. When the request addresses the student record the
// principal owns, the id is normalized back to the account id so self-access
// conditions hold.
func (am *AuthMiddleware) RequirePermission(resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := PrincipalFromContext(c)
		if principal == nil {
			am.deny(c, http.StatusUnauthorized, apperrors.ErrMissingCredential, "")
			return
		}

		condCtx := map[string]string{"userId": am.selfContextID(c, principal)}
		if auth.HasPermission(principal, resource, action, condCtx) {
			c.Next()
			return
		}

		audit.LogDecision(c.Request.Context(), am.audit, principal.ID, action, resource, apperrors.ReasonInsufficientPermission, false)
		am.deny(c, http.StatusForbidden, apperrors.ErrInsufficientPermission, principal.ID)
	}
}

// TenantScope injects the caller's institution as an implicit filter for the
// remainder of the request. Admins stay unscoped; non-admins without an
// institution are rejected.
func (am *AuthMiddleware) TenantScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := PrincipalFromContext(c)
		if principal == nil {
			am.deny(c, http.StatusUnauthorized, apperrors.ErrMissingCredential, "")
			return
		}

		scope, err := auth.ScopeFor(principal)
		if err != nil {
			audit.LogDecision(c.Request.Context(), am.audit, principal.ID, "tenant-scope", c.FullPath(), apperrors.ReasonNoTenant, false)
			am.deny(c, http.StatusForbidden, err, principal.ID)
			return
		}

		c.Set(scopeKey, scope)
		c.Next()
	}
}

func (am *AuthMiddleware) deny(c *gin.Context, code int, err error, userID string) {
	reason := apperrors.AuthReason(err)
	if code == http.StatusUnauthorized {
		audit.LogDecision(c.Request.Context(), am.audit, userID, "authenticate", c.FullPath(), reason, false)
	}
	util.RespondWithReason(c, code, reason, err.Error())
}

func extractCredential(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header != "" {
		if strings.HasPrefix(header, "Bearer ") {
			return strings.TrimPrefix(header, "Bearer ")
		}
		return ""
	}
	cookie, err := c.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return cookie
}

func contextualUserID(c *gin.Context, principal *auth.Principal) string {
	for _, v := range []string{c.Param("userId"), c.Param("id"), c.Query("studentId"), c.Query("userId")} {
		if v != "" {
			return v
		}
	}
	return principal.ID
}

// selfContextID resolves the contextual id for self-access conditions. Paths
// like /students/:id/marks carry the student record id, which never equals
// the account id the condition compares against, so for student principals
// the owned record id is looked up and collapsed onto the account id.
func (am *AuthMiddleware) selfContextID(c *gin.Context, principal *auth.Principal) string {
	ctxID := contextualUserID(c, principal)
	if ctxID == principal.ID || principal.Role != auth.RoleStudent || am.profiles == nil {
		return ctxID
	}
	ownedID, err := am.profiles.StudentIDForUser(c.Request.Context(), principal.ID)
	if err == nil && ownedID == ctxID {
		return principal.ID
	}
	return ctxID
}

// PrincipalFromContext returns the authenticated principal, or nil when the
// request has not passed Authenticate.
func PrincipalFromContext(c *gin.Context) *auth.Principal {
	v, exists := c.Get(principalKey)
	if !exists {
		return nil
	}
	principal, ok := v.(*auth.Principal)
	if !ok {
		return nil
	}
	return principal
}

// ScopeFromContext returns the tenant scope injected by TenantScope. The
// boolean is false when scoping has not run for this request.
func ScopeFromContext(c *gin.Context) (auth.ScopedQuery, bool) {
	v, exists := c.Get(scopeKey)
	if !exists {
		return auth.ScopedQuery{}, false
	}
	scope, ok := v.(auth.ScopedQuery)
	return scope, ok
}
