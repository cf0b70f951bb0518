package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/Aisenh037/MBC-sub002/errors"
	"github.com/Aisenh037/MBC-sub002/middleware"
	"github.com/Aisenh037/MBC-sub002/service"
	"github.com/Aisenh037/MBC-sub002/util"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type AuthController struct {
	authService service.IAuthService
}

func NewAuthController(authService service.IAuthService) *AuthController {
	return &AuthController{authService: authService}
}

// Login endpoint. On success the access token is also set as an http-only
// cookie so browser clients do not have to manage the Authorization header.
func (ac *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Email and password are required", err)
		return
	}

	pair, err := ac.authService.Login(c, req.Email, req.Password, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		switch err {
		case apperrors.ErrInvalidCredentials:
			util.RespondWithError(c, http.StatusUnauthorized, "Invalid email or password", err)
		case apperrors.ErrUserInactive:
			util.RespondWithReason(c, http.StatusUnauthorized, apperrors.ReasonInactive, "Account is inactive")
		default:
			respondServiceError(c, err)
		}
		return
	}

	c.SetCookie(middleware.CookieName, pair.AccessToken, 0, "/", "", false, true)
	util.RespondOK(c, http.StatusOK, pair)
}

// Refresh endpoint
func (ac *AuthController) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Refresh token is required", err)
		return
	}

	pair, err := ac.authService.Refresh(c, req.RefreshToken)
	if err != nil {
		switch err {
		case apperrors.ErrTokenExpired:
			util.RespondWithReason(c, http.StatusUnauthorized, apperrors.ReasonExpired, "Refresh token expired")
		case apperrors.ErrTokenInvalid, apperrors.ErrInvalidRefreshToken:
			util.RespondWithReason(c, http.StatusUnauthorized, apperrors.ReasonInvalid, "Refresh token invalid")
		case apperrors.ErrUserInactive:
			util.RespondWithReason(c, http.StatusUnauthorized, apperrors.ReasonInactive, "Account is inactive")
		default:
			respondServiceError(c, err)
		}
		return
	}

	c.SetCookie(middleware.CookieName, pair.AccessToken, 0, "/", "", false, true)
	util.RespondOK(c, http.StatusOK, pair)
}

// Logout endpoint
func (ac *AuthController) Logout(c *gin.Context) {
	principal := middleware.PrincipalFromContext(c)
	if principal == nil {
		util.RespondWithReason(c, http.StatusUnauthorized, apperrors.ReasonMissingCredential, "Not authenticated")
		return
	}

	if err := ac.authService.Logout(c, principal.ID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.SetCookie(middleware.CookieName, "", -1, "/", "", false, true)
	util.RespondMessage(c, http.StatusOK, nil, "Logged out")
}

// Me returns the authenticated principal's identity, along with the session
// recorded at login while it is still live. After logout or session expiry
// the token keeps authenticating but no session is reported.
func (ac *AuthController) Me(c *gin.Context) {
	principal := middleware.PrincipalFromContext(c)
	if principal == nil {
		util.RespondWithReason(c, http.StatusUnauthorized, apperrors.ReasonMissingCredential, "Not authenticated")
		return
	}

	payload := gin.H{"principal": principal}
	if session, ok := ac.authService.ActiveSession(c, principal.ID); ok {
		payload["session"] = session
	}
	util.RespondOK(c, http.StatusOK, payload)
}
