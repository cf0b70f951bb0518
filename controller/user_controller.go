package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/Aisenh037/MBC-sub002/errors"
	"github.com/Aisenh037/MBC-sub002/model"
	"github.com/Aisenh037/MBC-sub002/service"
	"github.com/Aisenh037/MBC-sub002/util"
	helper_util "github.com/Aisenh037/MBC-sub002/util/helper"
)

type UserController struct {
	userService service.IUserService
}

func NewUserController(userService service.IUserService) *UserController {
	return &UserController{userService: userService}
}

// Register endpoint
func (uc *UserController) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if details := util.FieldErrors(err); details != nil {
			util.RespondValidationError(c, details)
			return
		}
		util.RespondWithError(c, http.StatusBadRequest, "Invalid user data", apperrors.ErrInvalidUserData)
		return
	}

	user, err := uc.userService.Register(c, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	util.RespondOK(c, http.StatusCreated, user)
}

// GetUser endpoint
func (uc *UserController) GetUser(c *gin.Context) {
	user, err := uc.userService.GetUser(c, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	util.RespondOK(c, http.StatusOK, user)
}

// UpdateUser endpoint
func (uc *UserController) UpdateUser(c *gin.Context) {
	var user model.User
	if err := c.ShouldBindJSON(&user); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid user data", apperrors.ErrInvalidUserData)
		return
	}
	user.ID = c.Param("id")

	updated, err := uc.userService.UpdateUser(c, user)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	util.RespondOK(c, http.StatusOK, updated)
}

// DeactivateUser endpoint
func (uc *UserController) DeactivateUser(c *gin.Context) {
	if err := uc.userService.DeactivateUser(c, c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	util.RespondMessage(c, http.StatusOK, nil, "User deactivated")
}

// DeleteUser endpoint
func (uc *UserController) DeleteUser(c *gin.Context) {
	if err := uc.userService.DeleteUser(c, c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	util.RespondMessage(c, http.StatusOK, nil, "User deleted")
}

// ListUsers endpoint
func (uc *UserController) ListUsers(c *gin.Context) {
	limit, offset, err := helper_util.GetPaginationParams(c)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid pagination parameters", apperrors.ErrInvalidPagination)
		return
	}

	criteria := model.UserSearchCriteria{
		Name:          c.Query("name"),
		Email:         c.Query("email"),
		Role:          c.Query("role"),
		InstitutionID: c.Query("institutionId"),
		Limit:         limit,
		Offset:        offset,
	}

	users, err := uc.userService.ListUsers(c, criteria)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	util.RespondOK(c, http.StatusOK, users)
}
