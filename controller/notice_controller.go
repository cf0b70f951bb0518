package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Aisenh037/MBC-sub002/auth"
	apperrors "github.com/Aisenh037/MBC-sub002/errors"
	"github.com/Aisenh037/MBC-sub002/middleware"
	"github.com/Aisenh037/MBC-sub002/model"
	"github.com/Aisenh037/MBC-sub002/service"
	"github.com/Aisenh037/MBC-sub002/util"
	helper_util "github.com/Aisenh037/MBC-sub002/util/helper"
)

type NoticeController struct {
	noticeService service.INoticeService
}

func NewNoticeController(noticeService service.INoticeService) *NoticeController {
	return &NoticeController{noticeService: noticeService}
}

// CreateNotice endpoint. The author is the authenticated principal.
func (nc *NoticeController) CreateNotice(c *gin.Context) {
	var notice model.Notice
	if err := c.ShouldBindJSON(&notice); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid notice data", apperrors.ErrInvalidNoticeData)
		return
	}
	scope, ok := requestScope(c)
	if !ok {
		return
	}
	if principal := middleware.PrincipalFromContext(c); principal != nil {
		notice.AuthorID = principal.ID
	}

	created, err := nc.noticeService.CreateNotice(c, scope, notice)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	util.RespondOK(c, http.StatusCreated, created)
}

// GetNotice endpoint
func (nc *NoticeController) GetNotice(c *gin.Context) {
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	notice, err := nc.noticeService.GetNotice(c, scope, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	util.RespondOK(c, http.StatusOK, notice)
}

// UpdateNotice endpoint
func (nc *NoticeController) UpdateNotice(c *gin.Context) {
	var notice model.Notice
	if err := c.ShouldBindJSON(&notice); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid notice data", apperrors.ErrInvalidNoticeData)
		return
	}
	notice.ID = c.Param("id")
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	updated, err := nc.noticeService.UpdateNotice(c, scope, notice)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	util.RespondOK(c, http.StatusOK, updated)
}

// DeleteNotice endpoint
func (nc *NoticeController) DeleteNotice(c *gin.Context) {
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	if err := nc.noticeService.DeleteNotice(c, scope, c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	util.RespondMessage(c, http.StatusOK, nil, "Notice deleted")
}

// ListNotices endpoint. Non-admin viewers see notices for their role's
// audience plus the "all" audience.
func (nc *NoticeController) ListNotices(c *gin.Context) {
	limit, offset, err := helper_util.GetPaginationParams(c)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid pagination parameters", apperrors.ErrInvalidPagination)
		return
	}
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	audience := ""
	if principal := middleware.PrincipalFromContext(c); principal != nil {
		switch principal.Role {
		case auth.RoleStudent:
			audience = "students"
		case auth.RoleProfessor:
			audience = "professors"
		}
	}

	notices, err := nc.noticeService.ListNotices(c, scope, audience, limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	util.RespondOK(c, http.StatusOK, notices)
}
