package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Aisenh037/MBC-sub002/model"
	"github.com/Aisenh037/MBC-sub002/service"
	"github.com/Aisenh037/MBC-sub002/util"
)

type MarkController struct {
	markService service.IMarkService
}

func NewMarkController(markService service.IMarkService) *MarkController {
	return &MarkController{markService: markService}
}

// CreateMark endpoint
func (mc *MarkController) CreateMark(c *gin.Context) {
	var mark model.Mark
	if err := c.ShouldBindJSON(&mark); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid mark data", err)
		return
	}
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	created, err := mc.markService.CreateMark(c, scope, mark)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	util.RespondOK(c, http.StatusCreated, created)
}

// GetMark endpoint
func (mc *MarkController) GetMark(c *gin.Context) {
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	mark, err := mc.markService.GetMark(c, scope, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	util.RespondOK(c, http.StatusOK, mark)
}

// UpdateMark endpoint
func (mc *MarkController) UpdateMark(c *gin.Context) {
	var mark model.Mark
	if err := c.ShouldBindJSON(&mark); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid mark data", err)
		return
	}
	mark.ID = c.Param("id")
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	updated, err := mc.markService.UpdateMark(c, scope, mark)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	util.RespondOK(c, http.StatusOK, updated)
}

// DeleteMark endpoint
func (mc *MarkController) DeleteMark(c *gin.Context) {
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	if err := mc.markService.DeleteMark(c, scope, c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	util.RespondMessage(c, http.StatusOK, nil, "Mark deleted")
}

// ListStudentMarks endpoint. The id route parameter doubles as the
// self-access condition checked by the permission gate.
func (mc *MarkController) ListStudentMarks(c *gin.Context) {
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	marks, err := mc.markService.ListMarksByStudent(c, scope, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	util.RespondOK(c, http.StatusOK, marks)
}
