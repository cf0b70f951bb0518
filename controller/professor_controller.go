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

type ProfessorController struct {
	professorService service.IProfessorService
}

func NewProfessorController(professorService service.IProfessorService) *ProfessorController {
	return &ProfessorController{professorService: professorService}
}

// CreateProfessor endpoint
func (pc *ProfessorController) CreateProfessor(c *gin.Context) {
	var professor model.Professor
	if err := c.ShouldBindJSON(&professor); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid professor data", apperrors.ErrInvalidProfessorData)
		return
	}
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	created, err := pc.professorService.CreateProfessor(c, scope, professor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	util.RespondOK(c, http.StatusCreated, created)
}

// GetProfessor endpoint
func (pc *ProfessorController) GetProfessor(c *gin.Context) {
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	professor, err := pc.professorService.GetProfessor(c, scope, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	util.RespondOK(c, http.StatusOK, professor)
}

// UpdateProfessor endpoint
func (pc *ProfessorController) UpdateProfessor(c *gin.Context) {
	var professor model.Professor
	if err := c.ShouldBindJSON(&professor); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid professor data", apperrors.ErrInvalidProfessorData)
		return
	}
	professor.ID = c.Param("id")
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	updated, err := pc.professorService.UpdateProfessor(c, scope, professor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	util.RespondOK(c, http.StatusOK, updated)
}

// DeleteProfessor endpoint
func (pc *ProfessorController) DeleteProfessor(c *gin.Context) {
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	if err := pc.professorService.DeleteProfessor(c, scope, c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	util.RespondMessage(c, http.StatusOK, nil, "Professor deleted")
}

// ListProfessors endpoint
func (pc *ProfessorController) ListProfessors(c *gin.Context) {
	limit, offset, err := helper_util.GetPaginationParams(c)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid pagination parameters", apperrors.ErrInvalidPagination)
		return
	}
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	professors, err := pc.professorService.ListProfessors(c, scope, limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	util.RespondOK(c, http.StatusOK, professors)
}
