package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/Aisenh037/MBC-sub002/errors"
	"github.com/Aisenh037/MBC-sub002/middleware"
	"github.com/Aisenh037/MBC-sub002/model"
	"github.com/Aisenh037/MBC-sub002/service"
	"github.com/Aisenh037/MBC-sub002/util"
	helper_util "github.com/Aisenh037/MBC-sub002/util/helper"
)

type AssignmentController struct {
	assignmentService service.IAssignmentService
}

func NewAssignmentController(assignmentService service.IAssignmentService) *AssignmentController {
	return &AssignmentController{assignmentService: assignmentService}
}

// CreateAssignment endpoint. The posting professor is taken from the
// principal, not the body.
func (ac *AssignmentController) CreateAssignment(c *gin.Context) {
	var assignment model.Assignment
	if err := c.ShouldBindJSON(&assignment); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid assignment data", err)
		return
	}
	scope, ok := requestScope(c)
	if !ok {
		return
	}
	if principal := middleware.PrincipalFromContext(c); principal != nil {
		assignment.ProfessorID = principal.ID
	}

	created, err := ac.assignmentService.CreateAssignment(c, scope, assignment)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	util.RespondOK(c, http.StatusCreated, created)
}

// GetAssignment endpoint
func (ac *AssignmentController) GetAssignment(c *gin.Context) {
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	assignment, err := ac.assignmentService.GetAssignment(c, scope, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	util.RespondOK(c, http.StatusOK, assignment)
}

// UpdateAssignment endpoint
func (ac *AssignmentController) UpdateAssignment(c *gin.Context) {
	var assignment model.Assignment
	if err := c.ShouldBindJSON(&assignment); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid assignment data", err)
		return
	}
	assignment.ID = c.Param("id")
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	updated, err := ac.assignmentService.UpdateAssignment(c, scope, assignment)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	util.RespondOK(c, http.StatusOK, updated)
}

// DeleteAssignment endpoint
func (ac *AssignmentController) DeleteAssignment(c *gin.Context) {
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	if err := ac.assignmentService.DeleteAssignment(c, scope, c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	util.RespondMessage(c, http.StatusOK, nil, "Assignment deleted")
}

// ListAssignments endpoint. Accepts an optional courseId query filter.
func (ac *AssignmentController) ListAssignments(c *gin.Context) {
	limit, offset, err := helper_util.GetPaginationParams(c)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid pagination parameters", apperrors.ErrInvalidPagination)
		return
	}
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	assignments, err := ac.assignmentService.ListAssignments(c, scope, c.Query("courseId"), limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	util.RespondOK(c, http.StatusOK, assignments)
}
