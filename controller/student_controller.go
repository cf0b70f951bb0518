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

type StudentController struct {
	studentService service.IStudentService
}

func NewStudentController(studentService service.IStudentService) *StudentController {
	return &StudentController{studentService: studentService}
}

// CreateStudent endpoint
func (sc *StudentController) CreateStudent(c *gin.Context) {
	var student model.Student
	if err := c.ShouldBindJSON(&student); err != nil {
		if details := util.FieldErrors(err); details != nil {
			util.RespondValidationError(c, details)
			return
		}
		util.RespondWithError(c, http.StatusBadRequest, "Invalid student data", apperrors.ErrInvalidStudentData)
		return
	}
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	created, err := sc.studentService.CreateStudent(c, scope, student)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	util.RespondOK(c, http.StatusCreated, created)
}

// GetStudent endpoint
func (sc *StudentController) GetStudent(c *gin.Context) {
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	student, err := sc.studentService.GetStudent(c, scope, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	util.RespondOK(c, http.StatusOK, student)
}

// UpdateStudent endpoint
func (sc *StudentController) UpdateStudent(c *gin.Context) {
	var student model.Student
	if err := c.ShouldBindJSON(&student); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid student data", apperrors.ErrInvalidStudentData)
		return
	}
	student.ID = c.Param("id")
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	updated, err := sc.studentService.UpdateStudent(c, scope, student)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	util.RespondOK(c, http.StatusOK, updated)
}

// DeleteStudent endpoint
func (sc *StudentController) DeleteStudent(c *gin.Context) {
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	if err := sc.studentService.DeleteStudent(c, scope, c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	util.RespondMessage(c, http.StatusOK, nil, "Student deleted")
}

// ListStudents endpoint
func (sc *StudentController) ListStudents(c *gin.Context) {
	limit, offset, err := helper_util.GetPaginationParams(c)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid pagination parameters", apperrors.ErrInvalidPagination)
		return
	}
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	students, err := sc.studentService.ListStudents(c, scope, limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	util.RespondOK(c, http.StatusOK, students)
}
