package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/Aisenh037/MBC-sub002/errors"
	"github.com/Aisenh037/MBC-sub002/model"
	"github.com/Aisenh037/MBC-sub002/service"
	"github.com/Aisenh037/MBC-sub002/util"
	helper_util "github.com/Aisenh037/MBC-sub002/util/helper"
)

type CourseController struct {
	courseService service.ICourseService
}

func NewCourseController(courseService service.ICourseService) *CourseController {
	return &CourseController{courseService: courseService}
}

// CreateCourse endpoint
func (cc *CourseController) CreateCourse(c *gin.Context) {
	var course model.Course
	if err := c.ShouldBindJSON(&course); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid course data", apperrors.ErrInvalidCourseData)
		return
	}
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	created, err := cc.courseService.CreateCourse(c, scope, course)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	util.RespondOK(c, http.StatusCreated, created)
}

// GetCourse endpoint
func (cc *CourseController) GetCourse(c *gin.Context) {
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	course, err := cc.courseService.GetCourse(c, scope, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	util.RespondOK(c, http.StatusOK, course)
}

// UpdateCourse endpoint
func (cc *CourseController) UpdateCourse(c *gin.Context) {
	var course model.Course
	if err := c.ShouldBindJSON(&course); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid course data", apperrors.ErrInvalidCourseData)
		return
	}
	course.ID = c.Param("id")
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	updated, err := cc.courseService.UpdateCourse(c, scope, course)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	util.RespondOK(c, http.StatusOK, updated)
}

// DeleteCourse endpoint
func (cc *CourseController) DeleteCourse(c *gin.Context) {
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	if err := cc.courseService.DeleteCourse(c, scope, c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	util.RespondMessage(c, http.StatusOK, nil, "Course deleted")
}

// ListCourses endpoint. Accepts an optional semester query filter.
func (cc *CourseController) ListCourses(c *gin.Context) {
	limit, offset, err := helper_util.GetPaginationParams(c)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid pagination parameters", apperrors.ErrInvalidPagination)
		return
	}

	semester := 0
	if raw := c.Query("semester"); raw != "" {
		semester, err = strconv.Atoi(raw)
		if err != nil || semester < 1 {
			util.RespondWithError(c, http.StatusBadRequest, "Invalid semester filter", err)
			return
		}
	}

	scope, ok := requestScope(c)
	if !ok {
		return
	}

	courses, err := cc.courseService.ListCourses(c, scope, semester, limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	util.RespondOK(c, http.StatusOK, courses)
}
