package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Aisenh037/MBC-sub002/model"
	"github.com/Aisenh037/MBC-sub002/service"
	"github.com/Aisenh037/MBC-sub002/util"
)

type AttendanceController struct {
	attendanceService service.IAttendanceService
}

func NewAttendanceController(attendanceService service.IAttendanceService) *AttendanceController {
	return &AttendanceController{attendanceService: attendanceService}
}

// RecordAttendance endpoint
func (ac *AttendanceController) RecordAttendance(c *gin.Context) {
	var record model.Attendance
	if err := c.ShouldBindJSON(&record); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid attendance data", err)
		return
	}
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	created, err := ac.attendanceService.RecordAttendance(c, scope, record)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	util.RespondOK(c, http.StatusCreated, created)
}

// ListAttendance endpoint. Supports courseId, from and to query filters;
// dates are YYYY-MM-DD.
func (ac *AttendanceController) ListAttendance(c *gin.Context) {
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	from, to, err := dateRange(c)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid date filter", err)
		return
	}

	records, err := ac.attendanceService.ListAttendance(c, scope, c.Param("userId"), c.Query("courseId"), from, to)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	util.RespondOK(c, http.StatusOK, records)
}

// AttendanceSummary endpoint
func (ac *AttendanceController) AttendanceSummary(c *gin.Context) {
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	from, to, err := dateRange(c)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid date filter", err)
		return
	}

	summary, err := ac.attendanceService.AttendanceSummary(c, scope, c.Param("userId"), from, to)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	util.RespondOK(c, http.StatusOK, summary)
}

// DeleteAttendance endpoint
func (ac *AttendanceController) DeleteAttendance(c *gin.Context) {
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	if err := ac.attendanceService.DeleteAttendance(c, scope, c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	util.RespondMessage(c, http.StatusOK, nil, "Attendance record deleted")
}

func dateRange(c *gin.Context) (from, to time.Time, err error) {
	if raw := c.Query("from"); raw != "" {
		if from, err = time.Parse("2006-01-02", raw); err != nil {
			return
		}
	}
	if raw := c.Query("to"); raw != "" {
		if to, err = time.Parse("2006-01-02", raw); err != nil {
			return
		}
	}
	return
}
