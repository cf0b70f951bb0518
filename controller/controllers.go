package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Aisenh037/MBC-sub002/auth"
	apperrors "github.com/Aisenh037/MBC-sub002/errors"
	"github.com/Aisenh037/MBC-sub002/middleware"
	"github.com/Aisenh037/MBC-sub002/service"
	"github.com/Aisenh037/MBC-sub002/util"
)

type Controllers struct {
	Auth        *AuthController
	User        *UserController
	Student     *StudentController
	Professor   *ProfessorController
	Course      *CourseController
	Branch      *BranchController
	Assignment  *AssignmentController
	Mark        *MarkController
	Attendance  *AttendanceController
	Notice      *NoticeController
	Analytics   *AnalyticsController
	Sentiment   *SentimentController
	Institution *InstitutionController
}

func InitializeControllers(services *service.Services) *Controllers {
	return &Controllers{
		Auth:        NewAuthController(services.Auth),
		User:        NewUserController(services.User),
		Student:     NewStudentController(services.Student),
		Professor:   NewProfessorController(services.Professor),
		Course:      NewCourseController(services.Course),
		Branch:      NewBranchController(services.Branch),
		Assignment:  NewAssignmentController(services.Assignment),
		Mark:        NewMarkController(services.Mark),
		Attendance:  NewAttendanceController(services.Attendance),
		Notice:      NewNoticeController(services.Notice),
		Analytics:   NewAnalyticsController(services.Analytics),
		Sentiment:   NewSentimentController(services.Sentiment),
		Institution: NewInstitutionController(services.Institution),
	}
}

// requestScope pulls the tenant scope the authorization chain placed on the
// context. Routes behind TenantScope always have it; the fallback guards
// against wiring mistakes.
func requestScope(c *gin.Context) (auth.ScopedQuery, bool) {
	scope, ok := middleware.ScopeFromContext(c)
	if !ok {
		util.RespondWithError(c, http.StatusForbidden, "Tenant scope missing", apperrors.ErrNoInstitution)
		return auth.ScopedQuery{}, false
	}
	return scope, true
}

// respondServiceError maps service sentinel errors onto HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	switch err {
	case apperrors.ErrStudentNotFound, apperrors.ErrProfessorNotFound,
		apperrors.ErrCourseNotFound, apperrors.ErrBranchNotFound,
		apperrors.ErrAssignmentNotFound, apperrors.ErrMarkNotFound,
		apperrors.ErrAttendanceNotFound, apperrors.ErrNoticeNotFound,
		apperrors.ErrUserNotFound, apperrors.ErrInstitutionNotFound:
		util.RespondWithError(c, http.StatusNotFound, "Resource not found", err)
	case apperrors.ErrStudentConflict, apperrors.ErrProfessorConflict,
		apperrors.ErrCourseConflict, apperrors.ErrBranchConflict,
		apperrors.ErrUserConflict:
		util.RespondWithError(c, http.StatusConflict, "Resource already exists", err)
	case apperrors.ErrInvalidUserData, apperrors.ErrInvalidStudentData,
		apperrors.ErrInvalidProfessorData, apperrors.ErrInvalidCourseData,
		apperrors.ErrInvalidNoticeData, apperrors.ErrInvalidFeedbackData:
		util.RespondWithError(c, http.StatusBadRequest, "Validation failed", err)
	case apperrors.ErrInsufficientMarks:
		util.RespondWithError(c, http.StatusUnprocessableEntity, "Not enough marks recorded for a prediction", err)
	case apperrors.ErrDatabaseOperation:
		util.RespondWithError(c, http.StatusInternalServerError, "Database operation failed", err)
	default:
		util.RespondWithError(c, http.StatusInternalServerError, "Internal server error", apperrors.ErrInternalServer)
	}
}
