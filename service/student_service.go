package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/Aisenh037/MBC-sub002/auth"
	"github.com/Aisenh037/MBC-sub002/cache"
	apperrors "github.com/Aisenh037/MBC-sub002/errors"
	logger "github.com/Aisenh037/MBC-sub002/logging"
	"github.com/Aisenh037/MBC-sub002/model"
	"github.com/Aisenh037/MBC-sub002/util"
)

// StudentRepository is the persistence surface the student service needs.
type StudentRepository interface {
	CreateStudent(ctx context.Context, student model.Student) (string, error)
	GetStudent(ctx context.Context, scope auth.ScopedQuery, studentID string) (*model.Student, error)
	UpdateStudent(ctx context.Context, scope auth.ScopedQuery, student model.Student) (*model.Student, error)
	DeleteStudent(ctx context.Context, scope auth.ScopedQuery, studentID string) error
	ListStudents(ctx context.Context, scope auth.ScopedQuery, limit, offset int) ([]*model.Student, error)
}

type IStudentService interface {
	CreateStudent(ctx context.Context, scope auth.ScopedQuery, student model.Student) (*model.Student, error)
	GetStudent(ctx context.Context, scope auth.ScopedQuery, studentID string) (*model.Student, error)
	UpdateStudent(ctx context.Context, scope auth.ScopedQuery, student model.Student) (*model.Student, error)
	DeleteStudent(ctx context.Context, scope auth.ScopedQuery, studentID string) error
	ListStudents(ctx context.Context, scope auth.ScopedQuery, limit, offset int) ([]*model.Student, error)
}

// StudentService handles business logic for student records.
type StudentService struct {
	studentRepo     StudentRepository
	validationUtil  *util.ValidationUtil
	cache           *cache.Cache
	notificationSvc *util.NotificationService
	eventBus        *util.EventBus
}

var _ IStudentService = &StudentService{}

func NewStudentService(studentRepo StudentRepository, validationUtil *util.ValidationUtil, cacheSvc *cache.Cache, notificationSvc *util.NotificationService, eventBus *util.EventBus) *StudentService {
	service := &StudentService{
		studentRepo:     studentRepo,
		validationUtil:  validationUtil,
		cache:           cacheSvc,
		notificationSvc: notificationSvc,
		eventBus:        eventBus,
	}

	eventBus.Subscribe("student.created", service.handleStudentChanged)
	eventBus.Subscribe("student.updated", service.handleStudentChanged)

	return service
}

func (s *StudentService) handleStudentChanged(ctx context.Context, event util.Event) error {
	student, ok := event.Payload.(model.Student)
	if !ok {
		return fmt.Errorf("unexpected payload for %s", event.Type)
	}

	changeType := "created"
	if event.Type == "student.updated" {
		changeType = "updated"
	}
	if err := s.notificationSvc.NotifyStudentChange(ctx, changeType, student); err != nil {
		logger.Warn("Failed to send student change notification",
			zap.Error(err), zap.String("studentID", student.ID))
	}
	return nil
}

func (s *StudentService) CreateStudent(ctx context.Context, scope auth.ScopedQuery, student model.Student) (*model.Student, error) {
	if details := s.validationUtil.ValidateStruct(student); details != nil {
		logger.Warn("Student create rejected by validation",
			zap.Any("details", details))
		return nil, apperrors.ErrInvalidStudentData
	}

	// The caller's institution wins over whatever the body claims.
	if !scope.Global {
		student.InstitutionID = scope.InstitutionID
	}
	student.CreatedAt = time.Now()
	student.UpdatedAt = time.Now()

	studentID, err := s.studentRepo.CreateStudent(ctx, student)
	if err != nil {
		return nil, err
	}
	student.ID = studentID

	s.invalidate(ctx)
	s.eventBus.Publish(ctx, "student.created", student)
	return &student, nil
}

func (s *StudentService) GetStudent(ctx context.Context, scope auth.ScopedQuery, studentID string) (*model.Student, error) {
	var student model.Student
	key := cache.EntityKey("students", studentID, scopeKeyPart(scope))
	_, err := s.cache.GetOrSet(ctx, key, cache.TTLShort, &student,
		func(ctx context.Context) (interface{}, error) {
			return s.studentRepo.GetStudent(ctx, scope, studentID)
		})
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (s *StudentService) UpdateStudent(ctx context.Context, scope auth.ScopedQuery, student model.Student) (*model.Student, error) {
	if details := s.validationUtil.ValidateStruct(student); details != nil {
		logger.Warn("Student update rejected by validation",
			zap.Any("details", details))
		return nil, apperrors.ErrInvalidStudentData
	}

	updated, err := s.studentRepo.UpdateStudent(ctx, scope, student)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	s.eventBus.Publish(ctx, "student.updated", *updated)
	return updated, nil
}

func (s *StudentService) DeleteStudent(ctx context.Context, scope auth.ScopedQuery, studentID string) error {
	if err := s.studentRepo.DeleteStudent(ctx, scope, studentID); err != nil {
		return err
	}

	s.invalidate(ctx)
	s.eventBus.Publish(ctx, "student.deleted", studentID)
	return nil
}

func (s *StudentService) ListStudents(ctx context.Context, scope auth.ScopedQuery, limit, offset int) ([]*model.Student, error) {
	var students []*model.Student
	key := cache.EntityKey("students", "list", scopeKeyPart(scope),
		strconv.Itoa(limit), strconv.Itoa(offset))
	_, err := s.cache.GetOrSet(ctx, key, cache.TTLShort, &students,
		func(ctx context.Context) (interface{}, error) {
			list, err := s.studentRepo.ListStudents(ctx, scope, limit, offset)
			if err != nil {
				return nil, err
			}
			if list == nil {
				list = []*model.Student{}
			}
			return list, nil
		})
	if err != nil {
		return nil, err
	}
	return students, nil
}

// invalidate drops every cached view a student mutation can stale: the
// student lists and entities, the dashboard counters, and the analytics
// aggregates derived from them.
func (s *StudentService) invalidate(ctx context.Context) {
	for _, pattern := range []string{"students:*", "dashboard:*", "analytics:*"} {
		if _, err := s.cache.InvalidatePattern(ctx, pattern); err != nil {
			logger.Warn("Student cache invalidation failed",
				zap.Error(err), zap.String("pattern", pattern))
		}
	}
}

// scopeKeyPart folds the tenant scope into cache keys so institutions never
// share cached entries.
func scopeKeyPart(scope auth.ScopedQuery) string {
	if scope.Global {
		return "global"
	}
	return scope.InstitutionID
}
