package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/Aisenh037/MBC-sub002/auth"
	"github.com/Aisenh037/MBC-sub002/cache"
	"github.com/Aisenh037/MBC-sub002/dao"
	logger "github.com/Aisenh037/MBC-sub002/logging"
	"github.com/Aisenh037/MBC-sub002/model"
	"github.com/Aisenh037/MBC-sub002/util"
)

type IAssignmentService interface {
	CreateAssignment(ctx context.Context, scope auth.ScopedQuery, assignment model.Assignment) (*model.Assignment, error)
	GetAssignment(ctx context.Context, scope auth.ScopedQuery, assignmentID string) (*model.Assignment, error)
	UpdateAssignment(ctx context.Context, scope auth.ScopedQuery, assignment model.Assignment) (*model.Assignment, error)
	DeleteAssignment(ctx context.Context, scope auth.ScopedQuery, assignmentID string) error
	ListAssignments(ctx context.Context, scope auth.ScopedQuery, courseID string, limit, offset int) ([]*model.Assignment, error)
}

type AssignmentService struct {
	assignmentDAO   *dao.AssignmentDAO
	cache           *cache.Cache
	notificationSvc *util.NotificationService
	eventBus        *util.EventBus
}

var _ IAssignmentService = &AssignmentService{}

func NewAssignmentService(assignmentDAO *dao.AssignmentDAO, cacheSvc *cache.Cache, notificationSvc *util.NotificationService, eventBus *util.EventBus) *AssignmentService {
	service := &AssignmentService{
		assignmentDAO:   assignmentDAO,
		cache:           cacheSvc,
		notificationSvc: notificationSvc,
		eventBus:        eventBus,
	}

	eventBus.Subscribe("assignment.created", service.handleAssignmentCreated)

	return service
}

func (s *AssignmentService) handleAssignmentCreated(ctx context.Context, event util.Event) error {
	assignment, ok := event.Payload.(model.Assignment)
	if !ok {
		return fmt.Errorf("unexpected payload for %s", event.Type)
	}
	if err := s.notificationSvc.NotifyAssignmentPosted(ctx, assignment); err != nil {
		logger.Warn("Failed to send assignment notification",
			zap.Error(err), zap.String("assignmentID", assignment.ID))
	}
	return nil
}

func (s *AssignmentService) CreateAssignment(ctx context.Context, scope auth.ScopedQuery, assignment model.Assignment) (*model.Assignment, error) {
	if !scope.Global {
		assignment.InstitutionID = scope.InstitutionID
	}
	assignment.CreatedAt = time.Now()
	assignment.UpdatedAt = time.Now()

	assignmentID, err := s.assignmentDAO.CreateAssignment(ctx, assignment)
	if err != nil {
		return nil, err
	}
	assignment.ID = assignmentID

	s.invalidate(ctx)
	s.eventBus.Publish(ctx, "assignment.created", assignment)
	return &assignment, nil
}

func (s *AssignmentService) GetAssignment(ctx context.Context, scope auth.ScopedQuery, assignmentID string) (*model.Assignment, error) {
	var assignment model.Assignment
	key := cache.EntityKey("assignments", assignmentID, scopeKeyPart(scope))
	_, err := s.cache.GetOrSet(ctx, key, cache.TTLShort, &assignment,
		func(ctx context.Context) (interface{}, error) {
			return s.assignmentDAO.GetAssignment(ctx, scope, assignmentID)
		})
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (s *AssignmentService) UpdateAssignment(ctx context.Context, scope auth.ScopedQuery, assignment model.Assignment) (*model.Assignment, error) {
	updated, err := s.assignmentDAO.UpdateAssignment(ctx, scope, assignment)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	s.eventBus.Publish(ctx, "assignment.updated", *updated)
	return updated, nil
}

func (s *AssignmentService) DeleteAssignment(ctx context.Context, scope auth.ScopedQuery, assignmentID string) error {
	if err := s.assignmentDAO.DeleteAssignment(ctx, scope, assignmentID); err != nil {
		return err
	}

	s.invalidate(ctx)
	return nil
}

func (s *AssignmentService) ListAssignments(ctx context.Context, scope auth.ScopedQuery, courseID string, limit, offset int) ([]*model.Assignment, error) {
	var assignments []*model.Assignment
	key := cache.EntityKey("assignments", "list", scopeKeyPart(scope), courseID,
		strconv.Itoa(limit), strconv.Itoa(offset))
	_, err := s.cache.GetOrSet(ctx, key, cache.TTLShort, &assignments,
		func(ctx context.Context) (interface{}, error) {
			list, err := s.assignmentDAO.ListAssignments(ctx, scope, courseID, limit, offset)
			if err != nil {
				return nil, err
			}
			if list == nil {
				list = []*model.Assignment{}
			}
			return list, nil
		})
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

func (s *AssignmentService) invalidate(ctx context.Context) {
	if _, err := s.cache.InvalidatePattern(ctx, "assignments:*"); err != nil {
		logger.Warn("Assignment cache invalidation failed", zap.Error(err))
	}
}
