package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Aisenh037/MBC-sub002/auth"
	"github.com/Aisenh037/MBC-sub002/cache"
	logger "github.com/Aisenh037/MBC-sub002/logging"
	"github.com/Aisenh037/MBC-sub002/model"
	"github.com/Aisenh037/MBC-sub002/util"
)

// MarkRepository is the persistence surface shared by the mark service and
// the analytics aggregations.
type MarkRepository interface {
	CreateMark(ctx context.Context, mark model.Mark) (string, error)
	GetMark(ctx context.Context, scope auth.ScopedQuery, markID string) (*model.Mark, error)
	UpdateMark(ctx context.Context, scope auth.ScopedQuery, mark model.Mark) (*model.Mark, error)
	DeleteMark(ctx context.Context, scope auth.ScopedQuery, markID string) error
	ListMarksByStudent(ctx context.Context, scope auth.ScopedQuery, studentID string) ([]*model.Mark, error)
	ListMarksByInstitution(ctx context.Context, scope auth.ScopedQuery, branchID string) ([]*model.Mark, error)
}

type IMarkService interface {
	CreateMark(ctx context.Context, scope auth.ScopedQuery, mark model.Mark) (*model.Mark, error)
	GetMark(ctx context.Context, scope auth.ScopedQuery, markID string) (*model.Mark, error)
	UpdateMark(ctx context.Context, scope auth.ScopedQuery, mark model.Mark) (*model.Mark, error)
	DeleteMark(ctx context.Context, scope auth.ScopedQuery, markID string) error
	ListMarksByStudent(ctx context.Context, scope auth.ScopedQuery, studentID string) ([]*model.Mark, error)
}

// MarkService records exam scores. Every mutation invalidates the analytics
// aggregates because reports and predictions derive from marks.
type MarkService struct {
	markRepo        MarkRepository
	cache           *cache.Cache
	notificationSvc *util.NotificationService
	eventBus        *util.EventBus
}

var _ IMarkService = &MarkService{}

func NewMarkService(markRepo MarkRepository, cacheSvc *cache.Cache, notificationSvc *util.NotificationService, eventBus *util.EventBus) *MarkService {
	service := &MarkService{
		markRepo:        markRepo,
		cache:           cacheSvc,
		notificationSvc: notificationSvc,
		eventBus:        eventBus,
	}

	eventBus.Subscribe("mark.created", service.handleMarkCreated)

	return service
}

func (s *MarkService) handleMarkCreated(ctx context.Context, event util.Event) error {
	mark, ok := event.Payload.(model.Mark)
	if !ok {
		return fmt.Errorf("unexpected payload for %s", event.Type)
	}
	if err := s.notificationSvc.NotifyMarksPublished(ctx, mark); err != nil {
		logger.Warn("Failed to send marks notification",
			zap.Error(err), zap.String("markID", mark.ID))
	}
	return nil
}

func (s *MarkService) CreateMark(ctx context.Context, scope auth.ScopedQuery, mark model.Mark) (*model.Mark, error) {
	if !scope.Global {
		mark.InstitutionID = scope.InstitutionID
	}
	if mark.MaxScore == 0 {
		mark.MaxScore = 100
	}
	if mark.ExamDate.IsZero() {
		mark.ExamDate = time.Now()
	}
	mark.CreatedAt = time.Now()
	mark.UpdatedAt = time.Now()

	markID, err := s.markRepo.CreateMark(ctx, mark)
	if err != nil {
		return nil, err
	}
	mark.ID = markID

	s.invalidate(ctx)
	s.eventBus.Publish(ctx, "mark.created", mark)
	return &mark, nil
}

func (s *MarkService) GetMark(ctx context.Context, scope auth.ScopedQuery, markID string) (*model.Mark, error) {
	return s.markRepo.GetMark(ctx, scope, markID)
}

func (s *MarkService) UpdateMark(ctx context.Context, scope auth.ScopedQuery, mark model.Mark) (*model.Mark, error) {
	updated, err := s.markRepo.UpdateMark(ctx, scope, mark)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return updated, nil
}

func (s *MarkService) DeleteMark(ctx context.Context, scope auth.ScopedQuery, markID string) error {
	if err := s.markRepo.DeleteMark(ctx, scope, markID); err != nil {
		return err
	}

	s.invalidate(ctx)
	return nil
}

func (s *MarkService) ListMarksByStudent(ctx context.Context, scope auth.ScopedQuery, studentID string) ([]*model.Mark, error) {
	var marks []*model.Mark
	key := cache.EntityKey("marks", "student", studentID, scopeKeyPart(scope))
	_, err := s.cache.GetOrSet(ctx, key, cache.TTLShort, &marks,
		func(ctx context.Context) (interface{}, error) {
			list, err := s.markRepo.ListMarksByStudent(ctx, scope, studentID)
			if err != nil {
				return nil, err
			}
			if list == nil {
				list = []*model.Mark{}
			}
			return list, nil
		})
	if err != nil {
		return nil, err
	}
	return marks, nil
}

func (s *MarkService) invalidate(ctx context.Context) {
	for _, pattern := range []string{"marks:*", "analytics:*", "dashboard:*"} {
		if _, err := s.cache.InvalidatePattern(ctx, pattern); err != nil {
			logger.Warn("Mark cache invalidation failed",
				zap.Error(err), zap.String("pattern", pattern))
		}
	}
}
