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

type INoticeService interface {
	CreateNotice(ctx context.Context, scope auth.ScopedQuery, notice model.Notice) (*model.Notice, error)
	GetNotice(ctx context.Context, scope auth.ScopedQuery, noticeID string) (*model.Notice, error)
	UpdateNotice(ctx context.Context, scope auth.ScopedQuery, notice model.Notice) (*model.Notice, error)
	DeleteNotice(ctx context.Context, scope auth.ScopedQuery, noticeID string) error
	ListNotices(ctx context.Context, scope auth.ScopedQuery, audience string, limit, offset int) ([]*model.Notice, error)
}

type NoticeService struct {
	noticeDAO       *dao.NoticeDAO
	cache           *cache.Cache
	notificationSvc *util.NotificationService
	eventBus        *util.EventBus
}

var _ INoticeService = &NoticeService{}

func NewNoticeService(noticeDAO *dao.NoticeDAO, cacheSvc *cache.Cache, notificationSvc *util.NotificationService, eventBus *util.EventBus) *NoticeService {
	service := &NoticeService{
		noticeDAO:       noticeDAO,
		cache:           cacheSvc,
		notificationSvc: notificationSvc,
		eventBus:        eventBus,
	}

	eventBus.Subscribe("notice.published", service.handleNoticePublished)

	return service
}

func (s *NoticeService) handleNoticePublished(ctx context.Context, event util.Event) error {
	notice, ok := event.Payload.(model.Notice)
	if !ok {
		return fmt.Errorf("unexpected payload for %s", event.Type)
	}
	if err := s.notificationSvc.NotifyNoticePublished(ctx, notice); err != nil {
		logger.Warn("Failed to send notice notification",
			zap.Error(err), zap.String("noticeID", notice.ID))
	}
	return nil
}

func (s *NoticeService) CreateNotice(ctx context.Context, scope auth.ScopedQuery, notice model.Notice) (*model.Notice, error) {
	if !scope.Global {
		notice.InstitutionID = scope.InstitutionID
	}
	notice.CreatedAt = time.Now()
	notice.UpdatedAt = time.Now()

	noticeID, err := s.noticeDAO.CreateNotice(ctx, notice)
	if err != nil {
		return nil, err
	}
	notice.ID = noticeID

	s.invalidate(ctx)
	s.eventBus.Publish(ctx, "notice.published", notice)
	return &notice, nil
}

func (s *NoticeService) GetNotice(ctx context.Context, scope auth.ScopedQuery, noticeID string) (*model.Notice, error) {
	var notice model.Notice
	key := cache.EntityKey("notices", noticeID, scopeKeyPart(scope))
	_, err := s.cache.GetOrSet(ctx, key, cache.TTLShort, &notice,
		func(ctx context.Context) (interface{}, error) {
			return s.noticeDAO.GetNotice(ctx, scope, noticeID)
		})
	if err != nil {
		return nil, err
	}
	return &notice, nil
}

func (s *NoticeService) UpdateNotice(ctx context.Context, scope auth.ScopedQuery, notice model.Notice) (*model.Notice, error) {
	updated, err := s.noticeDAO.UpdateNotice(ctx, scope, notice)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return updated, nil
}

func (s *NoticeService) DeleteNotice(ctx context.Context, scope auth.ScopedQuery, noticeID string) error {
	if err := s.noticeDAO.DeleteNotice(ctx, scope, noticeID); err != nil {
		return err
	}

	s.invalidate(ctx)
	return nil
}

func (s *NoticeService) ListNotices(ctx context.Context, scope auth.ScopedQuery, audience string, limit, offset int) ([]*model.Notice, error) {
	var notices []*model.Notice
	key := cache.EntityKey("notices", "list", scopeKeyPart(scope), audience,
		strconv.Itoa(limit), strconv.Itoa(offset))
	_, err := s.cache.GetOrSet(ctx, key, cache.TTLShort, &notices,
		func(ctx context.Context) (interface{}, error) {
			list, err := s.noticeDAO.ListNotices(ctx, scope, audience, limit, offset)
			if err != nil {
				return nil, err
			}
			if list == nil {
				list = []*model.Notice{}
			}
			return list, nil
		})
	if err != nil {
		return nil, err
	}
	return notices, nil
}

func (s *NoticeService) invalidate(ctx context.Context) {
	for _, pattern := range []string{"notices:*", "dashboard:*"} {
		if _, err := s.cache.InvalidatePattern(ctx, pattern); err != nil {
			logger.Warn("Notice cache invalidation failed",
				zap.Error(err), zap.String("pattern", pattern))
		}
	}
}
