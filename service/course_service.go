package service

import (
	"context"
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

type ICourseService interface {
	CreateCourse(ctx context.Context, scope auth.ScopedQuery, course model.Course) (*model.Course, error)
	GetCourse(ctx context.Context, scope auth.ScopedQuery, courseID string) (*model.Course, error)
	UpdateCourse(ctx context.Context, scope auth.ScopedQuery, course model.Course) (*model.Course, error)
	DeleteCourse(ctx context.Context, scope auth.ScopedQuery, courseID string) error
	ListCourses(ctx context.Context, scope auth.ScopedQuery, semester, limit, offset int) ([]*model.Course, error)
}

// CourseService manages the course catalog. Courses change rarely, so reads
// cache at the long TTL class.
type CourseService struct {
	courseDAO *dao.CourseDAO
	cache     *cache.Cache
	eventBus  *util.EventBus
}

var _ ICourseService = &CourseService{}

func NewCourseService(courseDAO *dao.CourseDAO, cacheSvc *cache.Cache, eventBus *util.EventBus) *CourseService {
	return &CourseService{courseDAO: courseDAO, cache: cacheSvc, eventBus: eventBus}
}

func (s *CourseService) CreateCourse(ctx context.Context, scope auth.ScopedQuery, course model.Course) (*model.Course, error) {
	if !scope.Global {
		course.InstitutionID = scope.InstitutionID
	}
	course.CreatedAt = time.Now()
	course.UpdatedAt = time.Now()

	courseID, err := s.courseDAO.CreateCourse(ctx, course)
	if err != nil {
		return nil, err
	}
	course.ID = courseID

	s.invalidate(ctx)
	s.eventBus.Publish(ctx, "course.created", course)
	return &course, nil
}

func (s *CourseService) GetCourse(ctx context.Context, scope auth.ScopedQuery, courseID string) (*model.Course, error) {
	var course model.Course
	key := cache.EntityKey("courses", courseID, scopeKeyPart(scope))
	_, err := s.cache.GetOrSet(ctx, key, cache.TTLLong, &course,
		func(ctx context.Context) (interface{}, error) {
			return s.courseDAO.GetCourse(ctx, scope, courseID)
		})
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (s *CourseService) UpdateCourse(ctx context.Context, scope auth.ScopedQuery, course model.Course) (*model.Course, error) {
	updated, err := s.courseDAO.UpdateCourse(ctx, scope, course)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	s.eventBus.Publish(ctx, "course.updated", *updated)
	return updated, nil
}

func (s *CourseService) DeleteCourse(ctx context.Context, scope auth.ScopedQuery, courseID string) error {
	if err := s.courseDAO.DeleteCourse(ctx, scope, courseID); err != nil {
		return err
	}

	s.invalidate(ctx)
	s.eventBus.Publish(ctx, "course.deleted", courseID)
	return nil
}

func (s *CourseService) ListCourses(ctx context.Context, scope auth.ScopedQuery, semester, limit, offset int) ([]*model.Course, error) {
	var courses []*model.Course
	key := cache.EntityKey("courses", "list", scopeKeyPart(scope),
		strconv.Itoa(semester), strconv.Itoa(limit), strconv.Itoa(offset))
	_, err := s.cache.GetOrSet(ctx, key, cache.TTLLong, &courses,
		func(ctx context.Context) (interface{}, error) {
			list, err := s.courseDAO.ListCourses(ctx, scope, semester, limit, offset)
			if err != nil {
				return nil, err
			}
			if list == nil {
				list = []*model.Course{}
			}
			return list, nil
		})
	if err != nil {
		return nil, err
	}
	return courses, nil
}

func (s *CourseService) invalidate(ctx context.Context) {
	for _, pattern := range []string{"courses:*", "dashboard:*"} {
		if _, err := s.cache.InvalidatePattern(ctx, pattern); err != nil {
			logger.Warn("Course cache invalidation failed",
				zap.Error(err), zap.String("pattern", pattern))
		}
	}
}
