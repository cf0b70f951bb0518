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

type IProfessorService interface {
	CreateProfessor(ctx context.Context, scope auth.ScopedQuery, professor model.Professor) (*model.Professor, error)
	GetProfessor(ctx context.Context, scope auth.ScopedQuery, professorID string) (*model.Professor, error)
	UpdateProfessor(ctx context.Context, scope auth.ScopedQuery, professor model.Professor) (*model.Professor, error)
	DeleteProfessor(ctx context.Context, scope auth.ScopedQuery, professorID string) error
	ListProfessors(ctx context.Context, scope auth.ScopedQuery, limit, offset int) ([]*model.Professor, error)
}

type ProfessorService struct {
	professorDAO *dao.ProfessorDAO
	cache        *cache.Cache
	eventBus     *util.EventBus
}

var _ IProfessorService = &ProfessorService{}

func NewProfessorService(professorDAO *dao.ProfessorDAO, cacheSvc *cache.Cache, eventBus *util.EventBus) *ProfessorService {
	return &ProfessorService{professorDAO: professorDAO, cache: cacheSvc, eventBus: eventBus}
}

func (s *ProfessorService) CreateProfessor(ctx context.Context, scope auth.ScopedQuery, professor model.Professor) (*model.Professor, error) {
	if !scope.Global {
		professor.InstitutionID = scope.InstitutionID
	}
	professor.CreatedAt = time.Now()
	professor.UpdatedAt = time.Now()

	professorID, err := s.professorDAO.CreateProfessor(ctx, professor)
	if err != nil {
		return nil, err
	}
	professor.ID = professorID

	s.invalidate(ctx)
	s.eventBus.Publish(ctx, "professor.created", professor)
	return &professor, nil
}

func (s *ProfessorService) GetProfessor(ctx context.Context, scope auth.ScopedQuery, professorID string) (*model.Professor, error) {
	var professor model.Professor
	key := cache.EntityKey("professors", professorID, scopeKeyPart(scope))
	_, err := s.cache.GetOrSet(ctx, key, cache.TTLMedium, &professor,
		func(ctx context.Context) (interface{}, error) {
			return s.professorDAO.GetProfessor(ctx, scope, professorID)
		})
	if err != nil {
		return nil, err
	}
	return &professor, nil
}

func (s *ProfessorService) UpdateProfessor(ctx context.Context, scope auth.ScopedQuery, professor model.Professor) (*model.Professor, error) {
	updated, err := s.professorDAO.UpdateProfessor(ctx, scope, professor)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	s.eventBus.Publish(ctx, "professor.updated", *updated)
	return updated, nil
}

func (s *ProfessorService) DeleteProfessor(ctx context.Context, scope auth.ScopedQuery, professorID string) error {
	if err := s.professorDAO.DeleteProfessor(ctx, scope, professorID); err != nil {
		return err
	}

	s.invalidate(ctx)
	s.eventBus.Publish(ctx, "professor.deleted", professorID)
	return nil
}

func (s *ProfessorService) ListProfessors(ctx context.Context, scope auth.ScopedQuery, limit, offset int) ([]*model.Professor, error) {
	var professors []*model.Professor
	key := cache.EntityKey("professors", "list", scopeKeyPart(scope),
		strconv.Itoa(limit), strconv.Itoa(offset))
	_, err := s.cache.GetOrSet(ctx, key, cache.TTLMedium, &professors,
		func(ctx context.Context) (interface{}, error) {
			list, err := s.professorDAO.ListProfessors(ctx, scope, limit, offset)
			if err != nil {
				return nil, err
			}
			if list == nil {
				list = []*model.Professor{}
			}
			return list, nil
		})
	if err != nil {
		return nil, err
	}
	return professors, nil
}

func (s *ProfessorService) invalidate(ctx context.Context) {
	for _, pattern := range []string{"professors:*", "dashboard:*"} {
		if _, err := s.cache.InvalidatePattern(ctx, pattern); err != nil {
			logger.Warn("Professor cache invalidation failed",
				zap.Error(err), zap.String("pattern", pattern))
		}
	}
}
