package service

import (
	"context"
	"time"

	"github.com/Aisenh037/MBC-sub002/cache"
	"github.com/Aisenh037/MBC-sub002/dao"
	"github.com/Aisenh037/MBC-sub002/model"
)

type IInstitutionService interface {
	CreateInstitution(ctx context.Context, institution model.Institution) (*model.Institution, error)
	GetInstitution(ctx context.Context, institutionID string) (*model.Institution, error)
	ListInstitutions(ctx context.Context) ([]*model.Institution, error)
}

// InstitutionService manages tenant records. Admin-only by routing.
type InstitutionService struct {
	institutionDAO *dao.InstitutionDAO
	cache          *cache.Cache
}

var _ IInstitutionService = &InstitutionService{}

func NewInstitutionService(institutionDAO *dao.InstitutionDAO, cacheSvc *cache.Cache) *InstitutionService {
	return &InstitutionService{institutionDAO: institutionDAO, cache: cacheSvc}
}

func (s *InstitutionService) CreateInstitution(ctx context.Context, institution model.Institution) (*model.Institution, error) {
	institution.CreatedAt = time.Now()
	institution.UpdatedAt = time.Now()

	institutionID, err := s.institutionDAO.CreateInstitution(ctx, institution)
	if err != nil {
		return nil, err
	}
	institution.ID = institutionID
	return &institution, nil
}

func (s *InstitutionService) GetInstitution(ctx context.Context, institutionID string) (*model.Institution, error) {
	var institution model.Institution
	key := cache.EntityKey("institutions", institutionID)
	_, err := s.cache.GetOrSet(ctx, key, cache.TTLLong, &institution,
		func(ctx context.Context) (interface{}, error) {
			return s.institutionDAO.GetInstitution(ctx, institutionID)
		})
	if err != nil {
		return nil, err
	}
	return &institution, nil
}

func (s *InstitutionService) ListInstitutions(ctx context.Context) ([]*model.Institution, error) {
	institutions, err := s.institutionDAO.ListInstitutions(ctx)
	if err != nil {
		return nil, err
	}
	if institutions == nil {
		institutions = []*model.Institution{}
	}
	return institutions, nil
}
