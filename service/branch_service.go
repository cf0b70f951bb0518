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

type IBranchService interface {
	CreateBranch(ctx context.Context, scope auth.ScopedQuery, branch model.Branch) (*model.Branch, error)
	GetBranch(ctx context.Context, scope auth.ScopedQuery, branchID string) (*model.Branch, error)
	UpdateBranch(ctx context.Context, scope auth.ScopedQuery, branch model.Branch) (*model.Branch, error)
	DeleteBranch(ctx context.Context, scope auth.ScopedQuery, branchID string) error
	ListBranches(ctx context.Context, scope auth.ScopedQuery, limit, offset int) ([]*model.Branch, error)
}

// BranchService manages academic branches (departments). Reference data,
// cached long.
type BranchService struct {
	branchDAO *dao.BranchDAO
	cache     *cache.Cache
	eventBus  *util.EventBus
}

var _ IBranchService = &BranchService{}

func NewBranchService(branchDAO *dao.BranchDAO, cacheSvc *cache.Cache, eventBus *util.EventBus) *BranchService {
	return &BranchService{branchDAO: branchDAO, cache: cacheSvc, eventBus: eventBus}
}

func (s *BranchService) CreateBranch(ctx context.Context, scope auth.ScopedQuery, branch model.Branch) (*model.Branch, error) {
	if !scope.Global {
		branch.InstitutionID = scope.InstitutionID
	}
	branch.CreatedAt = time.Now()
	branch.UpdatedAt = time.Now()

	branchID, err := s.branchDAO.CreateBranch(ctx, branch)
	if err != nil {
		return nil, err
	}
	branch.ID = branchID

	s.invalidate(ctx)
	s.eventBus.Publish(ctx, "branch.created", branch)
	return &branch, nil
}

func (s *BranchService) GetBranch(ctx context.Context, scope auth.ScopedQuery, branchID string) (*model.Branch, error) {
	var branch model.Branch
	key := cache.EntityKey("branches", branchID, scopeKeyPart(scope))
	_, err := s.cache.GetOrSet(ctx, key, cache.TTLLong, &branch,
		func(ctx context.Context) (interface{}, error) {
			return s.branchDAO.GetBranch(ctx, scope, branchID)
		})
	if err != nil {
		return nil, err
	}
	return &branch, nil
}

func (s *BranchService) UpdateBranch(ctx context.Context, scope auth.ScopedQuery, branch model.Branch) (*model.Branch, error) {
	updated, err := s.branchDAO.UpdateBranch(ctx, scope, branch)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	s.eventBus.Publish(ctx, "branch.updated", *updated)
	return updated, nil
}

func (s *BranchService) DeleteBranch(ctx context.Context, scope auth.ScopedQuery, branchID string) error {
	if err := s.branchDAO.DeleteBranch(ctx, scope, branchID); err != nil {
		return err
	}

	s.invalidate(ctx)
	s.eventBus.Publish(ctx, "branch.deleted", branchID)
	return nil
}

func (s *BranchService) ListBranches(ctx context.Context, scope auth.ScopedQuery, limit, offset int) ([]*model.Branch, error) {
	var branches []*model.Branch
	key := cache.EntityKey("branches", "list", scopeKeyPart(scope),
		strconv.Itoa(limit), strconv.Itoa(offset))
	_, err := s.cache.GetOrSet(ctx, key, cache.TTLLong, &branches,
		func(ctx context.Context) (interface{}, error) {
			list, err := s.branchDAO.ListBranches(ctx, scope, limit, offset)
			if err != nil {
				return nil, err
			}
			if list == nil {
				list = []*model.Branch{}
			}
			return list, nil
		})
	if err != nil {
		return nil, err
	}
	return branches, nil
}

func (s *BranchService) invalidate(ctx context.Context) {
	for _, pattern := range []string{"branches:*", "analytics:*"} {
		if _, err := s.cache.InvalidatePattern(ctx, pattern); err != nil {
			logger.Warn("Branch cache invalidation failed",
				zap.Error(err), zap.String("pattern", pattern))
		}
	}
}
