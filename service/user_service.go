package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Aisenh037/MBC-sub002/auth"
	"github.com/Aisenh037/MBC-sub002/cache"
	"github.com/Aisenh037/MBC-sub002/dao"
	apperrors "github.com/Aisenh037/MBC-sub002/errors"
	logger "github.com/Aisenh037/MBC-sub002/logging"
	"github.com/Aisenh037/MBC-sub002/model"
	"github.com/Aisenh037/MBC-sub002/util"
)

// RegisterRequest carries the fields an account signup accepts.
type RegisterRequest struct {
	Name          string `json:"name" binding:"required"`
	Email         string `json:"email" binding:"required,email"`
	Password      string `json:"password" binding:"required,min=8"`
	Role          string `json:"role" binding:"required,oneof=admin professor student"`
	InstitutionID string `json:"institution_id"`
	BranchID      string `json:"branch_id"`
}

type IUserService interface {
	Register(ctx context.Context, req RegisterRequest) (*model.User, error)
	GetUser(ctx context.Context, userID string) (*model.User, error)
	UpdateUser(ctx context.Context, user model.User) (*model.User, error)
	DeactivateUser(ctx context.Context, userID string) error
	DeleteUser(ctx context.Context, userID string) error
	ListUsers(ctx context.Context, criteria model.UserSearchCriteria) ([]*model.User, error)
}

// UserService handles account management. Routing restricts it to admins.
type UserService struct {
	userDAO        *dao.UserDAO
	validationUtil *util.ValidationUtil
	cache          *cache.Cache
	eventBus       *util.EventBus
}

var _ IUserService = &UserService{}

func NewUserService(userDAO *dao.UserDAO, validationUtil *util.ValidationUtil, cacheSvc *cache.Cache, eventBus *util.EventBus) *UserService {
	return &UserService{userDAO: userDAO, validationUtil: validationUtil, cache: cacheSvc, eventBus: eventBus}
}

func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*model.User, error) {
	if details := s.validationUtil.ValidateStruct(req); details != nil {
		logger.Warn("Registration rejected by validation",
			zap.Any("details", details))
		return nil, apperrors.ErrInvalidUserData
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := model.User{
		Name:          req.Name,
		Email:         req.Email,
		PasswordHash:  hash,
		Role:          req.Role,
		InstitutionID: req.InstitutionID,
		BranchID:      req.BranchID,
		Active:        true,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	userID, err := s.userDAO.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}
	user.ID = userID

	s.invalidate(ctx)
	s.eventBus.Publish(ctx, "user.created", user)
	return &user, nil
}

func (s *UserService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	var user model.User
	_, err := s.cache.GetOrSet(ctx, cache.EntityKey("users", userID), cache.TTLMedium, &user,
		func(ctx context.Context) (interface{}, error) {
			return s.userDAO.GetUser(ctx, userID)
		})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) UpdateUser(ctx context.Context, user model.User) (*model.User, error) {
	user.UpdatedAt = time.Now()
	updated, err := s.userDAO.UpdateUser(ctx, user)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	s.eventBus.Publish(ctx, "user.updated", *updated)
	return updated, nil
}

// DeactivateUser flips the active flag off, which blocks authentication on
// the next identity lookup without destroying the account.
func (s *UserService) DeactivateUser(ctx context.Context, userID string) error {
	user, err := s.userDAO.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	user.Active = false
	user.UpdatedAt = time.Now()
	if _, err := s.userDAO.UpdateUser(ctx, *user); err != nil {
		return err
	}

	s.invalidate(ctx)
	if err := s.cache.Delete(ctx, sessionKey(userID)); err != nil {
		logger.Warn("Failed to drop session for deactivated user",
			zap.Error(err), zap.String("userID", userID))
	}
	logger.Info("User deactivated", zap.String("userID", userID))
	return nil
}

func (s *UserService) DeleteUser(ctx context.Context, userID string) error {
	if err := s.userDAO.DeleteUser(ctx, userID); err != nil {
		return err
	}

	s.invalidate(ctx)
	s.eventBus.Publish(ctx, "user.deleted", userID)
	return nil
}

func (s *UserService) ListUsers(ctx context.Context, criteria model.UserSearchCriteria) ([]*model.User, error) {
	users, err := s.userDAO.ListUsers(ctx, criteria)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []*model.User{}
	}
	return users, nil
}

func (s *UserService) invalidate(ctx context.Context) {
	if _, err := s.cache.InvalidatePattern(ctx, "users:*"); err != nil {
		logger.Warn("User cache invalidation failed", zap.Error(err))
	}
}
