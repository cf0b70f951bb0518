package dao

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	apperrors "github.com/Aisenh037/MBC-sub002/errors"
	logger "github.com/Aisenh037/MBC-sub002/logging"
	"github.com/Aisenh037/MBC-sub002/model"
)

// UserDAO is the identity store: it backs both login and the per-request
// principal lookup.
type UserDAO struct {
	Driver neo4j.Driver
}

func NewUserDAO(driver neo4j.Driver) *UserDAO {
	dao := &UserDAO{Driver: driver}
	ctx := context.Background()
	if err := dao.EnsureUniqueConstraint(ctx); err != nil {
		logger.Fatal("Failed to ensure unique constraint for User", zap.Error(err))
	}
	return dao
}

func (dao *UserDAO) EnsureUniqueConstraint(ctx context.Context) error {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(tx neo4j.Transaction) (interface{}, error) {
		query := `
        CREATE CONSTRAINT unique_user_email IF NOT EXISTS
        FOR (u:User) REQUIRE u.email IS UNIQUE
        `
		_, err := tx.Run(query, nil)
		return nil, err
	})
	return err
}

func (dao *UserDAO) CreateUser(ctx context.Context, user model.User) (string, error) {
	start := time.Now()
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	_, err := session.WriteTransaction(func(tx neo4j.Transaction) (interface{}, error) {
		existing, err := tx.Run(`MATCH (u:User {email: $email}) RETURN u.id LIMIT 1`,
			map[string]interface{}{"email": user.Email})
		if err != nil {
			return nil, apperrors.ErrDatabaseOperation
		}
		if existing.Next() {
			return nil, apperrors.ErrUserConflict
		}

		query := `
        CREATE (u:User {id: $id})
        SET u += $props
        RETURN u.id as id
        `
		params := map[string]interface{}{
			"id": user.ID,
			"props": map[string]interface{}{
				"name":          user.Name,
				"email":         user.Email,
				"passwordHash":  user.PasswordHash,
				"role":          user.Role,
				"institutionID": user.InstitutionID,
				"branchID":      user.BranchID,
				"active":        user.Active,
				"createdAt":     formatTime(time.Now()),
				"updatedAt":     formatTime(time.Now()),
			},
		}
		if _, err := tx.Run(query, params); err != nil {
			return nil, apperrors.ErrDatabaseOperation
		}
		return user.ID, nil
	})

	if err != nil {
		logger.Error("Failed to create user",
			zap.Error(err),
			zap.String("email", user.Email),
			zap.Duration("duration", time.Since(start)))
		return "", err
	}

	logger.Info("User created",
		zap.String("userID", user.ID),
		zap.Duration("duration", time.Since(start)))
	return user.ID, nil
}

func (dao *UserDAO) GetUser(ctx context.Context, userID string) (*model.User, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.Run(`MATCH (u:User {id: $id}) RETURN u`,
		map[string]interface{}{"id": userID})
	if err != nil {
		logger.Error("Failed to execute get user query", zap.Error(err), zap.String("userID", userID))
		return nil, apperrors.ErrDatabaseOperation
	}

	if result.Next() {
		node := result.Record().Values[0].(neo4j.Node)
		return mapNodeToUser(node), nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (dao *UserDAO) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.Run(`MATCH (u:User {email: $email}) RETURN u`,
		map[string]interface{}{"email": email})
	if err != nil {
		logger.Error("Failed to execute get user by email query", zap.Error(err))
		return nil, apperrors.ErrDatabaseOperation
	}

	if result.Next() {
		node := result.Record().Values[0].(neo4j.Node)
		return mapNodeToUser(node), nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (dao *UserDAO) UpdateUser(ctx context.Context, user model.User) (*model.User, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	result, err := session.WriteTransaction(func(tx neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (u:User {id: $id})
        SET u.name = $name,
            u.role = $role,
            u.institutionID = $institutionID,
            u.branchID = $branchID,
            u.active = $active,
            u.updatedAt = $updatedAt
        RETURN u
        `
		params := map[string]interface{}{
			"id":            user.ID,
			"name":          user.Name,
			"role":          user.Role,
			"institutionID": user.InstitutionID,
			"branchID":      user.BranchID,
			"active":        user.Active,
			"updatedAt":     formatTime(time.Now()),
		}
		res, err := tx.Run(query, params)
		if err != nil {
			return nil, apperrors.ErrDatabaseOperation
		}
		if res.Next() {
			return res.Record().Values[0], nil
		}
		return nil, apperrors.ErrUserNotFound
	})
	if err != nil {
		return nil, err
	}

	updated := mapNodeToUser(result.(neo4j.Node))
	logger.Info("User updated", zap.String("userID", updated.ID))
	return updated, nil
}

func (dao *UserDAO) DeleteUser(ctx context.Context, userID string) error {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	result, err := session.WriteTransaction(func(tx neo4j.Transaction) (interface{}, error) {
		res, err := tx.Run(`MATCH (u:User {id: $id}) DETACH DELETE u RETURN count(u) as deleted`,
			map[string]interface{}{"id": userID})
		if err != nil {
			return nil, apperrors.ErrDatabaseOperation
		}
		if res.Next() {
			return res.Record().Values[0], nil
		}
		return int64(0), nil
	})
	if err != nil {
		return err
	}
	if result.(int64) == 0 {
		return apperrors.ErrUserNotFound
	}

	logger.Info("User deleted", zap.String("userID", userID))
	return nil
}

func (dao *UserDAO) ListUsers(ctx context.Context, criteria model.UserSearchCriteria) ([]*model.User, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	params := map[string]interface{}{
		"limit":  criteria.Limit,
		"offset": criteria.Offset,
	}
	query := `MATCH (u:User) WHERE true`
	if criteria.Role != "" {
		query += ` AND u.role = $role`
		params["role"] = criteria.Role
	}
	if criteria.InstitutionID != "" {
		query += ` AND u.institutionID = $institutionID`
		params["institutionID"] = criteria.InstitutionID
	}
	query += `
    RETURN u
    ORDER BY u.createdAt DESC
    SKIP $offset
    LIMIT $limit
    `

	result, err := session.Run(query, params)
	if err != nil {
		logger.Error("Failed to list users", zap.Error(err))
		return nil, apperrors.ErrDatabaseOperation
	}

	var users []*model.User
	for result.Next() {
		node := result.Record().Values[0].(neo4j.Node)
		users = append(users, mapNodeToUser(node))
	}
	return users, nil
}

func mapNodeToUser(node neo4j.Node) *model.User {
	props := node.Props
	return &model.User{
		ID:            stringProp(props, "id"),
		Name:          stringProp(props, "name"),
		Email:         stringProp(props, "email"),
		PasswordHash:  stringProp(props, "passwordHash"),
		Role:          stringProp(props, "role"),
		InstitutionID: stringProp(props, "institutionID"),
		BranchID:      stringProp(props, "branchID"),
		Active:        boolProp(props, "active"),
		CreatedAt:     timeProp(props, "createdAt"),
		UpdatedAt:     timeProp(props, "updatedAt"),
	}
}
