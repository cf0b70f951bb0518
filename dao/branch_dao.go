package dao

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"github.com/Aisenh037/MBC-sub002/auth"
	apperrors "github.com/Aisenh037/MBC-sub002/errors"
	logger "github.com/Aisenh037/MBC-sub002/logging"
	"github.com/Aisenh037/MBC-sub002/model"
)

type BranchDAO struct {
	Driver neo4j.Driver
}

func NewBranchDAO(driver neo4j.Driver) *BranchDAO {
	return &BranchDAO{Driver: driver}
}

func (dao *BranchDAO) CreateBranch(ctx context.Context, branch model.Branch) (string, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	if branch.ID == "" {
		branch.ID = uuid.New().String()
	}

	_, err := session.WriteTransaction(func(tx neo4j.Transaction) (interface{}, error) {
		existing, err := tx.Run(`
        MATCH (b:Branch {code: $code, institutionID: $institutionID})
        RETURN b.id LIMIT 1`,
			map[string]interface{}{
				"code":          branch.Code,
				"institutionID": branch.InstitutionID,
			})
		if err != nil {
			return nil, apperrors.ErrDatabaseOperation
		}
		if existing.Next() {
			return nil, apperrors.ErrBranchConflict
		}

		query := `
        CREATE (b:Branch {id: $id})
        SET b += $props
        WITH b
        MATCH (i:Institution {id: $institutionID})
        MERGE (b)-[:PART_OF]->(i)
        RETURN b.id as id
        `
		params := map[string]interface{}{
			"id":            branch.ID,
			"institutionID": branch.InstitutionID,
			"props": map[string]interface{}{
				"name":          branch.Name,
				"code":          branch.Code,
				"institutionID": branch.InstitutionID,
				"createdAt":     formatTime(time.Now()),
				"updatedAt":     formatTime(time.Now()),
			},
		}
		if _, err := tx.Run(query, params); err != nil {
			return nil, apperrors.ErrDatabaseOperation
		}
		return branch.ID, nil
	})
	if err != nil {
		logger.Error("Failed to create branch", zap.Error(err), zap.String("code", branch.Code))
		return "", err
	}

	logger.Info("Branch created", zap.String("branchID", branch.ID))
	return branch.ID, nil
}

func (dao *BranchDAO) GetBranch(ctx context.Context, scope auth.ScopedQuery, branchID string) (*model.Branch, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	params := map[string]interface{}{"id": branchID}
	query := `MATCH (b:Branch {id: $id}) WHERE true` + scopeFilter("b", scope, params) + ` RETURN b`

	result, err := session.Run(query, params)
	if err != nil {
		logger.Error("Failed to execute get branch query", zap.Error(err))
		return nil, apperrors.ErrDatabaseOperation
	}
	if result.Next() {
		node := result.Record().Values[0].(neo4j.Node)
		return mapNodeToBranch(node), nil
	}
	return nil, apperrors.ErrBranchNotFound
}

func (dao *BranchDAO) UpdateBranch(ctx context.Context, scope auth.ScopedQuery, branch model.Branch) (*model.Branch, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	params := map[string]interface{}{
		"id":        branch.ID,
		"name":      branch.Name,
		"updatedAt": formatTime(time.Now()),
	}
	query := `
    MATCH (b:Branch {id: $id}) WHERE true` + scopeFilter("b", scope, params) + `
    SET b.name = $name, b.updatedAt = $updatedAt
    RETURN b
    `

	result, err := session.WriteTransaction(func(tx neo4j.Transaction) (interface{}, error) {
		res, err := tx.Run(query, params)
		if err != nil {
			return nil, apperrors.ErrDatabaseOperation
		}
		if res.Next() {
			return res.Record().Values[0], nil
		}
		return nil, apperrors.ErrBranchNotFound
	})
	if err != nil {
		return nil, err
	}
	return mapNodeToBranch(result.(neo4j.Node)), nil
}

func (dao *BranchDAO) DeleteBranch(ctx context.Context, scope auth.ScopedQuery, branchID string) error {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	params := map[string]interface{}{"id": branchID}
	query := `MATCH (b:Branch {id: $id}) WHERE true` + scopeFilter("b", scope, params) + `
    DETACH DELETE b RETURN count(b) as deleted`

	result, err := session.WriteTransaction(func(tx neo4j.Transaction) (interface{}, error) {
		res, err := tx.Run(query, params)
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
		return apperrors.ErrBranchNotFound
	}
	return nil
}

func (dao *BranchDAO) ListBranches(ctx context.Context, scope auth.ScopedQuery, limit, offset int) ([]*model.Branch, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	params := map[string]interface{}{"limit": limit, "offset": offset}
	query := `MATCH (b:Branch) WHERE true` + scopeFilter("b", scope, params) + `
    RETURN b
    ORDER BY b.code
    SKIP $offset
    LIMIT $limit
    `

	result, err := session.Run(query, params)
	if err != nil {
		logger.Error("Failed to list branches", zap.Error(err))
		return nil, apperrors.ErrDatabaseOperation
	}

	var branches []*model.Branch
	for result.Next() {
		node := result.Record().Values[0].(neo4j.Node)
		branches = append(branches, mapNodeToBranch(node))
	}
	return branches, nil
}

func mapNodeToBranch(node neo4j.Node) *model.Branch {
	props := node.Props
	return &model.Branch{
		ID:            stringProp(props, "id"),
		Name:          stringProp(props, "name"),
		Code:          stringProp(props, "code"),
		InstitutionID: stringProp(props, "institutionID"),
		CreatedAt:     timeProp(props, "createdAt"),
		UpdatedAt:     timeProp(props, "updatedAt"),
	}
}
