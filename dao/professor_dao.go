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

type ProfessorDAO struct {
	Driver neo4j.Driver
}

func NewProfessorDAO(driver neo4j.Driver) *ProfessorDAO {
	return &ProfessorDAO{Driver: driver}
}

func (dao *ProfessorDAO) CreateProfessor(ctx context.Context, professor model.Professor) (string, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	if professor.ID == "" {
		professor.ID = uuid.New().String()
	}

	_, err := session.WriteTransaction(func(tx neo4j.Transaction) (interface{}, error) {
		existing, err := tx.Run(`
        MATCH (p:Professor {email: $email, institutionID: $institutionID})
        RETURN p.id LIMIT 1`,
			map[string]interface{}{
				"email":         professor.Email,
				"institutionID": professor.InstitutionID,
			})
		if err != nil {
			return nil, apperrors.ErrDatabaseOperation
		}
		if existing.Next() {
			return nil, apperrors.ErrProfessorConflict
		}

		query := `
        CREATE (p:Professor {id: $id})
        SET p += $props
        WITH p
        MATCH (i:Institution {id: $institutionID})
        MERGE (p)-[:BELONGS_TO]->(i)
        RETURN p.id as id
        `
		params := map[string]interface{}{
			"id":            professor.ID,
			"institutionID": professor.InstitutionID,
			"props": map[string]interface{}{
				"userID":        professor.UserID,
				"name":          professor.Name,
				"email":         professor.Email,
				"designation":   professor.Designation,
				"institutionID": professor.InstitutionID,
				"branchID":      professor.BranchID,
				"createdAt":     formatTime(time.Now()),
				"updatedAt":     formatTime(time.Now()),
			},
		}
		if _, err := tx.Run(query, params); err != nil {
			return nil, apperrors.ErrDatabaseOperation
		}
		return professor.ID, nil
	})
	if err != nil {
		logger.Error("Failed to create professor", zap.Error(err), zap.String("email", professor.Email))
		return "", err
	}

	logger.Info("Professor created", zap.String("professorID", professor.ID))
	return professor.ID, nil
}

func (dao *ProfessorDAO) GetProfessor(ctx context.Context, scope auth.ScopedQuery, professorID string) (*model.Professor, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	params := map[string]interface{}{"id": professorID}
	query := `MATCH (p:Professor {id: $id}) WHERE true` + scopeFilter("p", scope, params) + ` RETURN p`

	result, err := session.Run(query, params)
	if err != nil {
		logger.Error("Failed to execute get professor query", zap.Error(err))
		return nil, apperrors.ErrDatabaseOperation
	}
	if result.Next() {
		node := result.Record().Values[0].(neo4j.Node)
		return mapNodeToProfessor(node), nil
	}
	return nil, apperrors.ErrProfessorNotFound
}

func (dao *ProfessorDAO) UpdateProfessor(ctx context.Context, scope auth.ScopedQuery, professor model.Professor) (*model.Professor, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	params := map[string]interface{}{
		"id":          professor.ID,
		"name":        professor.Name,
		"designation": professor.Designation,
		"branchID":    professor.BranchID,
		"updatedAt":   formatTime(time.Now()),
	}
	query := `
    MATCH (p:Professor {id: $id}) WHERE true` + scopeFilter("p", scope, params) + `
    SET p.name = $name,
        p.designation = $designation,
        p.branchID = $branchID,
        p.updatedAt = $updatedAt
    RETURN p
    `

	result, err := session.WriteTransaction(func(tx neo4j.Transaction) (interface{}, error) {
		res, err := tx.Run(query, params)
		if err != nil {
			return nil, apperrors.ErrDatabaseOperation
		}
		if res.Next() {
			return res.Record().Values[0], nil
		}
		return nil, apperrors.ErrProfessorNotFound
	})
	if err != nil {
		return nil, err
	}
	return mapNodeToProfessor(result.(neo4j.Node)), nil
}

func (dao *ProfessorDAO) DeleteProfessor(ctx context.Context, scope auth.ScopedQuery, professorID string) error {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	params := map[string]interface{}{"id": professorID}
	query := `MATCH (p:Professor {id: $id}) WHERE true` + scopeFilter("p", scope, params) + `
    DETACH DELETE p RETURN count(p) as deleted`

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
		return apperrors.ErrProfessorNotFound
	}
	return nil
}

func (dao *ProfessorDAO) ListProfessors(ctx context.Context, scope auth.ScopedQuery, limit, offset int) ([]*model.Professor, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	params := map[string]interface{}{"limit": limit, "offset": offset}
	query := `MATCH (p:Professor) WHERE true` + scopeFilter("p", scope, params) + `
    RETURN p
    ORDER BY p.name
    SKIP $offset
    LIMIT $limit
    `

	result, err := session.Run(query, params)
	if err != nil {
		logger.Error("Failed to list professors", zap.Error(err))
		return nil, apperrors.ErrDatabaseOperation
	}

	var professors []*model.Professor
	for result.Next() {
		node := result.Record().Values[0].(neo4j.Node)
		professors = append(professors, mapNodeToProfessor(node))
	}
	return professors, nil
}

func (dao *ProfessorDAO) CountProfessors(ctx context.Context, scope auth.ScopedQuery) (int, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	params := map[string]interface{}{}
	query := `MATCH (p:Professor) WHERE true` + scopeFilter("p", scope, params) + ` RETURN count(p)`

	result, err := session.Run(query, params)
	if err != nil {
		return 0, apperrors.ErrDatabaseOperation
	}
	if result.Next() {
		return int(result.Record().Values[0].(int64)), nil
	}
	return 0, nil
}

func mapNodeToProfessor(node neo4j.Node) *model.Professor {
	props := node.Props
	return &model.Professor{
		ID:            stringProp(props, "id"),
		UserID:        stringProp(props, "userID"),
		Name:          stringProp(props, "name"),
		Email:         stringProp(props, "email"),
		Designation:   stringProp(props, "designation"),
		InstitutionID: stringProp(props, "institutionID"),
		BranchID:      stringProp(props, "branchID"),
		CreatedAt:     timeProp(props, "createdAt"),
		UpdatedAt:     timeProp(props, "updatedAt"),
	}
}
