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

type AssignmentDAO struct {
	Driver neo4j.Driver
}

func NewAssignmentDAO(driver neo4j.Driver) *AssignmentDAO {
	return &AssignmentDAO{Driver: driver}
}

func (dao *AssignmentDAO) CreateAssignment(ctx context.Context, assignment model.Assignment) (string, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	if assignment.ID == "" {
		assignment.ID = uuid.New().String()
	}

	_, err := session.WriteTransaction(func(tx neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (c:Course {id: $courseID})
        CREATE (a:Assignment {id: $id})
        SET a += $props
        MERGE (a)-[:FOR_COURSE]->(c)
        RETURN a.id as id
        `
		params := map[string]interface{}{
			"id":       assignment.ID,
			"courseID": assignment.CourseID,
			"props": map[string]interface{}{
				"title":         assignment.Title,
				"description":   assignment.Description,
				"courseID":      assignment.CourseID,
				"professorID":   assignment.ProfessorID,
				"dueDate":       formatTime(assignment.DueDate),
				"institutionID": assignment.InstitutionID,
				"createdAt":     formatTime(time.Now()),
				"updatedAt":     formatTime(time.Now()),
			},
		}
		res, err := tx.Run(query, params)
		if err != nil {
			return nil, apperrors.ErrDatabaseOperation
		}
		if !res.Next() {
			return nil, apperrors.ErrCourseNotFound
		}
		return assignment.ID, nil
	})
	if err != nil {
		logger.Error("Failed to create assignment", zap.Error(err), zap.String("courseID", assignment.CourseID))
		return "", err
	}

	logger.Info("Assignment created", zap.String("assignmentID", assignment.ID))
	return assignment.ID, nil
}

func (dao *AssignmentDAO) GetAssignment(ctx context.Context, scope auth.ScopedQuery, assignmentID string) (*model.Assignment, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	params := map[string]interface{}{"id": assignmentID}
	query := `MATCH (a:Assignment {id: $id}) WHERE true` + scopeFilter("a", scope, params) + ` RETURN a`

	result, err := session.Run(query, params)
	if err != nil {
		logger.Error("Failed to execute get assignment query", zap.Error(err))
		return nil, apperrors.ErrDatabaseOperation
	}
	if result.Next() {
		node := result.Record().Values[0].(neo4j.Node)
		return mapNodeToAssignment(node), nil
	}
	return nil, apperrors.ErrAssignmentNotFound
}

func (dao *AssignmentDAO) UpdateAssignment(ctx context.Context, scope auth.ScopedQuery, assignment model.Assignment) (*model.Assignment, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	params := map[string]interface{}{
		"id":          assignment.ID,
		"title":       assignment.Title,
		"description": assignment.Description,
		"dueDate":     formatTime(assignment.DueDate),
		"updatedAt":   formatTime(time.Now()),
	}
	query := `
    MATCH (a:Assignment {id: $id}) WHERE true` + scopeFilter("a", scope, params) + `
    SET a.title = $title,
        a.description = $description,
        a.dueDate = $dueDate,
        a.updatedAt = $updatedAt
    RETURN a
    `

	result, err := session.WriteTransaction(func(tx neo4j.Transaction) (interface{}, error) {
		res, err := tx.Run(query, params)
		if err != nil {
			return nil, apperrors.ErrDatabaseOperation
		}
		if res.Next() {
			return res.Record().Values[0], nil
		}
		return nil, apperrors.ErrAssignmentNotFound
	})
	if err != nil {
		return nil, err
	}
	return mapNodeToAssignment(result.(neo4j.Node)), nil
}

func (dao *AssignmentDAO) DeleteAssignment(ctx context.Context, scope auth.ScopedQuery, assignmentID string) error {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	params := map[string]interface{}{"id": assignmentID}
	query := `MATCH (a:Assignment {id: $id}) WHERE true` + scopeFilter("a", scope, params) + `
    DETACH DELETE a RETURN count(a) as deleted`

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
		return apperrors.ErrAssignmentNotFound
	}
	return nil
}

// ListAssignments supports an optional course filter on top of the tenant
// scope.
func (dao *AssignmentDAO) ListAssignments(ctx context.Context, scope auth.ScopedQuery, courseID string, limit, offset int) ([]*model.Assignment, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	params := map[string]interface{}{"limit": limit, "offset": offset}
	query := `MATCH (a:Assignment) WHERE true` + scopeFilter("a", scope, params)
	if courseID != "" {
		query += ` AND a.courseID = $courseID`
		params["courseID"] = courseID
	}
	query += `
    RETURN a
    ORDER BY a.dueDate
    SKIP $offset
    LIMIT $limit
    `

	result, err := session.Run(query, params)
	if err != nil {
		logger.Error("Failed to list assignments", zap.Error(err))
		return nil, apperrors.ErrDatabaseOperation
	}

	var assignments []*model.Assignment
	for result.Next() {
		node := result.Record().Values[0].(neo4j.Node)
		assignments = append(assignments, mapNodeToAssignment(node))
	}
	return assignments, nil
}

func mapNodeToAssignment(node neo4j.Node) *model.Assignment {
	props := node.Props
	return &model.Assignment{
		ID:            stringProp(props, "id"),
		Title:         stringProp(props, "title"),
		Description:   stringProp(props, "description"),
		CourseID:      stringProp(props, "courseID"),
		ProfessorID:   stringProp(props, "professorID"),
		DueDate:       timeProp(props, "dueDate"),
		InstitutionID: stringProp(props, "institutionID"),
		CreatedAt:     timeProp(props, "createdAt"),
		UpdatedAt:     timeProp(props, "updatedAt"),
	}
}
