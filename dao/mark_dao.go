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

type MarkDAO struct {
	Driver neo4j.Driver
}

func NewMarkDAO(driver neo4j.Driver) *MarkDAO {
	return &MarkDAO{Driver: driver}
}

func (dao *MarkDAO) CreateMark(ctx context.Context, mark model.Mark) (string, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	if mark.ID == "" {
		mark.ID = uuid.New().String()
	}

	_, err := session.WriteTransaction(func(tx neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (s:Student {id: $studentID})
        CREATE (m:Mark {id: $id})
        SET m += $props
        MERGE (m)-[:SCORED_BY]->(s)
        RETURN m.id as id
        `
		params := map[string]interface{}{
			"id":        mark.ID,
			"studentID": mark.StudentID,
			"props": map[string]interface{}{
				"studentID":     mark.StudentID,
				"courseID":      mark.CourseID,
				"subject":       mark.Subject,
				"score":         mark.Score,
				"maxScore":      mark.MaxScore,
				"examType":      mark.ExamType,
				"examDate":      formatTime(mark.ExamDate),
				"institutionID": mark.InstitutionID,
				"createdAt":     formatTime(time.Now()),
				"updatedAt":     formatTime(time.Now()),
			},
		}
		res, err := tx.Run(query, params)
		if err != nil {
			return nil, apperrors.ErrDatabaseOperation
		}
		if !res.Next() {
			return nil, apperrors.ErrStudentNotFound
		}
		return mark.ID, nil
	})
	if err != nil {
		logger.Error("Failed to create mark", zap.Error(err), zap.String("studentID", mark.StudentID))
		return "", err
	}

	logger.Info("Mark recorded",
		zap.String("markID", mark.ID),
		zap.String("studentID", mark.StudentID),
		zap.String("subject", mark.Subject))
	return mark.ID, nil
}

func (dao *MarkDAO) GetMark(ctx context.Context, scope auth.ScopedQuery, markID string) (*model.Mark, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	params := map[string]interface{}{"id": markID}
	query := `MATCH (m:Mark {id: $id}) WHERE true` + scopeFilter("m", scope, params) + ` RETURN m`

	result, err := session.Run(query, params)
	if err != nil {
		logger.Error("Failed to execute get mark query", zap.Error(err))
		return nil, apperrors.ErrDatabaseOperation
	}
	if result.Next() {
		node := result.Record().Values[0].(neo4j.Node)
		return mapNodeToMark(node), nil
	}
	return nil, apperrors.ErrMarkNotFound
}

func (dao *MarkDAO) UpdateMark(ctx context.Context, scope auth.ScopedQuery, mark model.Mark) (*model.Mark, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	params := map[string]interface{}{
		"id":        mark.ID,
		"score":     mark.Score,
		"maxScore":  mark.MaxScore,
		"examType":  mark.ExamType,
		"updatedAt": formatTime(time.Now()),
	}
	query := `
    MATCH (m:Mark {id: $id}) WHERE true` + scopeFilter("m", scope, params) + `
    SET m.score = $score,
        m.maxScore = $maxScore,
        m.examType = $examType,
        m.updatedAt = $updatedAt
    RETURN m
    `

	result, err := session.WriteTransaction(func(tx neo4j.Transaction) (interface{}, error) {
		res, err := tx.Run(query, params)
		if err != nil {
			return nil, apperrors.ErrDatabaseOperation
		}
		if res.Next() {
			return res.Record().Values[0], nil
		}
		return nil, apperrors.ErrMarkNotFound
	})
	if err != nil {
		return nil, err
	}
	return mapNodeToMark(result.(neo4j.Node)), nil
}

func (dao *MarkDAO) DeleteMark(ctx context.Context, scope auth.ScopedQuery, markID string) error {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	params := map[string]interface{}{"id": markID}
	query := `MATCH (m:Mark {id: $id}) WHERE true` + scopeFilter("m", scope, params) + `
    DETACH DELETE m RETURN count(m) as deleted`

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
		return apperrors.ErrMarkNotFound
	}
	return nil
}

// ListMarksByStudent returns the student's marks ordered by exam date,
// oldest first, which is the order trend analysis expects.
func (dao *MarkDAO) ListMarksByStudent(ctx context.Context, scope auth.ScopedQuery, studentID string) ([]*model.Mark, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	params := map[string]interface{}{"studentID": studentID}
	query := `MATCH (m:Mark {studentID: $studentID}) WHERE true` + scopeFilter("m", scope, params) + `
    RETURN m
    ORDER BY m.examDate
    `

	result, err := session.Run(query, params)
	if err != nil {
		logger.Error("Failed to list marks by student", zap.Error(err), zap.String("studentID", studentID))
		return nil, apperrors.ErrDatabaseOperation
	}

	var marks []*model.Mark
	for result.Next() {
		node := result.Record().Values[0].(neo4j.Node)
		marks = append(marks, mapNodeToMark(node))
	}
	return marks, nil
}

// ListMarksByInstitution feeds department-level aggregation. The scope
// already restricts non-admin callers to their own institution.
func (dao *MarkDAO) ListMarksByInstitution(ctx context.Context, scope auth.ScopedQuery, branchID string) ([]*model.Mark, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	params := map[string]interface{}{}
	query := `MATCH (m:Mark)-[:SCORED_BY]->(s:Student) WHERE true` + scopeFilter("m", scope, params)
	if branchID != "" {
		query += ` AND s.branchID = $branchID`
		params["branchID"] = branchID
	}
	query += ` RETURN m ORDER BY m.examDate`

	result, err := session.Run(query, params)
	if err != nil {
		logger.Error("Failed to list marks by institution", zap.Error(err))
		return nil, apperrors.ErrDatabaseOperation
	}

	var marks []*model.Mark
	for result.Next() {
		node := result.Record().Values[0].(neo4j.Node)
		marks = append(marks, mapNodeToMark(node))
	}
	return marks, nil
}

func mapNodeToMark(node neo4j.Node) *model.Mark {
	props := node.Props
	return &model.Mark{
		ID:            stringProp(props, "id"),
		StudentID:     stringProp(props, "studentID"),
		CourseID:      stringProp(props, "courseID"),
		Subject:       stringProp(props, "subject"),
		Score:         floatProp(props, "score"),
		MaxScore:      floatProp(props, "maxScore"),
		ExamType:      stringProp(props, "examType"),
		ExamDate:      timeProp(props, "examDate"),
		InstitutionID: stringProp(props, "institutionID"),
		CreatedAt:     timeProp(props, "createdAt"),
		UpdatedAt:     timeProp(props, "updatedAt"),
	}
}
