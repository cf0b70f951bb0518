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

type StudentDAO struct {
	Driver neo4j.Driver
}

func NewStudentDAO(driver neo4j.Driver) *StudentDAO {
	dao := &StudentDAO{Driver: driver}
	ctx := context.Background()
	if err := dao.EnsureUniqueConstraint(ctx); err != nil {
		logger.Fatal("Failed to ensure unique constraint for Student", zap.Error(err))
	}
	return dao
}

func (dao *StudentDAO) EnsureUniqueConstraint(ctx context.Context) error {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(tx neo4j.Transaction) (interface{}, error) {
		query := `
        CREATE CONSTRAINT unique_student_id IF NOT EXISTS
        FOR (s:Student) REQUIRE s.id IS UNIQUE
        `
		_, err := tx.Run(query, nil)
		return nil, err
	})
	return err
}

func (dao *StudentDAO) CreateStudent(ctx context.Context, student model.Student) (string, error) {
	start := time.Now()
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	if student.ID == "" {
		student.ID = uuid.New().String()
	}

	_, err := session.WriteTransaction(func(tx neo4j.Transaction) (interface{}, error) {
		existing, err := tx.Run(`
        MATCH (s:Student {rollNumber: $rollNumber, institutionID: $institutionID})
        RETURN s.id LIMIT 1`,
			map[string]interface{}{
				"rollNumber":    student.RollNumber,
				"institutionID": student.InstitutionID,
			})
		if err != nil {
			return nil, apperrors.ErrDatabaseOperation
		}
		if existing.Next() {
			return nil, apperrors.ErrStudentConflict
		}

		query := `
        CREATE (s:Student {id: $id})
        SET s += $props
        WITH s
        MATCH (i:Institution {id: $institutionID})
        MERGE (s)-[:BELONGS_TO]->(i)
        RETURN s.id as id
        `
		params := map[string]interface{}{
			"id":            student.ID,
			"institutionID": student.InstitutionID,
			"props": map[string]interface{}{
				"userID":        student.UserID,
				"name":          student.Name,
				"email":         student.Email,
				"rollNumber":    student.RollNumber,
				"semester":      student.Semester,
				"gpa":           student.GPA,
				"institutionID": student.InstitutionID,
				"branchID":      student.BranchID,
				"createdAt":     formatTime(time.Now()),
				"updatedAt":     formatTime(time.Now()),
			},
		}
		if _, err := tx.Run(query, params); err != nil {
			return nil, apperrors.ErrDatabaseOperation
		}
		return student.ID, nil
	})

	if err != nil {
		logger.Error("Failed to create student",
			zap.Error(err),
			zap.String("rollNumber", student.RollNumber),
			zap.Duration("duration", time.Since(start)))
		return "", err
	}

	logger.Info("Student created",
		zap.String("studentID", student.ID),
		zap.Duration("duration", time.Since(start)))
	return student.ID, nil
}

func (dao *StudentDAO) GetStudent(ctx context.Context, scope auth.ScopedQuery, studentID string) (*model.Student, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	params := map[string]interface{}{"id": studentID}
	query := `MATCH (s:Student {id: $id}) WHERE true` + scopeFilter("s", scope, params) + ` RETURN s`

	result, err := session.Run(query, params)
	if err != nil {
		logger.Error("Failed to execute get student query", zap.Error(err), zap.String("studentID", studentID))
		return nil, apperrors.ErrDatabaseOperation
	}

	if result.Next() {
		node := result.Record().Values[0].(neo4j.Node)
		return mapNodeToStudent(node), nil
	}
	return nil, apperrors.ErrStudentNotFound
}

func (dao *StudentDAO) UpdateStudent(ctx context.Context, scope auth.ScopedQuery, student model.Student) (*model.Student, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	params := map[string]interface{}{
		"id":        student.ID,
		"name":      student.Name,
		"email":     student.Email,
		"semester":  student.Semester,
		"gpa":       student.GPA,
		"branchID":  student.BranchID,
		"updatedAt": formatTime(time.Now()),
	}
	query := `
    MATCH (s:Student {id: $id}) WHERE true` + scopeFilter("s", scope, params) + `
    SET s.name = $name,
        s.email = $email,
        s.semester = $semester,
        s.gpa = $gpa,
        s.branchID = $branchID,
        s.updatedAt = $updatedAt
    RETURN s
    `

	result, err := session.WriteTransaction(func(tx neo4j.Transaction) (interface{}, error) {
		res, err := tx.Run(query, params)
		if err != nil {
			return nil, apperrors.ErrDatabaseOperation
		}
		if res.Next() {
			return res.Record().Values[0], nil
		}
		return nil, apperrors.ErrStudentNotFound
	})
	if err != nil {
		return nil, err
	}

	updated := mapNodeToStudent(result.(neo4j.Node))
	logger.Info("Student updated", zap.String("studentID", updated.ID))
	return updated, nil
}

func (dao *StudentDAO) DeleteStudent(ctx context.Context, scope auth.ScopedQuery, studentID string) error {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	params := map[string]interface{}{"id": studentID}
	query := `MATCH (s:Student {id: $id}) WHERE true` + scopeFilter("s", scope, params) + `
    DETACH DELETE s RETURN count(s) as deleted`

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
		return apperrors.ErrStudentNotFound
	}

	logger.Info("Student deleted", zap.String("studentID", studentID))
	return nil
}

func (dao *StudentDAO) ListStudents(ctx context.Context, scope auth.ScopedQuery, limit, offset int) ([]*model.Student, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	params := map[string]interface{}{"limit": limit, "offset": offset}
	query := `MATCH (s:Student) WHERE true` + scopeFilter("s", scope, params) + `
    RETURN s
    ORDER BY s.rollNumber
    SKIP $offset
    LIMIT $limit
    `

	result, err := session.Run(query, params)
	if err != nil {
		logger.Error("Failed to list students", zap.Error(err))
		return nil, apperrors.ErrDatabaseOperation
	}

	var students []*model.Student
	for result.Next() {
		node := result.Record().Values[0].(neo4j.Node)
		students = append(students, mapNodeToStudent(node))
	}
	return students, nil
}

// StudentIDForUser resolves the student record owned by the given account.
// The auth layer uses it to collapse record ids onto account ids when
// checking self-access conditions, so it is deliberately unscoped.
func (dao *StudentDAO) StudentIDForUser(ctx context.Context, userID string) (string, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.Run(`MATCH (s:Student {userID: $userID}) RETURN s.id LIMIT 1`,
		map[string]interface{}{"userID": userID})
	if err != nil {
		logger.Error("Failed to resolve student for user", zap.Error(err), zap.String("userID", userID))
		return "", apperrors.ErrDatabaseOperation
	}
	if result.Next() {
		return result.Record().Values[0].(string), nil
	}
	return "", apperrors.ErrStudentNotFound
}

func (dao *StudentDAO) CountStudents(ctx context.Context, scope auth.ScopedQuery) (int, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	params := map[string]interface{}{}
	query := `MATCH (s:Student) WHERE true` + scopeFilter("s", scope, params) + ` RETURN count(s)`

	result, err := session.Run(query, params)
	if err != nil {
		return 0, apperrors.ErrDatabaseOperation
	}
	if result.Next() {
		return int(result.Record().Values[0].(int64)), nil
	}
	return 0, nil
}

func mapNodeToStudent(node neo4j.Node) *model.Student {
	props := node.Props
	return &model.Student{
		ID:            stringProp(props, "id"),
		UserID:        stringProp(props, "userID"),
		Name:          stringProp(props, "name"),
		Email:         stringProp(props, "email"),
		RollNumber:    stringProp(props, "rollNumber"),
		Semester:      intProp(props, "semester"),
		GPA:           floatProp(props, "gpa"),
		InstitutionID: stringProp(props, "institutionID"),
		BranchID:      stringProp(props, "branchID"),
		CreatedAt:     timeProp(props, "createdAt"),
		UpdatedAt:     timeProp(props, "updatedAt"),
	}
}
