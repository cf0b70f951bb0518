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

type CourseDAO struct {
	Driver neo4j.Driver
}

func NewCourseDAO(driver neo4j.Driver) *CourseDAO {
	return &CourseDAO{Driver: driver}
}

func (dao *CourseDAO) CreateCourse(ctx context.Context, course model.Course) (string, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	if course.ID == "" {
		course.ID = uuid.New().String()
	}

	_, err := session.WriteTransaction(func(tx neo4j.Transaction) (interface{}, error) {
		existing, err := tx.Run(`
        MATCH (c:Course {code: $code, institutionID: $institutionID})
        RETURN c.id LIMIT 1`,
			map[string]interface{}{
				"code":          course.Code,
				"institutionID": course.InstitutionID,
			})
		if err != nil {
			return nil, apperrors.ErrDatabaseOperation
		}
		if existing.Next() {
			return nil, apperrors.ErrCourseConflict
		}

		query := `
        CREATE (c:Course {id: $id})
        SET c += $props
        WITH c
        MATCH (i:Institution {id: $institutionID})
        MERGE (c)-[:OFFERED_BY]->(i)
        RETURN c.id as id
        `
		params := map[string]interface{}{
			"id":            course.ID,
			"institutionID": course.InstitutionID,
			"props": map[string]interface{}{
				"code":          course.Code,
				"name":          course.Name,
				"semester":      course.Semester,
				"credits":       course.Credits,
				"professorID":   course.ProfessorID,
				"institutionID": course.InstitutionID,
				"branchID":      course.BranchID,
				"createdAt":     formatTime(time.Now()),
				"updatedAt":     formatTime(time.Now()),
			},
		}
		if _, err := tx.Run(query, params); err != nil {
			return nil, apperrors.ErrDatabaseOperation
		}
		return course.ID, nil
	})
	if err != nil {
		logger.Error("Failed to create course", zap.Error(err), zap.String("code", course.Code))
		return "", err
	}

	logger.Info("Course created", zap.String("courseID", course.ID))
	return course.ID, nil
}

func (dao *CourseDAO) GetCourse(ctx context.Context, scope auth.ScopedQuery, courseID string) (*model.Course, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	params := map[string]interface{}{"id": courseID}
	query := `MATCH (c:Course {id: $id}) WHERE true` + scopeFilter("c", scope, params) + ` RETURN c`

	result, err := session.Run(query, params)
	if err != nil {
		logger.Error("Failed to execute get course query", zap.Error(err))
		return nil, apperrors.ErrDatabaseOperation
	}
	if result.Next() {
		node := result.Record().Values[0].(neo4j.Node)
		return mapNodeToCourse(node), nil
	}
	return nil, apperrors.ErrCourseNotFound
}

func (dao *CourseDAO) UpdateCourse(ctx context.Context, scope auth.ScopedQuery, course model.Course) (*model.Course, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	params := map[string]interface{}{
		"id":          course.ID,
		"name":        course.Name,
		"semester":    course.Semester,
		"credits":     course.Credits,
		"professorID": course.ProfessorID,
		"branchID":    course.BranchID,
		"updatedAt":   formatTime(time.Now()),
	}
	query := `
    MATCH (c:Course {id: $id}) WHERE true` + scopeFilter("c", scope, params) + `
    SET c.name = $name,
        c.semester = $semester,
        c.credits = $credits,
        c.professorID = $professorID,
        c.branchID = $branchID,
        c.updatedAt = $updatedAt
    RETURN c
    `

	result, err := session.WriteTransaction(func(tx neo4j.Transaction) (interface{}, error) {
		res, err := tx.Run(query, params)
		if err != nil {
			return nil, apperrors.ErrDatabaseOperation
		}
		if res.Next() {
			return res.Record().Values[0], nil
		}
		return nil, apperrors.ErrCourseNotFound
	})
	if err != nil {
		return nil, err
	}
	return mapNodeToCourse(result.(neo4j.Node)), nil
}

func (dao *CourseDAO) DeleteCourse(ctx context.Context, scope auth.ScopedQuery, courseID string) error {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	params := map[string]interface{}{"id": courseID}
	query := `MATCH (c:Course {id: $id}) WHERE true` + scopeFilter("c", scope, params) + `
    DETACH DELETE c RETURN count(c) as deleted`

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
		return apperrors.ErrCourseNotFound
	}
	return nil
}

// ListCourses supports an optional semester filter on top of the tenant
// scope.
func (dao *CourseDAO) ListCourses(ctx context.Context, scope auth.ScopedQuery, semester, limit, offset int) ([]*model.Course, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	params := map[string]interface{}{"limit": limit, "offset": offset}
	query := `MATCH (c:Course) WHERE true` + scopeFilter("c", scope, params)
	if semester > 0 {
		query += ` AND c.semester = $semester`
		params["semester"] = semester
	}
	query += `
    RETURN c
    ORDER BY c.code
    SKIP $offset
    LIMIT $limit
    `

	result, err := session.Run(query, params)
	if err != nil {
		logger.Error("Failed to list courses", zap.Error(err))
		return nil, apperrors.ErrDatabaseOperation
	}

	var courses []*model.Course
	for result.Next() {
		node := result.Record().Values[0].(neo4j.Node)
		courses = append(courses, mapNodeToCourse(node))
	}
	return courses, nil
}

func (dao *CourseDAO) CountCourses(ctx context.Context, scope auth.ScopedQuery) (int, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	params := map[string]interface{}{}
	query := `MATCH (c:Course) WHERE true` + scopeFilter("c", scope, params) + ` RETURN count(c)`

	result, err := session.Run(query, params)
	if err != nil {
		return 0, apperrors.ErrDatabaseOperation
	}
	if result.Next() {
		return int(result.Record().Values[0].(int64)), nil
	}
	return 0, nil
}

func mapNodeToCourse(node neo4j.Node) *model.Course {
	props := node.Props
	return &model.Course{
		ID:            stringProp(props, "id"),
		Code:          stringProp(props, "code"),
		Name:          stringProp(props, "name"),
		Semester:      intProp(props, "semester"),
		Credits:       intProp(props, "credits"),
		ProfessorID:   stringProp(props, "professorID"),
		InstitutionID: stringProp(props, "institutionID"),
		BranchID:      stringProp(props, "branchID"),
		CreatedAt:     timeProp(props, "createdAt"),
		UpdatedAt:     timeProp(props, "updatedAt"),
	}
}
