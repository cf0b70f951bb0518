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

type AttendanceDAO struct {
	Driver neo4j.Driver
}

func NewAttendanceDAO(driver neo4j.Driver) *AttendanceDAO {
	return &AttendanceDAO{Driver: driver}
}

func (dao *AttendanceDAO) RecordAttendance(ctx context.Context, record model.Attendance) (string, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	if record.ID == "" {
		record.ID = uuid.New().String()
	}

	_, err := session.WriteTransaction(func(tx neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (s:Student {id: $studentID})
        MERGE (a:Attendance {studentID: $studentID, courseID: $courseID, date: $date})
        ON CREATE SET a.id = $id, a.createdAt = $now
        SET a.present = $present,
            a.institutionID = $institutionID,
            a.updatedAt = $now
        MERGE (a)-[:ATTENDED_BY]->(s)
        RETURN a.id as id
        `
		params := map[string]interface{}{
			"id":            record.ID,
			"studentID":     record.StudentID,
			"courseID":      record.CourseID,
			"date":          record.Date.Format("2006-01-02"),
			"present":       record.Present,
			"institutionID": record.InstitutionID,
			"now":           formatTime(time.Now()),
		}
		res, err := tx.Run(query, params)
		if err != nil {
			return nil, apperrors.ErrDatabaseOperation
		}
		if !res.Next() {
			return nil, apperrors.ErrStudentNotFound
		}
		return res.Record().Values[0], nil
	})
	if err != nil {
		logger.Error("Failed to record attendance", zap.Error(err), zap.String("studentID", record.StudentID))
		return "", err
	}
	return record.ID, nil
}

// ListAttendance filters by student and optionally by course and date range.
func (dao *AttendanceDAO) ListAttendance(ctx context.Context, scope auth.ScopedQuery, studentID, courseID string, from, to time.Time) ([]*model.Attendance, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	params := map[string]interface{}{"studentID": studentID}
	query := `MATCH (a:Attendance {studentID: $studentID}) WHERE true` + scopeFilter("a", scope, params)
	if courseID != "" {
		query += ` AND a.courseID = $courseID`
		params["courseID"] = courseID
	}
	if !from.IsZero() {
		query += ` AND a.date >= $from`
		params["from"] = from.Format("2006-01-02")
	}
	if !to.IsZero() {
		query += ` AND a.date <= $to`
		params["to"] = to.Format("2006-01-02")
	}
	query += ` RETURN a ORDER BY a.date`

	result, err := session.Run(query, params)
	if err != nil {
		logger.Error("Failed to list attendance", zap.Error(err), zap.String("studentID", studentID))
		return nil, apperrors.ErrDatabaseOperation
	}

	var records []*model.Attendance
	for result.Next() {
		node := result.Record().Values[0].(neo4j.Node)
		records = append(records, mapNodeToAttendance(node))
	}
	return records, nil
}

func (dao *AttendanceDAO) DeleteAttendance(ctx context.Context, scope auth.ScopedQuery, attendanceID string) error {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	params := map[string]interface{}{"id": attendanceID}
	query := `MATCH (a:Attendance {id: $id}) WHERE true` + scopeFilter("a", scope, params) + `
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
		return apperrors.ErrAttendanceNotFound
	}
	return nil
}

func mapNodeToAttendance(node neo4j.Node) *model.Attendance {
	props := node.Props
	date, _ := time.Parse("2006-01-02", stringProp(props, "date"))
	return &model.Attendance{
		ID:            stringProp(props, "id"),
		StudentID:     stringProp(props, "studentID"),
		CourseID:      stringProp(props, "courseID"),
		Date:          date,
		Present:       boolProp(props, "present"),
		InstitutionID: stringProp(props, "institutionID"),
		CreatedAt:     timeProp(props, "createdAt"),
		UpdatedAt:     timeProp(props, "updatedAt"),
	}
}
