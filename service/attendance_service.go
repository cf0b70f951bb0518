package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Aisenh037/MBC-sub002/auth"
	"github.com/Aisenh037/MBC-sub002/cache"
	"github.com/Aisenh037/MBC-sub002/dao"
	logger "github.com/Aisenh037/MBC-sub002/logging"
	"github.com/Aisenh037/MBC-sub002/model"
)

// AttendanceSummary aggregates a student's attendance over a period.
type AttendanceSummary struct {
	StudentID  string  `json:"student_id"`
	Total      int     `json:"total"`
	Present    int     `json:"present"`
	Percentage float64 `json:"percentage"`
}

type IAttendanceService interface {
	RecordAttendance(ctx context.Context, scope auth.ScopedQuery, record model.Attendance) (*model.Attendance, error)
	ListAttendance(ctx context.Context, scope auth.ScopedQuery, studentID, courseID string, from, to time.Time) ([]*model.Attendance, error)
	AttendanceSummary(ctx context.Context, scope auth.ScopedQuery, studentID string, from, to time.Time) (*AttendanceSummary, error)
	DeleteAttendance(ctx context.Context, scope auth.ScopedQuery, attendanceID string) error
}

type AttendanceService struct {
	attendanceDAO *dao.AttendanceDAO
	cache         *cache.Cache
}

var _ IAttendanceService = &AttendanceService{}

func NewAttendanceService(attendanceDAO *dao.AttendanceDAO, cacheSvc *cache.Cache) *AttendanceService {
	return &AttendanceService{attendanceDAO: attendanceDAO, cache: cacheSvc}
}

func (s *AttendanceService) RecordAttendance(ctx context.Context, scope auth.ScopedQuery, record model.Attendance) (*model.Attendance, error) {
	if !scope.Global {
		record.InstitutionID = scope.InstitutionID
	}
	if record.Date.IsZero() {
		record.Date = time.Now()
	}

	recordID, err := s.attendanceDAO.RecordAttendance(ctx, record)
	if err != nil {
		return nil, err
	}
	record.ID = recordID

	s.invalidate(ctx)
	return &record, nil
}

func (s *AttendanceService) ListAttendance(ctx context.Context, scope auth.ScopedQuery, studentID, courseID string, from, to time.Time) ([]*model.Attendance, error) {
	records, err := s.attendanceDAO.ListAttendance(ctx, scope, studentID, courseID, from, to)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []*model.Attendance{}
	}
	return records, nil
}

func (s *AttendanceService) AttendanceSummary(ctx context.Context, scope auth.ScopedQuery, studentID string, from, to time.Time) (*AttendanceSummary, error) {
	var summary AttendanceSummary
	key := cache.EntityKey("attendance", "summary", studentID, scopeKeyPart(scope),
		from.Format("2006-01-02"), to.Format("2006-01-02"))
	_, err := s.cache.GetOrSet(ctx, key, cache.TTLShort, &summary,
		func(ctx context.Context) (interface{}, error) {
			records, err := s.attendanceDAO.ListAttendance(ctx, scope, studentID, "", from, to)
			if err != nil {
				return nil, err
			}
			out := AttendanceSummary{StudentID: studentID, Total: len(records)}
			for _, r := range records {
				if r.Present {
					out.Present++
				}
			}
			if out.Total > 0 {
				out.Percentage = float64(out.Present) / float64(out.Total) * 100
			}
			return out, nil
		})
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (s *AttendanceService) DeleteAttendance(ctx context.Context, scope auth.ScopedQuery, attendanceID string) error {
	if err := s.attendanceDAO.DeleteAttendance(ctx, scope, attendanceID); err != nil {
		return err
	}

	s.invalidate(ctx)
	return nil
}

func (s *AttendanceService) invalidate(ctx context.Context) {
	if _, err := s.cache.InvalidatePattern(ctx, "attendance:*"); err != nil {
		logger.Warn("Attendance cache invalidation failed", zap.Error(err))
	}
}
