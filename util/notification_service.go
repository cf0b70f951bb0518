package util

import (
	"context"

	"go.uber.org/zap"

	logger "github.com/Aisenh037/MBC-sub002/logging"
	"github.com/Aisenh037/MBC-sub002/model"
)

// NotificationService fans notifications out to interested parties. The
// current implementation emits structured log lines; a message queue client
// would slot in here.
type NotificationService struct{}

func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

func (n *NotificationService) NotifyNoticePublished(ctx context.Context, notice model.Notice) error {
	logger.Info("NOTIFICATION: Notice published",
		zap.String("noticeID", notice.ID),
		zap.String("title", notice.Title),
		zap.String("audience", notice.Audience),
		zap.String("institutionID", notice.InstitutionID))
	return nil
}

func (n *NotificationService) NotifyStudentChange(ctx context.Context, changeType string, student model.Student) error {
	logger.Info("NOTIFICATION: Student change",
		zap.String("changeType", changeType),
		zap.String("studentID", student.ID),
		zap.String("institutionID", student.InstitutionID))
	return nil
}

func (n *NotificationService) NotifyAssignmentPosted(ctx context.Context, assignment model.Assignment) error {
	logger.Info("NOTIFICATION: Assignment posted",
		zap.String("assignmentID", assignment.ID),
		zap.String("courseID", assignment.CourseID),
		zap.Time("dueDate", assignment.DueDate))
	return nil
}

func (n *NotificationService) NotifyMarksPublished(ctx context.Context, mark model.Mark) error {
	logger.Info("NOTIFICATION: Marks published",
		zap.String("studentID", mark.StudentID),
		zap.String("courseID", mark.CourseID),
		zap.String("examType", mark.ExamType))
	return nil
}
