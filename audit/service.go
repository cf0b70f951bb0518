package audit

import (
	"context"
	"time"

	"go.uber.org/zap"

	logger "github.com/Aisenh037/MBC-sub002/logging"
)

type Service interface {
	LogAccess(ctx context.Context, log AuditLog) error
	QueryLogs(ctx context.Context, from, to time.Time, userID, resourceID string) ([]AuditLog, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) LogAccess(ctx context.Context, log AuditLog) error {
	return s.repo.LogAccess(ctx, log)
}

func (s *service) QueryLogs(ctx context.Context, from, to time.Time, userID, resourceID string) ([]AuditLog, error) {
	return s.repo.QueryLogs(ctx, from, to, userID, resourceID)
}

// LogDecision records an authorization decision, degrading to a structured
// log line when the audit backend is unavailable. Audit failures never fail
// the request.
func LogDecision(ctx context.Context, svc Service, userID, action, resource, reason string, granted bool) {
	entry := AuditLog{
		Timestamp:     time.Now().UTC(),
		UserID:        userID,
		Action:        action,
		ResourceID:    resource,
		AccessGranted: granted,
		Reason:        reason,
	}
	if svc != nil {
		err := svc.LogAccess(ctx, entry)
		if err == nil {
			return
		}
		logger.Warn("Audit backend write failed", zap.Error(err))
	}
	logger.Info("Authorization decision",
		zap.String("userID", userID),
		zap.String("action", action),
		zap.String("resource", resource),
		zap.String("reason", reason),
		zap.Bool("granted", granted))
}

// NopService discards audit entries. Used when Elasticsearch is disabled and
// in tests.
type NopService struct{}

func NewNopService() Service { return NopService{} }

func (NopService) LogAccess(ctx context.Context, log AuditLog) error { return nil }

func (NopService) QueryLogs(ctx context.Context, from, to time.Time, userID, resourceID string) ([]AuditLog, error) {
	return nil, nil
}
