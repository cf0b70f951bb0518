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

type FeedbackDAO struct {
	Driver neo4j.Driver
}

func NewFeedbackDAO(driver neo4j.Driver) *FeedbackDAO {
	dao := &FeedbackDAO{Driver: driver}
	ctx := context.Background()
	if err := dao.EnsureUniqueConstraint(ctx); err != nil {
		logger.Fatal("Failed to ensure unique constraint for Feedback", zap.Error(err))
	}
	return dao
}

func (dao *FeedbackDAO) EnsureUniqueConstraint(ctx context.Context) error {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(tx neo4j.Transaction) (interface{}, error) {
		query := `
        CREATE CONSTRAINT unique_feedback_id IF NOT EXISTS
        FOR (f:Feedback) REQUIRE f.id IS UNIQUE
        `
		_, err := tx.Run(query, nil)
		return nil, err
	})
	return err
}

func (dao *FeedbackDAO) CreateFeedback(ctx context.Context, feedback model.Feedback) (string, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	if feedback.ID == "" {
		feedback.ID = uuid.New().String()
	}

	_, err := session.WriteTransaction(func(tx neo4j.Transaction) (interface{}, error) {
		query := `
        CREATE (f:Feedback {id: $id})
        SET f += $props
        RETURN f.id as id
        `
		params := map[string]interface{}{
			"id": feedback.ID,
			"props": map[string]interface{}{
				"text":           feedback.Text,
				"source":         feedback.Source,
				"category":       feedback.Category,
				"institutionID":  feedback.InstitutionID,
				"score":          feedback.Score,
				"classification": feedback.Classification,
				"confidence":     feedback.Confidence,
				"createdAt":      formatTime(feedback.CreatedAt),
			},
		}
		if _, err := tx.Run(query, params); err != nil {
			return nil, apperrors.ErrDatabaseOperation
		}
		return feedback.ID, nil
	})
	if err != nil {
		logger.Error("Failed to store feedback", zap.Error(err), zap.String("category", feedback.Category))
		return "", err
	}

	logger.Info("Feedback recorded",
		zap.String("feedbackID", feedback.ID),
		zap.String("classification", feedback.Classification))
	return feedback.ID, nil
}

// ListFeedback returns feedback in chronological order, optionally filtered
// by category and a creation-time window. Stored timestamps are RFC3339 in
// UTC, so string comparison orders them correctly.
func (dao *FeedbackDAO) ListFeedback(ctx context.Context, scope auth.ScopedQuery, category string, from, to time.Time) ([]*model.Feedback, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	params := map[string]interface{}{}
	query := `MATCH (f:Feedback) WHERE true` + scopeFilter("f", scope, params)
	if category != "" {
		query += ` AND f.category = $category`
		params["category"] = category
	}
	if !from.IsZero() {
		query += ` AND f.createdAt >= $from`
		params["from"] = formatTime(from)
	}
	if !to.IsZero() {
		query += ` AND f.createdAt <= $to`
		params["to"] = formatTime(to)
	}
	query += ` RETURN f ORDER BY f.createdAt`

	result, err := session.Run(query, params)
	if err != nil {
		logger.Error("Failed to list feedback", zap.Error(err))
		return nil, apperrors.ErrDatabaseOperation
	}

	var feedback []*model.Feedback
	for result.Next() {
		node := result.Record().Values[0].(neo4j.Node)
		feedback = append(feedback, mapNodeToFeedback(node))
	}
	return feedback, nil
}

func mapNodeToFeedback(node neo4j.Node) *model.Feedback {
	props := node.Props
	return &model.Feedback{
		ID:             stringProp(props, "id"),
		Text:           stringProp(props, "text"),
		Source:         stringProp(props, "source"),
		Category:       stringProp(props, "category"),
		InstitutionID:  stringProp(props, "institutionID"),
		Score:          floatProp(props, "score"),
		Classification: stringProp(props, "classification"),
		Confidence:     floatProp(props, "confidence"),
		CreatedAt:      timeProp(props, "createdAt"),
	}
}
