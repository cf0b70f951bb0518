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

type NoticeDAO struct {
	Driver neo4j.Driver
}

func NewNoticeDAO(driver neo4j.Driver) *NoticeDAO {
	return &NoticeDAO{Driver: driver}
}

func (dao *NoticeDAO) CreateNotice(ctx context.Context, notice model.Notice) (string, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	if notice.ID == "" {
		notice.ID = uuid.New().String()
	}
	if notice.Audience == "" {
		notice.Audience = "all"
	}

	_, err := session.WriteTransaction(func(tx neo4j.Transaction) (interface{}, error) {
		query := `
        CREATE (n:Notice {id: $id})
        SET n += $props
        RETURN n.id as id
        `
		params := map[string]interface{}{
			"id": notice.ID,
			"props": map[string]interface{}{
				"title":         notice.Title,
				"body":          notice.Body,
				"audience":      notice.Audience,
				"authorID":      notice.AuthorID,
				"institutionID": notice.InstitutionID,
				"createdAt":     formatTime(time.Now()),
				"updatedAt":     formatTime(time.Now()),
			},
		}
		if _, err := tx.Run(query, params); err != nil {
			return nil, apperrors.ErrDatabaseOperation
		}
		return notice.ID, nil
	})
	if err != nil {
		logger.Error("Failed to create notice", zap.Error(err), zap.String("title", notice.Title))
		return "", err
	}

	logger.Info("Notice created", zap.String("noticeID", notice.ID))
	return notice.ID, nil
}

func (dao *NoticeDAO) GetNotice(ctx context.Context, scope auth.ScopedQuery, noticeID string) (*model.Notice, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	params := map[string]interface{}{"id": noticeID}
	query := `MATCH (n:Notice {id: $id}) WHERE true` + scopeFilter("n", scope, params) + ` RETURN n`

	result, err := session.Run(query, params)
	if err != nil {
		logger.Error("Failed to execute get notice query", zap.Error(err))
		return nil, apperrors.ErrDatabaseOperation
	}
	if result.Next() {
		node := result.Record().Values[0].(neo4j.Node)
		return mapNodeToNotice(node), nil
	}
	return nil, apperrors.ErrNoticeNotFound
}

func (dao *NoticeDAO) UpdateNotice(ctx context.Context, scope auth.ScopedQuery, notice model.Notice) (*model.Notice, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	params := map[string]interface{}{
		"id":        notice.ID,
		"title":     notice.Title,
		"body":      notice.Body,
		"audience":  notice.Audience,
		"updatedAt": formatTime(time.Now()),
	}
	query := `
    MATCH (n:Notice {id: $id}) WHERE true` + scopeFilter("n", scope, params) + `
    SET n.title = $title,
        n.body = $body,
        n.audience = $audience,
        n.updatedAt = $updatedAt
    RETURN n
    `

	result, err := session.WriteTransaction(func(tx neo4j.Transaction) (interface{}, error) {
		res, err := tx.Run(query, params)
		if err != nil {
			return nil, apperrors.ErrDatabaseOperation
		}
		if res.Next() {
			return res.Record().Values[0], nil
		}
		return nil, apperrors.ErrNoticeNotFound
	})
	if err != nil {
		return nil, err
	}
	return mapNodeToNotice(result.(neo4j.Node)), nil
}

func (dao *NoticeDAO) DeleteNotice(ctx context.Context, scope auth.ScopedQuery, noticeID string) error {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	params := map[string]interface{}{"id": noticeID}
	query := `MATCH (n:Notice {id: $id}) WHERE true` + scopeFilter("n", scope, params) + `
    DETACH DELETE n RETURN count(n) as deleted`

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
		return apperrors.ErrNoticeNotFound
	}
	return nil
}

// ListNotices returns notices visible to the given audience, newest first.
// An empty audience means no audience filter.
func (dao *NoticeDAO) ListNotices(ctx context.Context, scope auth.ScopedQuery, audience string, limit, offset int) ([]*model.Notice, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	params := map[string]interface{}{"limit": limit, "offset": offset}
	query := `MATCH (n:Notice) WHERE true` + scopeFilter("n", scope, params)
	if audience != "" {
		query += ` AND (n.audience = $audience OR n.audience = 'all')`
		params["audience"] = audience
	}
	query += `
    RETURN n
    ORDER BY n.createdAt DESC
    SKIP $offset
    LIMIT $limit
    `

	result, err := session.Run(query, params)
	if err != nil {
		logger.Error("Failed to list notices", zap.Error(err))
		return nil, apperrors.ErrDatabaseOperation
	}

	var notices []*model.Notice
	for result.Next() {
		node := result.Record().Values[0].(neo4j.Node)
		notices = append(notices, mapNodeToNotice(node))
	}
	return notices, nil
}

func (dao *NoticeDAO) CountNotices(ctx context.Context, scope auth.ScopedQuery) (int, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	params := map[string]interface{}{}
	query := `MATCH (n:Notice) WHERE true` + scopeFilter("n", scope, params) + ` RETURN count(n)`

	result, err := session.Run(query, params)
	if err != nil {
		return 0, apperrors.ErrDatabaseOperation
	}
	if result.Next() {
		return int(result.Record().Values[0].(int64)), nil
	}
	return 0, nil
}

func mapNodeToNotice(node neo4j.Node) *model.Notice {
	props := node.Props
	return &model.Notice{
		ID:            stringProp(props, "id"),
		Title:         stringProp(props, "title"),
		Body:          stringProp(props, "body"),
		Audience:      stringProp(props, "audience"),
		AuthorID:      stringProp(props, "authorID"),
		InstitutionID: stringProp(props, "institutionID"),
		CreatedAt:     timeProp(props, "createdAt"),
		UpdatedAt:     timeProp(props, "updatedAt"),
	}
}
