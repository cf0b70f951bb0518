package dao

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	apperrors "github.com/Aisenh037/MBC-sub002/errors"
	logger "github.com/Aisenh037/MBC-sub002/logging"
	"github.com/Aisenh037/MBC-sub002/model"
)

// InstitutionDAO manages the tenant anchor nodes every other entity
// attaches to. Only admins touch these.
type InstitutionDAO struct {
	Driver neo4j.Driver
}

func NewInstitutionDAO(driver neo4j.Driver) *InstitutionDAO {
	return &InstitutionDAO{Driver: driver}
}

func (dao *InstitutionDAO) CreateInstitution(ctx context.Context, institution model.Institution) (string, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	if institution.ID == "" {
		institution.ID = uuid.New().String()
	}

	_, err := session.WriteTransaction(func(tx neo4j.Transaction) (interface{}, error) {
		query := `
        MERGE (i:Institution {id: $id})
        ON CREATE SET i.name = $name, i.createdAt = $now
        SET i.updatedAt = $now
        RETURN i.id as id
        `
		params := map[string]interface{}{
			"id":   institution.ID,
			"name": institution.Name,
			"now":  formatTime(time.Now()),
		}
		if _, err := tx.Run(query, params); err != nil {
			return nil, apperrors.ErrDatabaseOperation
		}
		return institution.ID, nil
	})
	if err != nil {
		logger.Error("Failed to create institution", zap.Error(err), zap.String("name", institution.Name))
		return "", err
	}

	logger.Info("Institution created", zap.String("institutionID", institution.ID))
	return institution.ID, nil
}

func (dao *InstitutionDAO) GetInstitution(ctx context.Context, institutionID string) (*model.Institution, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.Run(
		`MATCH (i:Institution {id: $id}) RETURN i`,
		map[string]interface{}{"id": institutionID})
	if err != nil {
		logger.Error("Failed to execute get institution query", zap.Error(err))
		return nil, apperrors.ErrDatabaseOperation
	}
	if result.Next() {
		node := result.Record().Values[0].(neo4j.Node)
		props := node.Props
		return &model.Institution{
			ID:        stringProp(props, "id"),
			Name:      stringProp(props, "name"),
			CreatedAt: timeProp(props, "createdAt"),
			UpdatedAt: timeProp(props, "updatedAt"),
		}, nil
	}
	return nil, apperrors.ErrInstitutionNotFound
}

func (dao *InstitutionDAO) ListInstitutions(ctx context.Context) ([]*model.Institution, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.Run(`MATCH (i:Institution) RETURN i ORDER BY i.name`, nil)
	if err != nil {
		logger.Error("Failed to list institutions", zap.Error(err))
		return nil, apperrors.ErrDatabaseOperation
	}

	var institutions []*model.Institution
	for result.Next() {
		node := result.Record().Values[0].(neo4j.Node)
		props := node.Props
		institutions = append(institutions, &model.Institution{
			ID:        stringProp(props, "id"),
			Name:      stringProp(props, "name"),
			CreatedAt: timeProp(props, "createdAt"),
			UpdatedAt: timeProp(props, "updatedAt"),
		})
	}
	return institutions, nil
}
