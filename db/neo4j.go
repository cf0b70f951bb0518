package db

import (
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/spf13/viper"

	logger "github.com/Aisenh037/MBC-sub002/logging"
)

// NewNeo4jDriver connects to the record store and verifies connectivity.
// The driver is injected into DAOs rather than held as package state so
// tests can substitute their own.
func NewNeo4jDriver() (neo4j.Driver, error) {
	driver, err := neo4j.NewDriver(
		viper.GetString("neo4j.uri"),
		neo4j.BasicAuth(
			viper.GetString("neo4j.username"),
			viper.GetString("neo4j.password"),
			"",
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Neo4j driver: %w", err)
	}

	if err := driver.VerifyConnectivity(); err != nil {
		return nil, fmt.Errorf("failed to connect to Neo4j: %w", err)
	}

	logger.Info("Successfully connected to Neo4j")
	return driver, nil
}
