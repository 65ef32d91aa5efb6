// Package connector selects and opens the storage backend named by the
// configuration. Every backend satisfies ports.Connector; callers never see
// the concrete type.
package connector

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ersonp/factoid-core/internal/domain/mockdata"
	"github.com/ersonp/factoid-core/internal/domain/ports"
	"github.com/ersonp/factoid-core/internal/infrastructure/config"
	"github.com/ersonp/factoid-core/internal/infrastructure/connector/jsonfile"
	"github.com/ersonp/factoid-core/internal/infrastructure/connector/memory"
	"github.com/ersonp/factoid-core/internal/infrastructure/connector/sqlite"
)

// Open builds the backend selected by cfg.Connector. Relative file paths
// resolve against basePath.
func Open(basePath string, cfg *config.Config, log *zap.SugaredLogger) (ports.Connector, error) {
	switch cfg.Connector {
	case config.ConnectorMock:
		factoids := mockdata.NewGenerator(cfg.BaseURL).Factoids(cfg.Mock.Count)
		return memory.New(factoids, log)
	case config.ConnectorJSONFile:
		return jsonfile.Open(config.JSONPath(basePath, cfg), cfg.Contact, log)
	case config.ConnectorSQLite:
		return sqlite.Open(config.SQLitePath(basePath, cfg), log)
	default:
		return nil, fmt.Errorf("unknown connector: %q", cfg.Connector)
	}
}
