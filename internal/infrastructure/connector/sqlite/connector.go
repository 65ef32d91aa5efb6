package sqlite

import (
	"context"

	"go.uber.org/zap"

	"github.com/ersonp/factoid-core/internal/domain/ports"
)

// Connector is the mutable persistent backend.
type Connector struct {
	repo *Repository
}

// Open opens the database at path and ensures the schema exists.
func Open(path string, log *zap.SugaredLogger) (*Connector, error) {
	repo, err := NewRepository(path, log)
	if err != nil {
		return nil, err
	}
	if err := repo.EnsureSchema(context.Background()); err != nil {
		repo.Close()
		return nil, err
	}
	log.Debugw("sqlite connector opened", "path", path)
	return &Connector{repo: repo}, nil
}

func (c *Connector) Persons() ports.PersonConnector       { return &personConnector{r: c.repo} }
func (c *Connector) Sources() ports.SourceConnector       { return &sourceConnector{r: c.repo} }
func (c *Connector) Statements() ports.StatementConnector { return &statementConnector{r: c.repo} }
func (c *Connector) Factoids() ports.FactoidConnector     { return &factoidConnector{r: c.repo} }

func (c *Connector) Close() error {
	return c.repo.Close()
}

// Path returns the database file path.
func (c *Connector) Path() string {
	return c.repo.Path()
}
