package jsonfile

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ersonp/factoid-core/internal/infrastructure/connector/memory"
)

// Connector serves a JSON snapshot file. All mutation attempts fail with
// ports.ErrUnsupportedOperation, like the mock backend.
type Connector struct {
	*memory.Connector
	path string
}

// Open reads and indexes the snapshot at path. Missing creator metadata is
// filled in with the given contact.
func Open(path, contact string, log *zap.SugaredLogger) (*Connector, error) {
	factoids, err := ReadFile(path, contact)
	if err != nil {
		return nil, err
	}
	inner, err := memory.New(factoids, log)
	if err != nil {
		return nil, fmt.Errorf("indexing snapshot %s: %w", path, err)
	}
	log.Infow("snapshot loaded", "path", path, "factoids", len(factoids))
	return &Connector{Connector: inner, path: path}, nil
}

// Path returns the snapshot file the connector was opened on.
func (c *Connector) Path() string {
	return c.path
}
