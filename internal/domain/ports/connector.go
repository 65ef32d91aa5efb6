// Package ports defines the connector contract every storage backend
// satisfies, the filter parameters of the query surface and the error
// taxonomy crossing the boundary. The API layer consumes these interfaces;
// it never sees a concrete backend.
package ports

import (
	"context"

	"github.com/ersonp/factoid-core/internal/domain/entities"
)

// PersonConnector is the uniform get/search/count/create/update/delete
// contract for persons. Get accepts an id or one of the person's owned
// uris and returns nil without error on a miss. Update is an upsert:
// a missing id creates the person with that id.
type PersonConnector interface {
	Get(ctx context.Context, idOrURI string) (*entities.Person, error)
	Search(ctx context.Context, size, page int, sortBy string, order SortOrder, filters Filters) ([]*entities.Person, error)
	Count(ctx context.Context, filters Filters) (int, error)
	Create(ctx context.Context, person *entities.Person) (*entities.Person, error)
	Update(ctx context.Context, id string, person *entities.Person) (*entities.Person, error)
	Delete(ctx context.Context, id string) error
}

// SourceConnector is the connector contract for sources.
type SourceConnector interface {
	Get(ctx context.Context, idOrURI string) (*entities.Source, error)
	Search(ctx context.Context, size, page int, sortBy string, order SortOrder, filters Filters) ([]*entities.Source, error)
	Count(ctx context.Context, filters Filters) (int, error)
	Create(ctx context.Context, source *entities.Source) (*entities.Source, error)
	Update(ctx context.Context, id string, source *entities.Source) (*entities.Source, error)
	Delete(ctx context.Context, id string) error
}

// StatementConnector is the connector contract for statements.
type StatementConnector interface {
	Get(ctx context.Context, idOrURI string) (*entities.Statement, error)
	Search(ctx context.Context, size, page int, sortBy string, order SortOrder, filters Filters) ([]*entities.Statement, error)
	Count(ctx context.Context, filters Filters) (int, error)
	Create(ctx context.Context, statement *entities.Statement) (*entities.Statement, error)
	Update(ctx context.Context, id string, statement *entities.Statement) (*entities.Statement, error)
	Delete(ctx context.Context, id string) error
}

// FactoidConnector is the connector contract for factoids. Delete is the
// cascading deep delete: it also removes the factoid's person, source and
// statements when this factoid was their last reference, together with any
// value objects that end up unreferenced.
type FactoidConnector interface {
	Get(ctx context.Context, id string) (*entities.Factoid, error)
	Search(ctx context.Context, size, page int, sortBy string, order SortOrder, filters Filters) ([]*entities.Factoid, error)
	Count(ctx context.Context, filters Filters) (int, error)
	Create(ctx context.Context, factoid *entities.Factoid) (*entities.Factoid, error)
	Update(ctx context.Context, id string, factoid *entities.Factoid) (*entities.Factoid, error)
	Delete(ctx context.Context, id string) error
}

// Connector bundles the per-kind connectors of one backend.
type Connector interface {
	Persons() PersonConnector
	Sources() SourceConnector
	Statements() StatementConnector
	Factoids() FactoidConnector
	Close() error
}
