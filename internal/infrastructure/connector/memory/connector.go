package memory

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ersonp/factoid-core/internal/domain/entities"
	"github.com/ersonp/factoid-core/internal/domain/ports"
	"github.com/ersonp/factoid-core/internal/domain/query"
)

// Connector serves a fixed dataset. All mutating operations return
// ports.ErrUnsupportedOperation.
type Connector struct {
	dataset *Dataset
	log     *zap.SugaredLogger
}

// New builds a read-only connector over the given population.
func New(factoids []*entities.Factoid, log *zap.SugaredLogger) (*Connector, error) {
	dataset, err := NewDataset(factoids)
	if err != nil {
		return nil, fmt.Errorf("indexing dataset: %w", err)
	}
	log.Debugw("dataset indexed", "factoids", len(dataset.factoids),
		"persons", len(dataset.persons), "sources", len(dataset.sources),
		"statements", len(dataset.statements))
	return &Connector{dataset: dataset, log: log}, nil
}

// Dataset exposes the indexed population for reuse by other backends.
func (c *Connector) Dataset() *Dataset {
	return c.dataset
}

func (c *Connector) Persons() ports.PersonConnector       { return personConnector{c} }
func (c *Connector) Sources() ports.SourceConnector       { return sourceConnector{c} }
func (c *Connector) Statements() ports.StatementConnector { return statementConnector{c} }
func (c *Connector) Factoids() ports.FactoidConnector     { return factoidConnector{c} }

func (c *Connector) Close() error { return nil }

func errReadOnly(op string) error {
	return fmt.Errorf("%w: %s on a read-only connector", ports.ErrUnsupportedOperation, op)
}

type personConnector struct{ c *Connector }

func (pc personConnector) Get(_ context.Context, idOrURI string) (*entities.Person, error) {
	if p := pc.c.dataset.Person(idOrURI); p != nil {
		return p.Clone(), nil
	}
	return nil, nil
}

func (pc personConnector) Search(_ context.Context, size, page int, sortBy string, order ports.SortOrder, filters ports.Filters) ([]*entities.Person, error) {
	pred, err := query.Compile(filters)
	if err != nil {
		return nil, err
	}
	matched := pc.c.dataset.MatchingPersons(pred)
	out := make([]*entities.Person, 0, len(matched))
	for _, p := range query.SortAndPage(matched, sortBy, order, page, size) {
		out = append(out, p.Clone())
	}
	return out, nil
}

func (pc personConnector) Count(_ context.Context, filters ports.Filters) (int, error) {
	pred, err := query.Compile(filters)
	if err != nil {
		return 0, err
	}
	return len(pc.c.dataset.MatchingPersons(pred)), nil
}

func (pc personConnector) Create(context.Context, *entities.Person) (*entities.Person, error) {
	return nil, errReadOnly("create person")
}

func (pc personConnector) Update(context.Context, string, *entities.Person) (*entities.Person, error) {
	return nil, errReadOnly("update person")
}

func (pc personConnector) Delete(context.Context, string) error {
	return errReadOnly("delete person")
}

type sourceConnector struct{ c *Connector }

func (sc sourceConnector) Get(_ context.Context, idOrURI string) (*entities.Source, error) {
	if s := sc.c.dataset.Source(idOrURI); s != nil {
		return s.Clone(), nil
	}
	return nil, nil
}

func (sc sourceConnector) Search(_ context.Context, size, page int, sortBy string, order ports.SortOrder, filters ports.Filters) ([]*entities.Source, error) {
	pred, err := query.Compile(filters)
	if err != nil {
		return nil, err
	}
	matched := sc.c.dataset.MatchingSources(pred)
	out := make([]*entities.Source, 0, len(matched))
	for _, s := range query.SortAndPage(matched, sortBy, order, page, size) {
		out = append(out, s.Clone())
	}
	return out, nil
}

func (sc sourceConnector) Count(_ context.Context, filters ports.Filters) (int, error) {
	pred, err := query.Compile(filters)
	if err != nil {
		return 0, err
	}
	return len(sc.c.dataset.MatchingSources(pred)), nil
}

func (sc sourceConnector) Create(context.Context, *entities.Source) (*entities.Source, error) {
	return nil, errReadOnly("create source")
}

func (sc sourceConnector) Update(context.Context, string, *entities.Source) (*entities.Source, error) {
	return nil, errReadOnly("update source")
}

func (sc sourceConnector) Delete(context.Context, string) error {
	return errReadOnly("delete source")
}

type statementConnector struct{ c *Connector }

func (sc statementConnector) Get(_ context.Context, idOrURI string) (*entities.Statement, error) {
	if st := sc.c.dataset.Statement(idOrURI); st != nil {
		return st.Clone(), nil
	}
	return nil, nil
}

func (sc statementConnector) Search(_ context.Context, size, page int, sortBy string, order ports.SortOrder, filters ports.Filters) ([]*entities.Statement, error) {
	pred, err := query.Compile(filters)
	if err != nil {
		return nil, err
	}
	matched := sc.c.dataset.MatchingStatements(pred)
	out := make([]*entities.Statement, 0, len(matched))
	for _, st := range query.SortAndPage(matched, sortBy, order, page, size) {
		out = append(out, st.Clone())
	}
	return out, nil
}

func (sc statementConnector) Count(_ context.Context, filters ports.Filters) (int, error) {
	pred, err := query.Compile(filters)
	if err != nil {
		return 0, err
	}
	return len(sc.c.dataset.MatchingStatements(pred)), nil
}

func (sc statementConnector) Create(context.Context, *entities.Statement) (*entities.Statement, error) {
	return nil, errReadOnly("create statement")
}

func (sc statementConnector) Update(context.Context, string, *entities.Statement) (*entities.Statement, error) {
	return nil, errReadOnly("update statement")
}

func (sc statementConnector) Delete(context.Context, string) error {
	return errReadOnly("delete statement")
}

type factoidConnector struct{ c *Connector }

func (fc factoidConnector) Get(_ context.Context, id string) (*entities.Factoid, error) {
	if f := fc.c.dataset.Factoid(id); f != nil {
		return f.Clone(), nil
	}
	return nil, nil
}

func (fc factoidConnector) Search(_ context.Context, size, page int, sortBy string, order ports.SortOrder, filters ports.Filters) ([]*entities.Factoid, error) {
	pred, err := query.Compile(filters)
	if err != nil {
		return nil, err
	}
	matched := fc.c.dataset.MatchingFactoids(pred)
	out := make([]*entities.Factoid, 0, len(matched))
	for _, f := range query.SortAndPage(matched, sortBy, order, page, size) {
		out = append(out, f.Clone())
	}
	return out, nil
}

func (fc factoidConnector) Count(_ context.Context, filters ports.Filters) (int, error) {
	pred, err := query.Compile(filters)
	if err != nil {
		return 0, err
	}
	return len(fc.c.dataset.MatchingFactoids(pred)), nil
}

func (fc factoidConnector) Create(context.Context, *entities.Factoid) (*entities.Factoid, error) {
	return nil, errReadOnly("create factoid")
}

func (fc factoidConnector) Update(context.Context, string, *entities.Factoid) (*entities.Factoid, error) {
	return nil, errReadOnly("update factoid")
}

func (fc factoidConnector) Delete(context.Context, string) error {
	return errReadOnly("delete factoid")
}
