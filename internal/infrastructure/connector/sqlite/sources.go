package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ersonp/factoid-core/internal/domain/entities"
	"github.com/ersonp/factoid-core/internal/domain/ports"
	"github.com/ersonp/factoid-core/internal/domain/query"
)

type sourceConnector struct {
	r *Repository
}

func (sc *sourceConnector) Get(ctx context.Context, idOrURI string) (*entities.Source, error) {
	var s *entities.Source
	err := sc.r.withReadTx(ctx, func(tx *sql.Tx) error {
		id, err := resolveOwnerID(ctx, tx, "sources", "source_uris", "source_id", idOrURI)
		if err != nil || id == "" {
			return err
		}
		s, err = assembleSource(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (sc *sourceConnector) Search(ctx context.Context, size, page int, sortBy string, order ports.SortOrder, filters ports.Filters) ([]*entities.Source, error) {
	if size <= 0 || page < 1 {
		return []*entities.Source{}, nil
	}
	c, err := sourceSearchConds(filters)
	if err != nil {
		return nil, err
	}
	tail := orderLimit(c, sourceSortColumns, "s", sortBy, order, size, page)
	out := make([]*entities.Source, 0, size)
	err = sc.r.withReadTx(ctx, func(tx *sql.Tx) error {
		ids, err := queryIDs(ctx, tx, "SELECT s.id FROM sources s "+c.where()+" "+tail, c.args...)
		if err != nil {
			return err
		}
		for _, id := range ids {
			s, err := assembleSource(ctx, tx, id)
			if err != nil {
				return err
			}
			if s != nil {
				out = append(out, s)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (sc *sourceConnector) Count(ctx context.Context, filters ports.Filters) (int, error) {
	c, err := sourceSearchConds(filters)
	if err != nil {
		return 0, err
	}
	return queryCount(ctx, sc.r.db, "SELECT COUNT(*) FROM sources s "+c.where(), c.args...)
}

func sourceSearchConds(filters ports.Filters) (*clause, error) {
	pred, err := query.Compile(filters)
	if err != nil {
		return nil, err
	}
	var c clause
	if !pred.IsZero() {
		fc := factoidConds("qf", pred)
		c.add("EXISTS (SELECT 1 FROM factoids qf WHERE qf.source_id = s.id AND "+fc.and()+")",
			fc.args...)
	}
	return &c, nil
}

func (sc *sourceConnector) Create(ctx context.Context, source *entities.Source) (*entities.Source, error) {
	s := source.Clone()
	s.FactoidRefs = nil
	s.Normalize()
	err := sc.r.withTx(ctx, func(tx *sql.Tx) error {
		if s.ID == "" {
			id, err := makeEntityID(ctx, tx, "sources", s)
			if err != nil {
				return err
			}
			s.ID = id
			return insertSourceRow(ctx, tx, s)
		}
		ok, err := rowExists(ctx, tx, "sources", s.ID)
		if err != nil {
			return err
		}
		if ok {
			return fmt.Errorf("%w: source %q", ports.ErrDuplicateID, s.ID)
		}
		return insertSourceRow(ctx, tx, s)
	})
	if err != nil {
		return nil, err
	}
	sc.r.log.Debugw("source created", "id", s.ID)
	return sc.Get(ctx, s.ID)
}

func (sc *sourceConnector) Update(ctx context.Context, id string, source *entities.Source) (*entities.Source, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: source id is required", ports.ErrValidation)
	}
	s := source.Clone()
	s.ID = id
	s.FactoidRefs = nil
	s.Normalize()
	err := sc.r.withTx(ctx, func(tx *sql.Tx) error {
		ok, err := rowExists(ctx, tx, "sources", id)
		if err != nil {
			return err
		}
		if ok {
			return updateSourceRow(ctx, tx, s)
		}
		return insertSourceRow(ctx, tx, s)
	})
	if err != nil {
		return nil, err
	}
	return sc.Get(ctx, id)
}

func (sc *sourceConnector) Delete(ctx context.Context, id string) error {
	return sc.r.withTx(ctx, func(tx *sql.Tx) error {
		ok, err := rowExists(ctx, tx, "sources", id)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: source %q", ports.ErrNotFound, id)
		}
		n, err := queryCount(ctx, tx, `SELECT COUNT(*) FROM factoids WHERE source_id = ?`, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: source %q is referenced by %d factoid(s)",
				ports.ErrReferentialIntegrity, id, n)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM sources WHERE id = ?`, id); err != nil {
			return fmt.Errorf("deleting source: %w", err)
		}
		return nil
	})
}
