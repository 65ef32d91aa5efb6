package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ersonp/factoid-core/internal/domain/entities"
	"github.com/ersonp/factoid-core/internal/domain/ports"
	"github.com/ersonp/factoid-core/internal/domain/query"
)

type personConnector struct {
	r *Repository
}

func (pc *personConnector) Get(ctx context.Context, idOrURI string) (*entities.Person, error) {
	var p *entities.Person
	err := pc.r.withReadTx(ctx, func(tx *sql.Tx) error {
		id, err := resolveOwnerID(ctx, tx, "persons", "person_uris", "person_id", idOrURI)
		if err != nil || id == "" {
			return err
		}
		p, err = assemblePerson(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (pc *personConnector) Search(ctx context.Context, size, page int, sortBy string, order ports.SortOrder, filters ports.Filters) ([]*entities.Person, error) {
	if size <= 0 || page < 1 {
		return []*entities.Person{}, nil
	}
	c, err := personSearchConds(filters)
	if err != nil {
		return nil, err
	}
	tail := orderLimit(c, personSortColumns, "p", sortBy, order, size, page)
	out := make([]*entities.Person, 0, size)
	err = pc.r.withReadTx(ctx, func(tx *sql.Tx) error {
		ids, err := queryIDs(ctx, tx, "SELECT p.id FROM persons p "+c.where()+" "+tail, c.args...)
		if err != nil {
			return err
		}
		for _, id := range ids {
			p, err := assemblePerson(ctx, tx, id)
			if err != nil {
				return err
			}
			if p != nil {
				out = append(out, p)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (pc *personConnector) Count(ctx context.Context, filters ports.Filters) (int, error) {
	c, err := personSearchConds(filters)
	if err != nil {
		return 0, err
	}
	return queryCount(ctx, pc.r.db, "SELECT COUNT(*) FROM persons p "+c.where(), c.args...)
}

// personSearchConds admits a person when at least one factoid referencing it
// satisfies the full predicate. No filters means every person.
func personSearchConds(filters ports.Filters) (*clause, error) {
	pred, err := query.Compile(filters)
	if err != nil {
		return nil, err
	}
	var c clause
	if !pred.IsZero() {
		fc := factoidConds("qf", pred)
		c.add("EXISTS (SELECT 1 FROM factoids qf WHERE qf.person_id = p.id AND "+fc.and()+")",
			fc.args...)
	}
	return &c, nil
}

func (pc *personConnector) Create(ctx context.Context, person *entities.Person) (*entities.Person, error) {
	p := person.Clone()
	p.FactoidRefs = nil
	p.Normalize()
	err := pc.r.withTx(ctx, func(tx *sql.Tx) error {
		if p.ID == "" {
			id, err := makeEntityID(ctx, tx, "persons", p)
			if err != nil {
				return err
			}
			p.ID = id
			return insertPersonRow(ctx, tx, p)
		}
		ok, err := rowExists(ctx, tx, "persons", p.ID)
		if err != nil {
			return err
		}
		if ok {
			return fmt.Errorf("%w: person %q", ports.ErrDuplicateID, p.ID)
		}
		return insertPersonRow(ctx, tx, p)
	})
	if err != nil {
		return nil, err
	}
	pc.r.log.Debugw("person created", "id", p.ID)
	return pc.Get(ctx, p.ID)
}

func (pc *personConnector) Update(ctx context.Context, id string, person *entities.Person) (*entities.Person, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: person id is required", ports.ErrValidation)
	}
	p := person.Clone()
	p.ID = id
	p.FactoidRefs = nil
	p.Normalize()
	err := pc.r.withTx(ctx, func(tx *sql.Tx) error {
		ok, err := rowExists(ctx, tx, "persons", id)
		if err != nil {
			return err
		}
		if ok {
			return updatePersonRow(ctx, tx, p)
		}
		return insertPersonRow(ctx, tx, p)
	})
	if err != nil {
		return nil, err
	}
	return pc.Get(ctx, id)
}

func (pc *personConnector) Delete(ctx context.Context, id string) error {
	return pc.r.withTx(ctx, func(tx *sql.Tx) error {
		ok, err := rowExists(ctx, tx, "persons", id)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: person %q", ports.ErrNotFound, id)
		}
		n, err := queryCount(ctx, tx, `SELECT COUNT(*) FROM factoids WHERE person_id = ?`, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: person %q is referenced by %d factoid(s)",
				ports.ErrReferentialIntegrity, id, n)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM persons WHERE id = ?`, id); err != nil {
			return fmt.Errorf("deleting person: %w", err)
		}
		return nil
	})
}
