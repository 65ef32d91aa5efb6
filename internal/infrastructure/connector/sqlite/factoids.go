package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ersonp/factoid-core/internal/domain/entities"
	"github.com/ersonp/factoid-core/internal/domain/ports"
	"github.com/ersonp/factoid-core/internal/domain/query"
)

type factoidConnector struct {
	r *Repository
}

func (fc *factoidConnector) Get(ctx context.Context, id string) (*entities.Factoid, error) {
	var f *entities.Factoid
	err := fc.r.withReadTx(ctx, func(tx *sql.Tx) error {
		var err error
		f, err = assembleFactoid(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (fc *factoidConnector) Search(ctx context.Context, size, page int, sortBy string, order ports.SortOrder, filters ports.Filters) ([]*entities.Factoid, error) {
	if size <= 0 || page < 1 {
		return []*entities.Factoid{}, nil
	}
	pred, err := query.Compile(filters)
	if err != nil {
		return nil, err
	}
	c := factoidConds("f", pred)
	tail := orderLimit(&c, factoidSortColumns, "f", sortBy, order, size, page)
	out := make([]*entities.Factoid, 0, size)
	err = fc.r.withReadTx(ctx, func(tx *sql.Tx) error {
		ids, err := queryIDs(ctx, tx, "SELECT f.id FROM factoids f "+c.where()+" "+tail, c.args...)
		if err != nil {
			return err
		}
		for _, id := range ids {
			f, err := assembleFactoid(ctx, tx, id)
			if err != nil {
				return err
			}
			if f != nil {
				out = append(out, f)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (fc *factoidConnector) Count(ctx context.Context, filters ports.Filters) (int, error) {
	pred, err := query.Compile(filters)
	if err != nil {
		return 0, err
	}
	c := factoidConds("f", pred)
	return queryCount(ctx, fc.r.db, "SELECT COUNT(*) FROM factoids f "+c.where(), c.args...)
}

func (fc *factoidConnector) Create(ctx context.Context, factoid *entities.Factoid) (*entities.Factoid, error) {
	f := factoid.Clone()
	f.Normalize()
	if err := validateFactoid(f); err != nil {
		return nil, err
	}
	err := fc.r.withTx(ctx, func(tx *sql.Tx) error {
		if f.ID == "" {
			id, err := makeEntityID(ctx, tx, "factoids", f)
			if err != nil {
				return err
			}
			f.ID = id
		} else {
			ok, err := rowExists(ctx, tx, "factoids", f.ID)
			if err != nil {
				return err
			}
			if ok {
				return fmt.Errorf("%w: factoid %q", ports.ErrDuplicateID, f.ID)
			}
		}
		return fc.writeFactoid(ctx, tx, f)
	})
	if err != nil {
		return nil, err
	}
	fc.r.log.Debugw("factoid created", "id", f.ID)
	return fc.Get(ctx, f.ID)
}

func (fc *factoidConnector) Update(ctx context.Context, id string, factoid *entities.Factoid) (*entities.Factoid, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: factoid id is required", ports.ErrValidation)
	}
	f := factoid.Clone()
	f.ID = id
	f.Normalize()
	if err := validateFactoid(f); err != nil {
		return nil, err
	}
	err := fc.r.withTx(ctx, func(tx *sql.Tx) error {
		var oldPerson, oldSource string
		exists := true
		err := tx.QueryRowContext(ctx,
			`SELECT person_id, source_id FROM factoids WHERE id = ?`, id).
			Scan(&oldPerson, &oldSource)
		if err == sql.ErrNoRows {
			exists = false
		} else if err != nil {
			return fmt.Errorf("loading factoid: %w", err)
		}
		if exists {
			owned, err := queryIDs(ctx, tx,
				`SELECT id FROM statements WHERE factoid_id = ?`, id)
			if err != nil {
				return err
			}
			if err := deleteStatementRows(ctx, tx, owned); err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, `DELETE FROM factoids WHERE id = ?`, id); err != nil {
				return fmt.Errorf("replacing factoid: %w", err)
			}
		}
		if err := fc.writeFactoid(ctx, tx, f); err != nil {
			return err
		}
		// the swap may have orphaned the previous person or source
		if exists && oldPerson != f.Person.ID {
			if err := deleteOrphanedPerson(ctx, tx, oldPerson); err != nil {
				return err
			}
		}
		if exists && oldSource != f.Source.ID {
			if err := deleteOrphanedSource(ctx, tx, oldSource); err != nil {
				return err
			}
		}
		return sweepLabeledURIs(ctx, tx)
	})
	if err != nil {
		return nil, err
	}
	return fc.Get(ctx, id)
}

// writeFactoid inserts the factoid row with its person, source and owned
// statements. The factoid id must already be settled and unused.
func (fc *factoidConnector) writeFactoid(ctx context.Context, tx *sql.Tx, f *entities.Factoid) error {
	personID, err := getOrCreatePerson(ctx, tx, f.Person)
	if err != nil {
		return err
	}
	sourceID, err := getOrCreateSource(ctx, tx, f.Source)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO factoids (id, created_by, created_when, modified_by, modified_when,
			derived_from, person_id, source_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, f.ID, f.CreatedBy, f.CreatedWhen, f.ModifiedBy, f.ModifiedWhen,
		f.DerivedFrom, personID, sourceID)
	if err != nil {
		return fmt.Errorf("inserting factoid: %w", err)
	}
	for _, st := range f.Statements {
		if st.ID == "" {
			id, err := makeEntityID(ctx, tx, "statements", st)
			if err != nil {
				return err
			}
			st.ID = id
		} else {
			ok, err := rowExists(ctx, tx, "statements", st.ID)
			if err != nil {
				return err
			}
			if ok {
				return fmt.Errorf("%w: statement %q", ports.ErrDuplicateID, st.ID)
			}
		}
		if err := insertStatementRow(ctx, tx, st,
			sql.NullString{String: f.ID, Valid: true}); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a factoid and cascades: its statements go with it, its
// person and source go when this was their last referencing factoid, and
// value objects left without a referrer are swept.
func (fc *factoidConnector) Delete(ctx context.Context, id string) error {
	return fc.r.withTx(ctx, func(tx *sql.Tx) error {
		var personID, sourceID string
		err := tx.QueryRowContext(ctx,
			`SELECT person_id, source_id FROM factoids WHERE id = ?`, id).
			Scan(&personID, &sourceID)
		if err == sql.ErrNoRows {
			return fmt.Errorf("%w: factoid %q", ports.ErrNotFound, id)
		}
		if err != nil {
			return fmt.Errorf("loading factoid: %w", err)
		}

		owned, err := queryIDs(ctx, tx, `SELECT id FROM statements WHERE factoid_id = ?`, id)
		if err != nil {
			return err
		}
		if err := deleteStatementRows(ctx, tx, owned); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM factoids WHERE id = ?`, id); err != nil {
			return fmt.Errorf("deleting factoid: %w", err)
		}
		if err := deleteOrphanedPerson(ctx, tx, personID); err != nil {
			return err
		}
		if err := deleteOrphanedSource(ctx, tx, sourceID); err != nil {
			return err
		}
		fc.r.log.Debugw("factoid deleted", "id", id, "statements", len(owned))
		return sweepLabeledURIs(ctx, tx)
	})
}
