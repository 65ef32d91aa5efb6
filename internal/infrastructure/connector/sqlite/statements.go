package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ersonp/factoid-core/internal/domain/entities"
	"github.com/ersonp/factoid-core/internal/domain/ports"
	"github.com/ersonp/factoid-core/internal/domain/query"
)

type statementConnector struct {
	r *Repository
}

func (sc *statementConnector) Get(ctx context.Context, idOrURI string) (*entities.Statement, error) {
	var st *entities.Statement
	err := sc.r.withReadTx(ctx, func(tx *sql.Tx) error {
		id, err := resolveOwnerID(ctx, tx, "statements", "statement_uris", "statement_id", idOrURI)
		if err != nil || id == "" {
			return err
		}
		st, err = assembleStatement(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}

func (sc *statementConnector) Search(ctx context.Context, size, page int, sortBy string, order ports.SortOrder, filters ports.Filters) ([]*entities.Statement, error) {
	if size <= 0 || page < 1 {
		return []*entities.Statement{}, nil
	}
	c, err := statementSearchConds(filters)
	if err != nil {
		return nil, err
	}
	tail := orderLimit(c, statementSortColumns, "st", sortBy, order, size, page)
	out := make([]*entities.Statement, 0, size)
	err = sc.r.withReadTx(ctx, func(tx *sql.Tx) error {
		ids, err := queryIDs(ctx, tx, "SELECT st.id FROM statements st "+c.where()+" "+tail, c.args...)
		if err != nil {
			return err
		}
		for _, id := range ids {
			st, err := assembleStatement(ctx, tx, id)
			if err != nil {
				return err
			}
			if st != nil {
				out = append(out, st)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (sc *statementConnector) Count(ctx context.Context, filters ports.Filters) (int, error) {
	c, err := statementSearchConds(filters)
	if err != nil {
		return 0, err
	}
	return queryCount(ctx, sc.r.db, "SELECT COUNT(*) FROM statements st "+c.where(), c.args...)
}

// statementSearchConds evaluates each statement individually against the
// statement filters; cross-scope filters must hold on the owning factoid,
// so an ownerless statement never satisfies them.
func statementSearchConds(filters ports.Filters) (*clause, error) {
	pred, err := query.Compile(filters)
	if err != nil {
		return nil, err
	}
	c := statementConds("st", pred)
	f := pred.Filters()
	if f.HasFactoidScope() || f.HasPersonScope() || f.HasSourceScope() {
		cc := contextConds("qf", f)
		c.add("EXISTS (SELECT 1 FROM factoids qf WHERE qf.id = st.factoid_id AND "+cc.and()+")",
			cc.args...)
	}
	return &c, nil
}

func (sc *statementConnector) Create(ctx context.Context, statement *entities.Statement) (*entities.Statement, error) {
	st := statement.Clone()
	st.FactoidRefs = nil
	st.Normalize()
	err := sc.r.withTx(ctx, func(tx *sql.Tx) error {
		if st.ID == "" {
			id, err := makeEntityID(ctx, tx, "statements", st)
			if err != nil {
				return err
			}
			st.ID = id
			return insertStatementRow(ctx, tx, st, sql.NullString{})
		}
		ok, err := rowExists(ctx, tx, "statements", st.ID)
		if err != nil {
			return err
		}
		if ok {
			return fmt.Errorf("%w: statement %q", ports.ErrDuplicateID, st.ID)
		}
		return insertStatementRow(ctx, tx, st, sql.NullString{})
	})
	if err != nil {
		return nil, err
	}
	sc.r.log.Debugw("statement created", "id", st.ID)
	return sc.Get(ctx, st.ID)
}

func (sc *statementConnector) Update(ctx context.Context, id string, statement *entities.Statement) (*entities.Statement, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: statement id is required", ports.ErrValidation)
	}
	st := statement.Clone()
	st.ID = id
	st.FactoidRefs = nil
	st.Normalize()
	err := sc.r.withTx(ctx, func(tx *sql.Tx) error {
		factoidID, exists, err := statementFactoidID(ctx, tx, id)
		if err != nil {
			return err
		}
		if exists {
			// replacing keeps the factoid ownership
			if err := deleteStatementRows(ctx, tx, []string{id}); err != nil {
				return err
			}
		}
		if err := insertStatementRow(ctx, tx, st, factoidID); err != nil {
			return err
		}
		return sweepLabeledURIs(ctx, tx)
	})
	if err != nil {
		return nil, err
	}
	return sc.Get(ctx, id)
}

func (sc *statementConnector) Delete(ctx context.Context, id string) error {
	return sc.r.withTx(ctx, func(tx *sql.Tx) error {
		factoidID, exists, err := statementFactoidID(ctx, tx, id)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%w: statement %q", ports.ErrNotFound, id)
		}
		if factoidID.Valid {
			return fmt.Errorf("%w: statement %q belongs to factoid %q",
				ports.ErrReferentialIntegrity, id, factoidID.String)
		}
		if err := deleteStatementRows(ctx, tx, []string{id}); err != nil {
			return err
		}
		return sweepLabeledURIs(ctx, tx)
	})
}
