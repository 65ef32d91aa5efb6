package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ersonp/factoid-core/internal/domain/entities"
	"github.com/ersonp/factoid-core/internal/domain/ports"
)

// makeEntityID generates an unused content-derived id within table.
func makeEntityID(ctx context.Context, q dbtx, table string, payload any) (string, error) {
	return entities.MakeID(payload, func(id string) bool {
		ok, err := rowExists(ctx, q, table, id)
		// on a failing probe the insert reports the real error
		return err == nil && ok
	})
}

func insertPersonRow(ctx context.Context, q dbtx, p *entities.Person) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO persons (id, created_by, created_when, modified_by, modified_when)
		VALUES (?, ?, ?, ?, ?)
	`, p.ID, p.CreatedBy, p.CreatedWhen, p.ModifiedBy, p.ModifiedWhen)
	if err != nil {
		return fmt.Errorf("inserting person: %w", err)
	}
	return replaceURIs(ctx, q, "person_uris", "person_id", p.ID, p.URIs)
}

func updatePersonRow(ctx context.Context, q dbtx, p *entities.Person) error {
	_, err := q.ExecContext(ctx, `
		UPDATE persons SET created_by = ?, created_when = ?, modified_by = ?, modified_when = ?
		WHERE id = ?
	`, p.CreatedBy, p.CreatedWhen, p.ModifiedBy, p.ModifiedWhen, p.ID)
	if err != nil {
		return fmt.Errorf("updating person: %w", err)
	}
	return replaceURIs(ctx, q, "person_uris", "person_id", p.ID, p.URIs)
}

func insertSourceRow(ctx context.Context, q dbtx, s *entities.Source) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO sources (id, label, created_by, created_when, modified_by, modified_when)
		VALUES (?, ?, ?, ?, ?, ?)
	`, s.ID, s.Label, s.CreatedBy, s.CreatedWhen, s.ModifiedBy, s.ModifiedWhen)
	if err != nil {
		return fmt.Errorf("inserting source: %w", err)
	}
	return replaceURIs(ctx, q, "source_uris", "source_id", s.ID, s.URIs)
}

func updateSourceRow(ctx context.Context, q dbtx, s *entities.Source) error {
	_, err := q.ExecContext(ctx, `
		UPDATE sources SET label = ?, created_by = ?, created_when = ?, modified_by = ?, modified_when = ?
		WHERE id = ?
	`, s.Label, s.CreatedBy, s.CreatedWhen, s.ModifiedBy, s.ModifiedWhen, s.ID)
	if err != nil {
		return fmt.Errorf("updating source: %w", err)
	}
	return replaceURIs(ctx, q, "source_uris", "source_id", s.ID, s.URIs)
}

// getOrCreatePerson reuses the stored person when the id is known and
// creates it from the embedded record otherwise. The embedded fields of a
// known person are ignored; the person endpoint owns its record.
func getOrCreatePerson(ctx context.Context, q dbtx, p *entities.Person) (string, error) {
	if p.ID != "" {
		ok, err := rowExists(ctx, q, "persons", p.ID)
		if err != nil {
			return "", err
		}
		if ok {
			return p.ID, nil
		}
	} else {
		id, err := makeEntityID(ctx, q, "persons", p)
		if err != nil {
			return "", err
		}
		p.ID = id
	}
	return p.ID, insertPersonRow(ctx, q, p)
}

// getOrCreateSource is the source counterpart of getOrCreatePerson.
func getOrCreateSource(ctx context.Context, q dbtx, s *entities.Source) (string, error) {
	if s.ID != "" {
		ok, err := rowExists(ctx, q, "sources", s.ID)
		if err != nil {
			return "", err
		}
		if ok {
			return s.ID, nil
		}
	} else {
		id, err := makeEntityID(ctx, q, "sources", s)
		if err != nil {
			return "", err
		}
		s.ID = id
	}
	return s.ID, insertSourceRow(ctx, q, s)
}

// insertStatementRow persists a statement, interning its value objects.
// factoidID is NULL for standalone statements.
func insertStatementRow(ctx context.Context, q dbtx, st *entities.Statement, factoidID sql.NullString) error {
	roleID, err := internOptional(ctx, q, kindRole, st.Role)
	if err != nil {
		return err
	}
	memberID, err := internOptional(ctx, q, kindMemberOf, st.MemberOf)
	if err != nil {
		return err
	}
	typeID, err := internOptional(ctx, q, kindStatementType, st.StatementType)
	if err != nil {
		return err
	}

	var (
		hasDate   bool
		sortDate  string
		dateLabel string
		keyLower  sql.NullInt64
		keyUpper  sql.NullInt64
	)
	if st.Date != nil {
		hasDate = true
		sortDate, dateLabel = st.Date.SortDate, st.Date.Label
		if key, ok := entities.SortKey(sortDate, true); ok {
			keyLower = sql.NullInt64{Int64: int64(key), Valid: true}
		}
		if key, ok := entities.SortKey(sortDate, false); ok {
			keyUpper = sql.NullInt64{Int64: int64(key), Valid: true}
		}
	}

	_, err = q.ExecContext(ctx, `
		INSERT INTO statements (id, factoid_id, created_by, created_when, modified_by,
			modified_when, name, statement_content, has_date, sort_date, date_label,
			sort_key_lower, sort_key_upper, role_id, member_of_id, statement_type_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, st.ID, factoidID, st.CreatedBy, st.CreatedWhen, st.ModifiedBy, st.ModifiedWhen,
		st.Name, st.StatementContent, hasDate, sortDate, dateLabel,
		keyLower, keyUpper, roleID, memberID, typeID)
	if err != nil {
		return fmt.Errorf("inserting statement: %w", err)
	}

	for _, link := range []struct {
		table  string
		kind   string
		values []entities.LabeledURI
	}{
		{"statement_places", kindPlace, st.Places},
		{"statement_relates", kindRelatesTo, st.RelatesToPersons},
	} {
		for _, v := range link.values {
			valueID, err := getOrCreateLabeledURI(ctx, q, link.kind, v)
			if err != nil {
				return err
			}
			if _, err := q.ExecContext(ctx,
				fmt.Sprintf("INSERT OR IGNORE INTO %s (statement_id, labeled_uri_id) VALUES (?, ?)", link.table),
				st.ID, valueID); err != nil {
				return fmt.Errorf("linking %s value: %w", link.kind, err)
			}
		}
	}
	return replaceURIs(ctx, q, "statement_uris", "statement_id", st.ID, st.URIs)
}

// deleteStatementRows removes statements by id. Links and uris cascade;
// value objects are left for the sweep.
func deleteStatementRows(ctx context.Context, q dbtx, ids []string) error {
	for _, id := range ids {
		if _, err := q.ExecContext(ctx, `DELETE FROM statements WHERE id = ?`, id); err != nil {
			return fmt.Errorf("deleting statement: %w", err)
		}
	}
	return nil
}

// statementFactoidID returns the owning factoid of a statement. The second
// return is false when the statement does not exist.
func statementFactoidID(ctx context.Context, q dbtx, id string) (sql.NullString, bool, error) {
	var factoidID sql.NullString
	err := q.QueryRowContext(ctx, `SELECT factoid_id FROM statements WHERE id = ?`, id).Scan(&factoidID)
	if err == sql.ErrNoRows {
		return sql.NullString{}, false, nil
	}
	if err != nil {
		return sql.NullString{}, false, fmt.Errorf("loading statement owner: %w", err)
	}
	return factoidID, true, nil
}

// deleteOrphanedPerson removes a person no factoid references anymore.
func deleteOrphanedPerson(ctx context.Context, q dbtx, id string) error {
	n, err := queryCount(ctx, q, `SELECT COUNT(*) FROM factoids WHERE person_id = ?`, id)
	if err != nil || n > 0 {
		return err
	}
	if _, err := q.ExecContext(ctx, `DELETE FROM persons WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting orphaned person: %w", err)
	}
	return nil
}

// deleteOrphanedSource removes a source no factoid references anymore.
func deleteOrphanedSource(ctx context.Context, q dbtx, id string) error {
	n, err := queryCount(ctx, q, `SELECT COUNT(*) FROM factoids WHERE source_id = ?`, id)
	if err != nil || n > 0 {
		return err
	}
	if _, err := q.ExecContext(ctx, `DELETE FROM sources WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting orphaned source: %w", err)
	}
	return nil
}

// validateFactoid checks the structural rules of a factoid before writing.
func validateFactoid(f *entities.Factoid) error {
	if f.Person == nil {
		return fmt.Errorf("%w: factoid needs a person", ports.ErrValidation)
	}
	if f.Source == nil {
		return fmt.Errorf("%w: factoid needs a source", ports.ErrValidation)
	}
	if len(f.Statements) == 0 {
		return fmt.Errorf("%w: factoid needs at least one statement", ports.ErrValidation)
	}
	if f.CreatedBy == "" || f.CreatedWhen == "" {
		return fmt.Errorf("%w: factoid needs createdBy and createdWhen", ports.ErrValidation)
	}
	return nil
}
