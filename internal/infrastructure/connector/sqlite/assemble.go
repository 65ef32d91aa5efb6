package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ersonp/factoid-core/internal/domain/entities"
)

// resolveOwnerID maps an id-or-uri to the owning row id of table, going
// through its uri link table on a direct miss. Returns "" when nothing owns
// the value.
func resolveOwnerID(ctx context.Context, q dbtx, table, uriTable, fkColumn, idOrURI string) (string, error) {
	ok, err := rowExists(ctx, q, table, idOrURI)
	if err != nil {
		return "", err
	}
	if ok {
		return idOrURI, nil
	}
	var owner string
	err = q.QueryRowContext(ctx,
		fmt.Sprintf("SELECT %s FROM %s WHERE uri = ? LIMIT 1", fkColumn, uriTable),
		idOrURI).Scan(&owner)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("resolving uri: %w", err)
	}
	return owner, nil
}

// factoidRefByID builds the back-reference block of one factoid.
func factoidRefByID(ctx context.Context, q dbtx, factoidID string) (*entities.FactoidRef, error) {
	var personID, sourceID string
	err := q.QueryRowContext(ctx,
		`SELECT person_id, source_id FROM factoids WHERE id = ?`, factoidID).
		Scan(&personID, &sourceID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading factoid ref: %w", err)
	}
	stmtIDs, err := queryIDs(ctx, q,
		`SELECT id FROM statements WHERE factoid_id = ? ORDER BY id`, factoidID)
	if err != nil {
		return nil, err
	}
	ref := &entities.FactoidRef{
		ID:            factoidID,
		PersonRef:     entities.Ref{ID: personID},
		SourceRef:     entities.Ref{ID: sourceID},
		StatementRefs: make([]entities.Ref, 0, len(stmtIDs)),
	}
	for _, id := range stmtIDs {
		ref.StatementRefs = append(ref.StatementRefs, entities.Ref{ID: id})
	}
	return ref, nil
}

// factoidRefsWhere builds the back-reference blocks of every factoid whose
// fkColumn equals ownerID, ordered by factoid id.
func factoidRefsWhere(ctx context.Context, q dbtx, fkColumn, ownerID string) ([]entities.FactoidRef, error) {
	ids, err := queryIDs(ctx, q,
		fmt.Sprintf("SELECT id FROM factoids WHERE %s = ? ORDER BY id", fkColumn), ownerID)
	if err != nil {
		return nil, err
	}
	refs := make([]entities.FactoidRef, 0, len(ids))
	for _, id := range ids {
		ref, err := factoidRefByID(ctx, q, id)
		if err != nil {
			return nil, err
		}
		if ref != nil {
			refs = append(refs, *ref)
		}
	}
	return refs, nil
}

// assemblePerson loads a full person with uris and factoid-refs, nil on a
// miss.
func assemblePerson(ctx context.Context, q dbtx, id string) (*entities.Person, error) {
	var p entities.Person
	err := q.QueryRowContext(ctx, `
		SELECT id, created_by, created_when, modified_by, modified_when
		FROM persons WHERE id = ?
	`, id).Scan(&p.ID, &p.CreatedBy, &p.CreatedWhen, &p.ModifiedBy, &p.ModifiedWhen)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning person: %w", err)
	}
	if p.URIs, err = loadURIs(ctx, q, "person_uris", "person_id", id); err != nil {
		return nil, err
	}
	if p.FactoidRefs, err = factoidRefsWhere(ctx, q, "person_id", id); err != nil {
		return nil, err
	}
	p.Normalize()
	return &p, nil
}

// assembleSource loads a full source, nil on a miss.
func assembleSource(ctx context.Context, q dbtx, id string) (*entities.Source, error) {
	var s entities.Source
	err := q.QueryRowContext(ctx, `
		SELECT id, label, created_by, created_when, modified_by, modified_when
		FROM sources WHERE id = ?
	`, id).Scan(&s.ID, &s.Label, &s.CreatedBy, &s.CreatedWhen, &s.ModifiedBy, &s.ModifiedWhen)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning source: %w", err)
	}
	if s.URIs, err = loadURIs(ctx, q, "source_uris", "source_id", id); err != nil {
		return nil, err
	}
	if s.FactoidRefs, err = factoidRefsWhere(ctx, q, "source_id", id); err != nil {
		return nil, err
	}
	s.Normalize()
	return &s, nil
}

// assembleStatement loads a full statement with its value objects, uris and
// owning factoid ref, nil on a miss.
func assembleStatement(ctx context.Context, q dbtx, id string) (*entities.Statement, error) {
	var (
		st        entities.Statement
		factoidID sql.NullString
		hasDate   bool
		sortDate  string
		dateLabel string
		roleID    sql.NullString
		memberID  sql.NullString
		typeID    sql.NullString
	)
	err := q.QueryRowContext(ctx, `
		SELECT id, factoid_id, created_by, created_when, modified_by, modified_when,
		       name, statement_content, has_date, sort_date, date_label,
		       role_id, member_of_id, statement_type_id
		FROM statements WHERE id = ?
	`, id).Scan(&st.ID, &factoidID, &st.CreatedBy, &st.CreatedWhen, &st.ModifiedBy,
		&st.ModifiedWhen, &st.Name, &st.StatementContent, &hasDate, &sortDate,
		&dateLabel, &roleID, &memberID, &typeID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning statement: %w", err)
	}

	if hasDate {
		st.Date = &entities.Date{SortDate: sortDate, Label: dateLabel}
	}
	for _, v := range []struct {
		key  sql.NullString
		dest **entities.LabeledURI
	}{
		{roleID, &st.Role},
		{memberID, &st.MemberOf},
		{typeID, &st.StatementType},
	} {
		if !v.key.Valid {
			continue
		}
		if *v.dest, err = loadLabeledURI(ctx, q, v.key.String); err != nil {
			return nil, err
		}
	}
	if st.Places, err = loadLinkedValues(ctx, q, "statement_places", id); err != nil {
		return nil, err
	}
	if st.RelatesToPersons, err = loadLinkedValues(ctx, q, "statement_relates", id); err != nil {
		return nil, err
	}
	if st.URIs, err = loadURIs(ctx, q, "statement_uris", "statement_id", id); err != nil {
		return nil, err
	}
	if factoidID.Valid {
		ref, err := factoidRefByID(ctx, q, factoidID.String)
		if err != nil {
			return nil, err
		}
		if ref != nil {
			st.FactoidRefs = []entities.FactoidRef{*ref}
		}
	}
	st.Normalize()
	return &st, nil
}

// assembleFactoid loads a full factoid with its embedded person, source and
// statements, nil on a miss.
func assembleFactoid(ctx context.Context, q dbtx, id string) (*entities.Factoid, error) {
	var (
		f        entities.Factoid
		personID string
		sourceID string
	)
	err := q.QueryRowContext(ctx, `
		SELECT id, created_by, created_when, modified_by, modified_when,
		       derived_from, person_id, source_id
		FROM factoids WHERE id = ?
	`, id).Scan(&f.ID, &f.CreatedBy, &f.CreatedWhen, &f.ModifiedBy, &f.ModifiedWhen,
		&f.DerivedFrom, &personID, &sourceID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning factoid: %w", err)
	}

	if f.Person, err = assemblePerson(ctx, q, personID); err != nil {
		return nil, err
	}
	if f.Source, err = assembleSource(ctx, q, sourceID); err != nil {
		return nil, err
	}
	stmtIDs, err := queryIDs(ctx, q,
		`SELECT id FROM statements WHERE factoid_id = ? ORDER BY id`, id)
	if err != nil {
		return nil, err
	}
	f.Statements = make([]*entities.Statement, 0, len(stmtIDs))
	for _, stmtID := range stmtIDs {
		st, err := assembleStatement(ctx, q, stmtID)
		if err != nil {
			return nil, err
		}
		f.Statements = append(f.Statements, st)
	}
	f.Normalize()
	return &f, nil
}
