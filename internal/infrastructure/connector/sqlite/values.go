package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/ersonp/factoid-core/internal/domain/entities"
)

// Value object kinds. Interning is per kind: an identical {uri, label} pair
// used as a role and as a group is two rows.
const (
	kindRole          = "role"
	kindMemberOf      = "memberOf"
	kindStatementType = "statementType"
	kindPlace         = "place"
	kindRelatesTo     = "relatesToPerson"
)

// labeledURIKey derives the stable primary key of an interned value object
// from its content, so concurrent inserts of the same pair collide on the
// primary key instead of creating duplicates.
func labeledURIKey(kind string, l entities.LabeledURI) string {
	name := kind + "\x00" + l.URI + "\x00" + l.Label
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String()
}

// getOrCreateLabeledURI interns a value object and returns its key.
// INSERT OR IGNORE keeps the operation atomic under concurrency.
func getOrCreateLabeledURI(ctx context.Context, q dbtx, kind string, l entities.LabeledURI) (string, error) {
	id := labeledURIKey(kind, l)
	_, err := q.ExecContext(ctx,
		`INSERT OR IGNORE INTO labeled_uris (id, kind, uri, label) VALUES (?, ?, ?, ?)`,
		id, kind, l.URI, l.Label)
	if err != nil {
		return "", fmt.Errorf("interning %s value: %w", kind, err)
	}
	return id, nil
}

// internOptional interns a nullable value object.
func internOptional(ctx context.Context, q dbtx, kind string, l *entities.LabeledURI) (sql.NullString, error) {
	if l == nil {
		return sql.NullString{}, nil
	}
	id, err := getOrCreateLabeledURI(ctx, q, kind, *l)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: id, Valid: true}, nil
}

// loadLabeledURI fetches one interned value object by key.
func loadLabeledURI(ctx context.Context, q dbtx, id string) (*entities.LabeledURI, error) {
	var l entities.LabeledURI
	err := q.QueryRowContext(ctx,
		`SELECT uri, label FROM labeled_uris WHERE id = ?`, id).Scan(&l.URI, &l.Label)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading value object: %w", err)
	}
	return &l, nil
}

// loadLinkedValues fetches the value objects linked to a statement through
// one of the link tables. linkTable is one of our own constants.
func loadLinkedValues(ctx context.Context, q dbtx, linkTable, statementID string) ([]entities.LabeledURI, error) {
	query := fmt.Sprintf(`
		SELECT lu.uri, lu.label
		FROM %s link
		JOIN labeled_uris lu ON lu.id = link.labeled_uri_id
		WHERE link.statement_id = ?
		ORDER BY lu.label, lu.uri
	`, linkTable)
	rows, err := q.QueryContext(ctx, query, statementID)
	if err != nil {
		return nil, fmt.Errorf("querying linked values: %w", err)
	}
	defer rows.Close()

	values := make([]entities.LabeledURI, 0, 4)
	for rows.Next() {
		var l entities.LabeledURI
		if err := rows.Scan(&l.URI, &l.Label); err != nil {
			return nil, fmt.Errorf("scanning value object: %w", err)
		}
		values = append(values, l)
	}
	return values, rows.Err()
}

// sweepLabeledURIs deletes every interned value object no statement refers
// to anymore. Run after any operation that removes or rewrites statements.
func sweepLabeledURIs(ctx context.Context, q dbtx) error {
	_, err := q.ExecContext(ctx, `
		DELETE FROM labeled_uris WHERE id NOT IN (
			SELECT role_id FROM statements WHERE role_id IS NOT NULL
			UNION SELECT member_of_id FROM statements WHERE member_of_id IS NOT NULL
			UNION SELECT statement_type_id FROM statements WHERE statement_type_id IS NOT NULL
			UNION SELECT labeled_uri_id FROM statement_places
			UNION SELECT labeled_uri_id FROM statement_relates
		)
	`)
	if err != nil {
		return fmt.Errorf("sweeping value objects: %w", err)
	}
	return nil
}

// replaceURIs rewrites the uri set of an owner row in one of the uri link
// tables. table and column are our own constants.
func replaceURIs(ctx context.Context, q dbtx, table, column, ownerID string, uris []string) error {
	if _, err := q.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE %s = ?", table, column), ownerID); err != nil {
		return fmt.Errorf("clearing uris: %w", err)
	}
	for _, uri := range uris {
		if _, err := q.ExecContext(ctx,
			fmt.Sprintf("INSERT OR IGNORE INTO %s (%s, uri) VALUES (?, ?)", table, column),
			ownerID, uri); err != nil {
			return fmt.Errorf("inserting uri: %w", err)
		}
	}
	return nil
}

// loadURIs fetches the uris of an owner row, ascending.
func loadURIs(ctx context.Context, q dbtx, table, column, ownerID string) ([]string, error) {
	return queryIDs(ctx, q,
		fmt.Sprintf("SELECT uri FROM %s WHERE %s = ? ORDER BY uri", table, column), ownerID)
}
