package sqlite

import (
	"fmt"
	"strings"

	"github.com/ersonp/factoid-core/internal/domain/ports"
	"github.com/ersonp/factoid-core/internal/domain/query"
)

// clause accumulates SQL conditions and their bind arguments. Conditions
// join with AND.
type clause struct {
	conds []string
	args  []any
}

func (c *clause) add(cond string, args ...any) {
	c.conds = append(c.conds, cond)
	c.args = append(c.args, args...)
}

// and returns the joined conditions, "1=1" when none are set.
func (c *clause) and() string {
	if len(c.conds) == 0 {
		return "1=1"
	}
	return strings.Join(c.conds, " AND ")
}

// where returns a WHERE prefix or the empty string.
func (c *clause) where() string {
	if len(c.conds) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(c.conds, " AND ")
}

// containsCond is the case-insensitive substring rule on a single column.
// An empty column never matches, like its in-memory counterpart.
func containsCond(column string) string {
	return fmt.Sprintf("instr(lower(%s), lower(?)) > 0", column)
}

// labeledCond matches one interned value object referenced by keyColumn:
// substring case-insensitive on the label, exact case-sensitive on the uri.
// A NULL reference never matches.
func labeledCond(keyColumn string) string {
	return fmt.Sprintf(`EXISTS (
		SELECT 1 FROM labeled_uris lu
		WHERE lu.id = %s AND (instr(lower(lu.label), lower(?)) > 0 OR lu.uri = ?)
	)`, keyColumn)
}

// linkedCond matches any value object linked to a statement through
// linkTable (statement_places or statement_relates).
func linkedCond(linkTable, stAlias string) string {
	return fmt.Sprintf(`EXISTS (
		SELECT 1 FROM %s link
		JOIN labeled_uris lu ON lu.id = link.labeled_uri_id
		WHERE link.statement_id = %s.id
		  AND (instr(lower(lu.label), lower(?)) > 0 OR lu.uri = ?)
	)`, linkTable, stAlias)
}

// uriCond matches an exact case-sensitive uri in one of the uri link tables.
func uriCond(table, column, ownerColumn string) string {
	return fmt.Sprintf(`EXISTS (SELECT 1 FROM %s u WHERE u.%s = %s AND u.uri = ?)`,
		table, column, ownerColumn)
}

// personConds applies personId and the p fulltext filter to a persons row.
func personConds(alias string, f ports.Filters) clause {
	var c clause
	if f.PersonID != "" {
		c.add(alias+".id = ?", f.PersonID)
	}
	if f.Person != "" {
		c.add(fmt.Sprintf("(%s OR %s)",
			containsCond(alias+".id"),
			uriCond("person_uris", "person_id", alias+".id")),
			f.Person, f.Person)
	}
	return c
}

// sourceConds applies sourceId and the s fulltext filter to a sources row.
func sourceConds(alias string, f ports.Filters) clause {
	var c clause
	if f.SourceID != "" {
		c.add(alias+".id = ?", f.SourceID)
	}
	if f.Source != "" {
		c.add(fmt.Sprintf("(%s OR %s OR %s)",
			containsCond(alias+".id"),
			containsCond(alias+".label"),
			uriCond("source_uris", "source_id", alias+".id")),
			f.Source, f.Source, f.Source)
	}
	return c
}

// statementConds applies every statement-level filter jointly to a
// statements row, mirroring the single-statement rule of the in-memory
// predicate.
func statementConds(alias string, pred *query.Predicate) clause {
	f := pred.Filters()
	var c clause
	if f.StatementID != "" {
		c.add(alias+".id = ?", f.StatementID)
	}
	if f.Statement != "" {
		cond := fmt.Sprintf("(%s OR %s OR %s OR %s OR %s OR %s OR %s OR %s)",
			containsCond(alias+".id"),
			containsCond(alias+".name"),
			containsCond(alias+".statement_content"),
			containsCond(alias+".date_label"),
			labeledAnyCond(alias),
			linkedCond("statement_places", alias),
			linkedCond("statement_relates", alias),
			uriCond("statement_uris", "statement_id", alias+".id"))
		// every placeholder binds the same needle; derive the count from the
		// rendered condition so the two cannot drift apart
		args := make([]any, strings.Count(cond, "?"))
		for i := range args {
			args[i] = f.Statement
		}
		c.add(cond, args...)
	}
	if f.Name != "" {
		c.add(containsCond(alias+".name"), f.Name)
	}
	if f.Role != "" {
		c.add(labeledCond(alias+".role_id"), f.Role, f.Role)
	}
	if f.MemberOf != "" {
		c.add(labeledCond(alias+".member_of_id"), f.MemberOf, f.MemberOf)
	}
	if f.StatementType != "" {
		c.add(labeledCond(alias+".statement_type_id"), f.StatementType, f.StatementType)
	}
	if f.Place != "" {
		c.add(linkedCond("statement_places", alias), f.Place, f.Place)
	}
	if f.RelatesToPerson != "" {
		c.add(linkedCond("statement_relates", alias), f.RelatesToPerson, f.RelatesToPerson)
	}
	if f.StatementContent != "" {
		c.add(containsCond(alias+".statement_content"), f.StatementContent)
	}
	if key, ok := pred.FromKey(); ok {
		c.add(alias+".sort_key_lower >= ?", key)
	}
	if key, ok := pred.ToKey(); ok {
		c.add(alias+".sort_key_upper <= ?", key)
	}
	return c
}

// labeledAnyCond matches the statement's role, memberOf or statementType
// under the st fulltext rule. It binds two arguments.
func labeledAnyCond(alias string) string {
	return fmt.Sprintf(`EXISTS (
		SELECT 1 FROM labeled_uris lu
		WHERE lu.id IN (%[1]s.role_id, %[1]s.member_of_id, %[1]s.statement_type_id)
		  AND (instr(lower(lu.label), lower(?)) > 0 OR lu.uri = ?)
	)`, alias)
}

// contextConds compiles the factoid, person and source scopes against a
// factoids row: factoid scope directly, person and source scope through the
// mandatory references. Scopes without a filter impose nothing.
func contextConds(alias string, f ports.Filters) clause {
	var c clause
	if f.FactoidID != "" {
		c.add(alias+".id = ?", f.FactoidID)
	}
	if f.Factoid != "" {
		c.add(containsCond(alias+".id"), f.Factoid)
	}
	if f.HasPersonScope() {
		pc := personConds("qp", f)
		c.add(fmt.Sprintf("EXISTS (SELECT 1 FROM persons qp WHERE qp.id = %s.person_id AND %s)",
			alias, pc.and()), pc.args...)
	}
	if f.HasSourceScope() {
		sc := sourceConds("qs", f)
		c.add(fmt.Sprintf("EXISTS (SELECT 1 FROM sources qs WHERE qs.id = %s.source_id AND %s)",
			alias, sc.and()), sc.args...)
	}
	return c
}

// factoidConds compiles the full predicate against a factoids row: the
// context scopes plus, when statement filters are present, the existence of
// one owned statement satisfying all of them jointly.
func factoidConds(alias string, pred *query.Predicate) clause {
	f := pred.Filters()
	c := contextConds(alias, f)
	if f.HasStatementScope() {
		stc := statementConds("qst", pred)
		c.add(fmt.Sprintf("EXISTS (SELECT 1 FROM statements qst WHERE qst.factoid_id = %s.id AND %s)",
			alias, stc.and()), stc.args...)
	}
	return c
}

// Sort column whitelists per table. Unknown fields sort by the constant ''
// so ordering falls through to the id tie-break, like the in-memory
// executor.
var (
	personSortColumns = map[string]string{
		"id":           "id",
		"createdBy":    "created_by",
		"createdWhen":  "created_when",
		"modifiedBy":   "modified_by",
		"modifiedWhen": "modified_when",
	}
	sourceSortColumns = map[string]string{
		"id":           "id",
		"createdBy":    "created_by",
		"createdWhen":  "created_when",
		"modifiedBy":   "modified_by",
		"modifiedWhen": "modified_when",
		"label":        "label",
	}
	statementSortColumns = personSortColumns
	factoidSortColumns   = personSortColumns
)

// orderLimit renders the deterministic ORDER BY / LIMIT / OFFSET tail and
// appends the paging arguments. Pages are 1-based.
func orderLimit(c *clause, columns map[string]string, alias, sortBy string, order ports.SortOrder, size, page int) string {
	if sortBy == "" {
		sortBy = ports.DefaultSortField
	}
	if sortBy == "@id" {
		sortBy = "id"
	}
	column, ok := columns[sortBy]
	if ok {
		column = alias + "." + column
	} else {
		column = "''"
	}
	direction := "ASC"
	if order == ports.SortDescending {
		direction = "DESC"
	}
	offset := (page - 1) * size
	if offset < 0 {
		offset = 0
	}
	c.args = append(c.args, size, offset)
	return fmt.Sprintf("ORDER BY %s %s, %s.id ASC LIMIT ? OFFSET ?", column, direction, alias)
}
