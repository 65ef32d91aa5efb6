package ports

// SortOrder selects ascending or descending order on the primary sort field.
// The id is always the secondary key, ascending, regardless of order.
type SortOrder string

const (
	SortAscending  SortOrder = "ASC"
	SortDescending SortOrder = "DESC"
)

// DefaultSortField is used when a search does not name a sort field.
const DefaultSortField = "createdWhen"

// Filters carries the named filter parameters of a search or count call.
// All filters present combine with logical AND. An empty string means the
// filter is not set; callers are responsible for omitting empty values.
type Filters struct {
	// Entity-id filters: exact, case-sensitive, full string.
	FactoidID   string
	PersonID    string
	SourceID    string
	StatementID string

	// Scoped fulltext filters (f, p, s, st): case-insensitive substring on
	// id and text fields of the scope, exact case-sensitive on uris.
	Factoid   string
	Person    string
	Source    string
	Statement string

	// Field-scoped filters: case-insensitive substring on label/text,
	// exact case-sensitive on the field's uri.
	Name             string
	Role             string
	Place            string
	MemberOf         string
	RelatesToPerson  string
	StatementContent string
	StatementType    string

	// Inclusive date range against a statement's sortDate. Incomplete dates
	// are widened (from toward Jan 1, to toward Dec 31).
	From string
	To   string
}

// IsZero reports whether no filter is set at all.
func (f Filters) IsZero() bool {
	return f == Filters{}
}

// HasFactoidScope reports whether a factoid-level filter is set.
func (f Filters) HasFactoidScope() bool {
	return f.FactoidID != "" || f.Factoid != ""
}

// HasPersonScope reports whether a person-level filter is set.
func (f Filters) HasPersonScope() bool {
	return f.PersonID != "" || f.Person != ""
}

// HasSourceScope reports whether a source-level filter is set.
func (f Filters) HasSourceScope() bool {
	return f.SourceID != "" || f.Source != ""
}

// HasStatementScope reports whether a statement-level filter is set.
func (f Filters) HasStatementScope() bool {
	return f.StatementID != "" || f.Statement != "" || f.Name != "" ||
		f.Role != "" || f.Place != "" || f.MemberOf != "" ||
		f.RelatesToPerson != "" || f.StatementContent != "" ||
		f.StatementType != "" || f.From != "" || f.To != ""
}
