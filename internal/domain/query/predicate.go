// Package query compiles named filter parameters into a predicate over the
// factoid graph and provides the deterministic sort/paging executor. The
// in-memory backends evaluate the predicate directly; the sqlite backend
// translates the same filter set into SQL and must agree with it result for
// result.
package query

import (
	"fmt"
	"strings"

	"github.com/ersonp/factoid-core/internal/domain/entities"
	"github.com/ersonp/factoid-core/internal/domain/ports"
)

// Predicate is a compiled filter set. All filters combine with AND. Filters
// of a scope (person, source, statement, factoid) are only imposed when at
// least one filter of that scope is present; an entity lacking the targeted
// sub-object fails the filter, it never errors.
type Predicate struct {
	filters ports.Filters

	fromKey   int
	hasFrom   bool
	toKey     int
	hasTo     bool
	stmtScope bool
}

// Compile validates and compiles a filter set. Unparsable from/to dates
// return an error wrapping ports.ErrValidation.
func Compile(filters ports.Filters) (*Predicate, error) {
	p := &Predicate{filters: filters, stmtScope: filters.HasStatementScope()}
	if filters.From != "" {
		d, err := entities.ParseLowerBound(filters.From)
		if err != nil {
			return nil, fmt.Errorf("%w: 'from' date %q", ports.ErrValidation, filters.From)
		}
		p.fromKey, p.hasFrom = d.Key(), true
	}
	if filters.To != "" {
		d, err := entities.ParseUpperBound(filters.To)
		if err != nil {
			return nil, fmt.Errorf("%w: 'to' date %q", ports.ErrValidation, filters.To)
		}
		p.toKey, p.hasTo = d.Key(), true
	}
	return p, nil
}

// Filters returns the raw filter set the predicate was compiled from.
func (p *Predicate) Filters() ports.Filters {
	return p.filters
}

// FromKey returns the compiled inclusive lower bound, if set.
func (p *Predicate) FromKey() (int, bool) {
	return p.fromKey, p.hasFrom
}

// ToKey returns the compiled inclusive upper bound, if set.
func (p *Predicate) ToKey() (int, bool) {
	return p.toKey, p.hasTo
}

// IsZero reports whether the predicate matches everything.
func (p *Predicate) IsZero() bool {
	return p.filters.IsZero()
}

// MatchFactoid evaluates the full conjunction against one factoid: the
// factoid scope, its person, its source, and - when statement filters are
// present - the existence of one owned statement satisfying all of them
// jointly.
func (p *Predicate) MatchFactoid(f *entities.Factoid) bool {
	if !p.MatchFactoidContext(f) {
		return false
	}
	if p.stmtScope {
		for _, st := range f.Statements {
			if p.MatchStatementScope(st) {
				return true
			}
		}
		return false
	}
	return true
}

// MatchFactoidContext evaluates the factoid, person and source scopes only.
// Statement searches use it to qualify the owning factoid before matching
// individual statements.
func (p *Predicate) MatchFactoidContext(f *entities.Factoid) bool {
	if f == nil {
		return false
	}
	return p.MatchFactoidScope(f) && p.MatchPersonScope(f.Person) && p.MatchSourceScope(f.Source)
}

// MatchFactoidScope applies factoidId and the f fulltext filter.
func (p *Predicate) MatchFactoidScope(f *entities.Factoid) bool {
	if p.filters.FactoidID != "" && f.ID != p.filters.FactoidID {
		return false
	}
	if p.filters.Factoid != "" && !containsFold(f.ID, p.filters.Factoid) {
		return false
	}
	return true
}

// MatchPersonScope applies personId and the p fulltext filter: substring
// case-insensitive on the id, exact case-sensitive on the owned uris.
func (p *Predicate) MatchPersonScope(person *entities.Person) bool {
	if p.filters.PersonID != "" && (person == nil || person.ID != p.filters.PersonID) {
		return false
	}
	if needle := p.filters.Person; needle != "" {
		if person == nil {
			return false
		}
		if !containsFold(person.ID, needle) && !person.HasURI(needle) {
			return false
		}
	}
	return true
}

// MatchSourceScope applies sourceId and the s fulltext filter: substring
// case-insensitive on id and label, exact case-sensitive on uris.
func (p *Predicate) MatchSourceScope(source *entities.Source) bool {
	if p.filters.SourceID != "" && (source == nil || source.ID != p.filters.SourceID) {
		return false
	}
	if needle := p.filters.Source; needle != "" {
		if source == nil {
			return false
		}
		if !containsFold(source.ID, needle) && !containsFold(source.Label, needle) && !source.HasURI(needle) {
			return false
		}
	}
	return true
}

// MatchStatementScope applies every statement-level filter to a single
// statement; one statement must satisfy all of them jointly.
func (p *Predicate) MatchStatementScope(st *entities.Statement) bool {
	if st == nil {
		return !p.stmtScope
	}
	f := p.filters
	if f.StatementID != "" && st.ID != f.StatementID {
		return false
	}
	if f.Statement != "" && !statementContains(st, f.Statement) {
		return false
	}
	if f.Name != "" && !containsFold(st.Name, f.Name) {
		return false
	}
	if f.Role != "" && !labeledMatch(st.Role, f.Role) {
		return false
	}
	if f.MemberOf != "" && !labeledMatch(st.MemberOf, f.MemberOf) {
		return false
	}
	if f.StatementType != "" && !labeledMatch(st.StatementType, f.StatementType) {
		return false
	}
	if f.Place != "" && !anyLabeledMatch(st.Places, f.Place) {
		return false
	}
	if f.RelatesToPerson != "" && !anyLabeledMatch(st.RelatesToPersons, f.RelatesToPerson) {
		return false
	}
	if f.StatementContent != "" && !containsFold(st.StatementContent, f.StatementContent) {
		return false
	}
	if p.hasFrom {
		key, ok := statementSortKey(st, true)
		if !ok || key < p.fromKey {
			return false
		}
	}
	if p.hasTo {
		key, ok := statementSortKey(st, false)
		if !ok || key > p.toKey {
			return false
		}
	}
	return true
}

// MatchStatement evaluates a statement together with its owning factoid.
// Cross-scope filters fail for a statement without a factoid.
func (p *Predicate) MatchStatement(st *entities.Statement, owner *entities.Factoid) bool {
	if !p.MatchStatementScope(st) {
		return false
	}
	crossScope := p.filters.HasFactoidScope() || p.filters.HasPersonScope() || p.filters.HasSourceScope()
	if !crossScope {
		return true
	}
	return owner != nil && p.MatchFactoidContext(owner)
}

// statementContains is the st fulltext rule: case-insensitive substring on
// the statement's id and text fields (incl. labels of its value objects),
// exact case-sensitive match on any of its uris.
func statementContains(st *entities.Statement, needle string) bool {
	if containsFold(st.ID, needle) ||
		containsFold(st.Name, needle) ||
		containsFold(st.StatementContent, needle) {
		return true
	}
	if st.Date != nil && containsFold(st.Date.Label, needle) {
		return true
	}
	if labeledMatch(st.Role, needle) ||
		labeledMatch(st.MemberOf, needle) ||
		labeledMatch(st.StatementType, needle) {
		return true
	}
	if anyLabeledMatch(st.Places, needle) || anyLabeledMatch(st.RelatesToPersons, needle) {
		return true
	}
	return st.HasURI(needle)
}

func statementSortKey(st *entities.Statement, lower bool) (int, bool) {
	if st.Date == nil {
		return 0, false
	}
	return entities.SortKey(st.Date.SortDate, lower)
}

// containsFold reports whether needle occurs in hay, case-insensitively.
func containsFold(hay, needle string) bool {
	if hay == "" {
		return false
	}
	return strings.Contains(strings.ToLower(hay), strings.ToLower(needle))
}

// labeledMatch applies the label/uri rule to one value object: substring
// case-insensitive on the label, exact case-sensitive on the uri. A nil
// value never matches.
func labeledMatch(l *entities.LabeledURI, needle string) bool {
	if l == nil {
		return false
	}
	if l.Label != "" && containsFold(l.Label, needle) {
		return true
	}
	return l.URI != "" && l.URI == needle
}

func anyLabeledMatch(values []entities.LabeledURI, needle string) bool {
	for i := range values {
		if labeledMatch(&values[i], needle) {
			return true
		}
	}
	return false
}
