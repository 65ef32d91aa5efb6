// Package memory implements the read-only in-memory backend. It serves a
// fixed factoid population (generated mock data or a parsed JSON snapshot)
// and evaluates the compiled query predicate directly against the graph.
package memory

import (
	"fmt"
	"sort"

	"github.com/ersonp/factoid-core/internal/domain/entities"
	"github.com/ersonp/factoid-core/internal/domain/ports"
	"github.com/ersonp/factoid-core/internal/domain/query"
)

// Dataset is the indexed factoid graph. Persons and sources shared by
// several factoids are stored once; every factoid embeds the canonical
// instance, so factoid-refs computed after indexing show up everywhere.
type Dataset struct {
	factoids    []*entities.Factoid
	factoidByID map[string]*entities.Factoid

	persons    []*entities.Person
	personByID map[string]*entities.Person

	sources    []*entities.Source
	sourceByID map[string]*entities.Source

	statements    []*entities.Statement
	statementByID map[string]*entities.Statement

	factoidsOfPerson   map[string][]*entities.Factoid
	factoidsOfSource   map[string][]*entities.Factoid
	factoidOfStatement map[string]*entities.Factoid
}

// NewDataset indexes a factoid population. Input factoids are cloned and
// normalized; the caller's slice stays untouched. A duplicate factoid or
// statement id is an error wrapping ports.ErrDuplicateID.
func NewDataset(factoids []*entities.Factoid) (*Dataset, error) {
	d := &Dataset{
		factoidByID:        map[string]*entities.Factoid{},
		personByID:         map[string]*entities.Person{},
		sourceByID:         map[string]*entities.Source{},
		statementByID:      map[string]*entities.Statement{},
		factoidsOfPerson:   map[string][]*entities.Factoid{},
		factoidsOfSource:   map[string][]*entities.Factoid{},
		factoidOfStatement: map[string]*entities.Factoid{},
	}
	for _, src := range factoids {
		f := src.Clone()
		f.Normalize()
		if err := d.add(f); err != nil {
			return nil, err
		}
	}
	d.attachRefs()
	return d, nil
}

func (d *Dataset) add(f *entities.Factoid) error {
	if _, ok := d.factoidByID[f.ID]; ok {
		return fmt.Errorf("%w: factoid %q", ports.ErrDuplicateID, f.ID)
	}
	d.factoids = append(d.factoids, f)
	d.factoidByID[f.ID] = f

	if f.Person != nil {
		// first occurrence becomes the canonical instance
		if canon, ok := d.personByID[f.Person.ID]; ok {
			f.Person = canon
		} else {
			d.personByID[f.Person.ID] = f.Person
			d.persons = append(d.persons, f.Person)
		}
		d.factoidsOfPerson[f.Person.ID] = append(d.factoidsOfPerson[f.Person.ID], f)
	}
	if f.Source != nil {
		if canon, ok := d.sourceByID[f.Source.ID]; ok {
			f.Source = canon
		} else {
			d.sourceByID[f.Source.ID] = f.Source
			d.sources = append(d.sources, f.Source)
		}
		d.factoidsOfSource[f.Source.ID] = append(d.factoidsOfSource[f.Source.ID], f)
	}
	for _, st := range f.Statements {
		if _, ok := d.statementByID[st.ID]; ok {
			return fmt.Errorf("%w: statement %q", ports.ErrDuplicateID, st.ID)
		}
		d.statementByID[st.ID] = st
		d.statements = append(d.statements, st)
		d.factoidOfStatement[st.ID] = f
	}
	return nil
}

// attachRefs computes the factoid-refs of every person, source and statement
// and re-normalizes the factoids so the embedded entities carry them.
func (d *Dataset) attachRefs() {
	for id, p := range d.personByID {
		p.FactoidRefs = refsOf(d.factoidsOfPerson[id])
	}
	for id, s := range d.sourceByID {
		s.FactoidRefs = refsOf(d.factoidsOfSource[id])
	}
	for id, st := range d.statementByID {
		st.FactoidRefs = refsOf([]*entities.Factoid{d.factoidOfStatement[id]})
	}
	for _, f := range d.factoids {
		f.Normalize()
	}
}

func refsOf(factoids []*entities.Factoid) []entities.FactoidRef {
	refs := make([]entities.FactoidRef, 0, len(factoids))
	for _, f := range factoids {
		refs = append(refs, f.Refs())
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].ID < refs[j].ID })
	return refs
}

// Factoids returns the indexed factoids. Callers must not mutate them.
func (d *Dataset) Factoids() []*entities.Factoid {
	return d.factoids
}

// Factoid looks up one factoid by id, nil on a miss.
func (d *Dataset) Factoid(id string) *entities.Factoid {
	return d.factoidByID[id]
}

// Person looks up one person by id or by one of its uris, nil on a miss.
func (d *Dataset) Person(idOrURI string) *entities.Person {
	if p, ok := d.personByID[idOrURI]; ok {
		return p
	}
	for _, p := range d.persons {
		if p.HasURI(idOrURI) {
			return p
		}
	}
	return nil
}

// Source looks up one source by id or by one of its uris, nil on a miss.
func (d *Dataset) Source(idOrURI string) *entities.Source {
	if s, ok := d.sourceByID[idOrURI]; ok {
		return s
	}
	for _, s := range d.sources {
		if s.HasURI(idOrURI) {
			return s
		}
	}
	return nil
}

// Statement looks up one statement by id or by one of its uris, nil on a miss.
func (d *Dataset) Statement(idOrURI string) *entities.Statement {
	if st, ok := d.statementByID[idOrURI]; ok {
		return st
	}
	for _, st := range d.statements {
		if st.HasURI(idOrURI) {
			return st
		}
	}
	return nil
}

// MatchingFactoids returns every factoid satisfying the predicate.
func (d *Dataset) MatchingFactoids(pred *query.Predicate) []*entities.Factoid {
	out := make([]*entities.Factoid, 0, len(d.factoids))
	for _, f := range d.factoids {
		if pred.IsZero() || pred.MatchFactoid(f) {
			out = append(out, f)
		}
	}
	return out
}

// MatchingPersons returns every person appearing in at least one factoid
// that satisfies the predicate. A zero predicate returns all persons.
func (d *Dataset) MatchingPersons(pred *query.Predicate) []*entities.Person {
	out := make([]*entities.Person, 0, len(d.persons))
	for _, p := range d.persons {
		if pred.IsZero() || anyFactoidMatches(d.factoidsOfPerson[p.ID], pred) {
			out = append(out, p)
		}
	}
	return out
}

// MatchingSources returns every source appearing in at least one factoid
// that satisfies the predicate.
func (d *Dataset) MatchingSources(pred *query.Predicate) []*entities.Source {
	out := make([]*entities.Source, 0, len(d.sources))
	for _, s := range d.sources {
		if pred.IsZero() || anyFactoidMatches(d.factoidsOfSource[s.ID], pred) {
			out = append(out, s)
		}
	}
	return out
}

// MatchingStatements returns every statement that satisfies the statement
// filters itself and whose owning factoid satisfies the cross-scope filters.
func (d *Dataset) MatchingStatements(pred *query.Predicate) []*entities.Statement {
	out := make([]*entities.Statement, 0, len(d.statements))
	for _, st := range d.statements {
		if pred.IsZero() || pred.MatchStatement(st, d.factoidOfStatement[st.ID]) {
			out = append(out, st)
		}
	}
	return out
}

func anyFactoidMatches(factoids []*entities.Factoid, pred *query.Predicate) bool {
	for _, f := range factoids {
		if pred.MatchFactoid(f) {
			return true
		}
	}
	return false
}
