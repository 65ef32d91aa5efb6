package entities

import "sort"

// Factoid is the join record binding exactly one Person, one Source and
// one-or-more Statements, plus provenance metadata. Unlike the other
// records, createdBy and createdWhen are required.
//
// DerivedFrom holds the id (or reference url) of the factoid this one was
// derived from; a string is all that is ever needed, so no foreign key.
type Factoid struct {
	ID           string       `json:"@id"`
	CreatedBy    string       `json:"createdBy"`
	CreatedWhen  string       `json:"createdWhen"`
	ModifiedBy   string       `json:"modifiedBy"`
	ModifiedWhen string       `json:"modifiedWhen"`
	DerivedFrom  string       `json:"derivedFrom,omitempty"`
	Person       *Person      `json:"person"`
	Source       *Source      `json:"source"`
	Statements   []*Statement `json:"statements"`

	// Computed id-only pointers, filled on output.
	PersonRef     *Ref  `json:"person-ref,omitempty"`
	SourceRef     *Ref  `json:"source-ref,omitempty"`
	StatementRefs []Ref `json:"statement-refs,omitempty"`
}

// Normalize puts the factoid and its owned records into canonical output
// order and recomputes the id-only ref blocks.
func (f *Factoid) Normalize() {
	if f.Statements == nil {
		f.Statements = []*Statement{}
	}
	sort.Slice(f.Statements, func(i, j int) bool { return f.Statements[i].ID < f.Statements[j].ID })
	if f.Person != nil {
		f.Person.Normalize()
		f.PersonRef = &Ref{ID: f.Person.ID}
	}
	if f.Source != nil {
		f.Source.Normalize()
		f.SourceRef = &Ref{ID: f.Source.ID}
	}
	f.StatementRefs = make([]Ref, 0, len(f.Statements))
	for _, st := range f.Statements {
		st.Normalize()
		f.StatementRefs = append(f.StatementRefs, Ref{ID: st.ID})
	}
	sortRefs(f.StatementRefs)
}

// Refs returns the back-reference block this factoid contributes to the
// factoid-refs list of its person, source and statements.
func (f *Factoid) Refs() FactoidRef {
	ref := FactoidRef{ID: f.ID, StatementRefs: []Ref{}}
	if f.Person != nil {
		ref.PersonRef = Ref{ID: f.Person.ID}
	}
	if f.Source != nil {
		ref.SourceRef = Ref{ID: f.Source.ID}
	}
	for _, st := range f.Statements {
		ref.StatementRefs = append(ref.StatementRefs, Ref{ID: st.ID})
	}
	sortRefs(ref.StatementRefs)
	return ref
}

// Clone returns a deep copy.
func (f *Factoid) Clone() *Factoid {
	if f == nil {
		return nil
	}
	out := *f
	out.Person = f.Person.Clone()
	out.Source = f.Source.Clone()
	out.Statements = make([]*Statement, len(f.Statements))
	for i, st := range f.Statements {
		out.Statements[i] = st.Clone()
	}
	if f.PersonRef != nil {
		r := *f.PersonRef
		out.PersonRef = &r
	}
	if f.SourceRef != nil {
		r := *f.SourceRef
		out.SourceRef = &r
	}
	out.StatementRefs = cloneRefs(f.StatementRefs)
	return &out
}

// SortValue returns the value used as primary sort key for field.
func (f *Factoid) SortValue(field string) string {
	switch field {
	case "id", "@id":
		return f.ID
	case "createdBy":
		return f.CreatedBy
	case "createdWhen":
		return f.CreatedWhen
	case "modifiedBy":
		return f.ModifiedBy
	case "modifiedWhen":
		return f.ModifiedWhen
	}
	return ""
}
