// Package entities contains the core domain data structures: the primary
// records (Person, Source, Statement, Factoid) and the shared value objects
// they reference.
package entities

import "sort"

// LabeledURI is a value object consisting of an optional label and an
// optional uri. Roles, member groups, statement types, places and related
// persons all share this shape. Value objects are deduplicated by content:
// two statements referring to the same {label, uri} pair share one row.
type LabeledURI struct {
	URI   string `json:"uri,omitempty"`
	Label string `json:"label,omitempty"`
}

// IsZero reports whether both fields are empty.
func (l LabeledURI) IsZero() bool {
	return l.URI == "" && l.Label == ""
}

// Date is a value object pairing a display label with a sortable date.
// SortDate may be empty, incomplete (yyyy or yyyy-mm) and may carry a
// negative year.
type Date struct {
	SortDate string `json:"sortDate,omitempty"`
	Label    string `json:"label,omitempty"`
}

// IsZero reports whether both fields are empty.
func (d Date) IsZero() bool {
	return d.SortDate == "" && d.Label == ""
}

// Ref is an id-only pointer to another entity.
type Ref struct {
	ID string `json:"@id"`
}

// FactoidRef is the back-reference block a Person, Source or Statement
// exposes for each factoid referencing it.
type FactoidRef struct {
	ID            string `json:"@id"`
	SourceRef     Ref    `json:"source-ref"`
	PersonRef     Ref    `json:"person-ref"`
	StatementRefs []Ref  `json:"statement-refs"`
}

// sortRefs orders id-only refs by id.
func sortRefs(refs []Ref) {
	sort.Slice(refs, func(i, j int) bool { return refs[i].ID < refs[j].ID })
}

// sortFactoidRefs orders back-reference blocks by referencing factoid id.
func sortFactoidRefs(refs []FactoidRef) {
	sort.Slice(refs, func(i, j int) bool { return refs[i].ID < refs[j].ID })
}

// sortLabeledURIs orders value objects by label, the canonical order for
// places and relatesToPersons lists.
func sortLabeledURIs(values []LabeledURI) {
	sort.Slice(values, func(i, j int) bool { return values[i].Label < values[j].Label })
}

func cloneRefs(refs []Ref) []Ref {
	if refs == nil {
		return nil
	}
	out := make([]Ref, len(refs))
	copy(out, refs)
	return out
}

func cloneFactoidRefs(refs []FactoidRef) []FactoidRef {
	if refs == nil {
		return nil
	}
	out := make([]FactoidRef, len(refs))
	for i, r := range refs {
		r.StatementRefs = cloneRefs(r.StatementRefs)
		out[i] = r
	}
	return out
}

func cloneStrings(values []string) []string {
	out := make([]string, len(values))
	copy(out, values)
	return out
}

func cloneLabeledURIs(values []LabeledURI) []LabeledURI {
	out := make([]LabeledURI, len(values))
	copy(out, values)
	return out
}

func containsString(values []string, needle string) bool {
	for _, v := range values {
		if v == needle {
			return true
		}
	}
	return false
}
