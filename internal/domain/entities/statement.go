package entities

import "sort"

// Statement is an atomic biographical assertion. It is owned by exactly one
// Factoid but remains independently retrievable. The labeled sub-objects
// (date, role, memberOf, statementType, places, relatesToPersons) are shared
// value objects, deduplicated by content across all statements.
type Statement struct {
	ID               string       `json:"@id"`
	CreatedBy        string       `json:"createdBy"`
	CreatedWhen      string       `json:"createdWhen"`
	ModifiedBy       string       `json:"modifiedBy"`
	ModifiedWhen     string       `json:"modifiedWhen"`
	Name             string       `json:"name,omitempty"`
	Date             *Date        `json:"date,omitempty"`
	Role             *LabeledURI  `json:"role,omitempty"`
	MemberOf         *LabeledURI  `json:"memberOf,omitempty"`
	StatementType    *LabeledURI  `json:"statementType,omitempty"`
	StatementContent string       `json:"statementContent,omitempty"`
	Places           []LabeledURI `json:"places"`
	RelatesToPersons []LabeledURI `json:"relatesToPersons"`
	URIs             []string     `json:"uris"`
	FactoidRefs      []FactoidRef `json:"factoid-refs,omitempty"`
}

// Normalize puts the statement into canonical output order: uris ascending,
// places and relatesToPersons by label, factoid-refs by factoid id.
func (st *Statement) Normalize() {
	if st.URIs == nil {
		st.URIs = []string{}
	}
	if st.Places == nil {
		st.Places = []LabeledURI{}
	}
	if st.RelatesToPersons == nil {
		st.RelatesToPersons = []LabeledURI{}
	}
	sort.Strings(st.URIs)
	sortLabeledURIs(st.Places)
	sortLabeledURIs(st.RelatesToPersons)
	sortFactoidRefs(st.FactoidRefs)
}

// HasURI reports whether uri is one of the statement's owned uris.
func (st *Statement) HasURI(uri string) bool {
	return containsString(st.URIs, uri)
}

// Clone returns a deep copy.
func (st *Statement) Clone() *Statement {
	if st == nil {
		return nil
	}
	out := *st
	if st.Date != nil {
		d := *st.Date
		out.Date = &d
	}
	out.Role = cloneLabeledURI(st.Role)
	out.MemberOf = cloneLabeledURI(st.MemberOf)
	out.StatementType = cloneLabeledURI(st.StatementType)
	out.URIs = cloneStrings(st.URIs)
	out.Places = cloneLabeledURIs(st.Places)
	out.RelatesToPersons = cloneLabeledURIs(st.RelatesToPersons)
	out.FactoidRefs = cloneFactoidRefs(st.FactoidRefs)
	return &out
}

func cloneLabeledURI(l *LabeledURI) *LabeledURI {
	if l == nil {
		return nil
	}
	out := *l
	return &out
}

// SortValue returns the value used as primary sort key for field.
func (st *Statement) SortValue(field string) string {
	switch field {
	case "id", "@id":
		return st.ID
	case "createdBy":
		return st.CreatedBy
	case "createdWhen":
		return st.CreatedWhen
	case "modifiedBy":
		return st.ModifiedBy
	case "modifiedWhen":
		return st.ModifiedWhen
	}
	return ""
}
