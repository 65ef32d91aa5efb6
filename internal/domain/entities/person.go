package entities

import "sort"

// Person is a primary record identified by @id. All metadata fields are
// optional; timestamps are ISO-8601 strings and serialize as "" when unset.
// A Person owns a set of uris, each shared with no other person unless the
// uri string is identical.
type Person struct {
	ID           string       `json:"@id"`
	CreatedBy    string       `json:"createdBy"`
	CreatedWhen  string       `json:"createdWhen"`
	ModifiedBy   string       `json:"modifiedBy"`
	ModifiedWhen string       `json:"modifiedWhen"`
	URIs         []string     `json:"uris"`
	FactoidRefs  []FactoidRef `json:"factoid-refs,omitempty"`
}

// Normalize puts the person into canonical output order: uris ascending,
// factoid-refs by referencing factoid id.
func (p *Person) Normalize() {
	if p.URIs == nil {
		p.URIs = []string{}
	}
	sort.Strings(p.URIs)
	sortFactoidRefs(p.FactoidRefs)
}

// HasURI reports whether uri is one of the person's owned uris.
func (p *Person) HasURI(uri string) bool {
	return containsString(p.URIs, uri)
}

// Clone returns a deep copy.
func (p *Person) Clone() *Person {
	if p == nil {
		return nil
	}
	out := *p
	out.URIs = cloneStrings(p.URIs)
	out.FactoidRefs = cloneFactoidRefs(p.FactoidRefs)
	return &out
}

// SortValue returns the value used as primary sort key for field.
// Unknown fields yield "", which leaves ordering to the id tie-break.
func (p *Person) SortValue(field string) string {
	switch field {
	case "id", "@id":
		return p.ID
	case "createdBy":
		return p.CreatedBy
	case "createdWhen":
		return p.CreatedWhen
	case "modifiedBy":
		return p.ModifiedBy
	case "modifiedWhen":
		return p.ModifiedWhen
	}
	return ""
}
