package entities

import "sort"

// Source is a primary record describing where factoid information was found.
// Besides the shared metadata it carries an optional display label.
type Source struct {
	ID           string       `json:"@id"`
	CreatedBy    string       `json:"createdBy"`
	CreatedWhen  string       `json:"createdWhen"`
	ModifiedBy   string       `json:"modifiedBy"`
	ModifiedWhen string       `json:"modifiedWhen"`
	Label        string       `json:"label,omitempty"`
	URIs         []string     `json:"uris"`
	FactoidRefs  []FactoidRef `json:"factoid-refs,omitempty"`
}

// Normalize puts the source into canonical output order.
func (s *Source) Normalize() {
	if s.URIs == nil {
		s.URIs = []string{}
	}
	sort.Strings(s.URIs)
	sortFactoidRefs(s.FactoidRefs)
}

// HasURI reports whether uri is one of the source's owned uris.
func (s *Source) HasURI(uri string) bool {
	return containsString(s.URIs, uri)
}

// Clone returns a deep copy.
func (s *Source) Clone() *Source {
	if s == nil {
		return nil
	}
	out := *s
	out.URIs = cloneStrings(s.URIs)
	out.FactoidRefs = cloneFactoidRefs(s.FactoidRefs)
	return &out
}

// SortValue returns the value used as primary sort key for field.
func (s *Source) SortValue(field string) string {
	switch field {
	case "id", "@id":
		return s.ID
	case "createdBy":
		return s.CreatedBy
	case "createdWhen":
		return s.CreatedWhen
	case "modifiedBy":
		return s.ModifiedBy
	case "modifiedWhen":
		return s.ModifiedWhen
	case "label":
		return s.Label
	}
	return ""
}
