package query

import (
	"sort"

	"github.com/ersonp/factoid-core/internal/domain/ports"
)

// Sortable is satisfied by every primary entity: it exposes the sort key
// for a named field, "" for fields the entity does not carry.
type Sortable interface {
	SortValue(field string) string
}

// SortAndPage orders items by (sortBy, id ascending) - id descending is
// never used, even under SortDescending, so paging stays stable when
// primary values tie - and returns the requested window. Pages are
// 1-based; a page beyond the result set yields an empty slice.
func SortAndPage[T Sortable](items []T, sortBy string, order ports.SortOrder, page, size int) []T {
	Sort(items, sortBy, order)
	return Window(items, page, size)
}

// Sort orders items deterministically in place.
func Sort[T Sortable](items []T, sortBy string, order ports.SortOrder) {
	field := normalizeSortField(sortBy)
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].SortValue(field), items[j].SortValue(field)
		if a != b {
			if order == ports.SortDescending {
				return a > b
			}
			return a < b
		}
		return items[i].SortValue("id") < items[j].SortValue("id")
	})
}

// Window slices out the 1-based page of the given size. A non-positive size
// or an out-of-range page yields an empty slice.
func Window[T any](items []T, page, size int) []T {
	if size <= 0 || page < 1 {
		return []T{}
	}
	start := (page - 1) * size
	if start < 0 || start >= len(items) {
		return []T{}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func normalizeSortField(field string) string {
	if field == "" {
		return ports.DefaultSortField
	}
	if field == "@id" {
		return "id"
	}
	return field
}
