package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBounds(t *testing.T) {
	tests := []struct {
		name  string
		input string
		lower SortDate
		upper SortDate
	}{
		{"full date", "1932-05-17", SortDate{1932, 5, 17}, SortDate{1932, 5, 17}},
		{"year and month", "1932-1", SortDate{1932, 1, 1}, SortDate{1932, 1, 31}},
		{"year only", "1932", SortDate{1932, 1, 1}, SortDate{1932, 12, 31}},
		{"leap february", "2020-02", SortDate{2020, 2, 1}, SortDate{2020, 2, 29}},
		{"negative year", "-0050", SortDate{-50, 1, 1}, SortDate{-50, 12, 31}},
		{"negative full", "-0050-03-10", SortDate{-50, 3, 10}, SortDate{-50, 3, 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lower, err := ParseLowerBound(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.lower, lower)

			upper, err := ParseUpperBound(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.upper, upper)
		})
	}

	t.Run("invalid input", func(t *testing.T) {
		for _, bad := range []string{"", "not-a-date", "17.5.1932", "1932-13-40x"} {
			_, err := ParseLowerBound(bad)
			assert.Error(t, err, "input %q", bad)
		}
	})
}

func TestSortDateKey(t *testing.T) {
	t.Run("orders across eras", func(t *testing.T) {
		dates := []string{"-0100-06-15", "-0050-01-01", "-0050-12-31", "0001-01-01", "1800-05-05"}
		var last int
		for i, s := range dates {
			key, ok := SortKey(s, true)
			require.True(t, ok)
			if i > 0 {
				assert.Greater(t, key, last, "%s must sort after its predecessor", s)
			}
			last = key
		}
	})

	t.Run("december after january in a BCE year", func(t *testing.T) {
		jan, ok := SortKey("-0050-01-01", true)
		require.True(t, ok)
		dec, ok := SortKey("-0050-12-31", true)
		require.True(t, ok)
		assert.Greater(t, dec, jan)
	})

	t.Run("empty and malformed never match", func(t *testing.T) {
		_, ok := SortKey("", true)
		assert.False(t, ok)
		_, ok = SortKey("once upon a time", true)
		assert.False(t, ok)
	})
}
