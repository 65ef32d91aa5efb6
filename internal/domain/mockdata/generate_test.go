package mockdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_Deterministic(t *testing.T) {
	first := NewGenerator("").Factoids(DefaultCount)
	second := NewGenerator("").Factoids(DefaultCount)
	assert.Equal(t, first, second)

	t.Run("reuse resets the statement counter", func(t *testing.T) {
		g := NewGenerator("")
		g.Factoids(10)
		assert.Equal(t, first, g.Factoids(DefaultCount))
	})
}

func TestGenerator_FirstFactoid(t *testing.T) {
	f := NewGenerator("").Factoid(1)

	assert.Equal(t, "F00001", f.ID)
	assert.Equal(t, "Creator 00001", f.CreatedBy)
	assert.Equal(t, "2003-02-15T00:03:00", f.CreatedWhen)
	assert.Empty(t, f.ModifiedBy)
	assert.Empty(t, f.ModifiedWhen)
	assert.Empty(t, f.DerivedFrom)

	require.NotNil(t, f.Person)
	assert.Equal(t, "P00002", f.Person.ID)
	require.NotNil(t, f.Source)
	assert.Equal(t, "S00002", f.Source.ID)
	assert.Equal(t, "Source 00002", f.Source.Label)

	require.Len(t, f.Statements, 2)
	st := f.Statements[0]
	assert.Equal(t, "Stmt00001", st.ID)
	assert.Equal(t, "Statement 00001", st.Name)
	assert.Equal(t, "Statement content 00002", st.StatementContent)
	assert.Empty(t, st.ModifiedWhen)
	require.NotNil(t, st.Date)
	assert.Equal(t, "1802-04-22", st.Date.SortDate)
	assert.Equal(t, "Stmt00002", f.Statements[1].ID)
}

func TestGenerator_Cadences(t *testing.T) {
	factoids := NewGenerator("").Factoids(DefaultCount)
	require.Len(t, factoids, DefaultCount)

	t.Run("statement counter spans factoids", func(t *testing.T) {
		total := 0
		for _, f := range factoids {
			total += len(f.Statements)
		}
		assert.Equal(t, 300, total)
		last := factoids[len(factoids)-1].Statements
		assert.Equal(t, "Stmt00300", last[len(last)-1].ID)
	})

	t.Run("persons repeat every 75 factoids", func(t *testing.T) {
		assert.Equal(t, factoids[0].Person.ID, factoids[75].Person.ID)
		seen := map[string]bool{}
		for _, f := range factoids {
			seen[f.Person.ID] = true
		}
		assert.Len(t, seen, 75)
	})

	t.Run("every fifth source has no label", func(t *testing.T) {
		for _, f := range factoids {
			if f.Source.ID == "S00005" {
				assert.Empty(t, f.Source.Label)
			}
			if f.Source.ID == "S00003" {
				assert.Equal(t, "Source 00003", f.Source.Label)
			}
		}
	})

	t.Run("modification metadata survives every fifth factoid only", func(t *testing.T) {
		assert.NotEmpty(t, factoids[4].ModifiedWhen)
		assert.Empty(t, factoids[5].ModifiedWhen)
	})

	t.Run("derivedFrom", func(t *testing.T) {
		assert.Equal(t, "http://localhost:5000/api/factoids/5", factoids[13].DerivedFrom)
		assert.Empty(t, factoids[6].DerivedFrom)
	})

	t.Run("every twentieth statement date is empty", func(t *testing.T) {
		empty := false
		for _, f := range factoids {
			for _, st := range f.Statements {
				if st.Date.SortDate == "" {
					empty = true
				}
			}
		}
		assert.True(t, empty)
	})
}

func TestGenerator_CustomBaseURL(t *testing.T) {
	f := NewGenerator("https://pop.example.org/v1").Factoid(14)
	assert.Equal(t, "https://pop.example.org/v1/factoids/5", f.DerivedFrom)
}
