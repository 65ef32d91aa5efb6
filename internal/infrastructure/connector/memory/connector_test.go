package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ersonp/factoid-core/internal/domain/entities"
	"github.com/ersonp/factoid-core/internal/domain/mockdata"
	"github.com/ersonp/factoid-core/internal/domain/ports"
)

func setupConnector(t *testing.T) *Connector {
	t.Helper()
	c, err := New(mockdata.NewGenerator("").Factoids(mockdata.DefaultCount), zap.NewNop().Sugar())
	require.NoError(t, err)
	return c
}

func TestConnector_Get(t *testing.T) {
	c := setupConnector(t)
	ctx := context.Background()

	t.Run("person by id", func(t *testing.T) {
		p, err := c.Persons().Get(ctx, "P00002")
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, "P00002", p.ID)
		assert.NotEmpty(t, p.FactoidRefs)
	})

	t.Run("person by uri", func(t *testing.T) {
		p, err := c.Persons().Get(ctx, "https://example.com/persons/2a")
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, "P00002", p.ID)
	})

	t.Run("miss returns nil, nil", func(t *testing.T) {
		p, err := c.Persons().Get(ctx, "P99999")
		require.NoError(t, err)
		assert.Nil(t, p)
	})

	t.Run("factoid embeds canonical sub-objects", func(t *testing.T) {
		f, err := c.Factoids().Get(ctx, "F00001")
		require.NoError(t, err)
		require.NotNil(t, f)
		assert.Equal(t, "P00002", f.Person.ID)
		assert.Equal(t, "S00002", f.Source.ID)
		require.Len(t, f.Statements, 2)
		assert.NotNil(t, f.PersonRef)
		assert.Equal(t, "P00002", f.PersonRef.ID)
	})

	t.Run("statement by id", func(t *testing.T) {
		st, err := c.Statements().Get(ctx, "Stmt00001")
		require.NoError(t, err)
		require.NotNil(t, st)
		require.Len(t, st.FactoidRefs, 1)
		assert.Equal(t, "F00001", st.FactoidRefs[0].ID)
	})

	t.Run("get returns a copy", func(t *testing.T) {
		p1, err := c.Persons().Get(ctx, "P00002")
		require.NoError(t, err)
		p1.CreatedBy = "mutated"
		p2, err := c.Persons().Get(ctx, "P00002")
		require.NoError(t, err)
		assert.NotEqual(t, "mutated", p2.CreatedBy)
	})
}

func TestConnector_Search(t *testing.T) {
	c := setupConnector(t)
	ctx := context.Background()

	t.Run("unfiltered counts", func(t *testing.T) {
		persons, err := c.Persons().Count(ctx, ports.Filters{})
		require.NoError(t, err)
		assert.Equal(t, 75, persons)

		sources, err := c.Sources().Count(ctx, ports.Filters{})
		require.NoError(t, err)
		assert.Equal(t, 100, sources)

		statements, err := c.Statements().Count(ctx, ports.Filters{})
		require.NoError(t, err)
		assert.Equal(t, 300, statements)

		factoids, err := c.Factoids().Count(ctx, ports.Filters{})
		require.NoError(t, err)
		assert.Equal(t, 100, factoids)
	})

	t.Run("source label substring", func(t *testing.T) {
		// labels Source 00030..00039, minus the two blanked every fifth
		n, err := c.Sources().Count(ctx, ports.Filters{Source: "Source 0003"})
		require.NoError(t, err)
		assert.Equal(t, 8, n)
	})

	t.Run("factoids by person id", func(t *testing.T) {
		// person P00002 appears for factoid nums 1 and 76
		got, err := c.Factoids().Search(ctx, 30, 1, "@id", ports.SortAscending, ports.Filters{PersonID: "P00002"})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "F00001", got[0].ID)
		assert.Equal(t, "F00076", got[1].ID)
	})

	t.Run("search and count agree", func(t *testing.T) {
		filters := ports.Filters{Statement: "role 001"}
		got, err := c.Statements().Search(ctx, 1000, 1, "", ports.SortAscending, filters)
		require.NoError(t, err)
		n, err := c.Statements().Count(ctx, filters)
		require.NoError(t, err)
		assert.Len(t, got, n)
	})

	t.Run("paging is stable", func(t *testing.T) {
		var all []string
		for page := 1; ; page++ {
			got, err := c.Persons().Search(ctx, 10, page, "createdWhen", ports.SortAscending, ports.Filters{})
			require.NoError(t, err)
			if len(got) == 0 {
				break
			}
			for _, p := range got {
				all = append(all, p.ID)
			}
		}
		assert.Len(t, all, 75)
		seen := map[string]bool{}
		for _, id := range all {
			assert.False(t, seen[id], "person %s paged twice", id)
			seen[id] = true
		}
	})

	t.Run("invalid date filter", func(t *testing.T) {
		_, err := c.Factoids().Search(ctx, 10, 1, "", ports.SortAscending, ports.Filters{From: "last tuesday"})
		require.Error(t, err)
		assert.ErrorIs(t, err, ports.ErrValidation)
	})
}

func TestConnector_ReadOnly(t *testing.T) {
	c := setupConnector(t)
	ctx := context.Background()

	_, err := c.Persons().Create(ctx, &entities.Person{ID: "P90000"})
	assert.ErrorIs(t, err, ports.ErrUnsupportedOperation)

	_, err = c.Factoids().Update(ctx, "F00001", &entities.Factoid{ID: "F00001"})
	assert.ErrorIs(t, err, ports.ErrUnsupportedOperation)

	err = c.Statements().Delete(ctx, "Stmt00001")
	assert.ErrorIs(t, err, ports.ErrUnsupportedOperation)
}

func TestNewDataset_DuplicateFactoid(t *testing.T) {
	factoids := []*entities.Factoid{
		{ID: "F00001", Person: &entities.Person{ID: "P00001"}},
		{ID: "F00001", Person: &entities.Person{ID: "P00002"}},
	}
	_, err := NewDataset(factoids)
	require.Error(t, err)
	assert.ErrorIs(t, err, ports.ErrDuplicateID)
}
