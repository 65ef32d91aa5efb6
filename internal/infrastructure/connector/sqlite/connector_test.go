package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ersonp/factoid-core/internal/domain/entities"
	"github.com/ersonp/factoid-core/internal/domain/mockdata"
	"github.com/ersonp/factoid-core/internal/domain/ports"
)

func setupTestConnector(t *testing.T) *Connector {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "test.db"), zap.NewNop().Sugar())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

// seedFactoids imports generated factoids through the public create path.
func seedFactoids(t *testing.T, c *Connector, count int) {
	t.Helper()
	ctx := context.Background()
	for _, f := range mockdata.NewGenerator("").Factoids(count) {
		_, err := c.Factoids().Create(ctx, f)
		require.NoError(t, err, "seeding factoid %s", f.ID)
	}
}

func testFactoid(id, personID, sourceID string, stmtIDs ...string) *entities.Factoid {
	f := &entities.Factoid{
		ID:          id,
		CreatedBy:   "Creator",
		CreatedWhen: "2020-01-01T00:00:00",
		Person:      &entities.Person{ID: personID},
		Source:      &entities.Source{ID: sourceID, Label: "Some source"},
	}
	for _, stmtID := range stmtIDs {
		f.Statements = append(f.Statements, &entities.Statement{
			ID:   stmtID,
			Name: "Statement " + stmtID,
			Role: &entities.LabeledURI{Label: "Baker", URI: "https://example.org/roles/baker"},
		})
	}
	return f
}

func countRows(t *testing.T, c *Connector, table string) int {
	t.Helper()
	n, err := queryCount(context.Background(), c.repo.db, "SELECT COUNT(*) FROM "+table)
	require.NoError(t, err)
	return n
}

func TestPersonCRUD(t *testing.T) {
	c := setupTestConnector(t)
	ctx := context.Background()

	t.Run("create with generated id", func(t *testing.T) {
		p, err := c.Persons().Create(ctx, &entities.Person{
			CreatedBy:   "Alice",
			CreatedWhen: "2020-01-01",
			URIs:        []string{"https://example.org/p/alpha"},
		})
		require.NoError(t, err)
		assert.Len(t, p.ID, 4)
		assert.Equal(t, []string{"https://example.org/p/alpha"}, p.URIs)
	})

	t.Run("create with duplicate id", func(t *testing.T) {
		_, err := c.Persons().Create(ctx, &entities.Person{ID: "P1"})
		require.NoError(t, err)
		_, err = c.Persons().Create(ctx, &entities.Person{ID: "P1"})
		assert.ErrorIs(t, err, ports.ErrDuplicateID)
	})

	t.Run("get by uri", func(t *testing.T) {
		p, err := c.Persons().Get(ctx, "https://example.org/p/alpha")
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, "Alice", p.CreatedBy)
	})

	t.Run("get miss returns nil", func(t *testing.T) {
		p, err := c.Persons().Get(ctx, "nope")
		require.NoError(t, err)
		assert.Nil(t, p)
	})

	t.Run("update is an upsert", func(t *testing.T) {
		p, err := c.Persons().Update(ctx, "P2", &entities.Person{CreatedBy: "Bob"})
		require.NoError(t, err)
		assert.Equal(t, "P2", p.ID)

		p, err = c.Persons().Update(ctx, "P2", &entities.Person{CreatedBy: "Carol"})
		require.NoError(t, err)
		assert.Equal(t, "Carol", p.CreatedBy)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, c.Persons().Delete(ctx, "P2"))
		err := c.Persons().Delete(ctx, "P2")
		assert.ErrorIs(t, err, ports.ErrNotFound)
	})
}

func TestFactoidCreate(t *testing.T) {
	c := setupTestConnector(t)
	ctx := context.Background()

	t.Run("requires person source and statements", func(t *testing.T) {
		_, err := c.Factoids().Create(ctx, &entities.Factoid{
			ID: "F1", CreatedBy: "x", CreatedWhen: "2020-01-01",
		})
		assert.ErrorIs(t, err, ports.ErrValidation)
	})

	t.Run("creates the whole graph", func(t *testing.T) {
		created, err := c.Factoids().Create(ctx, testFactoid("F1", "P1", "S1", "St1", "St2"))
		require.NoError(t, err)
		assert.Equal(t, "F1", created.ID)
		require.NotNil(t, created.Person)
		assert.Equal(t, "P1", created.Person.ID)
		require.Len(t, created.Statements, 2)
		require.Len(t, created.Person.FactoidRefs, 1)
		assert.Equal(t, "F1", created.Person.FactoidRefs[0].ID)

		st, err := c.Statements().Get(ctx, "St1")
		require.NoError(t, err)
		require.NotNil(t, st)
		require.NotNil(t, st.Role)
		assert.Equal(t, "Baker", st.Role.Label)
	})

	t.Run("reuses an existing person", func(t *testing.T) {
		_, err := c.Factoids().Create(ctx, testFactoid("F2", "P1", "S2", "St3"))
		require.NoError(t, err)

		p, err := c.Persons().Get(ctx, "P1")
		require.NoError(t, err)
		require.Len(t, p.FactoidRefs, 2)
		assert.Equal(t, "F1", p.FactoidRefs[0].ID)
		assert.Equal(t, "F2", p.FactoidRefs[1].ID)
	})

	t.Run("duplicate factoid id", func(t *testing.T) {
		_, err := c.Factoids().Create(ctx, testFactoid("F1", "P9", "S9", "St9"))
		assert.ErrorIs(t, err, ports.ErrDuplicateID)
	})

	t.Run("statement id taken by another factoid", func(t *testing.T) {
		_, err := c.Factoids().Create(ctx, testFactoid("F9", "P9", "S9", "St1"))
		assert.ErrorIs(t, err, ports.ErrDuplicateID)
	})
}

func TestValueDedup(t *testing.T) {
	c := setupTestConnector(t)
	ctx := context.Background()

	// St1, St2 and St3 all carry the identical role
	_, err := c.Factoids().Create(ctx, testFactoid("F1", "P1", "S1", "St1", "St2"))
	require.NoError(t, err)
	_, err = c.Factoids().Create(ctx, testFactoid("F2", "P2", "S2", "St3"))
	require.NoError(t, err)

	assert.Equal(t, 1, countRows(t, c, "labeled_uris"))

	t.Run("survives while referenced", func(t *testing.T) {
		require.NoError(t, c.Factoids().Delete(ctx, "F1"))
		assert.Equal(t, 1, countRows(t, c, "labeled_uris"))
	})

	t.Run("swept with the last referrer", func(t *testing.T) {
		require.NoError(t, c.Factoids().Delete(ctx, "F2"))
		assert.Equal(t, 0, countRows(t, c, "labeled_uris"))
	})
}

func TestReferentialIntegrity(t *testing.T) {
	c := setupTestConnector(t)
	ctx := context.Background()

	_, err := c.Factoids().Create(ctx, testFactoid("F1", "P1", "S1", "St1"))
	require.NoError(t, err)

	err = c.Persons().Delete(ctx, "P1")
	assert.ErrorIs(t, err, ports.ErrReferentialIntegrity)

	err = c.Sources().Delete(ctx, "S1")
	assert.ErrorIs(t, err, ports.ErrReferentialIntegrity)

	err = c.Statements().Delete(ctx, "St1")
	assert.ErrorIs(t, err, ports.ErrReferentialIntegrity)

	t.Run("standalone statement deletes fine", func(t *testing.T) {
		_, err := c.Statements().Create(ctx, &entities.Statement{ID: "Solo"})
		require.NoError(t, err)
		assert.NoError(t, c.Statements().Delete(ctx, "Solo"))
	})
}

func TestFactoidDeepDelete(t *testing.T) {
	c := setupTestConnector(t)
	ctx := context.Background()

	// F1 and F2 share P1; S1 and S2 are private to their factoid
	_, err := c.Factoids().Create(ctx, testFactoid("F1", "P1", "S1", "St1"))
	require.NoError(t, err)
	_, err = c.Factoids().Create(ctx, testFactoid("F2", "P1", "S2", "St2"))
	require.NoError(t, err)

	require.NoError(t, c.Factoids().Delete(ctx, "F1"))

	t.Run("statements go with the factoid", func(t *testing.T) {
		st, err := c.Statements().Get(ctx, "St1")
		require.NoError(t, err)
		assert.Nil(t, st)
	})

	t.Run("private source goes too", func(t *testing.T) {
		s, err := c.Sources().Get(ctx, "S1")
		require.NoError(t, err)
		assert.Nil(t, s)
	})

	t.Run("shared person survives", func(t *testing.T) {
		p, err := c.Persons().Get(ctx, "P1")
		require.NoError(t, err)
		require.NotNil(t, p)
		require.Len(t, p.FactoidRefs, 1)
		assert.Equal(t, "F2", p.FactoidRefs[0].ID)
	})

	t.Run("last referrer takes the person along", func(t *testing.T) {
		require.NoError(t, c.Factoids().Delete(ctx, "F2"))
		p, err := c.Persons().Get(ctx, "P1")
		require.NoError(t, err)
		assert.Nil(t, p)
		assert.Equal(t, 0, countRows(t, c, "persons"))
		assert.Equal(t, 0, countRows(t, c, "statements"))
	})

	t.Run("missing factoid", func(t *testing.T) {
		err := c.Factoids().Delete(ctx, "F404")
		assert.ErrorIs(t, err, ports.ErrNotFound)
	})
}

func TestFactoidUpdate(t *testing.T) {
	c := setupTestConnector(t)
	ctx := context.Background()

	_, err := c.Factoids().Create(ctx, testFactoid("F1", "P1", "S1", "St1"))
	require.NoError(t, err)

	t.Run("replaces statements", func(t *testing.T) {
		updated, err := c.Factoids().Update(ctx, "F1", testFactoid("F1", "P1", "S1", "St9"))
		require.NoError(t, err)
		require.Len(t, updated.Statements, 1)
		assert.Equal(t, "St9", updated.Statements[0].ID)

		st, err := c.Statements().Get(ctx, "St1")
		require.NoError(t, err)
		assert.Nil(t, st)
	})

	t.Run("swapping the person deletes the orphan", func(t *testing.T) {
		_, err := c.Factoids().Update(ctx, "F1", testFactoid("F1", "P2", "S1", "St9"))
		require.NoError(t, err)

		p, err := c.Persons().Get(ctx, "P1")
		require.NoError(t, err)
		assert.Nil(t, p)

		p, err = c.Persons().Get(ctx, "P2")
		require.NoError(t, err)
		require.NotNil(t, p)
	})

	t.Run("upsert on a missing id creates", func(t *testing.T) {
		created, err := c.Factoids().Update(ctx, "F7", testFactoid("F7", "P7", "S7", "St7"))
		require.NoError(t, err)
		assert.Equal(t, "F7", created.ID)
	})
}

// The st fulltext filter fans out over id, name, content, date label, the
// three labeled references, both link tables and the uri table. Every
// placeholder in that disjunction must get the needle bound.
func TestSearchStatementFulltext(t *testing.T) {
	c := setupTestConnector(t)
	seedFactoids(t, c, 30)
	ctx := context.Background()

	t.Run("name substring", func(t *testing.T) {
		n, err := c.Factoids().Count(ctx, ports.Filters{Statement: "Statement 00"})
		require.NoError(t, err)
		assert.Equal(t, 30, n)

		got, err := c.Factoids().Search(ctx, 50, 1, "@id", ports.SortAscending, ports.Filters{Statement: "Statement 00"})
		require.NoError(t, err)
		assert.Len(t, got, 30)
	})

	t.Run("uri exact match", func(t *testing.T) {
		got, err := c.Factoids().Search(ctx, 10, 1, "@id", ports.SortAscending, ports.Filters{Statement: "https://example.com/statements/2b"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "F00001", got[0].ID)
	})

	t.Run("statements view", func(t *testing.T) {
		n, err := c.Statements().Count(ctx, ports.Filters{Statement: "Statement 00"})
		require.NoError(t, err)
		assert.Greater(t, n, 0)
	})
}

// Updating with an identical payload is a no-op: the assembled result and
// the row counts come out unchanged.
func TestFactoidUpdateIdempotent(t *testing.T) {
	c := setupTestConnector(t)
	ctx := context.Background()

	first, err := c.Factoids().Update(ctx, "F1", testFactoid("F1", "P1", "S1", "St1", "St2"))
	require.NoError(t, err)

	tables := []string{"persons", "sources", "factoids", "statements", "labeled_uris", "statement_uris"}
	before := map[string]int{}
	for _, table := range tables {
		before[table] = countRows(t, c, table)
	}

	second, err := c.Factoids().Update(ctx, "F1", testFactoid("F1", "P1", "S1", "St1", "St2"))
	require.NoError(t, err)
	assert.Equal(t, first, second)

	for _, table := range tables {
		assert.Equal(t, before[table], countRows(t, c, table), table)
	}
}

func TestSearch(t *testing.T) {
	c := setupTestConnector(t)
	seedFactoids(t, c, 30)
	ctx := context.Background()

	t.Run("unfiltered counts", func(t *testing.T) {
		n, err := c.Factoids().Count(ctx, ports.Filters{})
		require.NoError(t, err)
		assert.Equal(t, 30, n)

		n, err = c.Persons().Count(ctx, ports.Filters{})
		require.NoError(t, err)
		assert.Equal(t, 30, n)
	})

	t.Run("factoids by person id", func(t *testing.T) {
		got, err := c.Factoids().Search(ctx, 10, 1, "@id", ports.SortAscending, ports.Filters{PersonID: "P00002"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "F00001", got[0].ID)
	})

	t.Run("statement name substring", func(t *testing.T) {
		got, err := c.Statements().Search(ctx, 100, 1, "@id", ports.SortAscending, ports.Filters{Name: "statement 0000"})
		require.NoError(t, err)
		require.NotEmpty(t, got)
		for _, st := range got {
			assert.Contains(t, st.Name, "Statement 0000")
		}
	})

	t.Run("uri filters are exact and case-sensitive", func(t *testing.T) {
		n, err := c.Persons().Count(ctx, ports.Filters{Person: "https://example.com/persons/2a"})
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		n, err = c.Persons().Count(ctx, ports.Filters{Person: "https://example.com/Persons/2a"})
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})

	t.Run("date range", func(t *testing.T) {
		all, err := c.Factoids().Count(ctx, ports.Filters{From: "1700"})
		require.NoError(t, err)
		assert.Greater(t, all, 0)

		none, err := c.Factoids().Count(ctx, ports.Filters{From: "1900"})
		require.NoError(t, err)
		assert.Equal(t, 0, none)
	})

	t.Run("invalid date filter", func(t *testing.T) {
		_, err := c.Factoids().Count(ctx, ports.Filters{From: "soon"})
		assert.ErrorIs(t, err, ports.ErrValidation)
	})

	t.Run("paging covers everything once", func(t *testing.T) {
		seen := map[string]bool{}
		for page := 1; ; page++ {
			got, err := c.Factoids().Search(ctx, 7, page, "createdWhen", ports.SortAscending, ports.Filters{})
			require.NoError(t, err)
			if len(got) == 0 {
				break
			}
			for _, f := range got {
				assert.False(t, seen[f.ID])
				seen[f.ID] = true
			}
		}
		assert.Len(t, seen, 30)
	})
}
