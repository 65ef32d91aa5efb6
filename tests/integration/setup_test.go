package integration

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ersonp/factoid-core/internal/domain/entities"
	"github.com/ersonp/factoid-core/internal/domain/mockdata"
	"github.com/ersonp/factoid-core/internal/domain/ports"
	"github.com/ersonp/factoid-core/internal/infrastructure/connector/jsonfile"
	"github.com/ersonp/factoid-core/internal/infrastructure/connector/memory"
	"github.com/ersonp/factoid-core/internal/infrastructure/connector/sqlite"
)

const (
	testContact = "Test contact"
	// testCount is large enough that factoids share persons (the person
	// cycle is 75) but not sources (cycle 100).
	testCount = 80
)

// buildBackends serves one identical population through all three backends:
// the in-memory mock, a jsonfile snapshot and a freshly seeded sqlite
// database. The population is repaired up front so every backend starts
// from the same complete metadata.
func buildBackends(t *testing.T) map[string]ports.Connector {
	t.Helper()
	ctx := context.Background()
	log := zap.NewNop().Sugar()

	factoids := mockdata.NewGenerator(mockdata.DefaultBaseURL).Factoids(testCount)
	for _, f := range factoids {
		require.NoError(t, jsonfile.RepairMetadata(f, testContact, "2019-01-01"))
	}

	mem, err := memory.New(factoids, log)
	require.NoError(t, err)

	snapshotPath := filepath.Join(t.TempDir(), "factoids.json")
	data, err := json.Marshal(factoids)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(snapshotPath, data, 0644))

	snap, err := jsonfile.Open(snapshotPath, testContact, log)
	require.NoError(t, err)

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	for _, f := range factoids {
		_, err := db.Factoids().Create(ctx, f)
		require.NoError(t, err, "seeding factoid %s", f.ID)
	}

	return map[string]ports.Connector{
		"memory":   mem,
		"jsonfile": snap,
		"sqlite":   db,
	}
}

// searchIDs runs a factoid search and returns just the ids.
func searchIDs(t *testing.T, conn ports.Connector, size, page int, sortBy string, order ports.SortOrder, filters ports.Filters) []string {
	t.Helper()
	factoids, err := conn.Factoids().Search(context.Background(), size, page, sortBy, order, filters)
	require.NoError(t, err)
	ids := make([]string, 0, len(factoids))
	for _, f := range factoids {
		ids = append(ids, f.ID)
	}
	return ids
}

// allFactoids fetches the whole population in id order.
func allFactoids(t *testing.T, conn ports.Connector) []*entities.Factoid {
	t.Helper()
	factoids, err := conn.Factoids().Search(context.Background(),
		testCount, 1, "@id", ports.SortAscending, ports.Filters{})
	require.NoError(t, err)
	require.Len(t, factoids, testCount)
	return factoids
}
