package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeID(t *testing.T) {
	t.Run("shortest prefix on empty store", func(t *testing.T) {
		id, err := MakeID(map[string]string{"name": "a"}, func(string) bool { return false })
		require.NoError(t, err)
		assert.Len(t, id, 4)
	})

	t.Run("prefix grows on collision", func(t *testing.T) {
		taken := map[string]bool{}
		exists := func(id string) bool { return taken[id] }

		payload := map[string]string{"name": "a"}
		first, err := MakeID(payload, exists)
		require.NoError(t, err)
		taken[first] = true

		second, err := MakeID(payload, exists)
		require.NoError(t, err)
		taken[second] = true

		assert.NotEqual(t, first, second)
		assert.Len(t, second, 5)
		assert.Equal(t, first, second[:4])
	})

	t.Run("identical payloads never share an id", func(t *testing.T) {
		taken := map[string]bool{}
		exists := func(id string) bool { return taken[id] }
		payload := map[string]string{"label": "same content"}

		for i := 0; i < 10; i++ {
			id, err := MakeID(payload, exists)
			require.NoError(t, err)
			assert.False(t, taken[id])
			taken[id] = true
		}
	})

	t.Run("salts with timestamp when all prefixes are taken", func(t *testing.T) {
		// Refuse every prefix of the first hash; the salted retry produces a
		// different hash whose prefixes are free.
		payload := map[string]string{"name": "a"}
		raw, err := MakeID(payload, func(string) bool { return false })
		require.NoError(t, err)

		calls := 0
		id, err := MakeID(payload, func(candidate string) bool {
			calls++
			return candidate[:4] == raw[:4]
		})
		require.NoError(t, err)
		assert.NotEqual(t, raw[:4], id[:4])
		assert.Greater(t, calls, 61) // 61 prefixes of the unsalted hash first
	})
}
