package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/factoid-core/internal/domain/entities"
	"github.com/ersonp/factoid-core/internal/domain/mockdata"
)

func TestValidateFactoids(t *testing.T) {
	t.Run("generated population is clean", func(t *testing.T) {
		report := ValidateFactoids(mockdata.NewGenerator("").Factoids(50))
		assert.True(t, report.OK(), "unexpected problems: %v", report.Problems)
		assert.Equal(t, 50, report.Factoids)
	})

	t.Run("finds structural problems", func(t *testing.T) {
		factoids := []*entities.Factoid{
			{ID: "F1"}, // missing everything
			{ID: "F1", CreatedBy: "x", CreatedWhen: "2020",
				Person: &entities.Person{ID: "P1"}, Source: &entities.Source{ID: "S1"},
				Statements: []*entities.Statement{{ID: "St1"}}},
		}
		report := ValidateFactoids(factoids)
		require.False(t, report.OK())

		messages := make([]string, 0, len(report.Problems))
		for _, p := range report.Problems {
			messages = append(messages, p.String())
		}
		assert.Contains(t, messages, "factoid F1: no person")
		assert.Contains(t, messages, "factoid F1: no statements")
		assert.Contains(t, messages, "factoid F1: duplicate factoid @id")
	})

	t.Run("statement owned twice", func(t *testing.T) {
		shared := &entities.Statement{ID: "St1"}
		factoids := []*entities.Factoid{
			{ID: "F1", CreatedBy: "x", CreatedWhen: "2020",
				Person: &entities.Person{ID: "P1"}, Source: &entities.Source{ID: "S1"},
				Statements: []*entities.Statement{shared}},
			{ID: "F2", CreatedBy: "x", CreatedWhen: "2020",
				Person: &entities.Person{ID: "P1"}, Source: &entities.Source{ID: "S1"},
				Statements: []*entities.Statement{shared}},
		}
		report := ValidateFactoids(factoids)
		require.Len(t, report.Problems, 1)
		assert.Equal(t, "F2", report.Problems[0].FactoidID)
	})

	t.Run("unparsable sort date", func(t *testing.T) {
		factoids := []*entities.Factoid{
			{ID: "F1", CreatedBy: "x", CreatedWhen: "2020",
				Person: &entities.Person{ID: "P1"}, Source: &entities.Source{ID: "S1"},
				Statements: []*entities.Statement{
					{ID: "St1", Date: &entities.Date{SortDate: "yesterday"}},
				}},
		}
		report := ValidateFactoids(factoids)
		require.Len(t, report.Problems, 1)
		assert.Contains(t, report.Problems[0].Message, "unparsable sortDate")
	})
}
