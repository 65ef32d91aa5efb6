// Package services holds domain logic that works across connectors, like
// structural validation of factoid populations before import.
package services

import (
	"fmt"

	"github.com/ersonp/factoid-core/internal/domain/entities"
)

// Problem is one validation finding, tied to the factoid it was found in.
type Problem struct {
	FactoidID string
	Message   string
}

func (p Problem) String() string {
	if p.FactoidID == "" {
		return p.Message
	}
	return fmt.Sprintf("factoid %s: %s", p.FactoidID, p.Message)
}

// ValidationReport collects the findings over a whole population.
type ValidationReport struct {
	Factoids int
	Problems []Problem
}

// OK reports whether the population passed without findings.
func (r *ValidationReport) OK() bool {
	return len(r.Problems) == 0
}

// ValidateFactoids checks the structural rules of a factoid population:
// ids present and unique, the mandatory person/source/statement triple,
// required factoid metadata and parsable sort dates.
func ValidateFactoids(factoids []*entities.Factoid) *ValidationReport {
	report := &ValidationReport{Factoids: len(factoids)}
	seenFactoids := map[string]bool{}
	seenStatements := map[string]string{}

	for i, f := range factoids {
		if f.ID == "" {
			report.add("", "factoid #%d has no @id", i+1)
			continue
		}
		if seenFactoids[f.ID] {
			report.add(f.ID, "duplicate factoid @id")
			continue
		}
		seenFactoids[f.ID] = true

		if f.CreatedBy == "" || f.CreatedWhen == "" {
			report.add(f.ID, "createdBy and createdWhen are required")
		}
		if f.Person == nil {
			report.add(f.ID, "no person")
		} else if f.Person.ID == "" {
			report.add(f.ID, "person has no @id")
		}
		if f.Source == nil {
			report.add(f.ID, "no source")
		} else if f.Source.ID == "" {
			report.add(f.ID, "source has no @id")
		}
		if len(f.Statements) == 0 {
			report.add(f.ID, "no statements")
		}
		for _, st := range f.Statements {
			validateStatement(report, f.ID, st, seenStatements)
		}
	}
	return report
}

func validateStatement(report *ValidationReport, factoidID string, st *entities.Statement, seen map[string]string) {
	if st.ID == "" {
		report.add(factoidID, "statement has no @id")
		return
	}
	if owner, ok := seen[st.ID]; ok {
		report.add(factoidID, "statement %s already belongs to factoid %s", st.ID, owner)
		return
	}
	seen[st.ID] = factoidID

	if st.Date != nil && st.Date.SortDate != "" {
		if _, ok := entities.SortKey(st.Date.SortDate, true); !ok {
			report.add(factoidID, "statement %s has unparsable sortDate %q", st.ID, st.Date.SortDate)
		}
	}
}

func (r *ValidationReport) add(factoidID, format string, args ...any) {
	r.Problems = append(r.Problems, Problem{
		FactoidID: factoidID,
		Message:   fmt.Sprintf(format, args...),
	})
}
