// Package mockdata produces a deterministic population of factoids for the
// mock backend and for seeding test databases. The same count and base url
// always yield byte-identical output, so conformance tests can compare
// backends against each other.
package mockdata

import (
	"fmt"
	"time"

	"github.com/ersonp/factoid-core/internal/domain/entities"
)

// DefaultCount is the population size used when no count is configured.
const DefaultCount = 100

// DefaultBaseURL prefixes generated derivedFrom references.
const DefaultBaseURL = "http://localhost:5000/api"

// Generator emits factoids numbered from 1. Statements carry a generator-wide
// running counter, so statement ids depend on how many factoids were emitted
// before them.
type Generator struct {
	baseURL          string
	statementCounter int
}

func NewGenerator(baseURL string) *Generator {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Generator{baseURL: baseURL}
}

// Factoids generates factoids 1..count. The statement counter is reset first,
// so repeated calls on the same generator are identical.
func (g *Generator) Factoids(count int) []*entities.Factoid {
	g.statementCounter = 0
	factoids := make([]*entities.Factoid, 0, count)
	for num := 1; num <= count; num++ {
		factoids = append(factoids, g.Factoid(num))
	}
	return factoids
}

// Factoid generates factoid number num with its person, source and
// statements. Most fields derive from num; modular cadences blank out
// metadata, labels and uris so the population exercises partial records.
func (g *Generator) Factoid(num int) *entities.Factoid {
	f := &entities.Factoid{
		ID:           fmt.Sprintf("F%05d", num),
		CreatedBy:    fmt.Sprintf("Creator %05d", num/50+1),
		CreatedWhen:  metaDate(num, false),
		ModifiedBy:   fmt.Sprintf("Modifier %05d", num/20+1),
		ModifiedWhen: metaDate(num, true),
		Person:       makePerson(num%75 + 1),
		Source:       makeSource(num%100 + 1),
	}
	for snum := 1; snum <= num%5+1; snum++ {
		g.statementCounter++
		f.Statements = append(f.Statements, g.makeStatement(num, snum))
	}
	if num > 10 && num%7 == 0 {
		f.DerivedFrom = fmt.Sprintf("%s/factoids/%d", g.baseURL, num/10+num%10)
	}
	if num%5 != 0 {
		f.ModifiedBy, f.ModifiedWhen = "", ""
	}
	return f
}

func makePerson(pnum int) *entities.Person {
	p := &entities.Person{
		ID:           fmt.Sprintf("P%05d", pnum),
		URIs:         makeURIs(pnum, "persons"),
		CreatedBy:    fmt.Sprintf("Creator %05d", pnum/75+1),
		CreatedWhen:  metaDate(pnum, false),
		ModifiedBy:   fmt.Sprintf("Modifier %05d", pnum/25+1),
		ModifiedWhen: metaDate(pnum, true),
	}
	if pnum%3 == 0 {
		p.ModifiedBy, p.ModifiedWhen = "", ""
	}
	if pnum%6 == 0 {
		p.CreatedBy, p.CreatedWhen = "", ""
	}
	return p
}

func makeSource(snum int) *entities.Source {
	s := &entities.Source{
		ID:           fmt.Sprintf("S%05d", snum),
		URIs:         makeURIs(snum, "sources"),
		Label:        fmt.Sprintf("Source %05d", snum),
		CreatedBy:    fmt.Sprintf("Creator %05d", snum/65+1),
		CreatedWhen:  metaDate(snum, false),
		ModifiedBy:   fmt.Sprintf("Modifier %05d", snum/35+1),
		ModifiedWhen: metaDate(snum, true),
	}
	if snum%3 == 0 {
		s.ModifiedBy, s.ModifiedWhen = "", ""
	}
	if snum%6 == 0 {
		s.CreatedBy, s.CreatedWhen = "", ""
	}
	if snum%5 == 0 {
		s.Label = ""
	}
	return s
}

// makeStatement builds statement snum of factoid fnum. The caller has
// already advanced the statement counter.
func (g *Generator) makeStatement(fnum, snum int) *entities.Statement {
	num := fnum + snum
	st := &entities.Statement{
		ID:           fmt.Sprintf("Stmt%05d", g.statementCounter),
		CreatedBy:    fmt.Sprintf("Creator %05d", fnum/50+1),
		CreatedWhen:  metaDate(fnum, false),
		ModifiedBy:   fmt.Sprintf("Modifier %05d", fnum/20+1),
		ModifiedWhen: metaDate(fnum, true),
		URIs:         makeURIs(g.statementCounter, "statements"),
		Name:         fmt.Sprintf("Statement %05d", g.statementCounter),
		Date: &entities.Date{
			SortDate: historicalDate(num),
			Label:    fmt.Sprintf("Historical Date %05d", (snum+g.statementCounter)%125+1),
		},
		MemberOf:         labeledURIRef(num, "groups", "Group", 125),
		Role:             labeledURIRef(num, "roles", "Role", 140),
		StatementType:    labeledURIRef(num, "statementtypes", "Statement type", 40),
		StatementContent: fmt.Sprintf("Statement content %05d", num),
		Places:           []entities.LabeledURI{},
		RelatesToPersons: []entities.LabeledURI{},
	}
	for i := 0; i < num%5; i++ {
		st.Places = append(st.Places, makeLabeledURI(num+i, "places", "Place", 755))
	}
	for i := 0; i < num%3; i++ {
		st.RelatesToPersons = append(st.RelatesToPersons, makeLabeledURI(num+i, "relatedpersons", "Related person", 300))
	}
	if num%2 == 0 {
		st.ModifiedBy, st.ModifiedWhen = "", ""
	}
	if num%4 == 0 {
		st.CreatedBy, st.CreatedWhen = "", ""
	}
	if num%5 == 0 {
		st.Name = ""
	}
	if num%7 == 0 {
		st.StatementContent = ""
	}
	return st
}

// metaDate returns an ISO timestamp num*3 minutes after 2003-02-15T00:00:00,
// doubled for modification dates.
func metaDate(num int, modified bool) string {
	d := time.Duration(num*3) * time.Minute
	if modified {
		d *= 2
	}
	start := time.Date(2003, 2, 15, 0, 0, 0, 0, time.UTC)
	return start.Add(d).Format("2006-01-02T15:04:05")
}

// makeURIs returns num%5 uris under the given path prefix.
func makeURIs(num int, prefix string) []string {
	const suffixes = "abcdefgh"
	n := num % 5
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, fmt.Sprintf("https://example.com/%s/%d%c", prefix, num, suffixes[i]))
	}
	return out
}

// historicalDate returns an ISO date scattered over three years from
// 1800-05-05. Every 20th is empty.
func historicalDate(num int) string {
	if num%20 == 0 {
		return ""
	}
	offset := ((num + 17) * 2343) % (365 * 3)
	base := time.Date(1800, 5, 5, 0, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, offset).Format("2006-01-02")
}

func makeLabeledURI(num int, uriPrefix, labelPrefix string, modulo int) entities.LabeledURI {
	l := entities.LabeledURI{
		URI:   fmt.Sprintf("https://example.com/%s/%05d", uriPrefix, num%modulo),
		Label: fmt.Sprintf("%s %05d", labelPrefix, num%125),
	}
	if num%3 == 0 {
		l.URI = ""
	}
	if num%5 == 0 {
		l.Label = ""
	}
	return l
}

func labeledURIRef(num int, uriPrefix, labelPrefix string, modulo int) *entities.LabeledURI {
	l := makeLabeledURI(num, uriPrefix, labelPrefix, modulo)
	return &l
}
