// Package jsonfile implements the read-only JSON snapshot backend. The
// snapshot is parsed once at open time, repaired and indexed in memory;
// queries are then served exactly like the mock backend serves its
// generated population.
package jsonfile

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/ersonp/factoid-core/internal/domain/entities"
	"github.com/ersonp/factoid-core/internal/domain/ports"
)

var (
	// reLooseDate matches a plain date with 1-2 digit month/day parts.
	reLooseDate = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	// reTimestamp matches a date followed by a time part.
	reTimestamp = regexp.MustCompile(`^\d{4}-\d{1,2}-\d{1,2}[T ]`)
)

// snapshot is the accepted root shape when the file is not a bare list.
type snapshot struct {
	Factoids []*entities.Factoid `json:"factoids"`
}

// ReadFile parses a snapshot file and repairs the metadata of every factoid.
// The root may be a list of factoids or an object with a "factoids" property.
func ReadFile(path, contact string) ([]*entities.Factoid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	factoids, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("parsing snapshot %s: %w", path, err)
	}
	today := time.Now().Format("2006-01-02")
	for _, f := range factoids {
		if err := RepairMetadata(f, contact, today); err != nil {
			return nil, fmt.Errorf("factoid %q: %w", f.ID, err)
		}
	}
	return factoids, nil
}

// Decode unmarshals the snapshot body.
func Decode(data []byte) ([]*entities.Factoid, error) {
	var factoids []*entities.Factoid
	if err := json.Unmarshal(data, &factoids); err == nil {
		return factoids, nil
	}
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	if snap.Factoids == nil {
		return nil, fmt.Errorf("no factoid list found at the root")
	}
	return snap.Factoids, nil
}

// RepairMetadata backfills missing creation and modification metadata so the
// served data looks like it went through the normal creation flow. The
// factoid inherits from the configured contact and today's date; its person,
// source and statements inherit from the factoid.
func RepairMetadata(f *entities.Factoid, contact, today string) error {
	var err error
	if f.CreatedWhen, err = repairDate(f.CreatedWhen, today); err != nil {
		return err
	}
	if f.ModifiedWhen, err = repairDate(f.ModifiedWhen, f.CreatedWhen); err != nil {
		return err
	}
	if f.CreatedBy == "" {
		f.CreatedBy = contact
	}
	if f.ModifiedBy == "" {
		f.ModifiedBy = f.CreatedBy
	}

	if f.Person != nil {
		if err := repairOwned(&f.Person.CreatedBy, &f.Person.CreatedWhen,
			&f.Person.ModifiedBy, &f.Person.ModifiedWhen, f); err != nil {
			return fmt.Errorf("person %q: %w", f.Person.ID, err)
		}
	}
	if f.Source != nil {
		if err := repairOwned(&f.Source.CreatedBy, &f.Source.CreatedWhen,
			&f.Source.ModifiedBy, &f.Source.ModifiedWhen, f); err != nil {
			return fmt.Errorf("source %q: %w", f.Source.ID, err)
		}
	}
	for _, st := range f.Statements {
		if err := repairOwned(&st.CreatedBy, &st.CreatedWhen,
			&st.ModifiedBy, &st.ModifiedWhen, f); err != nil {
			return fmt.Errorf("statement %q: %w", st.ID, err)
		}
	}
	return nil
}

func repairOwned(createdBy, createdWhen, modifiedBy, modifiedWhen *string, f *entities.Factoid) error {
	if *createdWhen == "" {
		*createdWhen = f.CreatedWhen
	}
	if *createdBy == "" {
		*createdBy = f.CreatedBy
	}
	var err error
	if *createdWhen, err = repairDate(*createdWhen, f.CreatedWhen); err != nil {
		return err
	}
	if *modifiedBy == "" {
		*modifiedBy = *createdBy
	}
	if *modifiedWhen == "" {
		*modifiedWhen = *createdWhen
	}
	return nil
}

// repairDate fills an empty date with the fallback and zero-pads loose
// yyyy-m-d dates. Full timestamps pass through unchanged; anything else is
// an error wrapping ports.ErrValidation.
func repairDate(s, fallback string) (string, error) {
	if s == "" {
		return fallback, nil
	}
	if m := reLooseDate.FindStringSubmatch(s); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		return fmt.Sprintf("%04d-%02d-%02d", year, month, day), nil
	}
	if reTimestamp.MatchString(s) {
		return s, nil
	}
	return "", fmt.Errorf("%w: %q is not a valid date", ports.ErrValidation, s)
}
