package ports

import "errors"

// Error taxonomy crossing the connector boundary. Connectors wrap these with
// context via fmt.Errorf("...: %w", ...); callers test with errors.Is.
var (
	// ErrNotFound signals a lookup miss for operations that require the
	// target to exist (delete). Plain gets return nil instead.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateID signals a create collision on an already-used id.
	ErrDuplicateID = errors.New("duplicate id")

	// ErrReferentialIntegrity signals a delete blocked by a live reference,
	// distinct from a generic deletion failure.
	ErrReferentialIntegrity = errors.New("referential integrity violation")

	// ErrUnsupportedOperation signals a mutation on a read-only backend.
	ErrUnsupportedOperation = errors.New("unsupported operation")

	// ErrValidation signals malformed input, e.g. an unparsable filter date.
	ErrValidation = errors.New("invalid input")
)
