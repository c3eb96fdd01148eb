package persist

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// ConflictError reports a constraint violation while writing a document:
// a foreign key or unique index rejected a row. These are document failures,
// not infrastructure failures, and are not retried.
type ConflictError struct {
	Table string
	Err   error
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("constraint conflict on %s: %v", e.Table, e.Err)
}

func (e *ConflictError) Unwrap() error { return e.Err }

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// classify wraps constraint violations in ConflictError, leaving other
// database errors untouched.
func classify(table string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pqUniqueViolation, pqForeignKeyViolation:
			return &ConflictError{Table: table, Err: err}
		}
	}
	return err
}
