package normalize

import (
	"fmt"
	"strings"
)

// MalformedDocumentError reports a document whose shape violates the catalog:
// a mistyped scalar, a missing register number, or conflicting entry versions.
// Every violation found is listed so one fetch cycle surfaces them all.
type MalformedDocumentError struct {
	RegisterNumber string
	Violations     []string
}

func (e *MalformedDocumentError) Error() string {
	n := e.RegisterNumber
	if n == "" {
		n = "<unknown>"
	}
	return fmt.Sprintf("malformed document %s: %s", n, strings.Join(e.Violations, "; "))
}
