package schema

import (
	"errors"
	"strings"
)

// ErrUnresolvedSchema is matched by every *SchemaError.
var ErrUnresolvedSchema = errors.New("unresolved schema")

// SchemaError reports required column roles that no header matched.
type SchemaError struct {
	Missing []Role
}

func (e *SchemaError) Error() string {
	names := make([]string, len(e.Missing))
	for i, r := range e.Missing {
		names[i] = r.String()
	}
	return "unresolved schema: no column for " + strings.Join(names, ", ")
}

// Is lets errors.Is(err, ErrUnresolvedSchema) match.
func (e *SchemaError) Is(target error) bool {
	return target == ErrUnresolvedSchema
}
