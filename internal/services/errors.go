package services

import (
	"fmt"
	"strings"
)

// ValidationError reports a client-correctable problem with a single
// field of a payload. Reason is a stable, human-readable message.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ValidationErrors collects every field failure found in one payload.
// Field-level rules are all evaluated before returning so the caller
// learns about each bad field at once.
type ValidationErrors []*ValidationError

func (e ValidationErrors) Error() string {
	reasons := make([]string, 0, len(e))
	for _, ve := range e {
		reasons = append(reasons, ve.Error())
	}
	return "validation failed: " + strings.Join(reasons, "; ")
}

// Fields renders the collection as a field → reason map for responses.
func (e ValidationErrors) Fields() map[string]string {
	fields := make(map[string]string, len(e))
	for _, ve := range e {
		if _, ok := fields[ve.Field]; !ok {
			fields[ve.Field] = ve.Reason
		}
	}
	return fields
}

func (e ValidationErrors) orNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}
