package schema

import (
	"errors"
	"fmt"
)

var (
	errEmptySchema  = errors.New("schema has no fields")
	errUnnamedField = errors.New("schema field is missing a name")
)

// DuplicateFieldError reports two fields sharing the same name.
type DuplicateFieldError struct {
	Name string
}

func (e *DuplicateFieldError) Error() string {
	return fmt.Sprintf("duplicate schema field %q", e.Name)
}

// UnknownTypeError reports a field declaring an unrecognized type.
type UnknownTypeError struct {
	Field string
	Type  string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("field %q has unknown type %q", e.Field, e.Type)
}
