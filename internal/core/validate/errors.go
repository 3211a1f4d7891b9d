package validate

import (
	"errors"
	"strings"
)

// ErrValidation matches every *ValidationError.
var ErrValidation = errors.New("environment validation failed")

// ValidationError is the aggregate failure returned by RequireValid.
type ValidationError struct {
	Errors      []string
	MissingKeys []string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString(ErrValidation.Error())
	if len(e.Errors) > 0 {
		b.WriteString(": ")
		b.WriteString(strings.Join(e.Errors, "; "))
	}
	if len(e.MissingKeys) > 0 {
		b.WriteString(". missing required variables: ")
		b.WriteString(strings.Join(e.MissingKeys, ", "))
	}
	return b.String()
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
