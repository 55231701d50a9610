package reference

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Errors reported by the registry and the built-in resolvers.
var (
	// ErrUnknownType is returned when a declaration names a resolver that
	// was never registered.
	ErrUnknownType = errors.New("reference: unknown reference type")
	// ErrDuplicateName is returned when a resolver name is registered twice.
	ErrDuplicateName = errors.New("reference: duplicate resolver name")
)

// MissingArgumentError reports a declaration lacking an argument its resolver
// requires.
type MissingArgumentError struct {
	Argument string
}

func (e *MissingArgumentError) Error() string {
	return fmt.Sprintf("reference: missing required argument %q", e.Argument)
}

// ResolutionError wraps a resolver failure with the identity of the failing
// declaration so deployment logs pinpoint which reference broke.
type ResolutionError struct {
	Type string
	Args map[string]any
	Err  error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("reference: resolve %s (%s): %v", e.Type, formatArgs(e.Args), e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// NotFoundError reports a stack resource or output lookup that came back
// empty, carrying everything actually present for diagnosability.
type NotFoundError struct {
	Kind      string // "resource" or "output"
	Name      string
	StackName string
	Available []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("reference: %s %q does not exist in stack %s (available: %s)",
		e.Kind, e.Name, e.StackName, strings.Join(e.Available, ", "))
}

func formatArgs(args map[string]any) string {
	if len(args) == 0 {
		return "no args"
	}
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, args[k]))
	}
	return strings.Join(parts, " ")
}
