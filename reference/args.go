package reference

import "fmt"

// Args are the named, resolver-specific parameters of a reference
// declaration. Accessors enforce presence and shape so resolvers fail with a
// MissingArgumentError naming the offending parameter instead of panicking on
// a nil lookup.
type Args map[string]any

// String returns a required string argument.
func (a Args) String(name string) (string, error) {
	v, ok := a[name]
	if !ok || v == nil {
		return "", &MissingArgumentError{Argument: name}
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("reference: argument %q must be a string, got %T", name, v)
	}
	return s, nil
}

// StringOpt returns an optional string argument, or "" when absent.
func (a Args) StringOpt(name string) (string, error) {
	v, ok := a[name]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("reference: argument %q must be a string, got %T", name, v)
	}
	return s, nil
}

// Map returns a required mapping argument.
func (a Args) Map(name string) (map[string]any, error) {
	v, ok := a[name]
	if !ok || v == nil {
		return nil, &MissingArgumentError{Argument: name}
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("reference: argument %q must be a mapping, got %T", name, v)
	}
	return m, nil
}
