package servicecall

import "fmt"

// Attributer lets a facade result expose named attributes for extraction
// without reflection.
type Attributer interface {
	Attribute(name string) (any, bool)
}

// Normalize collapses sequence-shaped call results to their first element.
// Upstream callers only ever want the first item of a list response, so the
// quirk lives here and nowhere else. An empty sequence normalizes to nil.
func Normalize(result any) any {
	if seq, ok := result.([]any); ok {
		if len(seq) == 0 {
			return nil
		}
		return seq[0]
	}
	return result
}

// Extract pulls a named attribute or mapping key out of a normalized result.
// With both selectors empty, the result is returned as-is; passing both at
// once is rejected. A selector that the result cannot satisfy is an error so
// a mistyped name never silently resolves to nil.
func Extract(result any, attribute, key string) (any, error) {
	switch {
	case attribute != "" && key != "":
		return nil, fmt.Errorf("servicecall: output_attribute and output_key are mutually exclusive")
	case attribute != "":
		return extractAttribute(result, attribute)
	case key != "":
		return extractKey(result, key)
	default:
		return result, nil
	}
}

func extractAttribute(result any, name string) (any, error) {
	a, ok := result.(Attributer)
	if !ok {
		// Map-shaped results treat attribute and key access the same way.
		return extractKey(result, name)
	}
	v, ok := a.Attribute(name)
	if !ok {
		return nil, fmt.Errorf("servicecall: result has no attribute %q", name)
	}
	return v, nil
}

func extractKey(result any, key string) (any, error) {
	m, ok := result.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("servicecall: result of type %T has no key %q", result, key)
	}
	v, ok := m[key]
	if !ok {
		return nil, fmt.Errorf("servicecall: result has no key %q", key)
	}
	return v, nil
}
