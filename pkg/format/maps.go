package format

// Tolerant accessors for json-decoded maps. Controller responses vary
// between firmware versions, so every read falls back to a zero value
// rather than panicking on a missing or retyped field.

// Str returns m[key] as a string, or fallback.
func Str(m map[string]any, key, fallback string) string {
	if s, ok := m[key].(string); ok && s != "" {
		return s
	}
	return fallback
}

// Num returns m[key] as a float64, or 0.
func Num(m map[string]any, key string) float64 {
	f, _ := asFloat(m[key])
	return f
}

// NumAny returns the first present numeric value among keys, or 0.
// Used where the controller has renamed a metric across releases.
func NumAny(m map[string]any, keys ...string) float64 {
	for _, key := range keys {
		if v, ok := m[key]; ok {
			if f, ok := asFloat(v); ok {
				return f
			}
		}
	}
	return 0
}

// Bool returns m[key] as a bool, or false.
func Bool(m map[string]any, key string) bool {
	b, _ := m[key].(bool)
	return b
}

// Map returns m[key] as a nested map, or nil.
func Map(m map[string]any, key string) map[string]any {
	nested, _ := m[key].(map[string]any)
	return nested
}

// List returns m[key] as a slice, or nil.
func List(m map[string]any, key string) []any {
	l, _ := m[key].([]any)
	return l
}

// AsObject narrows a list element to a map, or nil.
func AsObject(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}
