package templating

import (
	"errors"
	"fmt"
)

// repeat returns a slice of integers from 0 to count-1.
func repeat(count any) ([]int, error) {
	n, err := toInt(count)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return []int{}, nil
	}
	s := make([]int, n)
	for i := range s {
		s[i] = i
	}
	return s, nil
}

// list returns a slice containing all the arguments passed to it.
func list(args ...any) []any {
	return args
}

// dict builds a map from alternating keys and values, so several values can be
// handed to a partial: {{template "card.part.html" dict "Title" .Title "Icon" "⚡"}}.
func dict(pairs ...any) (map[string]any, error) {
	if len(pairs)%2 != 0 {
		return nil, errors.New("dict requires an even number of arguments")
	}
	m := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict key at position %d is %T, not string", i, pairs[i])
		}
		m[key] = pairs[i+1]
	}
	return m, nil
}

// defaultValue returns val, or fallback when val is its zero value.
// Arguments are ordered for pipelines: {{.Color | default "#16a34a"}}.
func defaultValue(fallback, val any) any {
	if isSet(val) {
		return val
	}
	return fallback
}
