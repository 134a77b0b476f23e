package form

import (
	"fmt"
	"strconv"
	"strings"
)

// State maps a field key to its current raw value.
type State map[string]string

// Clone returns an independent copy.
func (s State) Clone() State {
	out := make(State, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Get returns the trimmed value of key.
func (s State) Get(key string) string {
	return strings.TrimSpace(s[key])
}

// Float parses key as a float64.
func (s State) Float(key string) (float64, error) {
	v, err := strconv.ParseFloat(s.Get(key), 64)
	if err != nil {
		return 0, fmt.Errorf("field %q: %w", key, err)
	}
	return v, nil
}

// Int parses the leading integer of key the way parseInt does: optional sign, then decimal
// digits up to the first other character. "2.9" gives 2 and "1e3" gives 1.
func (s State) Int(key string) (int, error) {
	raw := s.Get(key)
	end := 0
	if end < len(raw) && (raw[end] == '+' || raw[end] == '-') {
		end++
	}
	digits := end
	for end < len(raw) && raw[end] >= '0' && raw[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, fmt.Errorf("field %q: not an integer: %q", key, raw)
	}
	n, err := strconv.Atoi(raw[:end])
	if err != nil {
		return 0, fmt.Errorf("field %q: %w", key, err)
	}
	return n, nil
}

// Errors maps a field key to its validation message.
type Errors map[string]string

// OK reports whether the form is submittable.
func (e Errors) OK() bool {
	return len(e) == 0
}

// Apply copies submitted values for registered fields into state. Every field whose value
// changed has its error removed from errs; the other errors are left alone. Fixed fields keep
// their default. It returns the keys that changed.
func Apply(fields Fields, state State, errs Errors, submitted map[string]string) []string {
	var changed []string
	for _, f := range fields {
		if f.Fixed {
			state[f.Key] = f.Default
			continue
		}
		v, ok := submitted[f.Key]
		if !ok || state[f.Key] == v {
			continue
		}
		state[f.Key] = v
		delete(errs, f.Key)
		changed = append(changed, f.Key)
	}
	return changed
}
