// Package form holds the declarative field registries that drive page rendering and validation,
// the mutable form state of one page instance, and the pure validator.
package form

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Kind is the control type of a field.
type Kind int

const (
	Numeric Kind = iota
	Choice
	Text
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Choice:
		return "choice"
	case Text:
		return "text"
	default:
		return "unknown"
	}
}

// Bounds is the inclusive numeric range of a field. Step only feeds the rendered control.
// A Max of +Inf leaves the range open above.
type Bounds struct {
	Min  float64
	Max  float64
	Step float64
}

// AtLeast returns bounds with only a lower limit.
func AtLeast(min float64) *Bounds {
	return &Bounds{Min: min, Max: math.Inf(1)}
}

// HasMax reports whether the range is closed above.
func (b Bounds) HasMax() bool {
	return !math.IsInf(b.Max, 1)
}

// Option is one selectable value of a choice field.
type Option struct {
	Value string
	Label string
}

// Field describes one form control.
type Field struct {
	Key     string
	Label   string
	Kind    Kind
	Bounds  *Bounds
	Options []Option
	Help    string
	Default string
	// Fixed fields are rendered read-only and always carry Default.
	Fixed bool
	// MaxLength caps text fields, counted in characters. Zero means no cap.
	MaxLength int
	// Rows renders a text field as a textarea of that height.
	Rows int
}

// Input returns the HTML input type used to render the field.
func (f Field) Input() string {
	if f.Kind == Numeric {
		return "number"
	}
	return "text"
}

// HasOption reports whether v is one of the declared options.
func (f Field) HasOption(v string) bool {
	for _, o := range f.Options {
		if o.Value == v {
			return true
		}
	}
	return false
}

// Fields is an ordered field registry.
type Fields []Field

// Lookup returns the field registered under key.
func (fs Fields) Lookup(key string) (Field, bool) {
	for _, f := range fs {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// Keys returns the registry keys in declaration order.
func (fs Fields) Keys() []string {
	keys := make([]string, 0, len(fs))
	for _, f := range fs {
		keys = append(keys, f.Key)
	}
	return keys
}

// Defaults builds a fresh State holding every field's default value.
func (fs Fields) Defaults() State {
	s := make(State, len(fs))
	for _, f := range fs {
		s[f.Key] = f.Default
	}
	return s
}

// WithOptions returns a copy of the registry where the choice field key offers opts.
// Used for option lists that come from the backend at mount time.
func (fs Fields) WithOptions(key string, opts []Option) Fields {
	out := make(Fields, len(fs))
	copy(out, fs)
	for i := range out {
		if out[i].Key == key {
			out[i].Options = opts
		}
	}
	return out
}

var titleCaser = cases.Title(language.English)

// LabelFromKey turns a snake_case feature key into a display label, "radius_mean" -> "Radius Mean".
func LabelFromKey(key string) string {
	return titleCaser.String(strings.ReplaceAll(key, "_", " "))
}

// Options builds options whose labels equal their values.
func Options(values ...string) []Option {
	opts := make([]Option, 0, len(values))
	for _, v := range values {
		opts = append(opts, Option{Value: v, Label: v})
	}
	return opts
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
