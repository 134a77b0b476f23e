package form

import (
	"fmt"
	"math"
	"strconv"
	"unicode/utf8"
)

const (
	MsgRequired      = "This field is required"
	MsgInvalidChoice = "Please select one of the listed options"
	MsgNotNumber     = "Please enter a number"
)

// LengthMessage is the error reported for a text longer than max characters.
func LengthMessage(max int) string {
	return fmt.Sprintf("Please use at most %d characters", max)
}

// RangeMessage is the error reported for a numeric value outside b.
func RangeMessage(b Bounds) string {
	if math.IsInf(b.Max, 1) {
		return fmt.Sprintf("Value must be at least %s", formatBound(b.Min))
	}
	return fmt.Sprintf("Value must be between %s and %s", formatBound(b.Min), formatBound(b.Max))
}

// Validate checks state against fields. An empty result means the form can be submitted.
func Validate(fields Fields, state State) Errors {
	errs := Errors{}
	for _, f := range fields {
		if msg := check(f, state.Get(f.Key)); msg != "" {
			errs[f.Key] = msg
		}
	}
	return errs
}

func check(f Field, v string) string {
	if v == "" {
		return MsgRequired
	}
	switch f.Kind {
	case Numeric:
		n, err := strconv.ParseFloat(v, 64)
		if f.Bounds == nil {
			if err != nil || math.IsNaN(n) {
				return MsgNotNumber
			}
			return ""
		}
		if err != nil || math.IsNaN(n) || n < f.Bounds.Min || n > f.Bounds.Max {
			return RangeMessage(*f.Bounds)
		}
	case Choice:
		if len(f.Options) > 0 && !f.HasOption(v) {
			return MsgInvalidChoice
		}
	case Text:
		if f.MaxLength > 0 && utf8.RuneCountInString(v) > f.MaxLength {
			return LengthMessage(f.MaxLength)
		}
	}
	return ""
}
