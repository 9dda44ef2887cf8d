package filters

import (
	"strconv"
	"strings"

	formstate "github.com/reoring/formstate"
)

// Segments groups the value into delimiter-separated chunks of size runes,
// so Segments(2, "/") turns "1029" into "10/29". Values shorter than one
// full segment pass through unchanged.
func Segments(size int, delim string) formstate.FormatFunc {
	return func(value string, _ *formstate.Form) string {
		if size <= 0 {
			return value
		}
		runes := []rune(value)
		if len(runes) <= size {
			return value
		}
		parts := make([]string, 0, len(runes)/size+1)
		for i := 0; i < len(runes); i += size {
			end := i + size
			if end > len(runes) {
				end = len(runes)
			}
			parts = append(parts, string(runes[i:end]))
		}
		return strings.Join(parts, delim)
	}
}

// FixedDecimal renders a numeric value with exactly places fraction digits,
// so FixedDecimal(2) turns "3" into "3.00". Non-numeric values pass through
// unchanged.
func FixedDecimal(places int) formstate.FormatFunc {
	return func(value string, _ *formstate.Form) string {
		if value == "" {
			return value
		}
		n, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return value
		}
		return strconv.FormatFloat(n, 'f', places, 64)
	}
}

// Thousands inserts a separator every three integer digits, leaving any
// fraction part untouched.
func Thousands(sep string) formstate.FormatFunc {
	return func(value string, _ *formstate.Form) string {
		neg := strings.HasPrefix(value, "-")
		s := strings.TrimPrefix(value, "-")
		intPart, fracPart, hasFrac := strings.Cut(s, ".")
		if len(intPart) > 3 && allDigits(intPart) {
			b := &strings.Builder{}
			lead := len(intPart) % 3
			if lead > 0 {
				b.WriteString(intPart[:lead])
			}
			for i := lead; i < len(intPart); i += 3 {
				if b.Len() > 0 {
					b.WriteString(sep)
				}
				b.WriteString(intPart[i : i+3])
			}
			intPart = b.String()
		}
		out := intPart
		if hasFrac {
			out += "." + fracPart
		}
		if neg {
			out = "-" + out
		}
		return out
	}
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
