// Package filters provides ready-made input filters and formatters for form
// fields: digit stripping, bounded decimal input, length capping, and
// cosmetic display formatting.
package filters

import (
	"strings"

	formstate "github.com/reoring/formstate"
)

// NumbersOnly strips every non-digit character and leading zeros. A bare run
// of zeros collapses to a single "0".
func NumbersOnly() formstate.FilterFunc {
	return func(value string, _ *formstate.Form) string {
		b := &strings.Builder{}
		for _, r := range value {
			if r >= '0' && r <= '9' {
				b.WriteRune(r)
			}
		}
		return stripLeadingZeros(b.String())
	}
}

func stripLeadingZeros(s string) string {
	trimmed := strings.TrimLeft(s, "0")
	if trimmed == "" && s != "" {
		return "0"
	}
	return trimmed
}

// NumberOpts bounds what Number lets through.
type NumberOpts struct {
	// Negative permits a single leading minus sign.
	Negative bool
	// MaxLengthBeforeDecimal caps the integer digits; zero means unlimited.
	MaxLengthBeforeDecimal int
	// MaxLengthAfterDecimal caps the fraction digits; zero means unlimited.
	MaxLengthAfterDecimal int
}

// Number keeps the input a well-formed decimal as it is typed: digits, at
// most one decimal point, an optional single leading minus, and leading-zero
// stripping on the integer part. Digits beyond the configured caps are
// truncated, so "16245.235" with caps 3 and 2 becomes "162.23". A lone "-"
// is tolerated as an intermediate state.
func Number(opts NumberOpts) formstate.FilterFunc {
	return func(value string, _ *formstate.Form) string {
		neg := opts.Negative && strings.HasPrefix(value, "-")
		intPart := &strings.Builder{}
		fracPart := &strings.Builder{}
		inFrac := false
		for _, r := range value {
			switch {
			case r >= '0' && r <= '9':
				if inFrac {
					fracPart.WriteRune(r)
				} else {
					intPart.WriteRune(r)
				}
			case r == '.' && !inFrac:
				inFrac = true
			}
		}

		ip := stripLeadingZeros(intPart.String())
		if opts.MaxLengthBeforeDecimal > 0 && len(ip) > opts.MaxLengthBeforeDecimal {
			ip = ip[:opts.MaxLengthBeforeDecimal]
		}
		fp := fracPart.String()
		if opts.MaxLengthAfterDecimal > 0 && len(fp) > opts.MaxLengthAfterDecimal {
			fp = fp[:opts.MaxLengthAfterDecimal]
		}

		out := ip
		if inFrac {
			out += "." + fp
		}
		if neg {
			out = "-" + out
		}
		return out
	}
}

// MaxLength truncates the input to at most n runes.
func MaxLength(n int) formstate.FilterFunc {
	return func(value string, _ *formstate.Form) string {
		runes := []rune(value)
		if len(runes) <= n {
			return value
		}
		return string(runes[:n])
	}
}

// Compose chains filters left to right.
func Compose(fns ...formstate.FilterFunc) formstate.FilterFunc {
	return func(value string, f *formstate.Form) string {
		for _, fn := range fns {
			value = fn(value, f)
		}
		return value
	}
}
