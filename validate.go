package formstate

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/reoring/formstate/i18n"
)

var (
	digitsPattern = regexp.MustCompile(`^[0-9]*$`)
	emailPattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// message resolves the user-facing text for an error kind: the per-field
// override wins, then the dictionary entry under dictKey.
func message(cfg FieldConfig, kind, dictKey string, data map[string]string) string {
	if m, ok := cfg.ErrorMessages[kind]; ok {
		return m
	}
	return i18n.T(dictKey, data)
}

// numberPattern builds the signed/decimal format regexp for a number field.
// Absent rules allow sign, decimal point, and unlimited fraction digits.
func numberPattern(rules *NumberRules) *regexp.Regexp {
	negative, decimal, maxFraction := true, true, 0
	if rules != nil {
		negative, decimal, maxFraction = rules.Negative, rules.Decimal, rules.MaxFraction
	}
	b := &strings.Builder{}
	b.WriteString("^")
	if negative {
		b.WriteString("-?")
	}
	b.WriteString("[0-9]*")
	if decimal {
		if maxFraction > 0 {
			b.WriteString(`(\.[0-9]{0,` + strconv.Itoa(maxFraction) + `})?`)
		} else {
			b.WriteString(`(\.[0-9]*)?`)
		}
	}
	b.WriteString("$")
	return regexp.MustCompile(b.String())
}

// typeError runs the type-level format validator. A failure here
// short-circuits the rest of the pass. Non-string raw values and empty
// strings are format-correct by definition (emptiness is required's
// concern).
func typeError(cfg FieldConfig, raw any) *FieldError {
	s, ok := raw.(string)
	if !ok || s == "" {
		return nil
	}
	invalid := func() *FieldError {
		return &FieldError{Type: KindInvalid, Message: message(cfg, KindInvalid, "invalid", nil)}
	}
	switch cfg.Type {
	case FieldTypeNumeric:
		if !digitsPattern.MatchString(s) {
			return invalid()
		}
	case FieldTypeNumber:
		if !numberPattern(cfg.Number).MatchString(s) {
			return invalid()
		}
	case FieldTypeEmail:
		if !emailPattern.MatchString(s) {
			return invalid()
		}
	}
	return nil
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// boundsError enforces min/max. Number fields bound the value; string-like
// fields bound the rune length. When min and max are both set and equal the
// failure collapses to a single "exactly N" minMax error.
func boundsError(cfg FieldConfig, clean any) *FieldError {
	if cfg.Min == nil && cfg.Max == nil {
		return nil
	}

	var measure float64
	var length bool
	switch cfg.Type {
	case FieldTypeNumber:
		f, ok := clean.(float64)
		if !ok {
			return nil
		}
		measure = f
	default:
		s, ok := clean.(string)
		if !ok {
			return nil
		}
		measure = float64(utf8.RuneCountInString(s))
		length = true
	}

	below := cfg.Min != nil && measure < *cfg.Min
	above := cfg.Max != nil && measure > *cfg.Max
	if !below && !above {
		return nil
	}

	if cfg.Min != nil && cfg.Max != nil {
		data := map[string]string{"min": formatBound(*cfg.Min), "max": formatBound(*cfg.Max)}
		key := "range"
		if *cfg.Min == *cfg.Max {
			key = "exact"
			data = map[string]string{"value": formatBound(*cfg.Min), "length": formatBound(*cfg.Min)}
			if length {
				key = "exactLength"
			}
		} else if length {
			key = "lengthRange"
		}
		return &FieldError{
			Type:    KindMinMax,
			Message: message(cfg, KindMinMax, key, data),
			Params:  map[string]any{"min": *cfg.Min, "max": *cfg.Max},
		}
	}
	if below {
		key := "min"
		if length {
			key = "minLength"
		}
		return &FieldError{
			Type:    KindMin,
			Message: message(cfg, KindMin, key, map[string]string{"min": formatBound(*cfg.Min)}),
			Params:  map[string]any{"min": *cfg.Min},
		}
	}
	key := "max"
	if length {
		key = "maxLength"
	}
	return &FieldError{
		Type:    KindMax,
		Message: message(cfg, KindMax, key, map[string]string{"max": formatBound(*cfg.Max)}),
		Params:  map[string]any{"max": *cfg.Max},
	}
}

// builtinErrors runs the built-in validator chain for a field: type-level
// format first (short-circuits), then required, then bounds. clean is the
// field's effective clean value (child values already folded for nested-form
// fields).
func builtinErrors(cfg FieldConfig, raw, clean any) FieldErrors {
	if fe := typeError(cfg, raw); fe != nil {
		return FieldErrors{*fe}
	}
	var errs FieldErrors
	if cfg.Required && isEmptyValue(clean) {
		errs = AppendErrors(errs, FieldError{
			Type:    KindRequired,
			Message: message(cfg, KindRequired, "required", nil),
		})
	}
	if !isEmptyValue(clean) {
		if fe := boundsError(cfg, clean); fe != nil {
			errs = AppendErrors(errs, *fe)
		}
	}
	return errs
}

// customErrors converts a custom validator outcome into field errors. Errors
// with an empty message receive the default text for their kind.
func customErrors(cfg FieldConfig, vc ValidateCtx, fn Validator, clean any) FieldErrors {
	err := fn(vc, clean)
	if err == nil {
		return nil
	}
	fe, ok := AsFieldErrors(err)
	if !ok {
		fe = FieldErrors{{Type: KindInvalid, Message: err.Error()}}
	}
	out := make(FieldErrors, 0, len(fe))
	for _, e := range fe {
		if e.Type == "" {
			e.Type = KindInvalid
		}
		if e.Message == "" {
			e.Message = message(cfg, e.Type, e.Type, nil)
		}
		out = append(out, e)
	}
	return out
}
