package formstate

import "strconv"

// computeDisplayValue runs the per-field value pipeline: filter, then the
// cosmetic formatter. Only string input is filtered; other shapes (bools,
// files, maps, slices) pass through untouched. The formatter is skipped for
// FormatOnBlur fields unless this is a blur-time application.
func computeDisplayValue(raw any, cfg FieldConfig, f *Form, blur bool) (filtered any, display any) {
	filtered = raw
	if s, ok := raw.(string); ok && cfg.Filter != nil {
		filtered = cfg.Filter(s, f)
	}
	display = filtered
	if s, ok := filtered.(string); ok && cfg.Format != nil {
		if !cfg.FormatOnBlur || blur {
			display = cfg.Format(s, f)
		}
	}
	return filtered, display
}

// sanitizeByType converts the filtered raw value into the clean value for the
// declared type. Only FieldTypeNumber converts; an empty numeric string
// sanitizes to nil. Every other type passes through unchanged.
func sanitizeByType(v any, t FieldType) any {
	if t != FieldTypeNumber {
		return v
	}
	switch n := v.(type) {
	case string:
		if n == "" || n == "-" {
			return nil
		}
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return nil
		}
		return f
	case float64:
		return n
	case int:
		return float64(n)
	case nil:
		return nil
	default:
		return v
	}
}

// isEmptyValue implements the required-check emptiness rule: nil, empty
// string, and empty slice are empty; everything else (including false and 0)
// is present.
func isEmptyValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case []map[string]any:
		return len(t) == 0
	}
	return false
}
