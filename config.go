package formstate

// FieldConfig declares a field once, at creation time. Configs are immutable
// after the field is added; the only way to change one is RemoveField
// followed by AddField.
type FieldConfig struct {
	Type     FieldType
	Required bool
	// DefaultValue seeds the field and is what Reset restores. Form-level
	// defaults (FormOptions) take precedence when both are present.
	DefaultValue any

	// Min/Max are value bounds for FieldTypeNumber and length bounds for
	// string-like types. When both are set and equal, the failure collapses
	// to a single minMax "exactly N" error.
	Min *float64
	Max *float64

	// Number refines the built-in format validator for FieldTypeNumber.
	Number *NumberRules

	// Validate runs synchronously after the built-in validators pass.
	Validate Validator
	// ValidateAsync runs off the mutating call: the field reports
	// Validating=true immediately and the outcome lands as a separate later
	// update. A result superseded by a newer value change is discarded.
	ValidateAsync Validator

	Filter FilterFunc
	Format FormatFunc
	// FormatOnBlur defers the formatter to blur time instead of every
	// keystroke.
	FormatOnBlur bool
	// SubmitFormatted submits the formatted display value instead of the
	// clean value.
	SubmitFormatted bool

	// DependsOn names fields this field depends on; when any of them changes,
	// this field is cleared (value, raw value, errors). DependsFunc is the
	// predicate alternative; either form participates in transitive clearing.
	DependsOn   []string
	DependsFunc DependsFunc

	// Skip excludes the field from validation and submission while true.
	Skip SkipFunc

	// ErrorMessages overrides the default message per error kind.
	ErrorMessages map[string]string

	// OnChange fires after every transition of this field with the new
	// display value. It runs outside the state update and must not block.
	OnChange func(value any)
}

// dependsOn reports whether the config declares a dependency on name.
func (c FieldConfig) dependsOn(name string) bool {
	for _, d := range c.DependsOn {
		if d == name {
			return true
		}
	}
	if c.DependsFunc != nil {
		return c.DependsFunc(name)
	}
	return false
}
