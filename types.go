package formstate

import "context"

// FieldType discriminates the field shapes the engine understands. Validators
// and the state machine switch on this tag exhaustively; there is no
// structural probing of configs.
type FieldType string

const (
	FieldTypeString      FieldType = "string"
	FieldTypeNumeric     FieldType = "numeric" // digit-only string (e.g. card number)
	FieldTypeNumber      FieldType = "number"  // sanitized to float64
	FieldTypeEmail       FieldType = "email"
	FieldTypeCheckbox    FieldType = "checkbox"
	FieldTypeRadio       FieldType = "radio"
	FieldTypeFile        FieldType = "file"
	FieldTypeObject      FieldType = "object"
	FieldTypeNestedForms FieldType = "nestedForms"
)

// NumberRules configures the signed/decimal number pattern used by the
// built-in format validator for FieldTypeNumber.
type NumberRules struct {
	Negative    bool // allow a leading minus
	Decimal     bool // allow a fractional part
	MaxFraction int  // cap on fraction digits; 0 means unlimited
}

// FilterFunc strips or normalizes raw input before any other processing.
// It must be idempotent: applying it to its own output is a fixed point.
type FilterFunc func(value string, form *Form) string

// FormatFunc applies a cosmetic transform after filtering, for display only.
// Formatted output is never fed back through the filter.
type FormatFunc func(value string, form *Form) string

// SkipFunc excludes a field from validation and submission while it returns
// true under the current snapshot.
type SkipFunc func(fields Snapshot) bool

// DependsFunc is the predicate form of DependsOn: it reports whether the
// field depends on the named field.
type DependsFunc func(name string) bool

// ValidateCtx is handed to custom validators. Fields is a read-only snapshot
// taken at validation time; ScheduleValidation requests that another field be
// re-validated before the current settle pass ends.
type ValidateCtx struct {
	Ctx    context.Context
	Field  string
	Fields Snapshot

	schedule func(name string)
}

// ScheduleValidation marks the named field for re-validation within the
// current settle pass. Calling it with an undeclared name is a no-op.
func (c ValidateCtx) ScheduleValidation(name string) {
	if c.schedule != nil {
		c.schedule(name)
	}
}

// Validator checks a clean value. A nil return means valid; a FieldErrors
// return attaches those errors verbatim; any other non-nil error is
// downgraded to a single invalid-kind error carrying the error's message.
type Validator func(c ValidateCtx, value any) error

// SetOpts tunes a single value application. The zero value validates,
// marks the form dirty, and schedules the debounced change notification.
type SetOpts struct {
	SkipValidation bool
	// KeepPristine suppresses the dirty flag, used for defaults and external
	// value sync.
	KeepPristine bool
	// Silent suppresses the debounced OnChange notification.
	Silent bool
	// Blur marks a blur-time application so FormatOnBlur formatters run.
	Blur bool
}

// ValidateOpts narrows a whole-form validation pass. Leaving both lists empty
// validates every field.
type ValidateOpts struct {
	Target  []string
	Exclude []string
}

// Bound is a convenience for FieldConfig.Min/Max literals.
func Bound(v float64) *float64 { return &v }
