package formstate

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Error kinds (exported consts for IDE completion and type safety by convention)
const (
	KindRequired = "required"
	KindMin      = "min"
	KindMax      = "max"
	KindMinMax   = "minMax"
	KindInvalid  = "invalid"
	// KindServer marks errors reported by a submit handler. They are shown to
	// the user but do not block the next submit attempt.
	KindServer = "server"
)

// Contract-violation sentinels. These indicate caller misuse, not user input
// problems, and are returned synchronously instead of being folded into field
// errors.
var (
	ErrUnknownField       = errors.New("formstate: field is not declared on this form")
	ErrNotArrayField      = errors.New("formstate: field does not hold nested forms")
	ErrChildIndexRequired = errors.New("formstate: child form against a non-empty default array requires an explicit index")
	ErrSubmitInFlight     = errors.New("formstate: submit already in progress")
	ErrValidationInFlight = errors.New("formstate: a field is still validating")
	ErrDefaultsPending    = errors.New("formstate: default values are still being fetched")
	ErrDefaultsFailed     = errors.New("formstate: default values fetch failed")
	ErrNoSubmitHandler    = errors.New("formstate: no submit handler supplied or configured")
)

// FieldError represents a single validation entry attached to a field.
type FieldError struct {
	Type    string // One of the kinds listed above.
	Message string
	// Params carries structured parameters (e.g., {"min":1, "max":10}) for
	// message templating and observability.
	Params map[string]any
}

// FieldErrors is a collection of validation errors that implements error.
type FieldErrors []FieldError

// Error summarizes the first few errors.
func (fe FieldErrors) Error() string {
	if len(fe) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	lim := len(fe)
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(b, "%s: %s", fe[i].Type, fe[i].Message)
	}
	if len(fe) > lim {
		fmt.Fprintf(b, "; ... (total %d)", len(fe))
	}
	return b.String()
}

// HasBlocking reports whether any error would gate submission. Server-kind
// errors are excluded so a handler-reported failure never permanently blocks
// resubmission.
func (fe FieldErrors) HasBlocking() bool {
	for _, e := range fe {
		if e.Type != KindServer {
			return true
		}
	}
	return false
}

// AppendErrors appends errors to the destination, initializing the slice when
// needed.
func AppendErrors(dst FieldErrors, more ...FieldError) FieldErrors {
	if dst == nil {
		dst = FieldErrors{}
	}
	return append(dst, more...)
}

// AsFieldErrors extracts FieldErrors from an error using errors.As internally.
func AsFieldErrors(err error) (FieldErrors, bool) {
	if err == nil {
		return nil, false
	}
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// FormErrors maps field names to their current errors. Only erred fields have
// entries. It implements error so a failed submit can surface the full map.
type FormErrors map[string]FieldErrors

func (fe FormErrors) Error() string {
	if len(fe) == 0 {
		return ""
	}
	names := make([]string, 0, len(fe))
	for n := range fe {
		names = append(names, n)
	}
	sort.Strings(names)
	b := &strings.Builder{}
	for i, n := range names {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(b, "%s: %s", n, fe[n].Error())
	}
	return b.String()
}

// HasBlocking reports whether any field carries a blocking error.
func (fe FormErrors) HasBlocking() bool {
	for _, errs := range fe {
		if errs.HasBlocking() {
			return true
		}
	}
	return false
}

// AsFormErrors extracts FormErrors from an error using errors.As internally.
func AsFormErrors(err error) (FormErrors, bool) {
	if err == nil {
		return nil, false
	}
	var fe FormErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
