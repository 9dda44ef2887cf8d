package formstate

// FieldState is the immutable per-field record. Every transition installs a
// fresh copy; nothing mutates a published state in place.
//
// Invariant: CleanValue != nil exactly when Errors is empty (for fields whose
// raw value is itself empty, both are nil/empty and the invariant holds with
// CleanValue nil).
type FieldState struct {
	Name string
	// RawValue is the post-filter, pre-format value.
	RawValue any
	// CleanValue is the type-sanitized value eligible for submission. It is
	// nil whenever the field has errors.
	CleanValue any
	// Value is the post-format display value.
	Value        any
	DefaultValue any
	Errors       FieldErrors
	// Validating is true while an async validator is in flight for this
	// field.
	Validating bool

	// scheduled is set when another field's validator requested a
	// re-validation of this field within the current settle pass.
	scheduled bool
	// generation discards stale async validator results: a completion whose
	// generation no longer matches the field's is dropped.
	generation uint64
}

// Valid reports whether the field has no blocking errors.
func (fs FieldState) Valid() bool { return !fs.Errors.HasBlocking() }

// Snapshot is a read-only copy of the field map, safe to hand to validators
// and skip predicates. Mutating a snapshot has no effect on the form.
type Snapshot map[string]FieldState

// CleanValue returns the named field's clean value, or nil when the field is
// absent or erred.
func (s Snapshot) CleanValue(name string) any {
	return s[name].CleanValue
}

// Props is the per-field binding bundle the UI layer wires to input events.
// The engine never renders; it only produces this data and these closures.
type Props struct {
	Name        string
	Value       any
	Required    bool
	AriaInvalid bool
	AriaBusy    bool
	// OnChange applies a new raw value. It validates eagerly only when the
	// field already has errors, so errors clear as the user types but fresh
	// validation waits for blur.
	OnChange func(value any)
	// OnBlur runs deferred formatting and a full validation pass.
	OnBlur func()
	// OnFocus restores the unformatted raw value for editing when the field
	// formats on blur.
	OnFocus func()
}
