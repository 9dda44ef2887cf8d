package formstate

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultOnChangeDelay is the debounce window for the form-level OnChange
// notification when FormOptions leaves it unset.
const DefaultOnChangeDelay = 200 * time.Millisecond

var errEmptyFieldName = errors.New("formstate: field name must not be empty")

// SubmitHandler receives the submit-safe values. A non-empty returned map is
// interpreted as field name -> error messages and applied as server-kind
// field errors.
type SubmitHandler func(ctx context.Context, values map[string]any) (map[string][]string, error)

// FormOptions configures a form instance.
type FormOptions struct {
	// OnChange receives the submit-safe values and error map after every
	// value-changing mutation, debounced by OnChangeDelay. It runs off the
	// mutating goroutine and must never block a state update.
	OnChange      func(values map[string]any, errs FormErrors)
	OnChangeDelay time.Duration

	// OnSubmit is the default submit handler when Submit is called with nil.
	OnSubmit SubmitHandler
	// ResetAfterSubmit restores defaults after a fully successful submit.
	ResetAfterSubmit bool

	// DefaultValues seeds fields by name and takes precedence over each
	// field's own DefaultValue.
	DefaultValues map[string]any
	// LoadDefaults fetches default values asynchronously at construction.
	// While pending, submission is blocked; a fetch error blocks submission
	// until a later successful SetValues.
	LoadDefaults func(ctx context.Context) (map[string]any, error)
}

// Form owns the field map exclusively. All mutations compute a next state
// under the form's lock and install it atomically; readers only ever see
// complete snapshots. Validators, the value pipeline, and child forms never
// touch the map directly.
type Form struct {
	id   string
	opts FormOptions

	mu       sync.Mutex
	cfg      map[string]FieldConfig
	fields   map[string]FieldState
	defaults map[string]any
	children map[string][]*ChildHandle

	dirty            bool
	submitted        bool
	submitting       bool
	defaultsFetching bool
	defaultsErred    bool

	debounce *time.Timer

	// set when this form is mounted as a child of a parent array field
	parent      *Form
	parentField string
	handleID    string
}

// New constructs a form from the given field configs. Field defaults apply
// immediately; FormOptions.LoadDefaults kicks off its fetch in the
// background.
func New(opts FormOptions, fields map[string]FieldConfig) (*Form, error) {
	f := &Form{
		id:       uuid.Must(uuid.NewV7()).String(),
		opts:     opts,
		cfg:      make(map[string]FieldConfig, len(fields)),
		fields:   make(map[string]FieldState, len(fields)),
		defaults: map[string]any{},
		children: map[string][]*ChildHandle{},
	}
	for k, v := range opts.DefaultValues {
		f.defaults[k] = v
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		if name == "" {
			return nil, errEmptyFieldName
		}
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		f.addFieldLocked(name, fields[name])
	}
	if opts.LoadDefaults != nil {
		f.defaultsFetching = true
		go f.fetchDefaults()
	}
	return f, nil
}

// ID returns the form's unique id.
func (f *Form) ID() string { return f.id }

// Fields returns a read-only snapshot of all field states.
func (f *Form) Fields() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

func (f *Form) snapshotLocked() Snapshot {
	snap := make(Snapshot, len(f.fields))
	for name, st := range f.fields {
		snap[name] = st
	}
	return snap
}

// IsDirty reports whether any non-pristine mutation happened since creation
// or the last reset.
func (f *Form) IsDirty() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dirty
}

// IsValid reports whether no field currently carries a blocking error.
func (f *Form) IsValid() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, st := range f.fields {
		if st.Errors.HasBlocking() {
			return false
		}
	}
	return true
}

// IsValidating reports whether any field has an async validator in flight.
func (f *Form) IsValidating() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.anyValidatingLocked()
}

func (f *Form) anyValidatingLocked() bool {
	for _, st := range f.fields {
		if st.Validating {
			return true
		}
	}
	return false
}

// IsSubmitting reports whether a submit handler's call is in flight.
func (f *Form) IsSubmitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitting
}

// IsSubmitted reports whether the last submit completed successfully.
func (f *Form) IsSubmitted() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitted
}

// IsDefaultsFetching reports whether the async defaults loader is pending.
func (f *Form) IsDefaultsFetching() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.defaultsFetching
}

// IsDefaultsErred reports whether the defaults loader failed and has not been
// superseded by a successful fetch or SetValues.
func (f *Form) IsDefaultsErred() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.defaultsErred
}

// SetFieldValue applies a new raw value to one field through the standard
// transition: filter, optional validation, dependent clearing, settle pass.
func (f *Form) SetFieldValue(name string, value any, opts ...SetOpts) error {
	opt := lastSetOpts(opts)
	f.mu.Lock()
	cbs, err := f.applyValueLocked(context.Background(), name, value, opt)
	f.mu.Unlock()
	runCallbacks(cbs)
	return err
}

// SetValues applies several values through the standard per-field transition,
// in field-name order. It also clears the defaults-erred flag, since an
// explicit value sync supersedes a failed fetch.
func (f *Form) SetValues(values map[string]any, opts ...SetOpts) error {
	opt := lastSetOpts(opts)
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	f.mu.Lock()
	f.defaultsErred = false
	var cbs []func()
	var firstErr error
	for _, name := range names {
		c, err := f.applyValueLocked(context.Background(), name, values[name], opt)
		if err != nil && firstErr == nil {
			firstErr = err
		}
		cbs = append(cbs, c...)
	}
	f.mu.Unlock()
	runCallbacks(cbs)
	return firstErr
}

// AddField registers a field dynamically, for conditionally-rendered inputs.
// Adding an already-present name is a no-op rather than an error.
func (f *Form) AddField(name string, cfg FieldConfig) error {
	if name == "" {
		return errEmptyFieldName
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.cfg[name]; exists {
		return nil
	}
	f.addFieldLocked(name, cfg)
	return nil
}

// RemoveField drops the field state and any cached default for the name.
func (f *Form) RemoveField(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.cfg, name)
	delete(f.fields, name)
	delete(f.defaults, name)
	delete(f.children, name)
}

func (f *Form) addFieldLocked(name string, cfg FieldConfig) {
	f.cfg[name] = cfg
	f.fields[name] = f.freshStateLocked(name, cfg, 0)
}

// freshStateLocked builds the initial (or reset) state for a field: defaults
// run through the pipeline with blur-time formatting, no errors, no
// validation.
func (f *Form) freshStateLocked(name string, cfg FieldConfig, gen uint64) FieldState {
	def := cfg.DefaultValue
	if v, ok := f.defaults[name]; ok {
		def = v
	}
	filtered, display := computeDisplayValue(def, cfg, f, true)
	return FieldState{
		Name:         name,
		RawValue:     filtered,
		Value:        display,
		CleanValue:   sanitizeByType(filtered, cfg.Type),
		DefaultValue: def,
		generation:   gen,
	}
}

// SetErrors maps server-reported errors onto fields as server-kind entries.
// Unknown field names are ignored.
func (f *Form) SetErrors(errs map[string][]string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for name, msgs := range errs {
		st, ok := f.fields[name]
		if !ok {
			continue
		}
		for _, m := range msgs {
			st.Errors = AppendErrors(st.Errors, FieldError{Type: KindServer, Message: m})
		}
		st.CleanValue = nil
		f.fields[name] = st
	}
}

// AddErrors attaches errors to a field directly, without validating.
func (f *Form) AddErrors(name string, errs ...FieldError) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	st, ok := f.fields[name]
	if !ok {
		return ErrUnknownField
	}
	st.Errors = AppendErrors(st.Errors, errs...)
	st.CleanValue = nil
	f.fields[name] = st
	return nil
}

// ClearErrors removes all errors from a field and restores its clean value.
func (f *Form) ClearErrors(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	st, ok := f.fields[name]
	if !ok {
		return ErrUnknownField
	}
	st.Errors = nil
	st.CleanValue = f.effectiveCleanLocked(name, f.cfg[name], st.RawValue)
	f.fields[name] = st
	return nil
}

// ResetValue restores a single field to its stored default and clears its
// errors.
func (f *Form) ResetValue(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cfg, ok := f.cfg[name]
	if !ok {
		return ErrUnknownField
	}
	gen := f.fields[name].generation + 1
	f.fields[name] = f.freshStateLocked(name, cfg, gen)
	return nil
}

// Reset restores every field to its default and returns the form to the idle
// state, from any state.
func (f *Form) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resetLocked()
}

func (f *Form) resetLocked() {
	for name, cfg := range f.cfg {
		gen := f.fields[name].generation + 1
		f.fields[name] = f.freshStateLocked(name, cfg, gen)
	}
	f.dirty = false
	f.submitted = false
}

// Validate runs the full validation pass: registered children of nested-form
// fields first, then built-in and sync validators, then the async fan-out,
// then the settle pass for any scheduled cross-validations. It reports
// whether no blocking error remained on the validated fields.
func (f *Form) Validate(ctx context.Context, opts ...ValidateOpts) (bool, error) {
	var opt ValidateOpts
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}

	f.mu.Lock()
	names := f.validationTargetsLocked(opt)
	var handles []*ChildHandle
	for _, name := range names {
		if f.cfg[name].Type == FieldTypeNestedForms {
			handles = append(handles, f.children[name]...)
		}
	}
	f.mu.Unlock()

	// Children complete regardless of each other's failures; any failure
	// folds into the aggregate result without cancelling siblings.
	childOK := true
	if len(handles) > 0 {
		group, gctx := errgroup.WithContext(ctx)
		var cmu sync.Mutex
		for _, h := range handles {
			h := h
			group.Go(func() error {
				ok, err := h.Validate(gctx)
				cmu.Lock()
				if err != nil || !ok {
					childOK = false
				}
				cmu.Unlock()
				return nil
			})
		}
		if err := group.Wait(); err != nil {
			return false, err
		}
	}

	// Sync pass under the lock; collect async jobs for fields that passed.
	type asyncJob struct {
		name  string
		gen   uint64
		clean any
		cfg   FieldConfig
		snap  Snapshot
	}
	var jobs []asyncJob
	f.mu.Lock()
	for _, name := range names {
		cfg := f.cfg[name]
		pending, clean := f.validateFieldLocked(ctx, name)
		if pending {
			st := f.fields[name]
			st.Validating = true
			f.fields[name] = st
			jobs = append(jobs, asyncJob{name: name, gen: st.generation, clean: clean, cfg: cfg, snap: f.snapshotLocked()})
		}
	}
	f.mu.Unlock()

	results := make(map[string]FieldErrors, len(jobs))
	if len(jobs) > 0 {
		group, gctx := errgroup.WithContext(ctx)
		var rmu sync.Mutex
		for _, jb := range jobs {
			jb := jb
			group.Go(func() error {
				vc := ValidateCtx{Ctx: gctx, Field: jb.name, Fields: jb.snap, schedule: f.requestValidation}
				errs := customErrors(jb.cfg, vc, jb.cfg.ValidateAsync, jb.clean)
				rmu.Lock()
				results[jb.name] = errs
				rmu.Unlock()
				return nil
			})
		}
		if err := group.Wait(); err != nil {
			return false, err
		}
	}

	f.mu.Lock()
	for _, jb := range jobs {
		st, ok := f.fields[jb.name]
		if !ok || st.generation != jb.gen {
			continue
		}
		st.Validating = false
		if errs := results[jb.name]; len(errs) > 0 {
			st.Errors = AppendErrors(st.Errors, errs...)
			st.CleanValue = nil
		}
		f.fields[jb.name] = st
	}
	ran := f.settleLocked(ctx)
	valid := childOK
	for _, name := range names {
		if f.fields[name].Errors.HasBlocking() {
			valid = false
		}
	}
	for name := range ran {
		if f.fields[name].Errors.HasBlocking() {
			valid = false
		}
	}
	f.mu.Unlock()
	return valid, nil
}

func (f *Form) validationTargetsLocked(opt ValidateOpts) []string {
	snap := f.snapshotLocked()
	var names []string
	for name, cfg := range f.cfg {
		if containsName(opt.Exclude, name) {
			continue
		}
		if len(opt.Target) > 0 && !containsName(opt.Target, name) {
			continue
		}
		if cfg.Skip != nil && cfg.Skip(snap) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Submit validates the whole form and, when it passes, hands the submit-safe
// values to the handler (or the configured default). A returned non-empty
// error map lands as server-kind field errors instead of a reset. The
// submitting flag is held for exactly the handler's flight time.
func (f *Form) Submit(ctx context.Context, handler SubmitHandler) error {
	f.mu.Lock()
	switch {
	case f.submitting:
		f.mu.Unlock()
		return ErrSubmitInFlight
	case f.defaultsFetching:
		f.mu.Unlock()
		return ErrDefaultsPending
	case f.defaultsErred:
		f.mu.Unlock()
		return ErrDefaultsFailed
	case f.anyValidatingLocked():
		f.mu.Unlock()
		return ErrValidationInFlight
	}
	f.submitting = true
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.submitting = false
		f.mu.Unlock()
	}()

	ok, err := f.Validate(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return f.Errors()
	}

	h := handler
	if h == nil {
		h = f.opts.OnSubmit
	}
	if h == nil {
		return ErrNoSubmitHandler
	}
	serverErrs, err := h(ctx, f.Values())
	if err != nil {
		return err
	}
	if len(serverErrs) > 0 {
		f.SetErrors(serverErrs)
		return nil
	}

	f.mu.Lock()
	f.submitted = true
	if f.opts.ResetAfterSubmit {
		f.resetLocked()
		f.submitted = true
	}
	f.mu.Unlock()
	return nil
}

// FieldProps returns the per-field binding bundle for the UI layer.
func (f *Form) FieldProps(name string) (Props, error) {
	f.mu.Lock()
	st, ok := f.fields[name]
	cfg := f.cfg[name]
	f.mu.Unlock()
	if !ok {
		return Props{}, ErrUnknownField
	}
	return Props{
		Name:        name,
		Value:       st.Value,
		Required:    cfg.Required,
		AriaInvalid: len(st.Errors) > 0,
		AriaBusy:    st.Validating,
		OnChange: func(v any) {
			f.mu.Lock()
			erred := len(f.fields[name].Errors) > 0
			f.mu.Unlock()
			_ = f.SetFieldValue(name, v, SetOpts{SkipValidation: !erred})
		},
		OnBlur: func() {
			f.mu.Lock()
			raw := f.fields[name].RawValue
			f.mu.Unlock()
			_ = f.SetFieldValue(name, raw, SetOpts{Blur: true})
		},
		OnFocus: func() {
			f.mu.Lock()
			if f.cfg[name].FormatOnBlur {
				cur := f.fields[name]
				cur.Value = cur.RawValue
				f.fields[name] = cur
			}
			f.mu.Unlock()
		},
	}, nil
}

// requestValidation is the schedule channel handed to async validators; it
// marks the field and leaves the actual run to the next settle pass.
func (f *Form) requestValidation(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	st, ok := f.fields[name]
	if !ok {
		return
	}
	st.scheduled = true
	f.fields[name] = st
}

// scheduleNotifyLocked debounces the form-level OnChange notification: a
// pending timer is always replaced, never stacked.
func (f *Form) scheduleNotifyLocked() {
	if f.opts.OnChange == nil {
		return
	}
	if f.debounce != nil {
		f.debounce.Stop()
	}
	d := f.opts.OnChangeDelay
	if d <= 0 {
		d = DefaultOnChangeDelay
	}
	f.debounce = time.AfterFunc(d, func() {
		f.opts.OnChange(f.Values(), f.Errors())
	})
}

func (f *Form) fetchDefaults() {
	vals, err := f.opts.LoadDefaults(context.Background())
	f.mu.Lock()
	f.defaultsFetching = false
	if err != nil {
		f.defaultsErred = true
		f.mu.Unlock()
		return
	}
	f.defaultsErred = false
	cbs := f.applyDefaultsLocked(vals)
	f.mu.Unlock()
	runCallbacks(cbs)
}

// applyDefaultsLocked caches fetched defaults (including names without a
// declared field yet, so a later AddField picks them up) and applies the
// declared ones as pristine, silent, unvalidated values.
func (f *Form) applyDefaultsLocked(vals map[string]any) []func() {
	names := make([]string, 0, len(vals))
	for name := range vals {
		names = append(names, name)
	}
	sort.Strings(names)
	var cbs []func()
	for _, name := range names {
		f.defaults[name] = vals[name]
		if _, ok := f.cfg[name]; !ok {
			continue
		}
		c, _ := f.applyValueLocked(context.Background(), name, vals[name], SetOpts{
			SkipValidation: true,
			KeepPristine:   true,
			Silent:         true,
		})
		st := f.fields[name]
		st.DefaultValue = vals[name]
		f.fields[name] = st
		cbs = append(cbs, c...)
	}
	return cbs
}

func lastSetOpts(opts []SetOpts) SetOpts {
	if len(opts) > 0 {
		return opts[len(opts)-1]
	}
	return SetOpts{}
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

func runCallbacks(cbs []func()) {
	for _, cb := range cbs {
		cb()
	}
}
