package formstate

// Builder assembles a form fluently. Field returns a step scoped to the field
// just declared; step methods mutate that field's config and every step can
// declare the next field or finish the build.
type Builder struct {
	opts   FormOptions
	fields map[string]FieldConfig
}

// FieldStep scopes builder calls to one declared field.
type FieldStep struct {
	b    *Builder
	name string
}

// NewForm creates an empty form builder.
func NewForm() *Builder {
	return &Builder{fields: map[string]FieldConfig{}}
}

// Options sets the form-level options.
func (b *Builder) Options(opts FormOptions) *Builder {
	b.opts = opts
	return b
}

// Field declares a field with its full config.
func (b *Builder) Field(name string, cfg FieldConfig) *FieldStep {
	b.fields[name] = cfg
	return &FieldStep{b: b, name: name}
}

// Require marks one or more already-declared fields as required.
func (b *Builder) Require(names ...string) *Builder {
	for _, n := range names {
		cfg := b.fields[n]
		cfg.Required = true
		b.fields[n] = cfg
	}
	return b
}

// Build constructs the form.
func (b *Builder) Build() (*Form, error) {
	return New(b.opts, b.fields)
}

// MustBuild constructs the form and panics on error. Intended for static
// form definitions.
func (b *Builder) MustBuild() *Form {
	f, err := b.Build()
	if err != nil {
		panic(err)
	}
	return f
}

func (s *FieldStep) update(fn func(cfg *FieldConfig)) *FieldStep {
	cfg := s.b.fields[s.name]
	fn(&cfg)
	s.b.fields[s.name] = cfg
	return s
}

// Required marks the field as required.
func (s *FieldStep) Required() *FieldStep {
	return s.update(func(cfg *FieldConfig) { cfg.Required = true })
}

// Default sets the field's default value.
func (s *FieldStep) Default(v any) *FieldStep {
	return s.update(func(cfg *FieldConfig) { cfg.DefaultValue = v })
}

// Min sets the lower bound (value for number fields, length otherwise).
func (s *FieldStep) Min(v float64) *FieldStep {
	return s.update(func(cfg *FieldConfig) { cfg.Min = Bound(v) })
}

// Max sets the upper bound (value for number fields, length otherwise).
func (s *FieldStep) Max(v float64) *FieldStep {
	return s.update(func(cfg *FieldConfig) { cfg.Max = Bound(v) })
}

// Validate sets the sync validator.
func (s *FieldStep) Validate(fn Validator) *FieldStep {
	return s.update(func(cfg *FieldConfig) { cfg.Validate = fn })
}

// ValidateAsync sets the async validator.
func (s *FieldStep) ValidateAsync(fn Validator) *FieldStep {
	return s.update(func(cfg *FieldConfig) { cfg.ValidateAsync = fn })
}

// Filter sets the input filter.
func (s *FieldStep) Filter(fn FilterFunc) *FieldStep {
	return s.update(func(cfg *FieldConfig) { cfg.Filter = fn })
}

// Format sets the cosmetic formatter. onBlur defers formatting to blur time.
func (s *FieldStep) Format(fn FormatFunc, onBlur bool) *FieldStep {
	return s.update(func(cfg *FieldConfig) {
		cfg.Format = fn
		cfg.FormatOnBlur = onBlur
	})
}

// DependsOn clears this field whenever any of the named fields changes.
func (s *FieldStep) DependsOn(names ...string) *FieldStep {
	return s.update(func(cfg *FieldConfig) { cfg.DependsOn = append(cfg.DependsOn, names...) })
}

// Skip omits the field from validation and submission while fn returns true.
func (s *FieldStep) Skip(fn SkipFunc) *FieldStep {
	return s.update(func(cfg *FieldConfig) { cfg.Skip = fn })
}

// Messages overrides the default error messages by kind.
func (s *FieldStep) Messages(m map[string]string) *FieldStep {
	return s.update(func(cfg *FieldConfig) { cfg.ErrorMessages = m })
}

// Field declares the next field.
func (s *FieldStep) Field(name string, cfg FieldConfig) *FieldStep { return s.b.Field(name, cfg) }

// Build constructs the form.
func (s *FieldStep) Build() (*Form, error) { return s.b.Build() }

// MustBuild constructs the form and panics on error.
func (s *FieldStep) MustBuild() *Form { return s.b.MustBuild() }
