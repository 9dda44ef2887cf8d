package formstate

import "context"

// applyValueLocked is the single write path for field values. Every mutation,
// whether from a UI event, a values sync, or a defaults fetch, funnels through
// here so the transition rules apply uniformly: dependent clearing, the value
// pipeline, validation, and the settle pass. The returned callbacks
// (per-field OnChange notifications) must run after the lock is released.
func (f *Form) applyValueLocked(ctx context.Context, name string, raw any, opt SetOpts) ([]func(), error) {
	cfg, ok := f.cfg[name]
	if !ok {
		return nil, ErrUnknownField
	}
	st := f.fields[name]
	st.generation++
	st.Validating = false

	if !opt.SkipValidation {
		visited := map[string]bool{name: true}
		f.clearDependentsLocked(name, visited)
	}

	filtered, display := computeDisplayValue(raw, cfg, f, opt.Blur)
	st.RawValue = filtered
	st.Value = display
	f.fields[name] = st

	clean := f.effectiveCleanLocked(name, cfg, filtered)
	if opt.SkipValidation {
		st.Errors = nil
		st.CleanValue = clean
		f.fields[name] = st
	} else {
		errs := builtinErrors(cfg, filtered, clean)
		if len(errs) == 0 && cfg.Validate != nil {
			errs = customErrors(cfg, f.validateCtxLocked(ctx, name), cfg.Validate, clean)
		}
		if len(errs) > 0 {
			st.Errors = errs
			st.CleanValue = nil
			f.fields[name] = st
		} else {
			st.Errors = nil
			st.CleanValue = clean
			f.fields[name] = st
			if cfg.ValidateAsync != nil {
				f.launchAsyncLocked(ctx, name, clean)
			}
		}
	}

	f.settleLocked(ctx)

	if !opt.KeepPristine {
		f.dirty = true
	}
	if !opt.Silent {
		f.scheduleNotifyLocked()
	}

	var cbs []func()
	if cfg.OnChange != nil {
		value := f.fields[name].Value
		notify := cfg.OnChange
		cbs = append(cbs, func() { notify(value) })
	}
	return cbs, nil
}

// clearDependentsLocked wipes every field that declares a dependency on
// origin, transitively. The visited set guards against dependency cycles;
// each field clears at most once per transition.
func (f *Form) clearDependentsLocked(origin string, visited map[string]bool) {
	for name, cfg := range f.cfg {
		if visited[name] || !cfg.dependsOn(origin) {
			continue
		}
		visited[name] = true
		st := f.fields[name]
		st.generation++
		st.RawValue = nil
		st.Value = nil
		st.CleanValue = nil
		st.Errors = nil
		st.Validating = false
		st.scheduled = false
		f.fields[name] = st
		f.clearDependentsLocked(name, visited)
	}
}

// settleLocked drains the consequences of a transition until the field map is
// stable: skip-activated fields lose their errors, and validations scheduled
// by validators run. Each field validates at most once per pass, so mutually
// scheduling validator pairs terminate. Returns the set of fields that were
// re-validated.
func (f *Form) settleLocked(ctx context.Context) map[string]bool {
	snap := f.snapshotLocked()
	for name, cfg := range f.cfg {
		if cfg.Skip == nil || !cfg.Skip(snap) {
			continue
		}
		st := f.fields[name]
		if len(st.Errors) == 0 {
			continue
		}
		st.Errors = nil
		st.CleanValue = f.effectiveCleanLocked(name, cfg, st.RawValue)
		f.fields[name] = st
	}

	ran := map[string]bool{}
	for {
		progressed := false
		for name, st := range f.fields {
			if !st.scheduled {
				continue
			}
			st.scheduled = false
			f.fields[name] = st
			if ran[name] {
				continue
			}
			ran[name] = true
			progressed = true
			if pending, clean := f.validateFieldLocked(ctx, name); pending {
				f.launchAsyncLocked(ctx, name, clean)
			}
		}
		if !progressed {
			break
		}
	}
	return ran
}

// validateFieldLocked re-runs the built-in chain and the sync validator for a
// field from its current raw value. When the field passes and has an async
// validator, it reports pending=true and leaves the launch to the caller.
func (f *Form) validateFieldLocked(ctx context.Context, name string) (pending bool, clean any) {
	cfg := f.cfg[name]
	st := f.fields[name]
	clean = f.effectiveCleanLocked(name, cfg, st.RawValue)
	errs := builtinErrors(cfg, st.RawValue, clean)
	if len(errs) == 0 && cfg.Validate != nil {
		errs = customErrors(cfg, f.validateCtxLocked(ctx, name), cfg.Validate, clean)
	}
	if len(errs) > 0 {
		st.Errors = errs
		st.CleanValue = nil
		f.fields[name] = st
		return false, clean
	}
	st.Errors = nil
	st.CleanValue = clean
	f.fields[name] = st
	return cfg.ValidateAsync != nil, clean
}

// effectiveCleanLocked derives the clean value used for validation and
// submission. Nested-form fields fold their registered children; everything
// else goes through the type sanitizer.
func (f *Form) effectiveCleanLocked(name string, cfg FieldConfig, filtered any) any {
	if cfg.Type == FieldTypeNestedForms {
		return f.childValuesLocked(name)
	}
	return sanitizeByType(filtered, cfg.Type)
}

// validateCtxLocked builds the context handed to a sync validator. The
// schedule hook runs while the lock is held, so it flips the flag directly.
func (f *Form) validateCtxLocked(ctx context.Context, name string) ValidateCtx {
	return ValidateCtx{
		Ctx:    ctx,
		Field:  name,
		Fields: f.snapshotLocked(),
		schedule: func(n string) {
			st, ok := f.fields[n]
			if !ok {
				return
			}
			st.scheduled = true
			f.fields[n] = st
		},
	}
}

// launchAsyncLocked starts the async validator for a field. The captured
// generation ties the result to the value it validated: if the field changes
// before the validator returns, the stale result is discarded.
func (f *Form) launchAsyncLocked(ctx context.Context, name string, clean any) {
	cfg := f.cfg[name]
	st := f.fields[name]
	st.Validating = true
	f.fields[name] = st
	gen := st.generation
	snap := f.snapshotLocked()

	go func() {
		vc := ValidateCtx{Ctx: ctx, Field: name, Fields: snap, schedule: f.requestValidation}
		errs := customErrors(cfg, vc, cfg.ValidateAsync, clean)

		f.mu.Lock()
		cur, ok := f.fields[name]
		if !ok || cur.generation != gen {
			f.mu.Unlock()
			return
		}
		cur.Validating = false
		if len(errs) > 0 {
			cur.Errors = AppendErrors(cur.Errors, errs...)
			cur.CleanValue = nil
		}
		f.fields[name] = cur
		f.settleLocked(context.Background())
		f.scheduleNotifyLocked()
		f.mu.Unlock()
	}()
}
