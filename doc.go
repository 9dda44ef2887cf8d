package formstate

// Package formstate provides:
//
// - A per-field state engine (raw/display/clean values, errors, busy flags)
//   driven by a single atomic transition per value change
// - A value pipeline (filter, type sanitizer, cosmetic formatter) with
//   blur-deferred formatting
// - Built-in, custom sync, and async validators with stale-result protection
//   and cross-field scheduled validation
// - Dependent-field clearing, conditional skip, and a submission lifecycle
//   with server-error mapping
// - Parent/child form aggregation for array-of-object fields
//
// Design policy:
// - Keep only public APIs in the root package; put filters under filters/,
//   messages under i18n/, and declarative form documents under formdoc/.
// - The form owns its field map exclusively; every mutation funnels through
//   one locked transition path.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	form := formstate.NewForm().
//	        Field("email", formstate.FieldConfig{Type: formstate.FieldTypeEmail}).Required().
//	        Field("amount", formstate.FieldConfig{Type: formstate.FieldTypeNumber, Min: formstate.Bound(0)}).
//	        MustBuild()
//
//	_ = form.SetFieldValue("email", "a@b.example")
//	ok, err := form.Validate(ctx)
//	err = form.Submit(ctx, handler)
