package formstate

import (
	"time"

	"github.com/reoring/formstate/i18n"
)

// DateRangeOpts configures one half of a date-range validator pair.
type DateRangeOpts struct {
	// Counterpart names the other half of the pair. Each invocation schedules
	// a re-validation of the counterpart so the pair stays mutually
	// consistent.
	Counterpart string
	// Inclusive allows the two dates to be equal.
	Inclusive bool
	// IgnoreTime normalizes both dates to midnight before comparing.
	IgnoreTime bool
	// Layout parses string values; defaults to RFC 3339.
	Layout string
	// Min/Max bound this date independently of the counterpart.
	Min *time.Time
	Max *time.Time
}

func (o DateRangeOpts) parse(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		if t == "" {
			return time.Time{}, false
		}
		layout := o.Layout
		if layout == "" {
			layout = time.RFC3339
		}
		parsed, err := time.Parse(layout, t)
		if err != nil {
			return time.Time{}, false
		}
		return parsed, true
	}
	return time.Time{}, false
}

func (o DateRangeOpts) normalize(t time.Time) time.Time {
	if !o.IgnoreTime {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func (o DateRangeOpts) boundsError(t time.Time) error {
	if o.Min != nil && t.Before(o.normalize(*o.Min)) {
		return FieldErrors{{
			Type:    KindMin,
			Message: i18n.T("dateAfter", map[string]string{"field": "minimum"}),
			Params:  map[string]any{"min": *o.Min},
		}}
	}
	if o.Max != nil && t.After(o.normalize(*o.Max)) {
		return FieldErrors{{
			Type:    KindMax,
			Message: i18n.T("dateBefore", map[string]string{"field": "maximum"}),
			Params:  map[string]any{"max": *o.Max},
		}}
	}
	return nil
}

// DateFrom builds the "from" validator of a date-range pair: the value must
// not come after the counterpart's date. An unset or unparseable counterpart
// is automatically valid.
func DateFrom(opts DateRangeOpts) Validator {
	return func(c ValidateCtx, value any) error {
		c.ScheduleValidation(opts.Counterpart)
		from, ok := opts.parse(value)
		if !ok {
			return nil
		}
		from = opts.normalize(from)
		if err := opts.boundsError(from); err != nil {
			return err
		}
		to, ok := opts.parse(c.Fields.CleanValue(opts.Counterpart))
		if !ok {
			return nil
		}
		to = opts.normalize(to)
		violated := from.After(to)
		if !opts.Inclusive && from.Equal(to) {
			violated = true
		}
		if violated {
			return FieldErrors{{
				Type:    KindInvalid,
				Message: i18n.T("dateBefore", map[string]string{"field": opts.Counterpart}),
			}}
		}
		return nil
	}
}

// DateTo builds the "to" validator of a date-range pair: the value must not
// come before the counterpart's date.
func DateTo(opts DateRangeOpts) Validator {
	return func(c ValidateCtx, value any) error {
		c.ScheduleValidation(opts.Counterpart)
		to, ok := opts.parse(value)
		if !ok {
			return nil
		}
		to = opts.normalize(to)
		if err := opts.boundsError(to); err != nil {
			return err
		}
		from, ok := opts.parse(c.Fields.CleanValue(opts.Counterpart))
		if !ok {
			return nil
		}
		from = opts.normalize(from)
		violated := to.Before(from)
		if !opts.Inclusive && to.Equal(from) {
			violated = true
		}
		if violated {
			return FieldErrors{{
				Type:    KindInvalid,
				Message: i18n.T("dateAfter", map[string]string{"field": opts.Counterpart}),
			}}
		}
		return nil
	}
}
