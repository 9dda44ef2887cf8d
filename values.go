package formstate

import (
	"github.com/goccy/go-json"
)

// Values assembles the submit-safe value map: skip-activated fields are
// omitted, nested-form fields fold to their children's values, and fields
// marked SubmitFormatted submit the display value instead of the clean one.
func (f *Form) Values() map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.valuesLocked()
}

func (f *Form) valuesLocked() map[string]any {
	snap := f.snapshotLocked()
	out := make(map[string]any, len(f.cfg))
	for name, cfg := range f.cfg {
		if cfg.Skip != nil && cfg.Skip(snap) {
			continue
		}
		if cfg.Type == FieldTypeNestedForms {
			out[name] = f.childValuesLocked(name)
			continue
		}
		st := f.fields[name]
		if cfg.SubmitFormatted {
			out[name] = st.Value
		} else {
			out[name] = st.CleanValue
		}
	}
	return out
}

// Errors returns the current per-field error map. Fields without errors are
// absent.
func (f *Form) Errors() FormErrors {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := FormErrors{}
	for name, st := range f.fields {
		if len(st.Errors) == 0 {
			continue
		}
		errs := make(FieldErrors, len(st.Errors))
		copy(errs, st.Errors)
		out[name] = errs
	}
	return out
}

// MarshalValues encodes the submit-safe values as JSON.
func (f *Form) MarshalValues() ([]byte, error) {
	return json.Marshal(f.Values())
}
