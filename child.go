package formstate

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// ChildHandle is the registration a child form leaves on its parent's array
// field. The parent only ever talks to children through these closures, so a
// child's internals stay private to it.
type ChildHandle struct {
	// ID identifies the registration; FormID is the child form's own id.
	ID     string
	FormID string

	Fields   func() Snapshot
	Values   func() map[string]any
	Validate func(ctx context.Context) (bool, error)
	Submit   func(ctx context.Context) error
}

// NewChild constructs a form and registers it on parent's nested-form array
// field at the given index. index is required (non-negative) whenever the
// field carries a default array, so the child can seed from its slot;
// pass -1 when there is no backing array yet.
//
// Seeding precedence for the child's fields: the parent slot wins over the
// child's own form-level defaults, which win over each field's DefaultValue.
func NewChild(parent *Form, field string, index int, opts FormOptions, fields map[string]FieldConfig) (*Form, error) {
	parent.mu.Lock()
	cfg, ok := parent.cfg[field]
	if !ok {
		parent.mu.Unlock()
		return nil, ErrUnknownField
	}
	if cfg.Type != FieldTypeNestedForms {
		parent.mu.Unlock()
		return nil, ErrNotArrayField
	}
	st := parent.fields[field]
	backing := toValueSlice(st.DefaultValue)
	if len(backing) > 0 && index < 0 {
		parent.mu.Unlock()
		return nil, ErrChildIndexRequired
	}
	var slot map[string]any
	if index >= 0 && index < len(backing) {
		slot, _ = backing[index].(map[string]any)
	}
	parent.mu.Unlock()

	child, err := New(opts, fields)
	if err != nil {
		return nil, err
	}
	if len(slot) > 0 {
		child.mu.Lock()
		cbs := child.applyDefaultsLocked(slot)
		child.mu.Unlock()
		runCallbacks(cbs)
	}

	handle := &ChildHandle{
		ID:     uuid.Must(uuid.NewV7()).String(),
		FormID: child.id,
		Fields: child.Fields,
		Values: child.Values,
		Validate: func(ctx context.Context) (bool, error) {
			return child.Validate(ctx)
		},
		Submit: func(ctx context.Context) error {
			return child.Submit(ctx, nil)
		},
	}
	child.parent = parent
	child.parentField = field
	child.handleID = handle.ID

	parent.mu.Lock()
	parent.children[field] = append(parent.children[field], handle)
	parent.mu.Unlock()
	return child, nil
}

// Close deregisters this form from its parent. Safe to call on a top-level
// form or more than once.
func (f *Form) Close() {
	if f.parent == nil {
		return
	}
	p := f.parent
	p.mu.Lock()
	hs := p.children[f.parentField]
	kept := hs[:0]
	for _, h := range hs {
		if h.ID != f.handleID {
			kept = append(kept, h)
		}
	}
	p.children[f.parentField] = kept
	p.mu.Unlock()
	f.parent = nil
}

// Children returns the handles currently registered on an array field, in
// registration order.
func (f *Form) Children(field string) []*ChildHandle {
	f.mu.Lock()
	defer f.mu.Unlock()
	hs := f.children[field]
	out := make([]*ChildHandle, len(hs))
	copy(out, hs)
	return out
}

// ChildValues projects the live values of an array field: one entry per
// registered child, in registration order, falling back to the stored backing
// array when no child is mounted.
func (f *Form) ChildValues(field string) ([]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cfg, ok := f.cfg[field]
	if !ok {
		return nil, ErrUnknownField
	}
	if cfg.Type != FieldTypeNestedForms {
		return nil, ErrNotArrayField
	}
	return f.childValuesLocked(field), nil
}

func (f *Form) childValuesLocked(field string) []any {
	hs := f.children[field]
	if len(hs) == 0 {
		st := f.fields[field]
		if arr := toValueSlice(st.RawValue); arr != nil {
			return arr
		}
		if arr := toValueSlice(st.DefaultValue); arr != nil {
			return arr
		}
		return []any{}
	}
	out := make([]any, 0, len(hs))
	for _, h := range hs {
		out = append(out, h.Values())
	}
	return out
}

// PushValue appends an entry to an array field's backing array. The update
// funnels through the standard value transition.
func (f *Form) PushValue(field string, value any) error {
	f.mu.Lock()
	cfg, ok := f.cfg[field]
	if !ok || cfg.Type != FieldTypeNestedForms {
		f.mu.Unlock()
		if !ok {
			return ErrUnknownField
		}
		return ErrNotArrayField
	}
	arr := f.backingArrayLocked(field)
	f.mu.Unlock()
	return f.SetFieldValue(field, append(arr, value))
}

// RemoveValue splices the entry at index out of an array field's backing
// array.
func (f *Form) RemoveValue(field string, index int) error {
	f.mu.Lock()
	cfg, ok := f.cfg[field]
	if !ok || cfg.Type != FieldTypeNestedForms {
		f.mu.Unlock()
		if !ok {
			return ErrUnknownField
		}
		return ErrNotArrayField
	}
	arr := f.backingArrayLocked(field)
	f.mu.Unlock()
	if index < 0 || index >= len(arr) {
		return fmt.Errorf("formstate: index %d out of range for field %q (len %d)", index, field, len(arr))
	}
	next := make([]any, 0, len(arr)-1)
	next = append(next, arr[:index]...)
	next = append(next, arr[index+1:]...)
	return f.SetFieldValue(field, next)
}

func (f *Form) backingArrayLocked(field string) []any {
	st := f.fields[field]
	if arr := toValueSlice(st.RawValue); arr != nil {
		return arr
	}
	if arr := toValueSlice(st.DefaultValue); arr != nil {
		return arr
	}
	return nil
}

func toValueSlice(v any) []any {
	switch t := v.(type) {
	case []any:
		return t
	case []map[string]any:
		out := make([]any, len(t))
		for i, m := range t {
			out[i] = m
		}
		return out
	}
	return nil
}
