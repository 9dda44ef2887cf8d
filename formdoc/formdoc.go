// Package formdoc loads declarative form definitions from JSON or YAML
// documents and turns them into field configs. Behavior that cannot be
// serialized (validators, filters, formatters, skip predicates) is attached
// in code after loading.
package formdoc

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"

	formstate "github.com/reoring/formstate"
)

// Document is one serializable form definition.
type Document struct {
	Form   FormDef    `json:"form" yaml:"form"`
	Fields []FieldDef `json:"fields" yaml:"fields"`
}

// FormDef carries the form-level options a document can express.
type FormDef struct {
	Name             string         `json:"name" yaml:"name"`
	OnChangeDelayMS  int            `json:"onChangeDelayMs" yaml:"onChangeDelayMs"`
	ResetAfterSubmit bool           `json:"resetAfterSubmit" yaml:"resetAfterSubmit"`
	Defaults         map[string]any `json:"defaults" yaml:"defaults"`
}

// FieldDef is the serializable subset of a field config.
type FieldDef struct {
	Name            string            `json:"name" yaml:"name"`
	Type            string            `json:"type" yaml:"type"`
	Required        bool              `json:"required" yaml:"required"`
	Default         any               `json:"default" yaml:"default"`
	Min             *float64          `json:"min" yaml:"min"`
	Max             *float64          `json:"max" yaml:"max"`
	Number          *NumberDef        `json:"number" yaml:"number"`
	DependsOn       []string          `json:"dependsOn" yaml:"dependsOn"`
	FormatOnBlur    bool              `json:"formatOnBlur" yaml:"formatOnBlur"`
	SubmitFormatted bool              `json:"submitFormatted" yaml:"submitFormatted"`
	Messages        map[string]string `json:"messages" yaml:"messages"`
}

// NumberDef mirrors formstate.NumberRules.
type NumberDef struct {
	Negative    bool `json:"negative" yaml:"negative"`
	Decimal     bool `json:"decimal" yaml:"decimal"`
	MaxFraction int  `json:"maxFraction" yaml:"maxFraction"`
}

var fieldTypes = map[string]formstate.FieldType{
	"":            formstate.FieldTypeString,
	"string":      formstate.FieldTypeString,
	"numeric":     formstate.FieldTypeNumeric,
	"number":      formstate.FieldTypeNumber,
	"email":       formstate.FieldTypeEmail,
	"checkbox":    formstate.FieldTypeCheckbox,
	"radio":       formstate.FieldTypeRadio,
	"file":        formstate.FieldTypeFile,
	"object":      formstate.FieldTypeObject,
	"nestedForms": formstate.FieldTypeNestedForms,
}

// ParseJSON decodes a single JSON document.
func ParseJSON(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("formdoc: decode json: %w", err)
	}
	return &doc, nil
}

// Configs converts the document into form options and field configs,
// rejecting unknown field types and duplicate names.
func (d *Document) Configs() (formstate.FormOptions, map[string]formstate.FieldConfig, error) {
	opts := formstate.FormOptions{
		ResetAfterSubmit: d.Form.ResetAfterSubmit,
		DefaultValues:    d.Form.Defaults,
	}
	if d.Form.OnChangeDelayMS > 0 {
		opts.OnChangeDelay = time.Duration(d.Form.OnChangeDelayMS) * time.Millisecond
	}

	fields := make(map[string]formstate.FieldConfig, len(d.Fields))
	for _, fd := range d.Fields {
		if fd.Name == "" {
			return formstate.FormOptions{}, nil, fmt.Errorf("formdoc: field without a name")
		}
		if _, dup := fields[fd.Name]; dup {
			return formstate.FormOptions{}, nil, fmt.Errorf("formdoc: duplicate field %q", fd.Name)
		}
		ft, ok := fieldTypes[fd.Type]
		if !ok {
			return formstate.FormOptions{}, nil, fmt.Errorf("formdoc: field %q: unknown type %q", fd.Name, fd.Type)
		}
		cfg := formstate.FieldConfig{
			Type:            ft,
			Required:        fd.Required,
			DefaultValue:    fd.Default,
			Min:             fd.Min,
			Max:             fd.Max,
			DependsOn:       fd.DependsOn,
			FormatOnBlur:    fd.FormatOnBlur,
			SubmitFormatted: fd.SubmitFormatted,
			ErrorMessages:   fd.Messages,
		}
		if fd.Number != nil {
			cfg.Number = &formstate.NumberRules{
				Negative:    fd.Number.Negative,
				Decimal:     fd.Number.Decimal,
				MaxFraction: fd.Number.MaxFraction,
			}
		}
		fields[fd.Name] = cfg
	}
	return opts, fields, nil
}

// Build constructs a form directly from the document.
func (d *Document) Build() (*formstate.Form, error) {
	opts, fields, err := d.Configs()
	if err != nil {
		return nil, err
	}
	return formstate.New(opts, fields)
}
