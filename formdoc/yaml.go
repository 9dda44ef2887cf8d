package formdoc

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// ParseYAML decodes the first document of a YAML stream.
func ParseYAML(data []byte) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("formdoc: empty yaml stream")
		}
		return nil, fmt.Errorf("formdoc: decode yaml: %w", err)
	}
	normalizeDoc(&doc)
	return &doc, nil
}

// ParseYAMLForForm scans a multi-document YAML stream and returns the
// document whose form.name matches name.
func ParseYAMLForForm(data []byte, name string) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	for {
		var doc Document
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("formdoc: decode yaml: %w", err)
		}
		if doc.Form.Name == name {
			normalizeDoc(&doc)
			return &doc, nil
		}
	}
	return nil, fmt.Errorf("formdoc: form %q not found in yaml stream", name)
}

// normalizeDoc rewrites YAML-decoded nested values (map[any]any under any)
// into JSON-like map[string]any so defaults behave the same regardless of
// the source format.
func normalizeDoc(doc *Document) {
	if doc.Form.Defaults != nil {
		out := make(map[string]any, len(doc.Form.Defaults))
		for k, v := range doc.Form.Defaults {
			out[k] = normalizeValue(v)
		}
		doc.Form.Defaults = out
	}
	for i := range doc.Fields {
		doc.Fields[i].Default = normalizeValue(doc.Fields[i].Default)
	}
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = normalizeValue(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[fmt.Sprint(k)] = normalizeValue(vv)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, vv := range t {
			out[i] = normalizeValue(vv)
		}
		return out
	case int:
		return float64(t)
	}
	return v
}
