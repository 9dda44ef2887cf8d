package formdoc_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	formstate "github.com/reoring/formstate"
	"github.com/reoring/formstate/formdoc"
)

const signupJSON = `{
  "form": {"name": "signup", "onChangeDelayMs": 50, "resetAfterSubmit": true},
  "fields": [
    {"name": "email", "type": "email", "required": true},
    {"name": "amount", "type": "number", "min": 1, "max": 100,
     "number": {"negative": false, "decimal": true, "maxFraction": 2}},
    {"name": "nickname", "type": "string", "default": "anon",
     "messages": {"required": "pick a nickname"}}
  ]
}`

const bundleYAML = `
form:
  name: signup
  defaults:
    nickname: yaml-anon
fields:
  - name: email
    type: email
    required: true
---
form:
  name: billing
fields:
  - name: amount
    type: number
    min: 1
  - name: plan
    type: radio
    dependsOn: [amount]
`

func TestParseJSON(t *testing.T) {
	doc, err := formdoc.ParseJSON([]byte(signupJSON))
	require.NoError(t, err)
	assert.Equal(t, "signup", doc.Form.Name)
	require.Len(t, doc.Fields, 3)

	opts, fields, err := doc.Configs()
	require.NoError(t, err)
	assert.True(t, opts.ResetAfterSubmit)
	assert.Equal(t, formstate.FieldTypeEmail, fields["email"].Type)
	assert.True(t, fields["email"].Required)
	require.NotNil(t, fields["amount"].Number)
	assert.Equal(t, 2, fields["amount"].Number.MaxFraction)
	assert.Equal(t, "anon", fields["nickname"].DefaultValue)
	assert.Equal(t, "pick a nickname", fields["nickname"].ErrorMessages["required"])
}

func TestParseJSONInvalid(t *testing.T) {
	_, err := formdoc.ParseJSON([]byte(`{`))
	require.Error(t, err)
}

func TestConfigsRejectsUnknownType(t *testing.T) {
	doc := &formdoc.Document{Fields: []formdoc.FieldDef{{Name: "x", Type: "telepathy"}}}
	_, _, err := doc.Configs()
	require.ErrorContains(t, err, "unknown type")
}

func TestConfigsRejectsDuplicatesAndMissingNames(t *testing.T) {
	dup := &formdoc.Document{Fields: []formdoc.FieldDef{{Name: "x"}, {Name: "x"}}}
	_, _, err := dup.Configs()
	require.ErrorContains(t, err, "duplicate field")

	anon := &formdoc.Document{Fields: []formdoc.FieldDef{{Type: "string"}}}
	_, _, err = anon.Configs()
	require.ErrorContains(t, err, "without a name")
}

func TestParseYAMLFirstDocument(t *testing.T) {
	doc, err := formdoc.ParseYAML([]byte(bundleYAML))
	require.NoError(t, err)
	assert.Equal(t, "signup", doc.Form.Name)
	assert.Equal(t, "yaml-anon", doc.Form.Defaults["nickname"])
}

func TestParseYAMLForForm(t *testing.T) {
	doc, err := formdoc.ParseYAMLForForm([]byte(bundleYAML), "billing")
	require.NoError(t, err)
	require.Len(t, doc.Fields, 2)
	assert.Equal(t, []string{"amount"}, doc.Fields[1].DependsOn)

	_, err = formdoc.ParseYAMLForForm([]byte(bundleYAML), "missing")
	require.ErrorContains(t, err, "not found")
}

func TestParseYAMLEmpty(t *testing.T) {
	_, err := formdoc.ParseYAML([]byte(""))
	require.Error(t, err)
}

func TestBuildAndRun(t *testing.T) {
	doc, err := formdoc.ParseJSON([]byte(signupJSON))
	require.NoError(t, err)
	form, err := doc.Build()
	require.NoError(t, err)

	ok, err := form.Validate(context.Background())
	require.NoError(t, err)
	assert.False(t, ok, "required email is empty")

	require.NoError(t, form.SetFieldValue("email", "a@b.example"))
	require.NoError(t, form.SetFieldValue("amount", "50"))
	ok, err = form.Validate(context.Background())
	require.NoError(t, err)
	assert.True(t, ok, "errors: %v", form.Errors())
	assert.Equal(t, "anon", form.Fields()["nickname"].Value)
}
