package i18n_test

import (
	"testing"

	"github.com/reoring/formstate/i18n"
)

type upperTranslator struct{}

func (upperTranslator) Message(kind string, data map[string]string) string {
	return "custom:" + kind
}

func TestDefaultDictionary(t *testing.T) {
	if got := i18n.T("required", nil); got != "The value is required" {
		t.Fatalf("required = %q", got)
	}
	if got := i18n.T("min", map[string]string{"min": "5"}); got != "The value must be greater than or equal to 5" {
		t.Fatalf("min = %q", got)
	}
	if got := i18n.T("lengthRange", map[string]string{"min": "2", "max": "8"}); got != "The value must be between 2 and 8 characters long" {
		t.Fatalf("lengthRange = %q", got)
	}
}

func TestUnknownKindFallsBackToKind(t *testing.T) {
	if got := i18n.T("nonexistent", nil); got != "nonexistent" {
		t.Fatalf("unknown kind = %q", got)
	}
}

func TestSetTranslator(t *testing.T) {
	i18n.SetTranslator(upperTranslator{})
	defer i18n.SetTranslator(nil)
	if got := i18n.T("required", nil); got != "custom:required" {
		t.Fatalf("custom translator not used: %q", got)
	}
	i18n.SetTranslator(nil)
	if got := i18n.T("required", nil); got != "The value is required" {
		t.Fatalf("nil should restore the dictionary: %q", got)
	}
}
