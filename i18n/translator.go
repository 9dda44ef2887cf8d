package i18n

import "strings"

// Translator retrieves user-facing messages for error kinds. data provides
// optional parameters to embed in the message (for example, "min" or "max").
type Translator interface {
	Message(kind string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator. Placeholders of
// the form {name} are substituted from data.
type dictTranslator struct{}

var dict = map[string]string{
	"required": "The value is required",
	"invalid":  "The value is invalid",

	// value bounds (number fields)
	"min":   "The value must be greater than or equal to {min}",
	"max":   "The value must be less than or equal to {max}",
	"range": "The value must be between {min} and {max}",
	"exact": "The value must be exactly {value}",

	// length bounds (string-like fields)
	"minLength":   "The value must be at least {min} characters long",
	"maxLength":   "The value must be at most {max} characters long",
	"lengthRange": "The value must be between {min} and {max} characters long",
	"exactLength": "The value must be exactly {length} characters long",

	// date-range pair
	"dateBefore": "The date must be before the {field} date",
	"dateAfter":  "The date must be after the {field} date",
}

func (dictTranslator) Message(kind string, data map[string]string) string {
	msg, ok := dict[kind]
	if !ok {
		return kind
	}
	for k, v := range data {
		msg = strings.ReplaceAll(msg, "{"+k+"}", v)
	}
	return msg
}

var currentTranslator Translator = dictTranslator{}

// SetTranslator replaces the Translator implementation. Passing nil restores
// the built-in dictionary.
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given kind using the current Translator.
func T(kind string, data map[string]string) string { return currentTranslator.Message(kind, data) }
