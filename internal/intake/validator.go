package intake

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// ErrorMap maps field names to a single message. Empty means valid.
type ErrorMap map[string]string

// Validator checks records against a schema. Messages are data, never errors.
type Validator struct {
	schema   *Schema
	validate *validator.Validate
}

// NewValidator builds a validator for schema.
func NewValidator(schema *Schema) *Validator {
	if schema == nil {
		panic("intake: schema required")
	}
	return &Validator{schema: schema, validate: validator.New()}
}

var defaultValidator = NewValidator(CoachingSchema)

// ValidateField checks the coaching schema field name. See Validator.ValidateField.
func ValidateField(name string, value any, rec Record) (string, error) {
	return defaultValidator.ValidateField(name, value, rec)
}

// ValidateRecord checks every coaching schema field.
func ValidateRecord(rec Record) ErrorMap {
	return defaultValidator.ValidateRecord(rec)
}

// ValidatePage checks the coaching schema fields on page.
func ValidatePage(page int, rec Record) ErrorMap {
	return defaultValidator.ValidatePage(page, rec)
}

// ValidateField checks value as if it were stored in rec under name and
// returns the message, or "" when valid. rec is consulted so rules may depend
// on other answers. A name outside the schema returns ErrUnknownField and a
// value of the wrong shape returns ErrInvalidValue.
func (v *Validator) ValidateField(name string, value any, rec Record) (string, error) {
	field, ok := v.schema.Field(name)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	candidate := rec.Clone()
	if err := field.Assign(&candidate, value); err != nil {
		return "", err
	}
	return v.check(field, &candidate), nil
}

// ValidateRecord returns every violation in rec. Empty values fail required
// rules; optional fields pass when empty.
func (v *Validator) ValidateRecord(rec Record) ErrorMap {
	errs := ErrorMap{}
	for _, field := range v.schema.fields {
		if msg := v.check(field, &rec); msg != "" {
			errs[field.Name] = msg
		}
	}
	return errs
}

// ValidatePage is ValidateRecord restricted to the fields whose page is page.
func (v *Validator) ValidatePage(page int, rec Record) ErrorMap {
	all := v.ValidateRecord(rec)
	errs := ErrorMap{}
	for _, field := range v.schema.PageFields(page) {
		if msg, ok := all[field.Name]; ok {
			errs[field.Name] = msg
		}
	}
	return errs
}

func (v *Validator) check(field Field, rec *Record) string {
	switch field.Kind {
	case KindShortText, KindLongText:
		return v.checkText(field, *field.text(rec))
	case KindInteger:
		return checkInteger(field, *field.number(rec))
	case KindSingleChoice:
		return checkChoice(field, *field.text(rec))
	case KindMultiChoice:
		return checkMulti(field, *field.list(rec))
	default:
		panic(fmt.Sprintf("intake: field %s has unknown kind %d", field.Name, field.Kind))
	}
}

func (v *Validator) checkText(field Field, s string) string {
	if field.Optional && s == "" {
		return ""
	}
	n := utf8.RuneCountInString(s)
	if field.Format == "email" {
		if err := v.validate.Var(s, "required,email"); err != nil {
			return orDefault(field.InvalidMessage, fmt.Sprintf("%s must be a valid email address", field.Label))
		}
	}
	if n < field.Min {
		return orDefault(field.MinMessage, fmt.Sprintf("%s must be at least %d characters", field.Label, field.Min))
	}
	if field.Max > 0 && n > field.Max {
		return orDefault(field.MaxMessage, fmt.Sprintf("%s must be at most %d characters", field.Label, field.Max))
	}
	return ""
}

func checkInteger(field Field, n Number) string {
	f, ok := n.Float()
	if !ok {
		return fmt.Sprintf("%s must be a number", field.Label)
	}
	if f != math.Trunc(f) {
		return orDefault(field.InvalidMessage, fmt.Sprintf("%s must be a whole number", field.Label))
	}
	if f < float64(field.Min) {
		return orDefault(field.MinMessage, fmt.Sprintf("%s must be at least %d", field.Label, field.Min))
	}
	if f > float64(field.Max) {
		return orDefault(field.MaxMessage, fmt.Sprintf("%s must be at most %d", field.Label, field.Max))
	}
	return ""
}

func checkChoice(field Field, s string) string {
	if field.Allows(s) {
		return ""
	}
	return orDefault(field.InvalidMessage, fmt.Sprintf("Please select a valid option for %s", field.Label))
}

func checkMulti(field Field, values []string) string {
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		if !field.Allows(value) {
			return orDefault(field.InvalidMessage, fmt.Sprintf("%q is not a valid option for %s", value, field.Label))
		}
		if _, dup := seen[value]; dup {
			return fmt.Sprintf("%s contains %q more than once", field.Label, value)
		}
		seen[value] = struct{}{}
	}
	if len(values) < field.Min {
		return orDefault(field.MinMessage, fmt.Sprintf("Please select at least %d options for %s", field.Min, field.Label))
	}
	return ""
}

func orDefault(custom, generated string) string {
	if custom != "" {
		return custom
	}
	return generated
}
