// Package intake implements the health coaching pre-consultation form: the
// field schema, validation, draft persistence and the page state machine.
package intake

import (
	"fmt"
	"strconv"
)

// Kind is the closed set of answer shapes a field can take.
type Kind int

const (
	KindShortText Kind = iota + 1
	KindLongText
	KindInteger
	KindSingleChoice
	KindMultiChoice
)

func (k Kind) String() string {
	switch k {
	case KindShortText:
		return "short_text"
	case KindLongText:
		return "long_text"
	case KindInteger:
		return "integer"
	case KindSingleChoice:
		return "single_choice"
	case KindMultiChoice:
		return "multi_choice"
	default:
		return "unknown"
	}
}

// MarshalText lets kinds appear by name in JSON schema responses.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

const (
	// EntryPages is the number of pages that collect answers.
	EntryPages = 4
	// ConfirmationPage follows a successful submission.
	ConfirmationPage = 5
)

// Option is one allowed value of a choice field.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Field describes one answer: where it appears and what it accepts.
// Min and Max bound the text length for text kinds, the value for integers
// and the selection count (Min only) for multi choice.
type Field struct {
	Name     string   `json:"name"`
	Label    string   `json:"label"`
	Prompt   string   `json:"prompt"`
	Section  string   `json:"section"`
	Kind     Kind     `json:"kind"`
	Page     int      `json:"page"`
	Min      int      `json:"min"`
	Max      int      `json:"max,omitempty"`
	Optional bool     `json:"optional,omitempty"`
	Format   string   `json:"format,omitempty"`
	Options  []Option `json:"options,omitempty"`

	// Custom messages; empty means the generated one.
	MinMessage     string `json:"-"`
	MaxMessage     string `json:"-"`
	InvalidMessage string `json:"-"`

	text   func(*Record) *string
	number func(*Record) *Number
	list   func(*Record) *[]string
}

// Allows reports whether v is one of the field's option values.
func (f Field) Allows(v string) bool {
	for _, opt := range f.Options {
		if opt.Value == v {
			return true
		}
	}
	return false
}

// OptionLabel returns the display label for v, or v itself when unknown.
func (f Field) OptionLabel(v string) string {
	for _, opt := range f.Options {
		if opt.Value == v {
			return opt.Label
		}
	}
	return v
}

// Value reads the field from rec.
func (f Field) Value(rec *Record) any {
	switch f.Kind {
	case KindShortText, KindLongText, KindSingleChoice:
		return *f.text(rec)
	case KindInteger:
		return *f.number(rec)
	case KindMultiChoice:
		return append([]string{}, *f.list(rec)...)
	default:
		panic(fmt.Sprintf("intake: field %s has unknown kind %d", f.Name, f.Kind))
	}
}

// Assign coerces value to the field's shape and stores it in rec. Values
// that cannot be coerced return ErrInvalidValue and leave rec untouched.
func (f Field) Assign(rec *Record, value any) error {
	switch f.Kind {
	case KindShortText, KindLongText, KindSingleChoice:
		s, ok := coerceText(value)
		if !ok {
			return fmt.Errorf("%w: %s expects text", ErrInvalidValue, f.Name)
		}
		*f.text(rec) = s
	case KindInteger:
		n, ok := coerceNumber(value)
		if !ok {
			return fmt.Errorf("%w: %s expects a number", ErrInvalidValue, f.Name)
		}
		*f.number(rec) = n
	case KindMultiChoice:
		l, ok := coerceList(value)
		if !ok {
			return fmt.Errorf("%w: %s expects a list of text values", ErrInvalidValue, f.Name)
		}
		*f.list(rec) = l
	default:
		panic(fmt.Sprintf("intake: field %s has unknown kind %d", f.Name, f.Kind))
	}
	return nil
}

func coerceText(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", true
	case string:
		return v, true
	default:
		return "", false
	}
}

func coerceNumber(value any) (Number, bool) {
	switch v := value.(type) {
	case nil:
		return "", true
	case Number:
		return v, true
	case string:
		return Number(v), true
	case int:
		return Int(v), true
	case int64:
		return Number(strconv.FormatInt(v, 10)), true
	case float64:
		return Number(strconv.FormatFloat(v, 'f', -1, 64)), true
	case fmt.Stringer:
		// json.Number when decoding with UseNumber.
		return Number(v.String()), true
	default:
		return "", false
	}
}

func coerceList(value any) ([]string, bool) {
	switch v := value.(type) {
	case nil:
		return []string{}, true
	case []string:
		return append([]string{}, v...), true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}

// Schema is the ordered field table. Order is the display and column order.
type Schema struct {
	fields []Field
	byName map[string]int
}

// NewSchema indexes fields. It panics on a duplicate name, a page outside
// 1..EntryPages or a field without an accessor matching its kind.
func NewSchema(fields []Field) *Schema {
	s := &Schema{fields: fields, byName: make(map[string]int, len(fields))}
	for i, f := range fields {
		if _, dup := s.byName[f.Name]; dup {
			panic(fmt.Sprintf("intake: duplicate field %s", f.Name))
		}
		if f.Page < 1 || f.Page > EntryPages {
			panic(fmt.Sprintf("intake: field %s has page %d outside 1..%d", f.Name, f.Page, EntryPages))
		}
		switch f.Kind {
		case KindShortText, KindLongText, KindSingleChoice:
			if f.text == nil {
				panic(fmt.Sprintf("intake: field %s has no text accessor", f.Name))
			}
		case KindInteger:
			if f.number == nil {
				panic(fmt.Sprintf("intake: field %s has no number accessor", f.Name))
			}
		case KindMultiChoice:
			if f.list == nil {
				panic(fmt.Sprintf("intake: field %s has no list accessor", f.Name))
			}
		default:
			panic(fmt.Sprintf("intake: field %s has unknown kind %d", f.Name, f.Kind))
		}
		s.byName[f.Name] = i
	}
	return s
}

// Fields returns all fields in order.
func (s *Schema) Fields() []Field {
	return append([]Field(nil), s.fields...)
}

// Field looks a field up by name.
func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.byName[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// PageFields returns the fields shown on page, in order.
func (s *Schema) PageFields(page int) []Field {
	var out []Field
	for _, f := range s.fields {
		if f.Page == page {
			out = append(out, f)
		}
	}
	return out
}
