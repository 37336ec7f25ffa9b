// Package schema defines the field schema that drives record editing,
// coercion, and import mapping. A Schema is plain data loaded at boot
// and replaced wholesale only by an explicit schema-mapped import.
package schema

// FieldType classifies a field's value for coercion and rendering.
type FieldType string

const (
	FieldText    FieldType = "text"
	FieldNumber  FieldType = "number"
	FieldDate    FieldType = "date"
	FieldBoolean FieldType = "boolean"
	FieldArray   FieldType = "array"
)

// Valid reports whether ft is a known field type.
func (ft FieldType) Valid() bool {
	_, ok := kinds[ft]
	return ok
}

// InputKind is the form control a field renders as.
type InputKind string

const (
	InputText     InputKind = "text"
	InputNumber   InputKind = "number"
	InputDate     InputKind = "date"
	InputCheckbox InputKind = "checkbox"
)

// kind is the per-type dispatch entry: zero value, input control, and
// coercion function. Adding a field type means adding one entry here.
type kind struct {
	zero   any
	input  InputKind
	coerce func(raw, prev any) any
}

var kinds = map[FieldType]kind{
	FieldText:    {zero: "", input: InputText, coerce: coerceText},
	FieldNumber:  {zero: float64(0), input: InputNumber, coerce: coerceNumber},
	FieldDate:    {zero: "", input: InputDate, coerce: coerceDate},
	FieldBoolean: {zero: false, input: InputCheckbox, coerce: coerceBoolean},
	FieldArray:   {zero: "", input: InputText, coerce: coerceArray},
}

// FieldSpec describes one field a record may carry.
type FieldSpec struct {
	Name  string    `json:"name"`
	Label string    `json:"label,omitempty"`
	Type  FieldType `json:"type"`
}

// DisplayLabel returns the label, defaulting to the field name.
func (f FieldSpec) DisplayLabel() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Name
}

// Zero returns the field's empty value: 0 for numbers, "" otherwise.
func (f FieldSpec) Zero() any {
	if k, ok := kinds[f.Type]; ok {
		return k.zero
	}
	return ""
}

// Input returns the form control kind for the field.
func (f FieldSpec) Input() InputKind {
	if k, ok := kinds[f.Type]; ok {
		return k.input
	}
	return InputText
}

// Schema is an ordered set of field definitions.
type Schema struct {
	Title  string      `json:"title"`
	Fields []FieldSpec `json:"fields"`
}

// FieldByName returns the FieldSpec for name.
func (s Schema) FieldByName(name string) (FieldSpec, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// FieldNames returns the schema's field names in declaration order.
func (s Schema) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// Validate checks the schema invariants: at least one field, unique
// field names, known types.
func (s Schema) Validate() error {
	if len(s.Fields) == 0 {
		return errEmptySchema
	}
	seen := make(map[string]struct{}, len(s.Fields))
	for _, f := range s.Fields {
		if f.Name == "" {
			return errUnnamedField
		}
		if _, dup := seen[f.Name]; dup {
			return &DuplicateFieldError{Name: f.Name}
		}
		seen[f.Name] = struct{}{}
		if !f.Type.Valid() {
			return &UnknownTypeError{Field: f.Name, Type: string(f.Type)}
		}
	}
	return nil
}
