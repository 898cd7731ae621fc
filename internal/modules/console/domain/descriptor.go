package domain

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// FieldKind drives how a form value is coerced before transmission.
type FieldKind string

const (
	FieldText FieldKind = "text"
	// FieldReference is a foreign key; transmitted as an integer.
	FieldReference FieldKind = "reference"
	FieldDecimal   FieldKind = "decimal"
	FieldBool      FieldKind = "bool"
	FieldDate      FieldKind = "date"
	FieldEnum      FieldKind = "enum"
	// FieldSecret is never pre-populated and is omitted when left empty.
	FieldSecret FieldKind = "secret"
)

// FieldSpec describes one editable field of an entity kind.
type FieldSpec struct {
	Name  string    `json:"name"`
	Label string    `json:"label"`
	Kind  FieldKind `json:"kind"`
	// CreateRules and EditRules are validator tags; EditRules falls back to CreateRules.
	CreateRules string            `json:"-"`
	EditRules   string            `json:"-"`
	Messages    map[string]string `json:"-"`
	Default     string            `json:"default,omitempty"`
	Options     []string          `json:"options,omitempty"`
	Searchable  bool              `json:"-"`
}

func (f FieldSpec) rules(mode FormMode) string {
	if mode == FormEditing && f.EditRules != "" {
		return f.EditRules
	}
	return f.CreateRules
}

// Column is one exported/displayed column.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// PatchStyle selects how a single-field patch is sent.
type PatchStyle string

const (
	// PatchQueryParam sends PATCH {base}/{id}/{field}?{field}={value}.
	PatchQueryParam PatchStyle = "query"
	// PatchMerge reads the record, overwrites the one field and sends it back
	// with PUT {base}/{id}; for APIs without a partial update endpoint.
	PatchMerge PatchStyle = "merge"
)

// StatusChange is the field write that flips an entity's status.
type StatusChange struct {
	Field string
	Value string
	Label string
}

// Descriptor parameterizes the generic list/mutation/form machinery for one
// entity kind.
type Descriptor[T Entity] struct {
	Name         string
	Singular     string
	BasePath     string
	Fields       []FieldSpec
	Columns      []Column
	DefaultQuery QueryState
	FilterKeys   []string
	SortKeys     []string
	PatchStyle   PatchStyle
	Decode       func(map[string]any) (T, bool)
	Values       func(T) map[string]string
	// Toggle is nil for kinds without a status.
	Toggle func(T) StatusChange
}

// Field looks up a field by wire name.
func (d *Descriptor[T]) Field(name string) (FieldSpec, bool) {
	for _, field := range d.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return FieldSpec{}, false
}

// SearchableFields returns the names matched by the free-text search filter.
func (d *Descriptor[T]) SearchableFields() []string {
	names := make([]string, 0, len(d.Fields))
	for _, field := range d.Fields {
		if field.Searchable {
			names = append(names, field.Name)
		}
	}
	return names
}

// ScopePatch drops the filter and sort keys the kind does not list. The sort
// direction is kept only together with an accepted sort key or on its own.
func (d *Descriptor[T]) ScopePatch(patch QueryPatch) QueryPatch {
	scoped := patch
	if patch.SortKey != nil && !slices.Contains(d.SortKeys, strings.TrimSpace(*patch.SortKey)) {
		scoped.SortKey = nil
		scoped.SortDir = nil
	}
	if patch.Filters != nil {
		scoped.Filters = make(map[string]*string, len(patch.Filters))
		for key, value := range patch.Filters {
			trimmed := strings.TrimSpace(key)
			if slices.Contains(d.FilterKeys, trimmed) {
				scoped.Filters[trimmed] = value
			}
		}
	}
	return scoped
}

// InitialQuery returns the query a freshly mounted list starts from.
func (d *Descriptor[T]) InitialQuery(pageSize int) QueryState {
	query := d.DefaultQuery.Clone()
	if pageSize > 0 {
		query.PageSize = pageSize
	}
	return query.Normalize()
}

// BlankFields returns the field values of a fresh create draft.
func (d *Descriptor[T]) BlankFields() map[string]string {
	fields := make(map[string]string, len(d.Fields))
	for _, field := range d.Fields {
		fields[field.Name] = field.Default
	}
	return fields
}

// SnapshotFields copies the entity's current values into a form draft. The
// result does not alias the entity.
func (d *Descriptor[T]) SnapshotFields(entity T) map[string]string {
	values := d.Values(entity)
	fields := make(map[string]string, len(d.Fields))
	for _, field := range d.Fields {
		if field.Kind == FieldSecret {
			fields[field.Name] = ""
			continue
		}
		fields[field.Name] = values[field.Name]
	}
	return fields
}

// Row renders an entity against the descriptor's columns.
func (d *Descriptor[T]) Row(entity T) []string {
	values := d.Values(entity)
	row := make([]string, len(d.Columns))
	for index, column := range d.Columns {
		row[index] = values[column.Key]
	}
	return row
}

// Validate runs each field's rules for the given mode and returns one message
// per failing field. An empty map means the draft may be submitted.
func (d *Descriptor[T]) Validate(mode FormMode, fields map[string]string) map[string]string {
	fieldErrors := map[string]string{}
	for _, spec := range d.Fields {
		rules := spec.rules(mode)
		if rules == "" {
			continue
		}
		value := strings.TrimSpace(fields[spec.Name])
		if message := validateField(spec, rules, value); message != "" {
			fieldErrors[spec.Name] = message
		}
	}
	return fieldErrors
}

// Payload coerces form values into their wire types: references become
// integers, decimals become JSON numbers, empty optional values become null
// and empty secrets are dropped.
func (d *Descriptor[T]) Payload(fields map[string]string) (map[string]any, error) {
	payload := make(map[string]any, len(d.Fields))
	fieldErrors := map[string]string{}
	for _, spec := range d.Fields {
		raw, present := fields[spec.Name]
		value := strings.TrimSpace(raw)
		if spec.Kind == FieldSecret && value == "" {
			continue
		}
		if !present && spec.Kind != FieldBool {
			payload[spec.Name] = nil
			continue
		}
		coerced, err := d.Coerce(spec.Name, value)
		if err != nil {
			fieldErrors[spec.Name] = err.Error()
			continue
		}
		payload[spec.Name] = coerced
	}
	if len(fieldErrors) > 0 {
		return nil, InvalidFields(d.Name+".payload", fieldErrors)
	}
	return payload, nil
}

// Coerce converts a single textual value into the field's wire type.
func (d *Descriptor[T]) Coerce(name, value string) (any, error) {
	spec, ok := d.Field(name)
	if !ok {
		return nil, fmt.Errorf("unknown field %q", name)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		if spec.Kind == FieldBool {
			return false, nil
		}
		return nil, nil
	}
	switch spec.Kind {
	case FieldReference:
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s must be a whole number", spec.Label)
		}
		return parsed, nil
	case FieldDecimal:
		parsed, err := decimal.NewFromString(value)
		if err != nil {
			return nil, fmt.Errorf("%s must be a number", spec.Label)
		}
		return json.Number(parsed.String()), nil
	case FieldBool:
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("%s must be true or false", spec.Label)
		}
		return parsed, nil
	default:
		return value, nil
	}
}
