package entity

import "fmt"

// Baserow field kinds, as reported by the list-fields API.
const (
	FieldKindText           = "text"
	FieldKindLongText       = "long_text"
	FieldKindURL            = "url"
	FieldKindEmail          = "email"
	FieldKindNumber         = "number"
	FieldKindRating         = "rating"
	FieldKindBoolean        = "boolean"
	FieldKindDate           = "date"
	FieldKindSingleSelect   = "single_select"
	FieldKindMultipleSelect = "multiple_select"
	FieldKindPhoneNumber    = "phone_number"
	FieldKindLinkRow        = "link_row"
	FieldKindFile           = "file"
	FieldKindFormula        = "formula"
	FieldKindLookup         = "lookup"
	FieldKindRollup         = "rollup"
	FieldKindCount          = "count"
	FieldKindCreatedOn      = "created_on"
	FieldKindLastModified   = "last_modified"
	FieldKindAutonumber     = "autonumber"
)

// DestinationTable is one table of the destination database.
type DestinationTable struct {
	ID   int
	Name string
}

// SelectOption is one option of a single/multiple select field.
type SelectOption struct {
	ID    int
	Value string
	Color string
}

// DestinationField is the metadata of one destination field, as needed by
// the conversion registry and the link resolver.
type DestinationField struct {
	ID       int
	Name     string
	Kind     string
	ReadOnly bool

	// number
	DecimalPlaces int
	AllowNegative bool

	// rating
	MaxValue int

	// date
	IncludeTime bool

	// single_select / multiple_select
	SelectOptions []SelectOption

	// link_row: the table the link points to. Link resolution looks up
	// the record index for this table.
	LinkTableID int
}

// Key returns the wire key used in row payloads (user_field_names=false).
func (f DestinationField) Key() string {
	return fmt.Sprintf("field_%d", f.ID)
}

// Option returns the select option whose value matches the given string.
func (f DestinationField) Option(value string) (SelectOption, bool) {
	for _, o := range f.SelectOptions {
		if o.Value == value {
			return o, true
		}
	}
	return SelectOption{}, false
}
