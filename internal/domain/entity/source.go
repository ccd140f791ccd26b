package entity

// Airtable field kinds, as reported by the base schema API. The
// conversion registry's pair table is keyed on these values.
const (
	SourceKindSingleLineText   = "singleLineText"
	SourceKindMultilineText    = "multilineText"
	SourceKindRichText         = "richText"
	SourceKindEmail            = "email"
	SourceKindURL              = "url"
	SourceKindPhoneNumber      = "phoneNumber"
	SourceKindNumber           = "number"
	SourceKindCurrency         = "currency"
	SourceKindPercent          = "percent"
	SourceKindDuration         = "duration"
	SourceKindRating           = "rating"
	SourceKindCheckbox         = "checkbox"
	SourceKindDate             = "date"
	SourceKindDateTime         = "dateTime"
	SourceKindCreatedTime      = "createdTime"
	SourceKindLastModifiedTime = "lastModifiedTime"
	SourceKindSingleSelect     = "singleSelect"
	SourceKindMultipleSelects  = "multipleSelects"
	SourceKindRecordLinks      = "multipleRecordLinks"
	SourceKindLookup           = "multipleLookupValues"
	SourceKindFormula          = "formula"
	SourceKindRollup           = "rollup"
	SourceKindCount            = "count"
	SourceKindAutoNumber       = "autoNumber"
	SourceKindBarcode          = "barcode"
	SourceKindAttachments      = "multipleAttachments"
)

// SourceTable is one table of the source base schema.
type SourceTable struct {
	ID     string
	Name   string
	Fields []SourceField
}

// SourceField is the schema of one source field.
type SourceField struct {
	ID   string
	Name string
	Kind string
}

// Field returns the field with the given id or name, matching the source
// service's convention that records may be addressed by either.
func (t *SourceTable) Field(idOrName string) (SourceField, bool) {
	for _, f := range t.Fields {
		if f.ID == idOrName || f.Name == idOrName {
			return f, true
		}
	}
	return SourceField{}, false
}

// SourceRecord is one record as returned by the source records API.
// Fields is keyed by field name or id, exactly as the service returns it;
// fields with empty values are absent from the map.
type SourceRecord struct {
	ID     string
	Fields map[string]any
}

// RecordPage is one page of records plus the cursor for the next page.
// An empty Offset means this was the last page.
type RecordPage struct {
	Records []*SourceRecord
	Offset  string
}
