package fieldmap

import (
	"fmt"

	"github.com/bytedance/sonic"

	"github.com/Ferguson-Digital/airtable-baserow-importer/internal/domain/entity"
)

// Placeholder values for the source slots the user fills in by hand.
const (
	PlaceholderBaseID      = "(Airtable Base ID)"
	PlaceholderSourceTable = "(Airtable Table ID/Name)"
)

// Template builds a skeleton field map from the destination schema: every
// writable destination field listed, source slots blank. Read-only fields
// are listed under "skipped" so the user can see what was left out.
// Output is fully determined by the schema, so regenerating against an
// unchanged schema yields an identical document.
func Template(baseID string, tables []*entity.DestinationTable, fields map[int][]*entity.DestinationField) *Document {
	if baseID == "" {
		baseID = PlaceholderBaseID
	}

	base := BaseMapping{BaseID: baseID}
	for _, table := range tables {
		tm := TableMapping{
			SourceTable:      PlaceholderSourceTable,
			DestinationTable: table.ID,
		}
		for _, f := range fields[table.ID] {
			if f.ReadOnly {
				tm.Skipped = append(tm.Skipped, fmt.Sprintf("%s (%s)", f.Name, f.Kind))
				continue
			}
			tm.Fields = append(tm.Fields, FieldMapping{
				Destination: f.ID,
				Link:        f.Kind == entity.FieldKindLinkRow,
			})
		}
		base.Tables = append(base.Tables, tm)
	}

	return &Document{Bases: []BaseMapping{base}}
}

// Marshal renders the document as indented JSON, a stable byte sequence
// for a given document.
func (d *Document) Marshal() ([]byte, error) {
	data, err := sonic.MarshalIndent(d, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("marshal field map: %w", err)
	}
	return append(data, '\n'), nil
}
