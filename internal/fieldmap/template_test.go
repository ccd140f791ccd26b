package fieldmap

import (
	"bytes"
	"testing"

	"github.com/Ferguson-Digital/airtable-baserow-importer/internal/domain/entity"
)

func testSchema() ([]*entity.DestinationTable, map[int][]*entity.DestinationField) {
	tables := []*entity.DestinationTable{
		{ID: 101, Name: "People"},
		{ID: 202, Name: "Projects"},
	}
	fields := map[int][]*entity.DestinationField{
		101: {
			{ID: 1001, Name: "Name", Kind: entity.FieldKindText},
			{ID: 1002, Name: "Computed", Kind: entity.FieldKindFormula, ReadOnly: true},
			{ID: 1003, Name: "Projects", Kind: entity.FieldKindLinkRow, LinkTableID: 202},
		},
		202: {
			{ID: 2001, Name: "Title", Kind: entity.FieldKindText},
		},
	}
	return tables, fields
}

func TestTemplate(t *testing.T) {
	tables, fields := testSchema()
	doc := Template("appABC", tables, fields)

	if len(doc.Bases) != 1 || doc.Bases[0].BaseID != "appABC" {
		t.Fatalf("bases = %+v, want one base appABC", doc.Bases)
	}

	people := doc.Bases[0].Tables[0]
	if people.SourceTable != PlaceholderSourceTable {
		t.Errorf("source_table = %q, want placeholder", people.SourceTable)
	}
	if people.DestinationTable != 101 {
		t.Errorf("destination_table = %d, want 101", people.DestinationTable)
	}

	// Read-only fields are skipped, not mapped.
	if len(people.Fields) != 2 {
		t.Fatalf("fields = %d, want 2", len(people.Fields))
	}
	if len(people.Skipped) != 1 || people.Skipped[0] != "Computed (formula)" {
		t.Errorf("skipped = %v, want [Computed (formula)]", people.Skipped)
	}

	// Link fields come pre-flagged.
	if people.Fields[0].Link {
		t.Errorf("field 1001 should not be a link")
	}
	if !people.Fields[1].Link {
		t.Errorf("field 1003 should be a link")
	}

	// Source slots are left blank for the user.
	for _, fm := range people.Fields {
		if fm.Source != "" {
			t.Errorf("field %d source = %q, want blank", fm.Destination, fm.Source)
		}
	}
}

func TestTemplateEmptyBaseID(t *testing.T) {
	tables, fields := testSchema()
	doc := Template("", tables, fields)
	if doc.Bases[0].BaseID != PlaceholderBaseID {
		t.Errorf("base_id = %q, want placeholder", doc.Bases[0].BaseID)
	}
}

func TestTemplateDeterministic(t *testing.T) {
	tables, fields := testSchema()

	first, err := Template("appABC", tables, fields).Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	second, err := Template("appABC", tables, fields).Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Errorf("regenerated template differs:\n%s\n---\n%s", first, second)
	}
	if first[len(first)-1] != '\n' {
		t.Errorf("template should end with a newline")
	}
}

func TestTemplateRoundTrip(t *testing.T) {
	// A generated template parses back after the user fills in the slots.
	tables, fields := testSchema()
	data, err := Template("appABC", tables, fields).Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	filled := bytes.ReplaceAll(data, []byte(`"source": ""`), []byte(`"source": "Something"`))
	filled = bytes.ReplaceAll(filled, []byte(PlaceholderSourceTable), []byte("People"))

	doc, err := Parse(filled)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if doc.Bases[0].Tables[0].SourceTable != "People" {
		t.Errorf("source_table = %q, want People", doc.Bases[0].Tables[0].SourceTable)
	}
}
