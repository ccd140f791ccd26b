package usecase

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/Ferguson-Digital/airtable-baserow-importer/internal/domain/entity"
	"github.com/Ferguson-Digital/airtable-baserow-importer/internal/domain/mocks"
	"github.com/Ferguson-Digital/airtable-baserow-importer/internal/fieldmap"
)

func newTemplateDestMock() *mocks.MockDestinationRepository {
	return &mocks.MockDestinationRepository{
		ListTablesFunc: func(ctx context.Context, databaseID int) ([]*entity.DestinationTable, error) {
			return []*entity.DestinationTable{
				{ID: 101, Name: "People"},
				{ID: 202, Name: "Projects"},
			}, nil
		},
		ListFieldsFunc: func(ctx context.Context, tableID int) ([]*entity.DestinationField, error) {
			return testDestFields(tableID), nil
		},
	}
}

func TestGenerate(t *testing.T) {
	uc := NewTemplateUsecase(newTemplateDestMock(), testLogger())

	data, err := uc.Generate(context.Background(), 42, "appABC")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	doc, parseErr := fieldmap.Parse(fillTemplateSlots(data))
	if parseErr != nil {
		t.Fatalf("generated template does not parse: %v", parseErr)
	}

	if len(doc.Bases) != 1 || doc.Bases[0].BaseID != "appABC" {
		t.Fatalf("bases = %+v", doc.Bases)
	}
	if len(doc.Bases[0].Tables) != 2 {
		t.Fatalf("tables = %d, want 2", len(doc.Bases[0].Tables))
	}

	people := doc.Bases[0].Tables[0]
	if people.DestinationTable != 101 {
		t.Errorf("first table = %d, want 101", people.DestinationTable)
	}
	// Writable fields only; the read-only and file columns of table 101
	// are 1004 (skipped) and 1005 (listed but mapped like any writable
	// field until validate rejects it).
	for _, fm := range people.Fields {
		if fm.Destination == 1004 {
			t.Errorf("read-only field 1004 should be skipped, got %+v", people.Fields)
		}
	}
	if len(people.Skipped) != 1 || !strings.Contains(people.Skipped[0], "Computed") {
		t.Errorf("skipped = %v", people.Skipped)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	uc := NewTemplateUsecase(newTemplateDestMock(), testLogger())

	first, err := uc.Generate(context.Background(), 42, "appABC")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	second, err := uc.Generate(context.Background(), 42, "appABC")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("unchanged schema produced different templates")
	}
}

func TestGenerateEmptyDatabase(t *testing.T) {
	dest := newTemplateDestMock()
	dest.ListTablesFunc = func(ctx context.Context, databaseID int) ([]*entity.DestinationTable, error) {
		return nil, nil
	}

	uc := NewTemplateUsecase(dest, testLogger())
	if _, err := uc.Generate(context.Background(), 42, "appABC"); err == nil {
		t.Errorf("empty database should fail")
	}
}

// fillTemplateSlots makes a generated template parseable by filling the
// blank source slots the way a user would.
func fillTemplateSlots(data []byte) []byte {
	out := bytes.ReplaceAll(data, []byte(`"source": ""`), []byte(`"source": "Filled"`))
	return bytes.ReplaceAll(out, []byte(fieldmap.PlaceholderSourceTable), []byte("People"))
}
