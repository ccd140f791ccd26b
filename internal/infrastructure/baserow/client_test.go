package baserow

import (
	"reflect"
	"testing"

	"github.com/bytedance/sonic"

	"github.com/Ferguson-Digital/airtable-baserow-importer/internal/domain/entity"
)

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"empty uses hosted service", "", DefaultBaseURL, false},
		{"bare host gets https", "baserow.example.com", "https://baserow.example.com", false},
		{"scheme kept", "http://localhost:8000", "http://localhost:8000", false},
		{"trailing slash trimmed", "https://baserow.example.com/", "https://baserow.example.com", false},
		{"path prefix kept", "https://intranet.example.com/baserow/", "https://intranet.example.com/baserow", false},
		{"garbage rejected", "://", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeBaseURL(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("normalizeBaseURL(%q) = %q, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("normalizeBaseURL(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("normalizeBaseURL(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewClientRequiresToken(t *testing.T) {
	if _, err := NewClient(Config{}); err == nil {
		t.Errorf("NewClient without token should fail")
	}
}

func TestFieldToEntity(t *testing.T) {
	body := []byte(`{
		"id": 1002,
		"name": "Price",
		"type": "number",
		"read_only": false,
		"number_decimal_places": 2,
		"number_negative": true
	}`)
	var f field
	if err := sonic.Unmarshal(body, &f); err != nil {
		t.Fatal(err)
	}

	got := f.toEntity()
	want := &entity.DestinationField{
		ID:            1002,
		Name:          "Price",
		Kind:          entity.FieldKindNumber,
		DecimalPlaces: 2,
		AllowNegative: true,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("toEntity() = %+v, want %+v", got, want)
	}
}

func TestLinkFieldToEntity(t *testing.T) {
	body := []byte(`{
		"id": 1003,
		"name": "Projects",
		"type": "link_row",
		"link_row_table_id": 202
	}`)
	var f field
	if err := sonic.Unmarshal(body, &f); err != nil {
		t.Fatal(err)
	}

	got := f.toEntity()
	if got.Kind != entity.FieldKindLinkRow || got.LinkTableID != 202 {
		t.Errorf("toEntity() = %+v, want link_row targeting 202", got)
	}
}

func TestSelectFieldToEntity(t *testing.T) {
	body := []byte(`{
		"id": 1004,
		"name": "Color",
		"type": "single_select",
		"select_options": [
			{"id": 10, "value": "Red", "color": "red"},
			{"id": 11, "value": "Blue", "color": "blue"}
		]
	}`)
	var f field
	if err := sonic.Unmarshal(body, &f); err != nil {
		t.Fatal(err)
	}

	got := f.toEntity()
	if len(got.SelectOptions) != 2 {
		t.Fatalf("options = %v", got.SelectOptions)
	}
	if opt, ok := got.Option("Blue"); !ok || opt.ID != 11 {
		t.Errorf("Option(Blue) = (%+v, %v), want id 11", opt, ok)
	}
}
