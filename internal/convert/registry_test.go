package convert

import (
	"errors"
	"strings"
	"testing"

	"github.com/Ferguson-Digital/airtable-baserow-importer/internal/domain"
	"github.com/Ferguson-Digital/airtable-baserow-importer/internal/domain/entity"
)

func TestConvertUnsupportedPair(t *testing.T) {
	r := NewRegistry()
	field := entity.DestinationField{ID: 7, Kind: entity.FieldKindDate}

	_, err := r.Convert(true, entity.SourceKindCheckbox, field, nil)
	if err == nil {
		t.Fatal("checkbox into date should not have a default conversion")
	}
	if !errors.Is(err, domain.ErrUnsupportedConversion) {
		t.Errorf("error does not wrap ErrUnsupportedConversion: %v", err)
	}

	var uerr *domain.UnsupportedConversionError
	if !errors.As(err, &uerr) {
		t.Fatalf("error is not a *UnsupportedConversionError: %v", err)
	}
	if uerr.SourceKind != entity.SourceKindCheckbox || uerr.DestinationKind != entity.FieldKindDate || uerr.FieldID != 7 {
		t.Errorf("error identity = %+v", uerr)
	}
}

func TestSupported(t *testing.T) {
	r := NewRegistry()
	if !r.Supported(entity.SourceKindNumber, entity.FieldKindNumber) {
		t.Errorf("number into number should be supported")
	}
	if r.Supported(entity.SourceKindRecordLinks, entity.FieldKindLinkRow) {
		t.Errorf("link fields must not pass through the registry")
	}
}

func TestOverrideCallingDefaultMatchesDefault(t *testing.T) {
	// An override that just delegates must behave exactly like no
	// override.
	r := NewRegistry()
	identity := func(value any, field entity.DestinationField, def DefaultFunc) (any, error) {
		return def(value)
	}

	field := entity.DestinationField{ID: 1, Kind: entity.FieldKindNumber, DecimalPlaces: 2, AllowNegative: true}
	for _, v := range []any{3.999, "$1,234.50", ""} {
		plain, plainErr := r.Convert(v, entity.SourceKindCurrency, field, nil)
		wrapped, wrappedErr := r.Convert(v, entity.SourceKindCurrency, field, identity)
		if plain != wrapped || (plainErr == nil) != (wrappedErr == nil) {
			t.Errorf("value %#v: override (%#v, %v) != default (%#v, %v)", v, wrapped, wrappedErr, plain, plainErr)
		}
	}
}

func TestOverridePostProcess(t *testing.T) {
	r := NewRegistry()
	upper := func(value any, field entity.DestinationField, def DefaultFunc) (any, error) {
		out, err := def(value)
		if err != nil {
			return nil, err
		}
		return strings.ToUpper(out.(string)), nil
	}

	field := entity.DestinationField{ID: 1, Kind: entity.FieldKindText}
	got, err := r.Convert("hello", entity.SourceKindSingleLineText, field, upper)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if got != "HELLO" {
		t.Errorf("Convert() = %#v, want HELLO", got)
	}
}

func TestOverrideOnUnsupportedPair(t *testing.T) {
	r := NewRegistry()
	field := entity.DestinationField{ID: 1, Kind: entity.FieldKindDate}

	// An override that never touches the default makes any pair work.
	constant := func(value any, field entity.DestinationField, def DefaultFunc) (any, error) {
		return "2024-01-01", nil
	}
	got, err := r.Convert(true, entity.SourceKindCheckbox, field, constant)
	if err != nil || got != "2024-01-01" {
		t.Errorf("Convert() = (%#v, %v)", got, err)
	}

	// One that delegates still hits the missing default.
	delegate := func(value any, field entity.DestinationField, def DefaultFunc) (any, error) {
		return def(value)
	}
	if _, err := r.Convert(true, entity.SourceKindCheckbox, field, delegate); !errors.Is(err, domain.ErrUnsupportedConversion) {
		t.Errorf("delegating override should surface the missing default, got %v", err)
	}
}

func TestAnnotateValueError(t *testing.T) {
	r := NewRegistry()
	field := entity.DestinationField{ID: 1, Kind: entity.FieldKindNumber}

	_, err := r.Convert("seven", entity.SourceKindNumber, field, nil)
	if err == nil {
		t.Fatal("want value error")
	}
	err = AnnotateValueError(err, "recABC", "Amount")

	var verr *domain.ConversionValueError
	if !errors.As(err, &verr) {
		t.Fatalf("error is not a *ConversionValueError: %v", err)
	}
	if verr.RecordID != "recABC" || verr.SourceField != "Amount" {
		t.Errorf("annotation missing: %+v", verr)
	}

	// Non-value errors pass through untouched.
	other := errors.New("boom")
	if got := AnnotateValueError(other, "rec", "f"); got != other {
		t.Errorf("AnnotateValueError changed a foreign error")
	}
}
