package convert

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/Ferguson-Digital/airtable-baserow-importer/internal/domain"
	"github.com/Ferguson-Digital/airtable-baserow-importer/internal/domain/entity"
)

var (
	datetimePattern = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})T(\d{2}):(\d{2}):(\d{2})(?:\.(\d{3}))?Z`)
	datePattern     = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})`)
	// Accepts numbers with currency symbols, units, and thousands
	// separators around them ("$1,234.50/mo" -> "1,234.50").
	numericPattern = regexp.MustCompile(`^(\D*)([\d,]+(?:\.\d+)?)(\D*)$`)
)

// registerDefaults installs the built-in conversion table. Pairs not
// listed here fail with UnsupportedConversionError unless the caller
// supplies an override for the destination field.
func (r *Registry) registerDefaults() {
	// Nearly every source kind stringifies; the distinction between the
	// two text targets is newline handling and list joining.
	stringable := []string{
		entity.SourceKindSingleLineText, entity.SourceKindMultilineText,
		entity.SourceKindRichText, entity.SourceKindEmail,
		entity.SourceKindURL, entity.SourceKindPhoneNumber,
		entity.SourceKindNumber, entity.SourceKindCurrency,
		entity.SourceKindPercent, entity.SourceKindDuration,
		entity.SourceKindRating, entity.SourceKindCheckbox,
		entity.SourceKindDate, entity.SourceKindDateTime,
		entity.SourceKindCreatedTime, entity.SourceKindLastModifiedTime,
		entity.SourceKindSingleSelect, entity.SourceKindMultipleSelects,
		entity.SourceKindLookup, entity.SourceKindFormula,
		entity.SourceKindRollup, entity.SourceKindCount,
		entity.SourceKindAutoNumber, entity.SourceKindBarcode,
	}
	r.register(entity.FieldKindText, toText, stringable...)
	r.register(entity.FieldKindLongText, toLongText, stringable...)

	r.register(entity.FieldKindURL, toRequiredString,
		entity.SourceKindURL, entity.SourceKindSingleLineText,
		entity.SourceKindFormula, entity.SourceKindLookup)
	r.register(entity.FieldKindEmail, toRequiredString,
		entity.SourceKindEmail, entity.SourceKindSingleLineText,
		entity.SourceKindFormula, entity.SourceKindLookup)
	r.register(entity.FieldKindPhoneNumber, toRequiredString,
		entity.SourceKindPhoneNumber, entity.SourceKindSingleLineText,
		entity.SourceKindFormula, entity.SourceKindLookup)

	r.register(entity.FieldKindNumber, toNumber,
		entity.SourceKindNumber, entity.SourceKindCurrency,
		entity.SourceKindPercent, entity.SourceKindDuration,
		entity.SourceKindCount, entity.SourceKindAutoNumber,
		entity.SourceKindRating, entity.SourceKindSingleLineText,
		entity.SourceKindFormula, entity.SourceKindRollup,
		entity.SourceKindLookup)

	r.register(entity.FieldKindRating, toRating,
		entity.SourceKindRating, entity.SourceKindNumber,
		entity.SourceKindCount, entity.SourceKindSingleLineText,
		entity.SourceKindFormula)

	r.register(entity.FieldKindBoolean, toBoolean,
		entity.SourceKindCheckbox, entity.SourceKindFormula,
		entity.SourceKindRollup, entity.SourceKindSingleLineText,
		entity.SourceKindLookup)

	r.register(entity.FieldKindDate, toDate,
		entity.SourceKindDate, entity.SourceKindDateTime,
		entity.SourceKindCreatedTime, entity.SourceKindLastModifiedTime,
		entity.SourceKindSingleLineText, entity.SourceKindFormula,
		entity.SourceKindLookup)

	r.register(entity.FieldKindSingleSelect, toSingleSelect,
		entity.SourceKindSingleSelect, entity.SourceKindSingleLineText,
		entity.SourceKindFormula, entity.SourceKindLookup)

	r.register(entity.FieldKindMultipleSelect, toMultiSelect,
		entity.SourceKindMultipleSelects, entity.SourceKindSingleSelect,
		entity.SourceKindLookup)
}

func valueErr(field entity.DestinationField, value any, reason string) error {
	return &domain.ConversionValueError{
		Value:   value,
		FieldID: field.ID,
		Reason:  reason,
	}
}

// preferSingle unwraps a single-element list to its element and an empty
// list to nil; everything else passes through. Lookup and rollup values
// arrive as lists even when they hold one value.
func preferSingle(value any) any {
	list, ok := value.([]any)
	if !ok {
		return value
	}
	switch len(list) {
	case 0:
		return nil
	case 1:
		return list[0]
	default:
		return value
	}
}

// requireSingle is preferSingle for targets that cannot hold more than
// one value; a multi-element list is a value error.
func requireSingle(value any, field entity.DestinationField) (any, error) {
	v := preferSingle(value)
	if _, isList := v.([]any); isList {
		return nil, valueErr(field, value, "single value required")
	}
	return v, nil
}

// stringify renders a scalar the way it should appear in a text cell.
func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func toText(value any, field entity.DestinationField) (any, error) {
	v := preferSingle(value)
	if v == nil {
		return "", nil
	}
	if list, ok := v.([]any); ok {
		parts := make([]string, len(list))
		for i, item := range list {
			parts[i] = stringify(item)
		}
		return strings.ReplaceAll(strings.Join(parts, ", "), "\n", " "), nil
	}
	return strings.ReplaceAll(stringify(v), "\n", " "), nil
}

func toLongText(value any, field entity.DestinationField) (any, error) {
	v := preferSingle(value)
	if v == nil {
		return "", nil
	}
	if list, ok := v.([]any); ok {
		parts := make([]string, len(list))
		for i, item := range list {
			parts[i] = stringify(item)
		}
		return strings.Join(parts, "\n"), nil
	}
	return stringify(v), nil
}

func toRequiredString(value any, field entity.DestinationField) (any, error) {
	v, err := requireSingle(value, field)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	return stringify(v), nil
}

// numericValue extracts a float from the single value: numbers pass
// through, strings go through the numeric pattern with separators
// stripped. The bool result is false for empty values, which convert to
// nil rather than zero.
func numericValue(value any, field entity.DestinationField) (float64, bool, error) {
	v, err := requireSingle(value, field)
	if err != nil {
		return 0, false, err
	}
	switch n := v.(type) {
	case nil:
		return 0, false, nil
	case float64:
		return n, true, nil
	case int:
		return float64(n), true, nil
	case string:
		if n == "" {
			return 0, false, nil
		}
		m := numericPattern.FindStringSubmatch(n)
		if m == nil {
			return 0, false, valueErr(field, value, "invalid numeric format")
		}
		f, err := strconv.ParseFloat(strings.ReplaceAll(m[2], ",", ""), 64)
		if err != nil {
			return 0, false, valueErr(field, value, "invalid numeric format")
		}
		return f, true, nil
	default:
		return 0, false, valueErr(field, value, "invalid numeric format")
	}
}

func toNumber(value any, field entity.DestinationField) (any, error) {
	f, ok, err := numericValue(value, field)
	if err != nil || !ok {
		return nil, err
	}

	if field.DecimalPlaces > 0 {
		p := math.Pow10(field.DecimalPlaces)
		f = math.Trunc(f*p) / p
		if !field.AllowNegative && f < 0 {
			f = 0
		}
		return f, nil
	}

	n := int64(math.Trunc(f))
	if !field.AllowNegative && n < 0 {
		n = 0
	}
	return n, nil
}

func toRating(value any, field entity.DestinationField) (any, error) {
	f, ok, err := numericValue(value, field)
	if err != nil || !ok {
		return nil, err
	}

	n := int64(math.Trunc(f))
	if n < 1 {
		n = 1
	}
	if field.MaxValue > 0 && n > int64(field.MaxValue) {
		n = int64(field.MaxValue)
	}
	return n, nil
}

func toBoolean(value any, field entity.DestinationField) (any, error) {
	v, err := requireSingle(value, field)
	if err != nil {
		return nil, err
	}
	switch b := v.(type) {
	case nil:
		return false, nil
	case bool:
		return b, nil
	case string:
		return b != "", nil
	case float64:
		return b != 0, nil
	default:
		return true, nil
	}
}

func toDate(value any, field entity.DestinationField) (any, error) {
	v, err := requireSingle(value, field)
	if err != nil {
		return nil, err
	}
	if v == nil || v == "" {
		return nil, nil
	}

	s, ok := v.(string)
	if !ok {
		return nil, valueErr(field, value, "date value must be a string")
	}

	if field.IncludeTime {
		if !datetimePattern.MatchString(s) {
			return nil, valueErr(field, value, "invalid datetime format")
		}
	} else if !datePattern.MatchString(s) {
		return nil, valueErr(field, value, "invalid date format")
	}
	return s, nil
}

func toSingleSelect(value any, field entity.DestinationField) (any, error) {
	v, err := requireSingle(value, field)
	if err != nil {
		return nil, err
	}
	if v == nil || v == "" {
		return nil, nil
	}

	opt, ok := field.Option(stringify(v))
	if !ok {
		return nil, valueErr(field, value, "invalid select option")
	}
	return opt.ID, nil
}

func toMultiSelect(value any, field entity.DestinationField) (any, error) {
	if value == nil || value == "" {
		return nil, nil
	}

	list, ok := value.([]any)
	if !ok {
		list = []any{value}
	}

	selected := make([]int, 0, len(list))
	for _, item := range list {
		opt, ok := field.Option(stringify(item))
		if !ok {
			return nil, valueErr(field, item, "invalid select option")
		}
		selected = append(selected, opt.ID)
	}
	return selected, nil
}
