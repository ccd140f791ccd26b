package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the importer error taxonomy. Typed errors below wrap
// these so callers can branch with errors.Is without losing context.
var (
	// ErrMapping marks an invalid field map document or schema mismatch,
	// always detected before any row is written.
	ErrMapping = errors.New("invalid field map")
	// ErrUnsupportedConversion marks a (source kind, destination kind)
	// pair with no registered default conversion.
	ErrUnsupportedConversion = errors.New("unsupported conversion")
	// ErrConversionValue marks a value that failed to coerce to the
	// destination field kind.
	ErrConversionValue = errors.New("conversion failed")
	// ErrReadOnlyField marks a destination field that rejects writes.
	ErrReadOnlyField = errors.New("read-only destination field")
	// ErrAPI marks a transport, auth, or rate-limit failure from either
	// service after the adapter's own retries are exhausted.
	ErrAPI = errors.New("api request failed")
)

// MappingProblem describes one defect found while validating a field map.
type MappingProblem struct {
	// Table identifies the table mapping the problem was found in, as
	// "sourceTable -> destTable", or "" for document-level problems.
	Table string
	// Err is the underlying problem, possibly a *ReadOnlyFieldError.
	Err error
}

func (p MappingProblem) String() string {
	if p.Table == "" {
		return p.Err.Error()
	}
	return fmt.Sprintf("table %s: %v", p.Table, p.Err)
}

// MappingError aggregates every problem found in a field map document so
// the user can fix them all in one pass. It is always surfaced before any
// destination row is written.
type MappingError struct {
	Problems []MappingProblem
}

// Error lists every problem, one per line.
func (e *MappingError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "field map has %d problem(s):", len(e.Problems))
	for _, p := range e.Problems {
		sb.WriteString("\n  - ")
		sb.WriteString(p.String())
	}
	return sb.String()
}

// Unwrap exposes every contained problem plus the ErrMapping sentinel so
// both errors.Is(err, ErrMapping) and errors.As against a contained
// *ReadOnlyFieldError work.
func (e *MappingError) Unwrap() []error {
	errs := make([]error, 0, len(e.Problems)+1)
	errs = append(errs, ErrMapping)
	for _, p := range e.Problems {
		errs = append(errs, p.Err)
	}
	return errs
}

// Add appends a problem scoped to the given table mapping.
func (e *MappingError) Add(table string, err error) {
	e.Problems = append(e.Problems, MappingProblem{Table: table, Err: err})
}

// Addf appends a problem described by a format string.
func (e *MappingError) Addf(table, format string, args ...any) {
	e.Add(table, fmt.Errorf(format, args...))
}

// OrNil returns the error if any problems were collected, nil otherwise.
func (e *MappingError) OrNil() error {
	if len(e.Problems) == 0 {
		return nil
	}
	return e
}

// UnsupportedConversionError reports that no default conversion exists for
// a kind pair and no override was supplied.
type UnsupportedConversionError struct {
	SourceKind      string
	DestinationKind string
	FieldID         int
}

func (e *UnsupportedConversionError) Error() string {
	return fmt.Sprintf("no conversion from %q to %q for field %d",
		e.SourceKind, e.DestinationKind, e.FieldID)
}

func (e *UnsupportedConversionError) Unwrap() error { return ErrUnsupportedConversion }

// ConversionValueError reports a value that does not parse as the
// destination kind. Data is never silently dropped or nulled out; the
// offending value travels with the error.
type ConversionValueError struct {
	Value       any
	RecordID    string
	SourceField string
	FieldID     int
	Reason      string
}

func (e *ConversionValueError) Error() string {
	return fmt.Sprintf("record %s: field %q -> field %d: %s (value %v)",
		e.RecordID, e.SourceField, e.FieldID, e.Reason, e.Value)
}

func (e *ConversionValueError) Unwrap() error { return ErrConversionValue }

// ReadOnlyFieldError reports a mapped destination field that the
// destination service computes itself (formula, lookup, rollup).
type ReadOnlyFieldError struct {
	FieldID int
	Name    string
	Kind    string
}

func (e *ReadOnlyFieldError) Error() string {
	return fmt.Sprintf("field %d (%s) is read-only (%s) and cannot be written",
		e.FieldID, e.Name, e.Kind)
}

func (e *ReadOnlyFieldError) Unwrap() error { return ErrReadOnlyField }

// APIError reports a terminal failure from the Airtable or Baserow API.
type APIError struct {
	Service    string
	StatusCode int
	Endpoint   string
	Body       string
	Err        error
}

func (e *APIError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Service, e.Endpoint, e.Err)
	case e.Body != "":
		return fmt.Sprintf("%s: %s: HTTP %d: %s", e.Service, e.Endpoint, e.StatusCode, e.Body)
	default:
		return fmt.Sprintf("%s: %s: HTTP %d", e.Service, e.Endpoint, e.StatusCode)
	}
}

func (e *APIError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrAPI
}

// Is lets errors.Is(err, ErrAPI) match even when Err carries a cause.
func (e *APIError) Is(target error) bool { return target == ErrAPI }

// IsMappingError reports whether err is (or wraps) a field map validation
// failure.
func IsMappingError(err error) bool {
	return errors.Is(err, ErrMapping)
}

// IsConversionValueError reports whether err is a value coercion failure.
func IsConversionValueError(err error) bool {
	return errors.Is(err, ErrConversionValue)
}

// IsAPIError reports whether err is a terminal service failure.
func IsAPIError(err error) bool {
	return errors.Is(err, ErrAPI)
}
