// Package convert holds the conversion registry: a default conversion
// function for every supported (source kind, destination kind) pair, plus
// user-supplied overrides keyed by destination field. Link fields never
// pass through here; their value depends on the record index, not on a
// per-value transform.
package convert

import (
	"errors"

	"github.com/Ferguson-Digital/airtable-baserow-importer/internal/domain"
	"github.com/Ferguson-Digital/airtable-baserow-importer/internal/domain/entity"
)

// DefaultFunc runs the registry's built-in conversion for the pair an
// override was registered against. Overrides may pre- or post-process
// around it.
type DefaultFunc func(value any) (any, error)

// Func is a user-supplied conversion override. It receives the raw source
// value, the destination field metadata, and the built-in conversion for
// the same pair.
type Func func(value any, field entity.DestinationField, def DefaultFunc) (any, error)

// builtin is a default conversion for one kind pair.
type builtin func(value any, field entity.DestinationField) (any, error)

type pairKey struct {
	source      string
	destination string
}

// Registry owns the default conversion table. The zero value is unusable;
// construct with NewRegistry.
type Registry struct {
	defaults map[pairKey]builtin
}

// NewRegistry returns a registry populated with the default conversions.
func NewRegistry() *Registry {
	r := &Registry{defaults: make(map[pairKey]builtin)}
	r.registerDefaults()
	return r
}

// register installs fn as the default conversion for every listed source
// kind into the destination kind.
func (r *Registry) register(destinationKind string, fn builtin, sourceKinds ...string) {
	for _, src := range sourceKinds {
		r.defaults[pairKey{source: src, destination: destinationKind}] = fn
	}
}

// Supported reports whether a default conversion exists for the pair.
func (r *Registry) Supported(sourceKind, destinationKind string) bool {
	_, ok := r.defaults[pairKey{source: sourceKind, destination: destinationKind}]
	return ok
}

// Convert turns a source value into a destination value for the given
// kind pair. A nil result means the field should be omitted from the row
// payload. With an override, the override runs with a DefaultFunc bound
// to this registry's built-in for the same pair; without one, a missing
// default fails with *domain.UnsupportedConversionError.
//
// Value errors come back as *domain.ConversionValueError with the value
// and destination field filled in; the caller annotates record and source
// field identity.
func (r *Registry) Convert(value any, sourceKind string, field entity.DestinationField, override Func) (any, error) {
	fn, ok := r.defaults[pairKey{source: sourceKind, destination: field.Kind}]

	if override != nil {
		def := func(v any) (any, error) {
			if !ok {
				return nil, unsupportedErr(sourceKind, field)
			}
			return fn(v, field)
		}
		return override(value, field, def)
	}

	if !ok {
		return nil, unsupportedErr(sourceKind, field)
	}
	return fn(value, field)
}

func unsupportedErr(sourceKind string, field entity.DestinationField) error {
	return &domain.UnsupportedConversionError{
		SourceKind:      sourceKind,
		DestinationKind: field.Kind,
		FieldID:         field.ID,
	}
}

// AnnotateValueError fills record and source field identity into a value
// error produced by Convert, which only knows the value and the
// destination field.
func AnnotateValueError(err error, recordID, sourceField string) error {
	var verr *domain.ConversionValueError
	if errors.As(err, &verr) {
		verr.RecordID = recordID
		verr.SourceField = sourceField
	}
	return err
}
