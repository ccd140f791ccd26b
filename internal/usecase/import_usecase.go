package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Ferguson-Digital/airtable-baserow-importer/internal/convert"
	"github.com/Ferguson-Digital/airtable-baserow-importer/internal/domain"
	"github.com/Ferguson-Digital/airtable-baserow-importer/internal/domain/entity"
	"github.com/Ferguson-Digital/airtable-baserow-importer/internal/fieldmap"
)

// ErrorPolicy decides what a per-record failure does to the run.
type ErrorPolicy string

const (
	// PolicyAbort stops the run on the first record failure. This is the
	// default: with no transactional guard on the destination, a
	// half-populated table is the risk surface, and aborting with full
	// context tells the user exactly which record and field to fix.
	PolicyAbort ErrorPolicy = "abort"
	// PolicySkip tallies the failure and continues with the next record.
	PolicySkip ErrorPolicy = "skip"
)

// ImportOptions configures one run.
type ImportOptions struct {
	// Overrides maps destination field ids to user conversion functions,
	// looked up once per field per record.
	Overrides map[int]convert.Func
	// OnError is the per-record failure policy; empty means PolicyAbort.
	OnError ErrorPolicy
	// DryRun converts and validates every record without writing
	// anything; link resolution is skipped since no rows exist.
	DryRun bool
}

// ImportUsecase drives a two-pass import: pass one creates rows for every
// non-link field and fills the record index, pass two resolves link
// fields through the completed index.
type ImportUsecase interface {
	Run(ctx context.Context, doc *fieldmap.Document, opts ImportOptions) (*entity.ImportReport, error)
	// Validate runs every pre-flight check (document schema against both
	// services) without writing a single row.
	Validate(ctx context.Context, doc *fieldmap.Document) error
}

type importUsecase struct {
	source   domain.SourceRepository
	dest     domain.DestinationRepository
	registry *convert.Registry
	logger   *slog.Logger
}

// NewImportUsecase creates a new import usecase
func NewImportUsecase(source domain.SourceRepository, dest domain.DestinationRepository, registry *convert.Registry, logger *slog.Logger) ImportUsecase {
	return &importUsecase{
		source:   source,
		dest:     dest,
		registry: registry,
		logger:   logger,
	}
}

// tablePlan is one table mapping after pre-flight: destination field
// metadata and source field schema resolved for every mapping entry.
type tablePlan struct {
	baseID       string
	mapping      fieldmap.TableMapping
	fields       map[int]entity.DestinationField
	sourceFields map[string]entity.SourceField
}

// linkEntry carries one record's raw link values from pass one to pass
// two, together with the destination row they belong to.
type linkEntry struct {
	recordID string
	rowID    int
	links    map[int][]string
}

func (u *importUsecase) Run(ctx context.Context, doc *fieldmap.Document, opts ImportOptions) (*entity.ImportReport, error) {
	if opts.OnError == "" {
		opts.OnError = PolicyAbort
	}

	report := &entity.ImportReport{
		RunID:     uuid.NewString(),
		DryRun:    opts.DryRun,
		StartedAt: time.Now(),
	}
	defer func() {
		report.Duration = time.Since(report.StartedAt)
	}()

	logger := u.logger.With("run_id", report.RunID)

	plans, err := u.preflight(ctx, doc, opts.Overrides)
	if err != nil {
		return report, err
	}

	// The index and deferred link sets live exactly as long as this run.
	index := newRecordIndex()
	deferred := make([][]linkEntry, len(plans))

	// Pass one: primary fields, document order, one page and one row at
	// a time.
	for i, plan := range plans {
		entries, err := u.importTable(ctx, logger, plan, index, opts, report)
		if err != nil {
			return report, err
		}
		deferred[i] = entries
	}

	// Pass two: link resolution over the now-complete index.
	if !opts.DryRun {
		for i, plan := range plans {
			if len(deferred[i]) == 0 {
				continue
			}
			if err := u.resolveLinks(ctx, logger, plan, deferred[i], index, opts, report); err != nil {
				return report, err
			}
		}
	}

	logger.Info("import finished",
		"created", report.Created,
		"updated", report.Updated,
		"failed", report.Failed,
		"unresolved_links", len(report.Unresolved),
		"dry_run", report.DryRun,
		"duration", report.Duration.Round(time.Millisecond),
	)
	return report, nil
}

func (u *importUsecase) Validate(ctx context.Context, doc *fieldmap.Document) error {
	_, err := u.preflight(ctx, doc, nil)
	return err
}

// preflight resolves every table mapping against both services' schemas
// and aggregates every problem found. No row is written until it passes.
// Fields with an override skip the conversion pair check; the override
// decides what it accepts.
func (u *importUsecase) preflight(ctx context.Context, doc *fieldmap.Document, overrides map[int]convert.Func) ([]*tablePlan, error) {
	merr := &domain.MappingError{}
	var plans []*tablePlan

	for _, base := range doc.Bases {
		tables, err := u.source.ListTables(ctx, base.BaseID)
		if err != nil {
			return nil, fmt.Errorf("list source tables for base %s: %w", base.BaseID, err)
		}

		for _, tm := range base.Tables {
			src := findSourceTable(tables, tm.SourceTable)
			if src == nil {
				merr.Addf(tm.Name(), "source table %q not found in base %s", tm.SourceTable, base.BaseID)
				continue
			}

			destFields, err := u.dest.ListFields(ctx, tm.DestinationTable)
			if err != nil {
				return nil, fmt.Errorf("list destination fields for table %d: %w", tm.DestinationTable, err)
			}
			byID := make(map[int]entity.DestinationField, len(destFields))
			for _, f := range destFields {
				byID[f.ID] = *f
			}

			plan := &tablePlan{
				baseID:       base.BaseID,
				mapping:      tm,
				fields:       make(map[int]entity.DestinationField, len(tm.Fields)),
				sourceFields: make(map[string]entity.SourceField, len(tm.Fields)),
			}

			for _, fm := range tm.Fields {
				field, ok := byID[fm.Destination]
				if !ok {
					merr.Addf(tm.Name(), "destination field %d does not exist", fm.Destination)
					continue
				}
				if field.ReadOnly {
					merr.Add(tm.Name(), &domain.ReadOnlyFieldError{
						FieldID: field.ID,
						Name:    field.Name,
						Kind:    field.Kind,
					})
					continue
				}
				if field.Kind == entity.FieldKindFile {
					merr.Addf(tm.Name(), "field %d (%s): file fields are not imported (attachment content is out of scope)", field.ID, field.Name)
					continue
				}
				if field.Kind == entity.FieldKindLinkRow && !fm.Link {
					merr.Addf(tm.Name(), "field %d (%s) is a link field; mark the mapping with \"link\": true", field.ID, field.Name)
					continue
				}
				if fm.Link && field.Kind != entity.FieldKindLinkRow {
					merr.Addf(tm.Name(), "field %d (%s) is %s, not a link field", field.ID, field.Name, field.Kind)
					continue
				}

				sf, ok := src.Field(fm.Source)
				if !ok {
					merr.Addf(tm.Name(), "source field %q not found in table %q", fm.Source, src.Name)
					continue
				}
				if fm.Link && sf.Kind != entity.SourceKindRecordLinks {
					merr.Addf(tm.Name(), "link field %d can only be fed from a record-links field; %q is %s", field.ID, fm.Source, sf.Kind)
					continue
				}
				if !fm.Link {
					if sf.Kind == entity.SourceKindRecordLinks {
						merr.Addf(tm.Name(), "record-links field %q can only feed a link field; mark the mapping with \"link\": true", fm.Source)
						continue
					}
					if _, overridden := overrides[fm.Destination]; !overridden && !u.registry.Supported(sf.Kind, field.Kind) {
						merr.Add(tm.Name(), &domain.UnsupportedConversionError{
							SourceKind:      sf.Kind,
							DestinationKind: field.Kind,
							FieldID:         field.ID,
						})
						continue
					}
				}

				plan.fields[fm.Destination] = field
				plan.sourceFields[fm.Source] = sf
			}

			plans = append(plans, plan)
		}
	}

	if err := merr.OrNil(); err != nil {
		return nil, err
	}
	return plans, nil
}

func findSourceTable(tables []*entity.SourceTable, idOrName string) *entity.SourceTable {
	for _, t := range tables {
		if t.ID == idOrName || t.Name == idOrName {
			return t
		}
	}
	return nil
}

// importTable runs pass one for one table: paginate, convert, create,
// index. Records are processed in the order the source returns them.
func (u *importUsecase) importTable(ctx context.Context, logger *slog.Logger, plan *tablePlan, index *recordIndex, opts ImportOptions, report *entity.ImportReport) ([]linkEntry, error) {
	logger = logger.With(
		"source_table", plan.mapping.SourceTable,
		"destination_table", plan.mapping.DestinationTable,
	)
	logger.Info("importing records")

	var entries []linkEntry
	offset := ""
	for {
		page, err := u.source.ListRecords(ctx, plan.baseID, plan.mapping.SourceTable, offset)
		if err != nil {
			return nil, fmt.Errorf("table %s: list records: %w", plan.mapping.Name(), err)
		}

		for _, rec := range page.Records {
			entry, err := u.importRecord(ctx, plan, rec, index, opts, report)
			if err != nil {
				if opts.OnError == PolicySkip {
					report.Failed++
					report.Errors = append(report.Errors, entity.RecordError{
						SourceTableID:      plan.mapping.SourceTable,
						DestinationTableID: plan.mapping.DestinationTable,
						RecordID:           rec.ID,
						Err:                err,
					})
					logger.Warn("record skipped", "record_id", rec.ID, "error", err)
					continue
				}
				return nil, fmt.Errorf("table %s: %w", plan.mapping.Name(), err)
			}
			if entry != nil {
				entries = append(entries, *entry)
			}
		}

		if page.Offset == "" {
			return entries, nil
		}
		offset = page.Offset
	}
}

// importRecord converts and writes one record's non-link fields. The
// returned entry is non-nil when the record carries link values for pass
// two.
func (u *importUsecase) importRecord(ctx context.Context, plan *tablePlan, rec *entity.SourceRecord, index *recordIndex, opts ImportOptions, report *entity.ImportReport) (*linkEntry, error) {
	payload := make(map[string]any, len(plan.mapping.Fields))
	links := make(map[int][]string)

	for _, fm := range plan.mapping.Fields {
		sf, ok := plan.sourceFields[fm.Source]
		if !ok {
			// Mapping entry that failed pre-flight cannot reach here.
			continue
		}

		// Records address fields by name or by id depending on the
		// request; empty fields are absent entirely.
		raw, ok := rec.Fields[sf.Name]
		if !ok {
			if raw, ok = rec.Fields[sf.ID]; !ok {
				continue
			}
		}

		field := plan.fields[fm.Destination]

		if fm.Link {
			ids, err := linkedRecordIDs(raw, field, rec.ID, fm.Source)
			if err != nil {
				return nil, err
			}
			links[fm.Destination] = ids
			continue
		}

		val, err := u.registry.Convert(raw, sf.Kind, field, opts.Overrides[fm.Destination])
		if err != nil {
			err = convert.AnnotateValueError(err, rec.ID, fm.Source)
			if !domain.IsConversionValueError(err) {
				err = fmt.Errorf("record %s: field %q: %w", rec.ID, fm.Source, err)
			}
			return nil, err
		}
		if val == nil {
			continue
		}
		payload[field.Key()] = val
	}

	if opts.DryRun {
		report.Created++
		return nil, nil
	}

	rowID, err := u.dest.CreateRow(ctx, plan.mapping.DestinationTable, payload)
	if err != nil {
		return nil, fmt.Errorf("record %s: create row: %w", rec.ID, err)
	}
	index.put(plan.mapping.DestinationTable, rec.ID, rowID)
	report.Created++

	if len(links) == 0 {
		return nil, nil
	}
	return &linkEntry{recordID: rec.ID, rowID: rowID, links: links}, nil
}

// resolveLinks runs pass two for one table: every linked source record id
// is resolved through the index for the link's target table. Ids missing
// from the index are dropped from the write and reported as warnings,
// never aborting the record.
func (u *importUsecase) resolveLinks(ctx context.Context, logger *slog.Logger, plan *tablePlan, entries []linkEntry, index *recordIndex, opts ImportOptions, report *entity.ImportReport) error {
	logger = logger.With("destination_table", plan.mapping.DestinationTable)
	logger.Info("resolving linked records", "records", len(entries))

	for _, entry := range entries {
		payload := make(map[string]any, len(entry.links))

		for _, fm := range plan.mapping.LinkFields() {
			srcIDs, ok := entry.links[fm.Destination]
			if !ok {
				continue
			}
			field := plan.fields[fm.Destination]

			rowIDs := make([]int, 0, len(srcIDs))
			for _, linked := range srcIDs {
				rowID, ok := index.get(field.LinkTableID, linked)
				if !ok {
					report.Unresolved = append(report.Unresolved, entity.UnresolvedLink{
						DestinationTableID: plan.mapping.DestinationTable,
						DestinationRowID:   entry.rowID,
						FieldID:            field.ID,
						SourceRecordID:     entry.recordID,
						LinkedRecordID:     linked,
					})
					logger.Warn("unresolved link",
						"record_id", entry.recordID,
						"field_id", field.ID,
						"linked_record_id", linked,
					)
					continue
				}
				rowIDs = append(rowIDs, rowID)
			}
			payload[field.Key()] = rowIDs
		}

		if len(payload) == 0 {
			continue
		}

		if err := u.dest.UpdateRow(ctx, plan.mapping.DestinationTable, entry.rowID, payload); err != nil {
			if opts.OnError == PolicySkip {
				report.Failed++
				report.Errors = append(report.Errors, entity.RecordError{
					SourceTableID:      plan.mapping.SourceTable,
					DestinationTableID: plan.mapping.DestinationTable,
					RecordID:           entry.recordID,
					Err:                err,
				})
				logger.Warn("link update skipped", "record_id", entry.recordID, "error", err)
				continue
			}
			return fmt.Errorf("table %s: record %s: update links: %w", plan.mapping.Name(), entry.recordID, err)
		}
		report.Updated++
	}
	return nil
}

// linkedRecordIDs validates that a link field's raw value is a list of
// source record ids.
func linkedRecordIDs(raw any, field entity.DestinationField, recordID, sourceField string) ([]string, error) {
	list, ok := raw.([]any)
	if !ok {
		return nil, &domain.ConversionValueError{
			Value:       raw,
			RecordID:    recordID,
			SourceField: sourceField,
			FieldID:     field.ID,
			Reason:      "link fields can only be fed from record-links values",
		}
	}
	ids := make([]string, 0, len(list))
	for _, item := range list {
		id, ok := item.(string)
		if !ok {
			return nil, &domain.ConversionValueError{
				Value:       item,
				RecordID:    recordID,
				SourceField: sourceField,
				FieldID:     field.ID,
				Reason:      "link values must be record ids",
			}
		}
		ids = append(ids, id)
	}
	return ids, nil
}
