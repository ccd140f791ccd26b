package domain

import (
	"context"

	"github.com/Ferguson-Digital/airtable-baserow-importer/internal/domain/entity"
)

// SourceRepository defines the interface for reading schema and records
// from the source service (Airtable).
type SourceRepository interface {
	// ListTables returns the schema of every table in the base: table
	// ids and names plus field id, name, and kind per field.
	ListTables(ctx context.Context, baseID string) ([]*entity.SourceTable, error)

	// ListRecords fetches one page of records from a table. Pass the
	// offset cursor from the previous page, or "" for the first page.
	// Pagination is finite and not restartable mid-page: restarting
	// means refetching from the start.
	ListRecords(ctx context.Context, baseID, tableID, offset string) (*entity.RecordPage, error)
}

// DestinationRepository defines the interface for field metadata and row
// mutations on the destination service (Baserow).
type DestinationRepository interface {
	// ListTables returns all tables of a database, used by template
	// generation.
	ListTables(ctx context.Context, databaseID int) ([]*entity.DestinationTable, error)

	// ListFields returns field metadata for a table, including the
	// read-only flag and per-kind attributes (decimal places, select
	// options, link target table).
	ListFields(ctx context.Context, tableID int) ([]*entity.DestinationField, error)

	// CreateRow creates one row and returns its id. Values are keyed by
	// wire field key (field_<id>).
	CreateRow(ctx context.Context, tableID int, values map[string]any) (int, error)

	// UpdateRow patches an existing row with the given values.
	UpdateRow(ctx context.Context, tableID, rowID int, values map[string]any) error
}
