package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Ferguson-Digital/airtable-baserow-importer/internal/domain"
	"github.com/Ferguson-Digital/airtable-baserow-importer/internal/domain/entity"
	"github.com/Ferguson-Digital/airtable-baserow-importer/internal/fieldmap"
)

// TemplateUsecase generates a skeleton field map from the destination
// schema, to be hand-filled by the user. Pure read-and-serialize; nothing
// is mutated.
type TemplateUsecase interface {
	Generate(ctx context.Context, databaseID int, baseID string) ([]byte, error)
}

type templateUsecase struct {
	dest   domain.DestinationRepository
	logger *slog.Logger
}

// NewTemplateUsecase creates a new template usecase
func NewTemplateUsecase(dest domain.DestinationRepository, logger *slog.Logger) TemplateUsecase {
	return &templateUsecase{
		dest:   dest,
		logger: logger,
	}
}

// Generate lists every table of the database and every field of each
// table, and renders the skeleton document. Output depends only on the
// schema: an unchanged schema yields byte-identical output.
func (u *templateUsecase) Generate(ctx context.Context, databaseID int, baseID string) ([]byte, error) {
	tables, err := u.dest.ListTables(ctx, databaseID)
	if err != nil {
		return nil, fmt.Errorf("list tables for database %d: %w", databaseID, err)
	}
	if len(tables) == 0 {
		return nil, fmt.Errorf("database %d has no tables", databaseID)
	}

	fields := make(map[int][]*entity.DestinationField, len(tables))
	for _, table := range tables {
		fs, err := u.dest.ListFields(ctx, table.ID)
		if err != nil {
			return nil, fmt.Errorf("list fields for table %d: %w", table.ID, err)
		}
		fields[table.ID] = fs
	}

	u.logger.Info("generated field map template",
		"database_id", databaseID,
		"tables", len(tables),
	)

	return fieldmap.Template(baseID, tables, fields).Marshal()
}
