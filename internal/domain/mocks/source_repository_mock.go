package mocks

import (
	"context"

	"github.com/Ferguson-Digital/airtable-baserow-importer/internal/domain/entity"
)

// MockSourceRepository is a mock implementation of domain.SourceRepository
type MockSourceRepository struct {
	ListTablesFunc  func(ctx context.Context, baseID string) ([]*entity.SourceTable, error)
	ListRecordsFunc func(ctx context.Context, baseID, tableID, offset string) (*entity.RecordPage, error)
}

// ListTables mocks the ListTables method
func (m *MockSourceRepository) ListTables(ctx context.Context, baseID string) ([]*entity.SourceTable, error) {
	if m.ListTablesFunc != nil {
		return m.ListTablesFunc(ctx, baseID)
	}
	return []*entity.SourceTable{}, nil
}

// ListRecords mocks the ListRecords method
func (m *MockSourceRepository) ListRecords(ctx context.Context, baseID, tableID, offset string) (*entity.RecordPage, error) {
	if m.ListRecordsFunc != nil {
		return m.ListRecordsFunc(ctx, baseID, tableID, offset)
	}
	return &entity.RecordPage{}, nil
}
