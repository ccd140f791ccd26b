package mocks

import (
	"context"

	"github.com/Ferguson-Digital/airtable-baserow-importer/internal/domain/entity"
)

// MockDestinationRepository is a mock implementation of
// domain.DestinationRepository
type MockDestinationRepository struct {
	ListTablesFunc func(ctx context.Context, databaseID int) ([]*entity.DestinationTable, error)
	ListFieldsFunc func(ctx context.Context, tableID int) ([]*entity.DestinationField, error)
	CreateRowFunc  func(ctx context.Context, tableID int, values map[string]any) (int, error)
	UpdateRowFunc  func(ctx context.Context, tableID, rowID int, values map[string]any) error
}

// ListTables mocks the ListTables method
func (m *MockDestinationRepository) ListTables(ctx context.Context, databaseID int) ([]*entity.DestinationTable, error) {
	if m.ListTablesFunc != nil {
		return m.ListTablesFunc(ctx, databaseID)
	}
	return []*entity.DestinationTable{}, nil
}

// ListFields mocks the ListFields method
func (m *MockDestinationRepository) ListFields(ctx context.Context, tableID int) ([]*entity.DestinationField, error) {
	if m.ListFieldsFunc != nil {
		return m.ListFieldsFunc(ctx, tableID)
	}
	return []*entity.DestinationField{}, nil
}

// CreateRow mocks the CreateRow method
func (m *MockDestinationRepository) CreateRow(ctx context.Context, tableID int, values map[string]any) (int, error) {
	if m.CreateRowFunc != nil {
		return m.CreateRowFunc(ctx, tableID, values)
	}
	return 1, nil
}

// UpdateRow mocks the UpdateRow method
func (m *MockDestinationRepository) UpdateRow(ctx context.Context, tableID, rowID int, values map[string]any) error {
	if m.UpdateRowFunc != nil {
		return m.UpdateRowFunc(ctx, tableID, rowID, values)
	}
	return nil
}
