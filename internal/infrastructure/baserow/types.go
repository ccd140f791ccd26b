package baserow

import (
	"github.com/Ferguson-Digital/airtable-baserow-importer/internal/domain/entity"
)

// Wire types for the Baserow REST API.

type table struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type field struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	ReadOnly bool   `json:"read_only"`

	NumberDecimalPlaces int  `json:"number_decimal_places"`
	NumberNegative      bool `json:"number_negative"`
	MaxValue            int  `json:"max_value"`
	DateIncludeTime     bool `json:"date_include_time"`
	LinkRowTableID      int  `json:"link_row_table_id"`

	SelectOptions []selectOption `json:"select_options"`
}

type selectOption struct {
	ID    int    `json:"id"`
	Value string `json:"value"`
	Color string `json:"color"`
}

type rowResponse struct {
	ID int `json:"id"`
}

func (f field) toEntity() *entity.DestinationField {
	out := &entity.DestinationField{
		ID:            f.ID,
		Name:          f.Name,
		Kind:          f.Type,
		ReadOnly:      f.ReadOnly,
		DecimalPlaces: f.NumberDecimalPlaces,
		AllowNegative: f.NumberNegative,
		MaxValue:      f.MaxValue,
		IncludeTime:   f.DateIncludeTime,
		LinkTableID:   f.LinkRowTableID,
	}
	for _, o := range f.SelectOptions {
		out.SelectOptions = append(out.SelectOptions, entity.SelectOption{
			ID:    o.ID,
			Value: o.Value,
			Color: o.Color,
		})
	}
	return out
}
