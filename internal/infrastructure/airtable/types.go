package airtable

// Wire types for the Airtable REST API.

type schemaResponse struct {
	Tables []tableSchema `json:"tables"`
}

type tableSchema struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Fields []fieldSchema `json:"fields"`
}

type fieldSchema struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

type recordsResponse struct {
	Records []record `json:"records"`
	// Offset is the cursor for the next page; absent on the last page.
	Offset string `json:"offset"`
}

type record struct {
	ID          string         `json:"id"`
	CreatedTime string         `json:"createdTime"`
	Fields      map[string]any `json:"fields"`
}
