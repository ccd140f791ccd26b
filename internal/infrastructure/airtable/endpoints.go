package airtable

const (
	// DefaultBaseURL is the public Airtable API.
	DefaultBaseURL = "https://api.airtable.com"

	endpointBaseSchema = "/v0/meta/bases/%s/tables" // GET
	endpointRecords    = "/v0/%s/%s"                // GET, paginated via offset cursor
)
