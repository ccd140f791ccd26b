package baserow

const (
	// DefaultBaseURL is the hosted Baserow instance. Self-hosted
	// deployments override it through the client config.
	DefaultBaseURL = "https://api.baserow.io"

	endpointDatabaseTables = "/api/database/tables/database/%d/" // GET
	endpointTableFields    = "/api/database/fields/table/%d/"    // GET
	endpointTableRows      = "/api/database/rows/table/%d/"      // POST
	endpointTableRow       = "/api/database/rows/table/%d/%d/"   // PATCH
)
