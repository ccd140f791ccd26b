package commands

import (
	"fmt"

	cliconfig "github.com/Ferguson-Digital/airtable-baserow-importer/internal/cli/config"
	appconfig "github.com/Ferguson-Digital/airtable-baserow-importer/internal/config"
	"github.com/Ferguson-Digital/airtable-baserow-importer/internal/infrastructure/airtable"
	"github.com/Ferguson-Digital/airtable-baserow-importer/internal/infrastructure/baserow"
)

// loadCredentials loads stored credentials and fails with a hint when the
// user has not run configure yet.
func loadCredentials() (*cliconfig.Config, error) {
	creds, err := cliconfig.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load credentials: %w", err)
	}
	if !creds.IsConfigured() {
		return nil, fmt.Errorf("missing credentials, run 'abimport configure' first")
	}
	return creds, nil
}

// newSourceClient builds the Airtable client from credentials and runtime
// settings.
func newSourceClient(creds *cliconfig.Config, cfg *appconfig.Config) (*airtable.Client, error) {
	return airtable.NewClient(airtable.Config{
		Token:    creds.AirtableToken,
		PageSize: cfg.HTTP.PageSize,
		Timeout:  cfg.HTTP.Timeout,
	})
}

// newDestinationClient builds the Baserow client from credentials and
// runtime settings.
func newDestinationClient(creds *cliconfig.Config, cfg *appconfig.Config) (*baserow.Client, error) {
	return baserow.NewClient(baserow.Config{
		Token:   creds.BaserowToken,
		BaseURL: creds.BaserowURL,
		Timeout: cfg.HTTP.Timeout,
	})
}
