package commands

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	cliconfig "github.com/Ferguson-Digital/airtable-baserow-importer/internal/cli/config"
	"github.com/Ferguson-Digital/airtable-baserow-importer/internal/cli/ui"
)

// configureCmd is the configure command
var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "store API credentials",
	Long: `Store Airtable and Baserow API credentials locally.

Credentials are saved in ~/.abimport/config.json with user-only file
permissions and used automatically by all other commands. Re-running
configure overwrites the stored values.

The Baserow URL is only needed for self-hosted instances; leave it empty
to use baserow.io.`,
	Example: `  # Prompt for tokens interactively
  $ abimport configure

  # Point at a self-hosted Baserow instance
  $ abimport configure --baserow-url https://baserow.example.com`,
	Args: cobra.NoArgs,
	RunE: runConfigure,
}

var configureBaserowURL string

func init() {
	configureCmd.Flags().StringVar(&configureBaserowURL, "baserow-url", "", "Baserow instance URL (skips the prompt)")

	configureCmd.SilenceUsage = true
}

func runConfigure(cmd *cobra.Command, args []string) error {
	// Seed prompts with existing values so a re-run can change one token
	// without retyping the other.
	creds, err := cliconfig.Load()
	if err != nil {
		ui.PrintError("failed to load existing credentials: %v", err)
		return fmt.Errorf("config load failed")
	}

	// 1. Airtable personal access token (hidden input)
	var airtableToken string
	airtablePrompt := &survey.Password{
		Message: "Airtable personal access token:",
	}
	if err := survey.AskOne(airtablePrompt, &airtableToken); err != nil {
		ui.PrintError("failed to read token: %v", err)
		return fmt.Errorf("input failed")
	}
	if airtableToken != "" {
		creds.AirtableToken = airtableToken
	}

	// 2. Baserow database token (hidden input)
	var baserowToken string
	baserowPrompt := &survey.Password{
		Message: "Baserow database token:",
	}
	if err := survey.AskOne(baserowPrompt, &baserowToken); err != nil {
		ui.PrintError("failed to read token: %v", err)
		return fmt.Errorf("input failed")
	}
	if baserowToken != "" {
		creds.BaserowToken = baserowToken
	}

	// 3. Baserow instance URL (optional, self-hosted only)
	if configureBaserowURL != "" {
		creds.BaserowURL = configureBaserowURL
	} else {
		urlPrompt := &survey.Input{
			Message: "Baserow URL (empty for baserow.io):",
			Default: creds.BaserowURL,
		}
		if err := survey.AskOne(urlPrompt, &creds.BaserowURL); err != nil {
			ui.PrintError("failed to read URL: %v", err)
			return fmt.Errorf("input failed")
		}
	}

	if !creds.IsConfigured() {
		ui.PrintError("both tokens are required")
		return fmt.Errorf("incomplete credentials")
	}

	if err := creds.Save(); err != nil {
		ui.PrintError("failed to save credentials: %v", err)
		return fmt.Errorf("config save failed")
	}

	configPath, _ := cliconfig.GetConfigPath()
	baserowHost := creds.BaserowURL
	if baserowHost == "" {
		baserowHost = "baserow.io"
	}
	successContent := fmt.Sprintf(`Baserow:       %s
Config saved:  %s`,
		baserowHost,
		configPath,
	)

	ui.PrintSuccessBox("✓ Credentials Saved", successContent)

	fmt.Println()
	ui.PrintInfo("You can now use the following commands:")
	ui.PrintBold("  abimport template <base-id> <database-id>   # Generate a field map template")
	ui.PrintBold("  abimport import <fieldmap>                  # Run an import")

	return nil
}
