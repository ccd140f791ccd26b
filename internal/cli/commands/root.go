package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Ferguson-Digital/airtable-baserow-importer/internal/cli/ui"
)

const version = "0.1.0"

// rootCmd is the root command
var rootCmd = &cobra.Command{
	Use:     "abimport",
	Short:   "Airtable to Baserow record importer",
	Version: version,
	Long: `A command-line tool for migrating records from Airtable bases into Baserow
databases. Generate a field map template from your Baserow schema, fill in
the Airtable side, validate it, and run the import. Linked records are
resolved in a second pass after every mapped table has been imported.`,
	Example: `  # Store API credentials
  $ abimport configure

  # Generate a field map template for Baserow database 42
  $ abimport template appXXXXXXXXXXXXXX 42 -o fieldmap.json

  # Check a field map against both schemas
  $ abimport validate fieldmap.json

  # Run the import
  $ abimport import fieldmap.json

  # Rehearse without writing any rows
  $ abimport import fieldmap.json --dry-run`,
}

// Execute executes the root command
func Execute() error {
	rootCmd.SetVersionTemplate(formatVersion())
	return rootCmd.Execute()
}

func init() {
	// Disable default completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Add subcommands
	rootCmd.AddCommand(configureCmd)
	rootCmd.AddCommand(templateCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(importCmd)

	// Set custom template with bold uppercase headers
	rootCmd.SetUsageTemplate(usageTemplate())
	rootCmd.SetHelpTemplate(usageTemplate())
}

func usageTemplate() string {
	return `{{if .Long}}{{.Long}}

{{end}}` + ui.Styles.Bold.Render("USAGE") + `
  {{.UseLine}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}

{{if .HasExample}}` + ui.Styles.Bold.Render("EXAMPLES") + `
{{.Example}}

{{end}}{{if .HasAvailableSubCommands}}` + ui.Styles.Bold.Render("COMMANDS") + `{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}

{{end}}{{if .HasAvailableLocalFlags}}` + ui.Styles.Bold.Render("OPTIONS") + `
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}{{if .HasAvailableSubCommands}}Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`
}

// formatVersion formats the version output
func formatVersion() string {
	return fmt.Sprintf("abimport version %s\n", version)
}
