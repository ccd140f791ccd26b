package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/Ferguson-Digital/airtable-baserow-importer/internal/cli/ui"
	appconfig "github.com/Ferguson-Digital/airtable-baserow-importer/internal/config"
	"github.com/Ferguson-Digital/airtable-baserow-importer/internal/usecase"
	"github.com/Ferguson-Digital/airtable-baserow-importer/pkg/logger"
)

var (
	templateOutput string
)

// templateCmd is the template command
var templateCmd = &cobra.Command{
	Use:   "template <base-id> <database-id>",
	Short: "generate a field map template from a Baserow database",
	Long: `Generate a field map template from a Baserow database schema.

The template lists every table and every writable field of the database,
with placeholders where the Airtable base, table, and field names go.
Read-only fields (formula, lookup, rollup, count, created on, last
modified, autonumber) are listed under "skipped" and excluded from the
mapping. Fill in the placeholders, remove the mappings you do not want,
then run 'abimport validate'.

Overwriting an existing output file requires confirmation.`,
	Example: `  # Write a template for Baserow database 42 to stdout
  $ abimport template appXXXXXXXXXXXXXX 42

  # Write it to a file
  $ abimport template appXXXXXXXXXXXXXX 42 -o fieldmap.json`,
	Args: cobra.ExactArgs(2),
	RunE: runTemplate,
}

func init() {
	templateCmd.Flags().StringVarP(&templateOutput, "output", "o", "", "Output file (default stdout)")

	templateCmd.SilenceUsage = true
}

func runTemplate(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	baseID := args[0]
	databaseID, err := strconv.Atoi(args[1])
	if err != nil {
		ui.PrintError("database id must be an integer, got %q", args[1])
		return fmt.Errorf("invalid arguments")
	}

	cfg, err := appconfig.Load("")
	if err != nil {
		ui.PrintError("failed to load config: %v", err)
		return fmt.Errorf("config load failed")
	}
	log, err := logger.Setup(cfg.Log)
	if err != nil {
		ui.PrintError("failed to set up logging: %v", err)
		return fmt.Errorf("config load failed")
	}

	creds, err := loadCredentials()
	if err != nil {
		ui.PrintError("%v", err)
		return fmt.Errorf("credentials required")
	}

	dest, err := newDestinationClient(creds, cfg)
	if err != nil {
		ui.PrintError("failed to create Baserow client: %v", err)
		return fmt.Errorf("client creation failed")
	}

	ui.PrintInfo("Reading schema of Baserow database %d...", databaseID)

	uc := usecase.NewTemplateUsecase(dest, log)
	data, err := uc.Generate(ctx, databaseID, baseID)
	if err != nil {
		ui.PrintErrorBox("Template Failed", err.Error())
		return fmt.Errorf("template generation failed")
	}

	if templateOutput == "" {
		fmt.Print(string(data))
		return nil
	}

	// Never clobber an existing field map without asking; it may hold
	// hand-filled mappings.
	if _, statErr := os.Stat(templateOutput); statErr == nil {
		overwrite := false
		prompt := &survey.Confirm{
			Message: fmt.Sprintf("%s already exists. Overwrite?", templateOutput),
		}
		if err := survey.AskOne(prompt, &overwrite); err != nil {
			ui.PrintError("failed to read answer: %v", err)
			return fmt.Errorf("input failed")
		}
		if !overwrite {
			ui.PrintWarning("Keeping existing %s", templateOutput)
			return fmt.Errorf("output exists")
		}
	} else if !errors.Is(statErr, os.ErrNotExist) {
		ui.PrintError("failed to check %s: %v", templateOutput, statErr)
		return fmt.Errorf("output failed")
	}

	if err := os.WriteFile(templateOutput, data, 0644); err != nil {
		ui.PrintError("failed to write %s: %v", templateOutput, err)
		return fmt.Errorf("output failed")
	}

	ui.PrintSuccess("Template written to %s", templateOutput)
	fmt.Println()
	ui.PrintInfo("Fill in the Airtable placeholders, then run:")
	ui.PrintBold("  abimport validate " + templateOutput)

	return nil
}
