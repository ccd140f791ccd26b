package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Ferguson-Digital/airtable-baserow-importer/internal/cli/ui"
	appconfig "github.com/Ferguson-Digital/airtable-baserow-importer/internal/config"
	"github.com/Ferguson-Digital/airtable-baserow-importer/internal/convert"
	"github.com/Ferguson-Digital/airtable-baserow-importer/internal/domain"
	"github.com/Ferguson-Digital/airtable-baserow-importer/internal/fieldmap"
	"github.com/Ferguson-Digital/airtable-baserow-importer/internal/usecase"
	"github.com/Ferguson-Digital/airtable-baserow-importer/pkg/logger"
)

// validateCmd is the validate command
var validateCmd = &cobra.Command{
	Use:   "validate <fieldmap>",
	Short: "check a field map against both schemas",
	Long: `Check a field map document against the Airtable and Baserow schemas.

Runs the same preflight checks as 'abimport import' without touching any
record: every referenced table and field must exist, mapped destination
fields must be writable, every source/destination kind pair must have a
conversion, and link mappings must point at link fields. Every problem in
the document is reported, not just the first one.`,
	Example: `  # Validate a field map
  $ abimport validate fieldmap.json

  # Field maps can also be YAML
  $ abimport validate fieldmap.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.SilenceUsage = true
}

func runValidate(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	doc, err := fieldmap.Load(args[0])
	if err != nil {
		var mapErr *domain.MappingError
		if errors.As(err, &mapErr) {
			printMappingProblems(mapErr)
			return fmt.Errorf("validation failed")
		}
		ui.PrintError("failed to load field map: %v", err)
		return fmt.Errorf("load failed")
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

	source, err := newSourceClient(creds, cfg)
	if err != nil {
		ui.PrintError("failed to create Airtable client: %v", err)
		return fmt.Errorf("client creation failed")
	}
	dest, err := newDestinationClient(creds, cfg)
	if err != nil {
		ui.PrintError("failed to create Baserow client: %v", err)
		return fmt.Errorf("client creation failed")
	}

	ui.PrintInfo("Checking field map against both schemas...")

	uc := usecase.NewImportUsecase(source, dest, convert.NewRegistry(), log)
	if err := uc.Validate(ctx, doc); err != nil {
		var mapErr *domain.MappingError
		if errors.As(err, &mapErr) {
			printMappingProblems(mapErr)
			return fmt.Errorf("validation failed")
		}
		ui.PrintErrorBox("Validation Failed", err.Error())
		return fmt.Errorf("validation failed")
	}

	fmt.Println()
	fmt.Println(ui.RenderMappingTree(doc))
	fmt.Println()
	ui.PrintSuccess("Field map is valid")

	return nil
}

// printMappingProblems lists every field map defect, one line each.
func printMappingProblems(mapErr *domain.MappingError) {
	ui.PrintError("field map has %d problem(s):", len(mapErr.Problems))
	for _, p := range mapErr.Problems {
		fmt.Printf("  • %s\n", p.String())
	}
}
