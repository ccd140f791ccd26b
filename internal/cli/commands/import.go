package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Ferguson-Digital/airtable-baserow-importer/internal/cli/ui"
	appconfig "github.com/Ferguson-Digital/airtable-baserow-importer/internal/config"
	"github.com/Ferguson-Digital/airtable-baserow-importer/internal/convert"
	"github.com/Ferguson-Digital/airtable-baserow-importer/internal/domain"
	"github.com/Ferguson-Digital/airtable-baserow-importer/internal/fieldmap"
	"github.com/Ferguson-Digital/airtable-baserow-importer/internal/usecase"
	"github.com/Ferguson-Digital/airtable-baserow-importer/pkg/logger"
)

var (
	importDryRun     bool
	importOnError    string
	importConfigPath string
	importQuiet      bool
)

// importCmd is the import command
var importCmd = &cobra.Command{
	Use:   "import <fieldmap>",
	Short: "import Airtable records into Baserow",
	Long: `Import Airtable records into Baserow following a field map.

The import runs in two passes. The first pass creates a Baserow row for
every Airtable record, converting all non-link fields. The second pass
resolves record links against the rows created in the first pass and
updates the link fields. Links pointing at records that were not part of
the import are reported as warnings and left empty.

By default any record failure aborts the run; rows already written stay
in place. With --on-error=skip failed records are tallied and the run
continues.`,
	Example: `  # Run an import
  $ abimport import fieldmap.json

  # Keep going past bad records
  $ abimport import fieldmap.json --on-error=skip

  # Rehearse: convert everything, write nothing
  $ abimport import fieldmap.json --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Convert records without writing any rows")
	importCmd.Flags().StringVar(&importOnError, "on-error", "", "Record failure policy: abort or skip (default from config)")
	importCmd.Flags().StringVar(&importConfigPath, "config", "", "Runtime config file")
	importCmd.Flags().BoolVarP(&importQuiet, "quiet", "q", false, "Only log warnings and errors")

	importCmd.SilenceUsage = true
}

func runImport(cmd *cobra.Command, args []string) error {
	// No per-request timeout here; a large base legitimately takes long.
	// Ctrl-C cancels through cobra's default signal handling.
	ctx := context.Background()

	doc, err := fieldmap.Load(args[0])
	if err != nil {
		var mapErr *domain.MappingError
		if errors.As(err, &mapErr) {
			printMappingProblems(mapErr)
			return fmt.Errorf("import failed")
		}
		ui.PrintError("failed to load field map: %v", err)
		return fmt.Errorf("load failed")
	}

	cfg, err := appconfig.Load(importConfigPath)
	if err != nil {
		ui.PrintError("failed to load config: %v", err)
		return fmt.Errorf("config load failed")
	}
	if importQuiet {
		cfg.Log.Level = "warn"
	}
	log, err := logger.Setup(cfg.Log)
	if err != nil {
		ui.PrintError("failed to set up logging: %v", err)
		return fmt.Errorf("config load failed")
	}

	onError := cfg.Import.OnError
	if importOnError != "" {
		onError = importOnError
	}
	policy := usecase.ErrorPolicy(onError)
	if policy != usecase.PolicyAbort && policy != usecase.PolicySkip {
		ui.PrintError("invalid --on-error value %q, must be 'abort' or 'skip'", onError)
		return fmt.Errorf("invalid arguments")
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

	if !importQuiet {
		if importDryRun {
			ui.PrintInfo("Starting dry run, no rows will be written...")
		} else {
			ui.PrintInfo("Starting import...")
		}
	}

	uc := usecase.NewImportUsecase(source, dest, convert.NewRegistry(), log)
	report, err := uc.Run(ctx, doc, usecase.ImportOptions{
		OnError: policy,
		DryRun:  importDryRun,
	})
	if err != nil {
		var mapErr *domain.MappingError
		if errors.As(err, &mapErr) {
			printMappingProblems(mapErr)
			return fmt.Errorf("import failed")
		}
		if report != nil {
			fmt.Println(ui.RenderReportSummary(report))
		}
		ui.PrintErrorBox("Import Failed", err.Error())
		return fmt.Errorf("import failed")
	}

	fmt.Println(ui.RenderReportSummary(report))

	if unresolved := ui.RenderUnresolvedLinks(report.Unresolved); unresolved != "" {
		fmt.Println()
		fmt.Print(unresolved)
	}
	if report.Failed > 0 {
		fmt.Println()
		ui.PrintWarning("%d record(s) failed and were skipped", report.Failed)
		for _, recErr := range report.Errors {
			fmt.Printf("  • table %s record %s: %v\n", recErr.SourceTableID, recErr.RecordID, recErr.Err)
		}
	}

	fmt.Println()
	if importDryRun {
		ui.PrintSuccess("Dry run finished")
	} else {
		ui.PrintSuccess("Import finished")
	}

	return nil
}
