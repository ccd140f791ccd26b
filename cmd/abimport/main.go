package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/Ferguson-Digital/airtable-baserow-importer/internal/cli/commands"
	"github.com/Ferguson-Digital/airtable-baserow-importer/internal/cli/ui"
)

func main() {
	if err := commands.Execute(); err != nil {
		// Handle unknown command errors specially
		errMsg := err.Error()
		if strings.Contains(errMsg, "unknown command") {
			ui.PrintError("%s", errMsg)
			fmt.Println("\nRun 'abimport --help' for usage.")
		}
		os.Exit(1)
	}
}
