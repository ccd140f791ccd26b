package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/fatih/color"

	"github.com/Ferguson-Digital/airtable-baserow-importer/internal/domain/entity"
	"github.com/Ferguson-Digital/airtable-baserow-importer/internal/fieldmap"
)

var (
	// Tree node styles
	baseStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)  // Cyan
	tableStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))             // Blue
	keyStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))            // Gray
	linkStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))            // Pink
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true) // Pink

	// Summary line style
	summaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			MarginTop(1)
)

// RenderMappingTree renders a field map document as a tree, one root node
// per Airtable base with its table and field mappings underneath.
func RenderMappingTree(doc *fieldmap.Document) string {
	if len(doc.Bases) == 0 {
		return keyStyle.Render("No mappings found")
	}

	var output string
	for i, base := range doc.Bases {
		baseLabel := fmt.Sprintf("Base: %s", baseStyle.Render(base.BaseID))
		baseTree := tree.New().Root(baseLabel)

		for _, table := range base.Tables {
			baseTree.Child(buildTableNode(table))
		}

		output += baseTree.String()
		if i < len(doc.Bases)-1 {
			output += "\n"
		}
	}

	return output
}

// buildTableNode creates a tree node for a single table mapping
func buildTableNode(table fieldmap.TableMapping) *tree.Tree {
	tableLabel := fmt.Sprintf("%s %s",
		tableStyle.Render(table.SourceTable),
		keyStyle.Render(fmt.Sprintf("-> table %d", table.DestinationTable)),
	)
	tableTree := tree.New().Root(tableLabel)

	if len(table.Fields) == 0 {
		tableTree.Child(keyStyle.Render("(no fields mapped)"))
		return tableTree
	}

	for _, field := range table.Fields {
		label := fmt.Sprintf("%s %s", field.Source,
			keyStyle.Render(fmt.Sprintf("-> field_%d", field.Destination)))
		if field.Link {
			label += " " + linkStyle.Render("(link)")
		}
		tableTree.Child(label)
	}

	for _, skipped := range table.Skipped {
		tableTree.Child(keyStyle.Render(fmt.Sprintf("skipped: %s", skipped)))
	}

	return tableTree
}

// RenderReportSummary renders the counters of a finished import run.
func RenderReportSummary(report *entity.ImportReport) string {
	created := color.GreenString("%d", report.Created)
	updated := color.CyanString("%d", report.Updated)
	failed := "0"
	if report.Failed > 0 {
		failed = color.RedString("%d", report.Failed)
	}
	unresolved := "0"
	if len(report.Unresolved) > 0 {
		unresolved = color.YellowString("%d", len(report.Unresolved))
	}

	summary := fmt.Sprintf("Created: %s  Updated: %s  Failed: %s  Unresolved links: %s  (%s)",
		created, updated, failed, unresolved,
		report.Duration.Round(time.Millisecond))

	if report.DryRun {
		summary = highlightStyle.Render("[dry run] ") + summary
	}

	return summaryStyle.Render(summary)
}

// RenderUnresolvedLinks renders unresolved link warnings as a simple list.
func RenderUnresolvedLinks(links []entity.UnresolvedLink) string {
	if len(links) == 0 {
		return ""
	}

	output := color.YellowString("Unresolved links:") + "\n"
	for _, link := range links {
		output += fmt.Sprintf("  • table %d row %d field_%d: record %q not found in destination\n",
			link.DestinationTableID, link.DestinationRowID, link.FieldID, link.LinkedRecordID)
	}

	return output
}
