package ui

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"tabula/domain/dataset"
)

// BuildReportMarkdown renders a human-readable ingestion report: what the
// dataset looks like, which drop mechanisms fired and what was substituted
// where.
func BuildReportMarkdown(ds *dataset.Dataset) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Ingestion Report: %s\n\n", ds.ID)
	fmt.Fprintf(&b, "Finalized at %s.\n\n", ds.CreatedAt.Time().Format("2006-01-02 15:04:05 MST"))

	b.WriteString("## Dataset\n\n")
	fmt.Fprintf(&b, "- Samples: %d\n", ds.NumSamples)
	fmt.Fprintf(&b, "- Features: %d (%s)\n", ds.NumFeatures, strings.Join(ds.Features, ", "))
	fmt.Fprintf(&b, "- Target: `%s` (%s)\n", ds.Target, ds.Type)
	if ds.Type == dataset.TargetClassification {
		fmt.Fprintf(&b, "- Classes: %d\n", ds.NumClasses)
	}
	fmt.Fprintf(&b, "- Structure: %d skipped rows, header row %d\n\n", ds.SkipRows, ds.HeaderRow)

	b.WriteString("## Row filtering\n\n")
	sum := ds.Summary
	fmt.Fprintf(&b, "- Original rows: %d\n", sum.OriginalRowCount)
	fmt.Fprintf(&b, "- Dropped rows: %d\n", sum.DroppedRowCount)
	if sum.GlobalDrop {
		b.WriteString("- Global drop-row strategy was in effect\n")
	}
	if len(sum.DropColumns) > 0 {
		fmt.Fprintf(&b, "- Drop-row columns: %s\n", strings.Join(sum.DropColumns, ", "))
	}
	if sum.TargetDrop {
		b.WriteString("- Rows with a missing target were dropped\n")
	}
	b.WriteString("\n")

	if len(sum.Replacements) > 0 {
		b.WriteString("## Replacements\n\n")
		b.WriteString("| Column | Replacement |\n|---|---|\n")
		// Iterate features in order for a stable report.
		for _, col := range ds.Features {
			if r, ok := sum.Replacements[col]; ok {
				fmt.Fprintf(&b, "| %s | %s |\n", col, r.Cell())
			}
		}
		b.WriteString("\n")
	}

	if len(ds.NumericSummaries) > 0 {
		b.WriteString("## Numeric columns\n\n")
		b.WriteString("| Column | Count | Min | Max | Mean | Median | StdDev |\n|---|---|---|---|---|---|---|\n")
		for _, ns := range ds.NumericSummaries {
			fmt.Fprintf(&b, "| %s | %d | %g | %g | %g | %g | %g |\n",
				ns.Column, ns.Count, ns.Min, ns.Max, ns.Mean, ns.Median, ns.StdDev)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// RenderReportHTML converts the markdown report to HTML for the UI.
func RenderReportHTML(ds *dataset.Dataset) []byte {
	md := BuildReportMarkdown(ds)

	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs | parser.Tables)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.CompletePage})

	return markdown.ToHTML([]byte(md), p, renderer)
}
