// Command cli runs the ingestion pipeline once over a local file: preview
// the structure, apply the configured strategies, and print the finalized
// dataset summary. Mirrors the interactive flow without the server.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"tabula/app"
	"tabula/domain/dataset"
	"tabula/domain/ingest"
	"tabula/domain/policy"
	"tabula/internal/config"
	"tabula/ui"
)

func main() {
	var (
		file      = flag.String("file", "", "path to a .csv, .tsv or .xlsx file (required)")
		skipRows  = flag.Int("skip", 0, "rows to skip before the header")
		headerRow = flag.Int("header", 0, "header row index relative to post-skip rows")
		target    = flag.String("target", "", "target column (defaults to last column)")
		strategy  = flag.String("strategy", "leave-as-is", "global strategy: leave-as-is|drop-row|zero|mean|median|mode")
		out       = flag.String("out", "", "write the cleaned table to this CSV path")
		report    = flag.Bool("report", false, "print the markdown ingestion report")
	)
	flag.Parse()

	if *file == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := godotenv.Load(); err == nil {
		log.Printf("[CLI] loaded .env")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[CLI] failed to load configuration: %v", err)
	}

	kind, err := policy.ParseKind(*strategy)
	if err != nil {
		log.Fatalf("[CLI] %v", err)
	}

	raw, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("[CLI] failed to read %s: %v", *file, err)
	}

	service := app.NewService(cfg.Limits, nil)
	service.SetDefaultPreviewLimit(cfg.Preview.DefaultLimit)
	ctx := context.Background()

	session, err := service.Open(ctx, *file, raw, ui.SplitterFor(*file))
	if err != nil {
		log.Fatalf("[CLI] failed to open session: %v", err)
	}

	ingestion := ingest.Config{
		SkipRows:       *skipRows,
		HeaderRow:      *headerRow,
		TargetColumn:   *target,
		GlobalStrategy: policy.Strategy{Kind: kind},
	}

	preview, err := session.Preview(ingestion)
	if err != nil {
		log.Fatalf("[CLI] preview failed: %v", err)
	}
	printPreview(preview)

	ds, err := service.Finalize(ctx, session, ingestion)
	if err != nil {
		log.Fatalf("[CLI] finalize failed: %v", err)
	}
	printDataset(ds)

	if *report {
		fmt.Println(ui.BuildReportMarkdown(ds))
	}
	if *out != "" {
		if err := writeCleaned(*out, ds); err != nil {
			log.Fatalf("[CLI] failed to write %s: %v", *out, err)
		}
		log.Printf("[CLI] cleaned table written to %s", *out)
	}
}

func printPreview(p *ingest.PreviewResult) {
	fmt.Printf("Rows: %d total, data starts at row %d\n", p.TotalRows, p.DataStart)
	fmt.Printf("Target: %s\n", p.Target)
	fmt.Println("Columns:")
	for _, cs := range p.Stats {
		fmt.Printf("  %-24s %-12s missing=%d placeholder=%d unique=%d numeric=%.0f%%\n",
			cs.Column, cs.InferredType, cs.MissingCount, cs.PlaceholderCount,
			cs.UniqueCount, cs.NumericFraction*100)
	}
	for _, v := range p.Violations {
		fmt.Printf("LIMIT VIOLATION [%s]: %s\n", v.Limit, v.Message)
	}
}

func printDataset(ds *dataset.Dataset) {
	fmt.Printf("\nDataset %s\n", ds.ID)
	fmt.Printf("  samples=%d features=%d target=%s type=%s", ds.NumSamples, ds.NumFeatures, ds.Target, ds.Type)
	if ds.Type == dataset.TargetClassification {
		fmt.Printf(" classes=%d", ds.NumClasses)
	}
	fmt.Printf("\n  rows: %d original, %d dropped\n", ds.Summary.OriginalRowCount, ds.Summary.DroppedRowCount)
}

// writeCleaned exports the typed rows back to CSV, features first then the
// target, preserving row order.
func writeCleaned(path string, ds *dataset.Dataset) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := append(append([]string(nil), ds.Features...), ds.Target)
	if err := w.Write(header); err != nil {
		return err
	}

	record := make([]string, len(header))
	for _, row := range ds.Rows {
		for i, col := range header {
			record[i] = cellString(row[col])
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func cellString(v any) string {
	switch t := v.(type) {
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case string:
		return t
	default:
		return fmt.Sprintf("%v", t)
	}
}
