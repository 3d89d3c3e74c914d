package outwriter

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/iipmodel/readiness/internal/contract"
	"github.com/iipmodel/readiness/internal/parquet"
	"github.com/iipmodel/readiness/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintResults outputs a scored assessment, dispatching based on the output format configured.
func PrintResults(result schema.AssessmentResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat := decimals(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return emit(cfg, "JSON results", jsonDocument(jsonResult{
			AssessmentResult: result,
			Dimensions:       schema.EnrichDimensions(result.Dimensions),
		}))
	case schema.CSVOut:
		return emit(cfg, "CSV results", csvDocument(resultsHeader, resultsRecords(result, fmtFloat)))
	case schema.ParquetOut:
		return writeResultsParquet(result, cfg.OutputFile)
	case schema.MarkdownOut:
		return emit(cfg, "Markdown results", func(w io.Writer) error {
			return writeResultsMarkdown(w, result, fmtFloat)
		})
	default:
		return emit(cfg, "results table", func(w io.Writer) error {
			return writeResultsTable(w, result, cfg, fmtFloat, duration)
		})
	}
}

// jsonResult replaces the plain dimension rows with enriched ones.
type jsonResult struct {
	schema.AssessmentResult
	Dimensions []schema.EnrichedDimensionResult `json:"dimensions"`
}

var resultsHeader = []string{
	"step",
	"dimension_id",
	"dimension",
	"overall",
	"weight",
	"display_value",
	"label",
	"answered",
	"total",
	"final_score",
	"final_label",
}

// resultsRecords builds one row per dimension. The final score and label repeat
// on every row so that the file stays a flat table.
func resultsRecords(result schema.AssessmentResult, fmtFloat func(float64) string) [][]string {
	var records [][]string
	for _, d := range schema.EnrichDimensions(result.Dimensions) {
		records = append(records, []string{
			strconv.Itoa(d.Step),
			d.ID,
			d.Name,
			fmtFloat(d.Overall),
			fmtFloat(d.Weight),
			fmtFloat(d.DisplayValue),
			d.Label,
			strconv.Itoa(d.Answered),
			strconv.Itoa(d.Total),
			fmtFloat(result.FinalScore),
			result.Label,
		})
	}
	return records
}

func writeResultsParquet(result schema.AssessmentResult, outputFile string) error {
	if outputFile == "" {
		return errors.New("parquet output requires --output-file")
	}
	if err := parquet.WriteResultParquet(result, outputFile); err != nil {
		return fmt.Errorf("error writing Parquet output: %w", err)
	}
	_, _ = fmt.Fprintf(os.Stderr, "💾 Wrote Parquet to %s\n", outputFile)
	return nil
}

// writeResultsTable generates and writes the human-readable table.
func writeResultsTable(w io.Writer, result schema.AssessmentResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Step", "Dimension", "Overall", "Weight", "Value", "Label", "Answered"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i, d := range result.Dimensions {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			d.Name,
			fmtFloat(d.Overall),
			fmtFloat(d.Weight),
			fmtFloat(d.DisplayValue),
			contract.GetColorLabel(d.DisplayValue),
			fmt.Sprintf("%d/%d", d.Answered, d.Total),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if cfg.Detail {
		if err := writeSubdimensionTable(w, result, fmtFloat); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "Final score: %s (%s)\n", fmtFloat(result.FinalScore), contract.GetColorLabel(result.FinalScore)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Radar: %s\n", formatRadar(result.Radar, fmtFloat)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Scored %d/%d answered questions in %v\n", result.Progress.Answered, result.Progress.Total, duration)
	return err
}

// writeSubdimensionTable lists the non-weighted subdimension means.
func writeSubdimensionTable(w io.Writer, result schema.AssessmentResult, fmtFloat func(float64) string) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Dimension", "Subdimension", "Mean", "Answered"})

	var data [][]string
	for _, d := range result.Dimensions {
		for _, sub := range d.Subdimensions {
			mean := "-"
			if sub.Answered > 0 {
				mean = fmtFloat(sub.Mean)
			}
			data = append(data, []string{d.Name, sub.Name, mean, fmt.Sprintf("%d/%d", sub.Answered, sub.Total)})
		}
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeResultsMarkdown writes the results as a Markdown table.
func writeResultsMarkdown(w io.Writer, result schema.AssessmentResult, fmtFloat func(float64) string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", escapeMarkdown(result.Title))
	writeSummaryTable(&b, result, fmtFloat)
	fmt.Fprintf(&b, "\n**Final score:** %s (%s)\n", fmtFloat(result.FinalScore), result.Label)
	_, err := io.WriteString(w, b.String())
	return err
}

// writeSummaryTable renders the per-dimension rows shared by results and report.
func writeSummaryTable(b *strings.Builder, result schema.AssessmentResult, fmtFloat func(float64) string) {
	b.WriteString("| Step | Dimension | Overall | Weight | Value | Label | Answered |\n")
	b.WriteString("|---:|---|---:|---:|---:|---|---:|\n")
	for _, d := range schema.EnrichDimensions(result.Dimensions) {
		fmt.Fprintf(b, "| %d | %s | %s | %s | %s | %s | %d/%d |\n",
			d.Step, escapeMarkdown(d.Name), fmtFloat(d.Overall), fmtFloat(d.Weight),
			fmtFloat(d.DisplayValue), d.Label, d.Answered, d.Total)
	}
}

// formatRadar renders the closed radar series as "name value" pairs.
func formatRadar(radar schema.RadarSeries, fmtFloat func(float64) string) string {
	parts := make([]string, 0, len(radar.Categories))
	for i, c := range radar.Categories {
		if i >= len(radar.Values) {
			break
		}
		parts = append(parts, fmt.Sprintf("%s %s", c, fmtFloat(radar.Values[i])))
	}
	return strings.Join(parts, " · ")
}

// escapeMarkdown keeps table cells intact.
func escapeMarkdown(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
