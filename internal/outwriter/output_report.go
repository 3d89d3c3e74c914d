package outwriter

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/iipmodel/readiness/internal/contract"
	"github.com/iipmodel/readiness/schema"
)

// pageBreak separates report pages. The form feed makes printers start a new sheet.
const pageBreak = "\n---\n\f\n"

// PrintReport outputs the paginated export document.
// Text and Markdown modes both produce the Markdown document.
func PrintReport(report schema.Report, cfg *contract.Config) error {
	fmtFloat := decimals(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return emit(cfg, "JSON report", jsonDocument(report))
	case schema.CSVOut:
		return emit(cfg, "CSV report", csvDocument(reportHeader, reportRecords(report)))
	case schema.ParquetOut:
		return writeResultsParquet(report.Result, cfg.OutputFile)
	default:
		return emit(cfg, "report", func(w io.Writer) error {
			return writeReportMarkdown(w, report, fmtFloat)
		})
	}
}

var reportHeader = []string{
	"page",
	"dimension_id",
	"dimension",
	"subdimension_id",
	"question_id",
	"label",
	"score",
	"score_label",
}

// reportRecords lists every answered question with its page number.
// Page 1 is the summary, so dimension pages start at 2.
func reportRecords(report schema.Report) [][]string {
	var records [][]string
	for i, page := range report.Pages {
		for _, item := range page.Items {
			records = append(records, []string{
				strconv.Itoa(i + 2),
				page.ID,
				page.Name,
				item.SubdimensionID,
				item.QuestionID,
				item.Label,
				strconv.Itoa(item.Score),
				item.ScoreLabel,
			})
		}
	}
	return records
}

// writeReportMarkdown renders the summary page followed by one page per dimension.
func writeReportMarkdown(w io.Writer, report schema.Report, fmtFloat func(float64) string) error {
	pages := make([]string, 0, report.PageCount())
	pages = append(pages, renderSummaryPage(report, fmtFloat))
	for i, page := range report.Pages {
		pages = append(pages, renderDimensionPage(page, i+2, report.PageCount(), fmtFloat))
	}
	_, err := io.WriteString(w, strings.Join(pages, pageBreak))
	return err
}

func renderSummaryPage(report schema.Report, fmtFloat func(float64) string) string {
	var b strings.Builder
	result := report.Result

	fmt.Fprintf(&b, "# %s\n\n", report.Title)
	if report.Subtitle != "" {
		fmt.Fprintf(&b, "_%s_\n\n", report.Subtitle)
	}
	if report.Intro != "" {
		fmt.Fprintf(&b, "%s\n\n", strings.TrimSpace(report.Intro))
	}
	fmt.Fprintf(&b, "Session `%s`, generated %s. %d of %d questions answered.\n\n",
		report.SessionID,
		report.GeneratedAt.UTC().Format(time.RFC3339),
		result.Progress.Answered,
		result.Progress.Total)

	fmt.Fprintf(&b, "## Final score: %s (%s)\n\n", fmtFloat(result.FinalScore), result.Label)
	writeSummaryTable(&b, result, fmtFloat)

	b.WriteString("\n### Radar series\n\n")
	b.WriteString("| Category | Value |\n|---|---:|\n")
	for i, c := range result.Radar.Categories {
		if i >= len(result.Radar.Values) {
			break
		}
		fmt.Fprintf(&b, "| %s | %s |\n", escapeMarkdown(c), fmtFloat(result.Radar.Values[i]))
	}

	b.WriteString("\n### Summary of results\n\n")
	for _, page := range report.Pages {
		if page.Interpretation == "" {
			fmt.Fprintf(&b, "- **%s:** no data\n", page.Name)
			continue
		}
		fmt.Fprintf(&b, "- **%s:** %s. %s\n", page.Name, fmtFloat(page.Overall), page.Interpretation)
	}
	return b.String()
}

func renderDimensionPage(page schema.DimensionBreakdown, number, total int, fmtFloat func(float64) string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "## Page %d of %d: %s\n\n", number, total, page.Name)
	if page.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", strings.TrimSpace(page.Description))
	}

	if len(page.Items) == 0 {
		b.WriteString("_No questions answered in this dimension._\n")
		return b.String()
	}

	fmt.Fprintf(&b, "Overall (non-weighted): %s\n\n", fmtFloat(page.Overall))
	if page.Interpretation != "" {
		fmt.Fprintf(&b, "%s\n\n", page.Interpretation)
	}
	b.WriteString("| Question | Answer |\n|---|---|\n")
	for _, item := range page.Items {
		fmt.Fprintf(&b, "| %s | %d (%s) |\n", escapeMarkdown(item.Label), item.Score, item.ScoreLabel)
	}

	b.WriteString("\n| Subdimension | Mean | Answered |\n|---|---:|---:|\n")
	for _, sub := range page.Subdimensions {
		mean := "-"
		if sub.Answered > 0 {
			mean = fmtFloat(sub.Mean)
		}
		fmt.Fprintf(&b, "| %s | %s | %d/%d |\n", escapeMarkdown(sub.Name), mean, sub.Answered, sub.Total)
	}
	return b.String()
}
