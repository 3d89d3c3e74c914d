package outwriter

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iipmodel/readiness/internal/contract"
	"github.com/iipmodel/readiness/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintProgress shows how far a session has come through the questionnaire.
func PrintProgress(result schema.AssessmentResult, cfg *contract.Config) error {
	fmtFloat := decimals(cfg.Precision)
	progress := result.Progress

	switch cfg.Output {
	case schema.JSONOut:
		return emit(cfg, "JSON progress", jsonDocument(progress))
	case schema.CSVOut:
		header := []string{"step", "dimension_id", "dimension", "answered", "total"}
		var records [][]string
		for _, d := range progress.Dimensions {
			records = append(records, []string{strconv.Itoa(d.Step), d.ID, d.Name, strconv.Itoa(d.Answered), strconv.Itoa(d.Total)})
		}
		return emit(cfg, "CSV progress", csvDocument(header, records))
	case schema.MarkdownOut:
		return emit(cfg, "Markdown progress", func(w io.Writer) error {
			return writeProgressMarkdown(w, result, fmtFloat)
		})
	default:
		return emit(cfg, "progress table", func(w io.Writer) error {
			return writeProgressTable(w, result, fmtFloat)
		})
	}
}

// overallOf finds the running overall for a step, or "-" before any answer.
func overallOf(result schema.AssessmentResult, id string, fmtFloat func(float64) string) string {
	for _, d := range result.Dimensions {
		if d.ID == id && d.Answered > 0 {
			return fmtFloat(d.Overall)
		}
	}
	return "-"
}

func writeProgressTable(w io.Writer, result schema.AssessmentResult, fmtFloat func(float64) string) error {
	progress := result.Progress
	if _, err := fmt.Fprintf(w, "Session %s: %d/%d answered\n", result.SessionID, progress.Answered, progress.Total); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Step", "Dimension", "Answered", "Overall", "Done"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, d := range progress.Dimensions {
		done := ""
		if d.Answered == d.Total {
			done = "✓"
		}
		data = append(data, []string{
			fmt.Sprintf("%d/%d", d.Step, progress.Steps),
			d.Name,
			fmt.Sprintf("%d/%d", d.Answered, d.Total),
			overallOf(result, d.ID, fmtFloat),
			done,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if !progress.AllAnswered {
		_, err := fmt.Fprintln(w, "Results are available once every question is answered.")
		return err
	}
	_, err := fmt.Fprintf(w, "All questions answered. Final score: %s (%s)\n", fmtFloat(result.FinalScore), contract.GetColorLabel(result.FinalScore))
	return err
}

func writeProgressMarkdown(w io.Writer, result schema.AssessmentResult, fmtFloat func(float64) string) error {
	var b strings.Builder
	progress := result.Progress
	fmt.Fprintf(&b, "# Progress for `%s`\n\n%d of %d questions answered.\n\n", result.SessionID, progress.Answered, progress.Total)
	b.WriteString("| Step | Dimension | Answered | Overall |\n|---:|---|---:|---:|\n")
	for _, d := range progress.Dimensions {
		fmt.Fprintf(&b, "| %d | %s | %d/%d | %s |\n", d.Step, escapeMarkdown(d.Name), d.Answered, d.Total, overallOf(result, d.ID, fmtFloat))
	}
	_, err := io.WriteString(w, b.String())
	return err
}
