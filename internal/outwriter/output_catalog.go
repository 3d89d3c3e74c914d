package outwriter

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iipmodel/readiness/internal/contract"
	"github.com/iipmodel/readiness/schema"

	"github.com/olekukonko/tablewriter"
)

// questionReserved is the width taken by the ID and subdimension columns.
const questionReserved = 40

// PrintCatalog lists the questionnaire, one section per step.
func PrintCatalog(catalog *schema.Catalog, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return emit(cfg, "JSON catalog", jsonDocument(catalog))
	case schema.CSVOut:
		header := []string{"step", "dimension_id", "subdimension_id", "question_id", "text"}
		return emit(cfg, "CSV catalog", csvDocument(header, catalogRecords(catalog)))
	case schema.MarkdownOut:
		return emit(cfg, "Markdown catalog", func(w io.Writer) error {
			return writeCatalogMarkdown(w, catalog)
		})
	case schema.ParquetOut:
		return errors.New("parquet output is not supported for the question catalog")
	default:
		return emit(cfg, "catalog table", func(w io.Writer) error {
			return writeCatalogTable(w, catalog, GetMaxTextWidth(cfg, questionReserved))
		})
	}
}

// catalogRecords flattens the questionnaire to one row per question.
func catalogRecords(catalog *schema.Catalog) [][]string {
	var records [][]string
	for i, d := range catalog.Dimensions {
		for _, sub := range d.Subdimensions {
			for _, q := range sub.Questions {
				records = append(records, []string{strconv.Itoa(i + 1), d.ID, sub.ID, q.ID, q.Text})
			}
		}
	}
	return records
}

func writeCatalogTable(w io.Writer, catalog *schema.Catalog, textWidth int) error {
	steps := len(catalog.Dimensions)
	if _, err := fmt.Fprintf(w, "%s (%d questions)\n", catalog.Title, catalog.QuestionCount()); err != nil {
		return err
	}

	for i, d := range catalog.Dimensions {
		if _, err := fmt.Fprintf(w, "\nStep %d/%d: %s [%s]\n", i+1, steps, d.Name, d.ID); err != nil {
			return err
		}

		table := tablewriter.NewWriter(w)
		table.Header([]string{"Question", "Subdimension", "Statement"})
		var data [][]string
		for _, sub := range d.Subdimensions {
			for _, q := range sub.Questions {
				data = append(data, []string{q.ID, sub.Name, contract.TruncateText(q.Text, textWidth)})
			}
		}
		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "\nScale: %s\n", likertScale())
	return err
}

func writeCatalogMarkdown(w io.Writer, catalog *schema.Catalog) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", catalog.Title)
	if catalog.Subtitle != "" {
		fmt.Fprintf(&b, "\n_%s_\n", catalog.Subtitle)
	}
	for i, d := range catalog.Dimensions {
		fmt.Fprintf(&b, "\n## Step %d: %s\n", i+1, d.Name)
		if d.Description != "" {
			fmt.Fprintf(&b, "\n%s\n", strings.TrimSpace(d.Description))
		}
		for _, sub := range d.Subdimensions {
			fmt.Fprintf(&b, "\n### %s\n\n", sub.Name)
			for _, q := range sub.Questions {
				fmt.Fprintf(&b, "- `%s` %s\n", q.ID, q.Text)
			}
		}
	}
	fmt.Fprintf(&b, "\nScale: %s\n", likertScale())
	_, err := io.WriteString(w, b.String())
	return err
}

// likertScale renders "1 = Strongly Disagree, ..." for the answer legend.
func likertScale() string {
	parts := make([]string, 0, schema.MaxAnswer-schema.MinAnswer+1)
	for v := schema.MinAnswer; v <= schema.MaxAnswer; v++ {
		parts = append(parts, fmt.Sprintf("%d = %s", v, schema.LikertLabel(v)))
	}
	return strings.Join(parts, ", ")
}
