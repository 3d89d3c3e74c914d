package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/iipmodel/readiness/internal/contract"
	"github.com/iipmodel/readiness/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

func resultFixture() schema.AssessmentResult {
	return schema.AssessmentResult{
		SessionID:   "pilot-1",
		Title:       "Pilot",
		GeneratedAt: time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC),
		Dimensions: []schema.DimensionResult{
			{
				ID: "presence", Name: "Presence", Overall: 4.75, Weight: 1.2, DisplayValue: 5, Answered: 3, Total: 3,
				Subdimensions: []schema.SubdimensionResult{
					{ID: "immersion", Name: "Immersion", Mean: 4.5, Answered: 2, Total: 2},
					{ID: "realism", Name: "Realism", Mean: 5, Answered: 1, Total: 1},
				},
			},
			{
				ID: "collab", Name: "Collaboration", Overall: 2, Weight: 1, DisplayValue: 1, Answered: 1, Total: 2,
				Subdimensions: []schema.SubdimensionResult{
					{ID: "co-creation", Name: "Co-creation", Mean: 2, Answered: 1, Total: 1},
					{ID: "sharing", Name: "Sharing", Answered: 0, Total: 1},
				},
			},
		},
		FinalScore: 7.0 / 2.2,
		Label:      schema.PromisingValue,
		Radar: schema.RadarSeries{
			Categories: []string{"Presence", "Collaboration", "Presence"},
			Values:     []float64{5, 1, 5},
		},
		Progress: schema.Progress{
			Answered: 4,
			Total:    5,
			Steps:    2,
			Dimensions: []schema.DimensionProgress{
				{ID: "presence", Name: "Presence", Step: 1, Answered: 3, Total: 3},
				{ID: "collab", Name: "Collaboration", Step: 2, Answered: 1, Total: 2},
			},
		},
	}
}

func reportFixture() schema.Report {
	result := resultFixture()
	return schema.Report{
		Title:       "Pilot",
		Subtitle:    "Readiness of a training scenario",
		Intro:       "This report covers the pilot scenario.",
		SessionID:   result.SessionID,
		GeneratedAt: result.GeneratedAt,
		Result:      result,
		Pages: []schema.DimensionBreakdown{
			{
				ID:             "presence",
				Name:           "Presence",
				Overall:        4.75,
				Interpretation: schema.StrongInterpretation,
				Items: []schema.BreakdownItem{
					{QuestionID: "realism", SubdimensionID: "realism", Label: "Realism", Score: 5, ScoreLabel: "Strongly Agree"},
				},
				Subdimensions: result.Dimensions[0].Subdimensions,
			},
			{ID: "collab", Name: "Collaboration", Overall: 3},
		},
	}
}

func catalogFixture(t *testing.T) *schema.Catalog {
	t.Helper()
	catalog, err := schema.NewCatalog("Pilot",
		schema.Dimension{ID: "presence", Name: "Presence", Subdimensions: []schema.Subdimension{
			{ID: "immersion", Name: "Immersion", Questions: []schema.Question{{ID: "immersion", Text: "Immersion: the scenario absorbs the learner"}}},
		}},
		schema.Dimension{ID: "collab", Name: "Collaboration", Subdimensions: []schema.Subdimension{
			{ID: "sharing", Name: "Sharing", Questions: []schema.Question{{ID: "sharing", Text: "Sharing: peers can see each other's work"}}},
		}},
	)
	require.NoError(t, err)
	return catalog
}

func outputConfig(t *testing.T, mode schema.OutputMode, name string) *contract.Config {
	t.Helper()
	return &contract.Config{
		Output:     mode,
		OutputFile: filepath.Join(t.TempDir(), name),
		Precision:  2,
		Width:      120,
	}
}

func readOutput(t *testing.T, cfg *contract.Config) string {
	t.Helper()
	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	return string(data)
}

func TestPrintResultsJSON(t *testing.T) {
	cfg := outputConfig(t, schema.JSONOut, "results.json")
	require.NoError(t, PrintResults(resultFixture(), cfg, time.Second))

	var decoded schema.AssessmentResult
	require.NoError(t, json.Unmarshal([]byte(readOutput(t, cfg)), &decoded))
	assert.Equal(t, "pilot-1", decoded.SessionID)
	assert.Len(t, decoded.Dimensions, 2)
	assert.InDelta(t, 7.0/2.2, decoded.FinalScore, 1e-9)

	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(readOutput(t, cfg)), &raw))
	first := raw["dimensions"].([]any)[0].(map[string]any)
	assert.Equal(t, float64(1), first["step"])
	assert.Equal(t, schema.ReadyValue, first["label"])
}

func TestPrintResultsCSV(t *testing.T) {
	cfg := outputConfig(t, schema.CSVOut, "results.csv")
	require.NoError(t, PrintResults(resultFixture(), cfg, time.Second))

	records, err := csv.NewReader(strings.NewReader(readOutput(t, cfg))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "display_value", records[0][5])
	assert.Equal(t, []string{"1", "presence", "Presence", "4.75", "1.20", "5.00", "Ready", "3", "3", "3.18", "Promising"}, records[1])
	assert.Equal(t, "Not Ready", records[2][6])
}

func TestPrintResultsText(t *testing.T) {
	cfg := outputConfig(t, schema.TextOut, "results.txt")
	cfg.Detail = true
	require.NoError(t, PrintResults(resultFixture(), cfg, time.Second))

	out := readOutput(t, cfg)
	assert.Contains(t, out, "Presence")
	assert.Contains(t, out, "Co-creation")
	assert.Contains(t, out, "Final score: 3.18 (Promising)")
	assert.Contains(t, out, "Radar: Presence 5.00 · Collaboration 1.00 · Presence 5.00")
	assert.Contains(t, out, "4/5 answered")
}

func TestPrintResultsMarkdown(t *testing.T) {
	cfg := outputConfig(t, schema.MarkdownOut, "results.md")
	require.NoError(t, PrintResults(resultFixture(), cfg, time.Second))

	out := readOutput(t, cfg)
	assert.True(t, strings.HasPrefix(out, "# Pilot\n"))
	assert.Contains(t, out, "| 2 | Collaboration | 2.00 | 1.00 | 1.00 | Not Ready | 1/2 |")
	assert.Contains(t, out, "**Final score:** 3.18 (Promising)")
}

func TestPrintResultsParquet(t *testing.T) {
	cfg := outputConfig(t, schema.ParquetOut, "results.parquet")
	require.NoError(t, PrintResults(resultFixture(), cfg, time.Second))
	info, err := os.Stat(cfg.OutputFile)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	cfg.OutputFile = ""
	assert.Error(t, PrintResults(resultFixture(), cfg, time.Second))
}

func TestPrintReportMarkdown(t *testing.T) {
	cfg := outputConfig(t, schema.TextOut, "report.md")
	require.NoError(t, PrintReport(reportFixture(), cfg))

	out := readOutput(t, cfg)
	pages := strings.Split(out, pageBreak)
	require.Len(t, pages, 3)
	assert.Contains(t, pages[0], "_Readiness of a training scenario_")
	assert.Contains(t, pages[0], "## Final score: 3.18 (Promising)")
	assert.Contains(t, pages[0], "| Collaboration | 1.00 |")
	assert.Contains(t, pages[0], "This report covers the pilot scenario.")
	assert.Contains(t, pages[0], "- **Presence:** 4.75. "+schema.StrongInterpretation)
	assert.Contains(t, pages[0], "- **Collaboration:** no data")
	assert.Contains(t, pages[1], "## Page 2 of 3: Presence")
	assert.Contains(t, pages[1], "| Realism | 5 (Strongly Agree) |")
	assert.Contains(t, pages[1], schema.StrongInterpretation)
	assert.Contains(t, pages[1], "| Immersion | 4.50 | 2/2 |")
	assert.Contains(t, pages[2], "No questions answered")
}

func TestPrintReportJSON(t *testing.T) {
	cfg := outputConfig(t, schema.JSONOut, "report.json")
	require.NoError(t, PrintReport(reportFixture(), cfg))

	var decoded schema.Report
	require.NoError(t, json.Unmarshal([]byte(readOutput(t, cfg)), &decoded))
	assert.Equal(t, 3, decoded.PageCount())
	assert.Equal(t, "Realism", decoded.Pages[0].Items[0].Label)
}

func TestPrintReportCSV(t *testing.T) {
	cfg := outputConfig(t, schema.CSVOut, "report.csv")
	require.NoError(t, PrintReport(reportFixture(), cfg))

	records, err := csv.NewReader(strings.NewReader(readOutput(t, cfg))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"2", "presence", "Presence", "realism", "realism", "Realism", "5", "Strongly Agree"}, records[1])
}

func TestPrintCatalog(t *testing.T) {
	catalog := catalogFixture(t)

	t.Run("text", func(t *testing.T) {
		cfg := outputConfig(t, schema.TextOut, "catalog.txt")
		require.NoError(t, PrintCatalog(catalog, cfg))
		out := readOutput(t, cfg)
		assert.Contains(t, out, "Pilot (2 questions)")
		assert.Contains(t, out, "Step 2/2: Collaboration [collab]")
		assert.Contains(t, out, "5 = Strongly Agree")
	})

	t.Run("csv", func(t *testing.T) {
		cfg := outputConfig(t, schema.CSVOut, "catalog.csv")
		require.NoError(t, PrintCatalog(catalog, cfg))
		records, err := csv.NewReader(strings.NewReader(readOutput(t, cfg))).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, []string{"2", "collab", "sharing", "sharing", "Sharing: peers can see each other's work"}, records[2])
	})

	t.Run("json", func(t *testing.T) {
		cfg := outputConfig(t, schema.JSONOut, "catalog.json")
		require.NoError(t, PrintCatalog(catalog, cfg))
		var decoded schema.Catalog
		require.NoError(t, json.Unmarshal([]byte(readOutput(t, cfg)), &decoded))
		assert.Equal(t, []string{"presence", "collab"}, []string{decoded.Dimensions[0].ID, decoded.Dimensions[1].ID})
	})

	t.Run("markdown", func(t *testing.T) {
		cfg := outputConfig(t, schema.MarkdownOut, "catalog.md")
		require.NoError(t, PrintCatalog(catalog, cfg))
		assert.Contains(t, readOutput(t, cfg), "- `immersion` Immersion: the scenario absorbs the learner")
	})

	t.Run("parquet unsupported", func(t *testing.T) {
		assert.Error(t, PrintCatalog(catalog, outputConfig(t, schema.ParquetOut, "catalog.parquet")))
	})
}

func TestPrintProgress(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		cfg := outputConfig(t, schema.TextOut, "progress.txt")
		require.NoError(t, PrintProgress(resultFixture(), cfg))
		out := readOutput(t, cfg)
		assert.Contains(t, out, "Session pilot-1: 4/5 answered")
		assert.Contains(t, out, "Results are available once every question is answered.")
	})

	t.Run("complete", func(t *testing.T) {
		result := resultFixture()
		result.Progress.AllAnswered = true
		cfg := outputConfig(t, schema.TextOut, "progress.txt")
		require.NoError(t, PrintProgress(result, cfg))
		assert.Contains(t, readOutput(t, cfg), "Final score: 3.18 (Promising)")
	})

	t.Run("json", func(t *testing.T) {
		cfg := outputConfig(t, schema.JSONOut, "progress.json")
		require.NoError(t, PrintProgress(resultFixture(), cfg))
		var decoded schema.Progress
		require.NoError(t, json.Unmarshal([]byte(readOutput(t, cfg)), &decoded))
		assert.Equal(t, 4, decoded.Answered)
		assert.Len(t, decoded.Dimensions, 2)
	})

	t.Run("csv", func(t *testing.T) {
		cfg := outputConfig(t, schema.CSVOut, "progress.csv")
		require.NoError(t, PrintProgress(resultFixture(), cfg))
		assert.Contains(t, readOutput(t, cfg), "2,collab,Collaboration,1,2")
	})

	t.Run("markdown", func(t *testing.T) {
		cfg := outputConfig(t, schema.MarkdownOut, "progress.md")
		require.NoError(t, PrintProgress(resultFixture(), cfg))
		assert.Contains(t, readOutput(t, cfg), "| 1 | Presence | 3/3 | 4.75 |")
	})
}

func TestGetMaxTextWidth(t *testing.T) {
	assert.Equal(t, 70, GetMaxTextWidth(&contract.Config{Width: 120}, 40))
	assert.Equal(t, 20, GetMaxTextWidth(&contract.Config{Width: 30}, 40))
	assert.Equal(t, 100, GetMaxTextWidth(&contract.Config{Width: 400}, 40))
}
