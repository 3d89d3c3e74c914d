package core

import (
	"testing"

	"github.com/iipmodel/readiness/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildBreakdown(t *testing.T) {
	s := NewSession(testCatalog(t))
	require.NoError(t, s.Answer("realism", 2))
	require.NoError(t, s.Answer("immersion", 5))

	pages := BuildBreakdown(s)
	require.Len(t, pages, 2)

	presence := pages[0]
	assert.Equal(t, "Presence", presence.Name)
	require.Len(t, presence.Items, 2, "only answered questions are listed")
	assert.Equal(t, "Immersion", presence.Items[0].Label, "catalog order, label before the colon")
	assert.Equal(t, 5, presence.Items[0].Score)
	assert.Equal(t, "Strongly Agree", presence.Items[0].ScoreLabel)
	assert.Equal(t, "Realism", presence.Items[1].Label)
	assert.Equal(t, "realism", presence.Items[1].SubdimensionID)
	assert.InDelta(t, 3.5, presence.Overall, 1e-12)
	assert.Equal(t, schema.NeutralInterpretation, presence.Interpretation)

	collaboration := pages[1]
	assert.Empty(t, collaboration.Items)
	assert.Empty(t, collaboration.Interpretation, "no answers, nothing to interpret")
	assert.Equal(t, 3.0, collaboration.Overall)
	require.Len(t, collaboration.Subdimensions, 1)
	assert.Equal(t, 0, collaboration.Subdimensions[0].Answered)
}

func TestBreakdownLabelWithoutColon(t *testing.T) {
	s := NewSession(testCatalog(t))
	require.NoError(t, s.Answer("co-creation", 4))

	pages := BuildBreakdown(s)
	require.Len(t, pages[1].Items, 1)
	assert.Equal(t, "Co-Creation", pages[1].Items[0].Label)
}

func TestReportBuilder(t *testing.T) {
	s := NewSession(defaultCatalog(t))
	require.NoError(t, s.Answer("remote-access", 4))

	report := NewReportBuilder(s).
		BuildSummary().
		BuildPages().
		Build()

	assert.Equal(t, s.Catalog.Title, report.Title)
	assert.Equal(t, s.Catalog.Subtitle, report.Subtitle)
	assert.Contains(t, report.Intro, "Industrial Immersive Platform (IIP)")
	assert.Equal(t, s.ID, report.SessionID)
	assert.Len(t, report.Pages, 7, "one page per dimension, answered or not")
	assert.Equal(t, 8, report.PageCount())
	assert.Equal(t, report.Result.GeneratedAt, report.GeneratedAt)
	assert.Len(t, report.Result.Radar.Categories, 8)
}

func TestBuildReportReusesResult(t *testing.T) {
	s := NewSession(testCatalog(t))
	require.NoError(t, s.Answer("immersion", 5))
	result := Aggregate(s)

	report := BuildReport(s, result)
	assert.Equal(t, result, report.Result)
	assert.Equal(t, result.FinalScore, report.Result.FinalScore)
	assert.Len(t, report.Pages, 2)
}

func TestBreakdownInterpretation(t *testing.T) {
	tests := []struct {
		name     string
		answer   int
		expected string
	}{
		{"weak", 1, schema.ImprovementInterpretation},
		{"neutral", 3, schema.NeutralInterpretation},
		{"strong", 4, schema.StrongInterpretation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession(testCatalog(t))
			require.NoError(t, s.Answer("co-creation", tt.answer))
			assert.Equal(t, tt.expected, BuildBreakdown(s)[1].Interpretation)
		})
	}
}
