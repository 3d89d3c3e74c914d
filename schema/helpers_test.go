package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShortLabel(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{"label before colon", "Remote Access: It is important for our use-case", "Remote Access"},
		{"space before colon", "Safety and Sustainability : Remote work", "Safety and Sustainability"},
		{"only first colon", "Cost: ratio: high", "Cost"},
		{"no colon", "  Plain statement ", "Plain statement"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ShortLabel(tt.text))
		})
	}
}

func TestParseLikert(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"1", 1},
		{" 5 ", 5},
		{"7", 7}, // range is enforced by the response store
		{"Strongly Disagree", 1},
		{"somewhat disagree", 2},
		{"NEUTRAL", 3},
		{"Somewhat   Agree", 4},
		{"strongly agree", 5},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLikert(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	_, err := ParseLikert("maybe")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown likert value")
}

func TestLikertLabel(t *testing.T) {
	assert.Equal(t, "Strongly Disagree", LikertLabel(1))
	assert.Equal(t, "Neutral", LikertLabel(3))
	assert.Equal(t, "Strongly Agree", LikertLabel(5))
	assert.Equal(t, "", LikertLabel(0))
	assert.Equal(t, "", LikertLabel(6))
}

func TestGetInterpretation(t *testing.T) {
	tests := []struct {
		overall  float64
		expected string
	}{
		{1, ImprovementInterpretation},
		{1.99, ImprovementInterpretation},
		{2, NeutralInterpretation},
		{3, NeutralInterpretation},
		{3.99, NeutralInterpretation},
		{4, StrongInterpretation},
		{5, StrongInterpretation},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, GetInterpretation(tt.overall), "overall %.2f", tt.overall)
	}
}
