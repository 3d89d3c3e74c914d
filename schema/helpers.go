package schema

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// LikertLabels maps answers 1..5 to their display labels.
var LikertLabels = [...]string{
	"Strongly Disagree",
	"Somewhat Disagree",
	"Neutral",
	"Somewhat Agree",
	"Strongly Agree",
}

// LikertLabel returns the label for an answer, or an empty string when out of range.
func LikertLabel(answer int) string {
	if answer < MinAnswer || answer > MaxAnswer {
		return ""
	}
	return LikertLabels[answer-MinAnswer]
}

// ParseLikert converts a label ("somewhat agree") or a digit ("4") into an answer.
// Range checking of numeric input is left to the store so that the error is uniform.
func ParseLikert(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	folded := foldKey(s)
	for i, label := range LikertLabels {
		if foldKey(label) == folded {
			return i + MinAnswer, nil
		}
	}
	return 0, fmt.Errorf("unknown likert value %q (expected 1-5 or one of: %s)", s, strings.Join(LikertLabels[:], ", "))
}

// foldKey normalizes user input for matching: inner whitespace collapses
// to single spaces and the text is case folded.
func foldKey(s string) string {
	return cases.Fold().String(strings.Join(strings.Fields(s), " "))
}

// Readiness label constants.
const (
	ReadyValue      = "Ready"
	PromisingValue  = "Promising"
	DevelopingValue = "Developing"
	NotReadyValue   = "Not Ready"
)

// GetReadinessLabel returns a plain text label for a score on the 0-5 scale.
func GetReadinessLabel(score float64) string {
	switch {
	case score >= 4:
		return ReadyValue
	case score >= 3:
		return PromisingValue
	case score >= 2:
		return DevelopingValue
	default:
		return NotReadyValue
	}
}

// Interpretations of a dimension's non-weighted overall.
const (
	ImprovementInterpretation = "This indicates a potential area for improvement. Consider focusing on strategies to enhance this dimension."
	NeutralInterpretation     = "This score suggests a neutral position; there may be strengths to build upon as well as areas that could be improved."
	StrongInterpretation      = "This reflects a strong position. Maintain and leverage these strengths to enhance overall performance."
)

// GetInterpretation explains an overall: below 2 needs improvement, from 2 up to 4 is
// neutral and 4 or more is strong.
func GetInterpretation(overall float64) string {
	switch {
	case overall < 2:
		return ImprovementInterpretation
	case overall < 4:
		return NeutralInterpretation
	default:
		return StrongInterpretation
	}
}
