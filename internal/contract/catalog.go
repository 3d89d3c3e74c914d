package contract

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/iipmodel/readiness/schema"
	"gopkg.in/yaml.v3"
)

// catalogIDPattern matches stable identifiers such as "remote-access".
var catalogIDPattern = regexp.MustCompile(`^[a-z0-9]+(?:[-_][a-z0-9]+)*$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("catalogid", func(fl validator.FieldLevel) bool {
		return catalogIDPattern.MatchString(fl.Field().String())
	})
	return v
}

// AnswerSheet is a YAML file of answers keyed by question ID, with optional weights.
//
//	answers:
//	  remote-access: 4
//	  repeatability: "Somewhat Agree"
//	weights:
//	  accessibility: 1.5
type AnswerSheet struct {
	Answers map[string]int
	Weights map[string]float64
}

// QuestionIDs returns the answered question IDs in sorted order.
func (a *AnswerSheet) QuestionIDs() []string {
	ids := make([]string, 0, len(a.Answers))
	for id := range a.Answers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

type answerSheetRaw struct {
	Answers map[string]any     `yaml:"answers"`
	Weights map[string]float64 `yaml:"weights"`
}

// ValidateStruct validates a struct based on its validation tags.
func ValidateStruct(s any) error {
	if err := validate.Struct(s); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError formats validation errors into readable messages.
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}
	msgs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		msgs = append(msgs, formatFieldError(e))
	}
	return errors.New(strings.Join(msgs, "; "))
}

// formatFieldError formats a single field validation error.
func formatFieldError(e validator.FieldError) string {
	field := e.Namespace()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must contain at least %s item(s)", field, e.Param())
	case "catalogid":
		return fmt.Sprintf("%s %q must be lowercase letters, digits and single dashes", field, e.Value())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// ParseCatalog decodes, validates and indexes a catalog document.
func ParseCatalog(data []byte) (*schema.Catalog, error) {
	var c schema.Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("invalid catalog YAML: %w", err)
	}
	if err := ValidateStruct(&c); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	if err := c.Index(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return &c, nil
}

// LoadCatalog reads a catalog from path, or returns the embedded default when path is empty.
func LoadCatalog(path string) (*schema.Catalog, error) {
	if path == "" {
		return ParseCatalog(schema.DefaultCatalogYAML)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	return ParseCatalog(data)
}

// ParseAnswerSheet decodes an answer sheet. Values may be digits or Likert labels.
func ParseAnswerSheet(data []byte) (*AnswerSheet, error) {
	var raw answerSheetRaw
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid answer sheet YAML: %w", err)
	}
	sheet := &AnswerSheet{
		Answers: make(map[string]int, len(raw.Answers)),
		Weights: raw.Weights,
	}
	for id, v := range raw.Answers {
		answer, err := schema.ParseLikert(fmt.Sprint(v))
		if err != nil {
			return nil, fmt.Errorf("question %s: %w", id, err)
		}
		sheet.Answers[id] = answer
	}
	return sheet, nil
}

// LoadAnswerSheet reads an answer sheet from disk.
func LoadAnswerSheet(path string) (*AnswerSheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read answer sheet %s: %w", path, err)
	}
	return ParseAnswerSheet(data)
}
