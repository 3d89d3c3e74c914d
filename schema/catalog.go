package schema

import (
	_ "embed" // default catalog
	"fmt"
	"strings"
)

// DefaultCatalogYAML is the built-in questionnaire covering the seven readiness dimensions.
//
//go:embed catalog.yaml
var DefaultCatalogYAML []byte

// Catalog is the configuration table of the questionnaire: dimensions own
// subdimensions, which own questions. The order of every list is significant.
type Catalog struct {
	Title      string      `yaml:"title" json:"title" validate:"required"`
	Subtitle   string      `yaml:"subtitle" json:"subtitle,omitempty"`
	Intro      string      `yaml:"intro" json:"intro,omitempty"`
	Dimensions []Dimension `yaml:"dimensions" json:"dimensions" validate:"required,min=1,dive"`

	questions  map[string]QuestionRef
	dimensions map[string]int
}

// Dimension is a named category of the assessment.
type Dimension struct {
	ID            string         `yaml:"id" json:"id" validate:"required,catalogid"`
	Name          string         `yaml:"name" json:"name" validate:"required"`
	Description   string         `yaml:"description" json:"description,omitempty"`
	Subdimensions []Subdimension `yaml:"subdimensions" json:"subdimensions" validate:"dive"`
}

// Subdimension is a named sub-category within a dimension.
type Subdimension struct {
	ID        string     `yaml:"id" json:"id" validate:"required,catalogid"`
	Name      string     `yaml:"name" json:"name" validate:"required"`
	Questions []Question `yaml:"questions" json:"questions" validate:"required,min=1,dive"`
}

// Question is a single Likert statement. Its ID is stable even when the text changes.
type Question struct {
	ID   string `yaml:"id" json:"id" validate:"required,catalogid"`
	Text string `yaml:"text" json:"text" validate:"required"`
}

// QuestionRef locates a question inside the catalog.
type QuestionRef struct {
	DimensionID    string `json:"dimension_id"`
	SubdimensionID string `json:"subdimension_id"`
	QuestionID     string `json:"question_id"`
	Text           string `json:"text"`
}

// NewCatalog builds and indexes a catalog.
func NewCatalog(title string, dimensions ...Dimension) (*Catalog, error) {
	c := &Catalog{Title: title, Dimensions: dimensions}
	if err := c.Index(); err != nil {
		return nil, err
	}
	return c, nil
}

// Index builds the lookup tables and rejects duplicate identifiers.
// Question IDs must be unique across the whole catalog.
func (c *Catalog) Index() error {
	c.questions = make(map[string]QuestionRef)
	c.dimensions = make(map[string]int, len(c.Dimensions))

	for i, d := range c.Dimensions {
		if _, ok := c.dimensions[d.ID]; ok {
			return fmt.Errorf("duplicate dimension id %q", d.ID)
		}
		c.dimensions[d.ID] = i

		seenSubs := make(map[string]struct{}, len(d.Subdimensions))
		for _, s := range d.Subdimensions {
			if _, ok := seenSubs[s.ID]; ok {
				return fmt.Errorf("duplicate subdimension id %q in dimension %q", s.ID, d.ID)
			}
			seenSubs[s.ID] = struct{}{}

			for _, q := range s.Questions {
				if prev, ok := c.questions[q.ID]; ok {
					return fmt.Errorf("duplicate question id %q (already used in %s/%s)", q.ID, prev.DimensionID, prev.SubdimensionID)
				}
				c.questions[q.ID] = QuestionRef{
					DimensionID:    d.ID,
					SubdimensionID: s.ID,
					QuestionID:     q.ID,
					Text:           q.Text,
				}
			}
		}
	}
	return nil
}

// Question returns the location of a question by its ID.
func (c *Catalog) Question(id string) (QuestionRef, bool) {
	ref, ok := c.questions[id]
	return ref, ok
}

// Dimension returns the dimension with the given ID.
func (c *Catalog) Dimension(id string) (Dimension, bool) {
	i, ok := c.dimensions[id]
	if !ok {
		return Dimension{}, false
	}
	return c.Dimensions[i], true
}

// ResolveDimension finds a dimension by ID or display name, ignoring case
// and extra whitespace.
func (c *Catalog) ResolveDimension(key string) (Dimension, bool) {
	key = strings.TrimSpace(key)
	if d, ok := c.Dimension(key); ok {
		return d, true
	}
	folded := foldKey(key)
	for _, d := range c.Dimensions {
		if foldKey(d.ID) == folded || foldKey(d.Name) == folded {
			return d, true
		}
	}
	return Dimension{}, false
}

// DimensionIDs returns the dimension IDs in catalog order.
func (c *Catalog) DimensionIDs() []string {
	ids := make([]string, len(c.Dimensions))
	for i, d := range c.Dimensions {
		ids[i] = d.ID
	}
	return ids
}

// QuestionCount returns the number of questions in the catalog.
func (c *Catalog) QuestionCount() int {
	n := 0
	for _, d := range c.Dimensions {
		n += d.QuestionCount()
	}
	return n
}

// QuestionCount returns the number of questions in the dimension.
func (d Dimension) QuestionCount() int {
	n := 0
	for _, s := range d.Subdimensions {
		n += len(s.Questions)
	}
	return n
}

// Label returns the short label of the question.
func (q Question) Label() string {
	return ShortLabel(q.Text)
}

// ShortLabel returns the text before the first colon, trimmed.
// Text without a colon is returned whole.
func ShortLabel(text string) string {
	head, _, _ := strings.Cut(text, ":")
	return strings.TrimSpace(head)
}
