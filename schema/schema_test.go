package schema_test

import (
	"testing"

	"github.com/iipmodel/readiness/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func testDimension(id string, subs ...schema.Subdimension) schema.Dimension {
	return schema.Dimension{ID: id, Name: id, Subdimensions: subs}
}

func testSub(id string, questionIDs ...string) schema.Subdimension {
	s := schema.Subdimension{ID: id, Name: id}
	for _, q := range questionIDs {
		s.Questions = append(s.Questions, schema.Question{ID: q, Text: q + ": statement"})
	}
	return s
}

func TestNewCatalog(t *testing.T) {
	t.Run("indexes questions", func(t *testing.T) {
		c, err := schema.NewCatalog("test",
			testDimension("a", testSub("s1", "q1", "q2"), testSub("s2", "q3")),
			testDimension("b", testSub("s1", "q4")),
		)
		require.NoError(t, err)

		ref, ok := c.Question("q3")
		require.True(t, ok)
		assert.Equal(t, "a", ref.DimensionID)
		assert.Equal(t, "s2", ref.SubdimensionID)
		assert.Equal(t, "q3: statement", ref.Text)

		// subdimension IDs only need to be unique within their dimension
		ref, ok = c.Question("q4")
		require.True(t, ok)
		assert.Equal(t, "b", ref.DimensionID)
		assert.Equal(t, "s1", ref.SubdimensionID)

		_, ok = c.Question("missing")
		assert.False(t, ok)

		assert.Equal(t, []string{"a", "b"}, c.DimensionIDs())
		assert.Equal(t, 4, c.QuestionCount())
	})

	tests := []struct {
		name       string
		dimensions []schema.Dimension
		errPart    string
	}{
		{
			name:       "duplicate dimension",
			dimensions: []schema.Dimension{testDimension("a"), testDimension("a")},
			errPart:    `duplicate dimension id "a"`,
		},
		{
			name:       "duplicate subdimension",
			dimensions: []schema.Dimension{testDimension("a", testSub("s", "q1"), testSub("s", "q2"))},
			errPart:    `duplicate subdimension id "s"`,
		},
		{
			name: "duplicate question across dimensions",
			dimensions: []schema.Dimension{
				testDimension("a", testSub("s", "q1")),
				testDimension("b", testSub("s", "q1")),
			},
			errPart: `duplicate question id "q1"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := schema.NewCatalog("test", tt.dimensions...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errPart)
		})
	}
}

func TestResolveDimension(t *testing.T) {
	c, err := schema.NewCatalog("test", schema.Dimension{ID: "business-and-economy", Name: "Business & Economy"})
	require.NoError(t, err)

	for _, key := range []string{"business-and-economy", "Business-And-Economy", "business & economy", " Business & Economy ", "BUSINESS  &  ECONOMY"} {
		d, ok := c.ResolveDimension(key)
		assert.True(t, ok, key)
		assert.Equal(t, "business-and-economy", d.ID)
	}

	_, ok := c.ResolveDimension("presence")
	assert.False(t, ok)

	// Full case folding matches where simple folding does not.
	c, err = schema.NewCatalog("test", schema.Dimension{ID: "road", Name: "Straße"})
	require.NoError(t, err)
	d, ok := c.ResolveDimension("STRASSE")
	assert.True(t, ok)
	assert.Equal(t, "road", d.ID)
}

func TestDefaultCatalog(t *testing.T) {
	var c schema.Catalog
	require.NoError(t, yaml.Unmarshal(schema.DefaultCatalogYAML, &c))
	require.NoError(t, c.Index())

	assert.Equal(t, "IIP-Assessment Model Results", c.Title)
	assert.Equal(t, []string{
		"accessibility",
		"use-case-specifics",
		"business-and-economy",
		"collaboration",
		"presence",
		"simulation-and-modelling",
		"technical-infrastructure",
	}, c.DimensionIDs())
	assert.Equal(t, 58, c.QuestionCount())

	access, ok := c.Dimension("accessibility")
	require.True(t, ok)
	require.Len(t, access.Subdimensions, 3)
	assert.Equal(t, "Remote", access.Subdimensions[0].Name)
	assert.Len(t, access.Subdimensions[0].Questions, 4)
	assert.Len(t, access.Subdimensions[1].Questions, 1)
	assert.Len(t, access.Subdimensions[2].Questions, 4)
	assert.Equal(t, "Remote Access", access.Subdimensions[0].Questions[0].Label())

	for _, d := range c.Dimensions {
		assert.NotEmpty(t, d.Description, d.ID)
	}
}
