package descriptor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/complyflow/complyflow/model/graph"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name         string
		line         string
		expectCmd    string
		expectText   string
		expectID     string
		expectParams map[string]string
		expectProps  map[string]string
	}{
		{
			name:         "angle-bracket step with prompt and id",
			line:         `<step prompt="A" id="s1">`,
			expectCmd:    "step",
			expectText:   "A",
			expectID:     "s1",
			expectParams: map[string]string{"prompt": "A", "id": "s1"},
			expectProps:  map[string]string{},
		},
		{
			name:       "rule line keeps test and action out of text",
			line:       `<rule test="1 == 1" true="SETANS(b, 'done')" id="r1">`,
			expectCmd:  "rule",
			expectText: graph.PlaceholderText,
			expectID:   "r1",
			expectParams: map[string]string{
				"test": "1 == 1",
				"true": "SETANS(b, 'done')",
				"id":   "r1",
			},
			expectProps: map[string]string{},
		},
		{
			name:         "colon tag with free text",
			line:         `q: What is the system name?`,
			expectCmd:    "q",
			expectText:   "What is the system name?",
			expectParams: map[string]string{},
			expectProps:  map[string]string{},
		},
		{
			name:         "all-caps tag",
			line:         `NOTE Review the inventory before continuing`,
			expectCmd:    "note",
			expectText:   "Review the inventory before continuing",
			expectParams: map[string]string{},
			expectProps:  map[string]string{},
		},
		{
			name:         "call-style attribute stripped from text",
			line:         `q: Which owner? field(system.owner)`,
			expectCmd:    "q",
			expectText:   "Which owner?",
			expectParams: map[string]string{},
			expectProps:  map[string]string{"field": "system.owner"},
		},
		{
			name:         "no recognizable tag",
			line:         `!! not a descriptor`,
			expectCmd:    "",
			expectText:   "!! not a descriptor",
			expectParams: map[string]string{},
			expectProps:  map[string]string{},
		},
		{
			name:         "tag only falls back to placeholder",
			line:         `<step>`,
			expectCmd:    "step",
			expectText:   graph.PlaceholderText,
			expectParams: map[string]string{},
			expectProps:  map[string]string{},
		},
		{
			name:         "param keys are lower-cased",
			line:         `<step Prompt="Describe boundaries" ID="s3">`,
			expectCmd:    "step",
			expectText:   "Describe boundaries",
			expectID:     "s3",
			expectParams: map[string]string{"prompt": "Describe boundaries", "id": "s3"},
			expectProps:  map[string]string{},
		},
	}

	for _, tc := range testCases {
		actual := Parse(tc.line)
		assert.Equal(t, tc.expectCmd, actual.Cmd, tc.name)
		assert.Equal(t, tc.expectText, actual.Text, tc.name)
		assert.EqualValues(t, tc.expectParams, actual.Params, tc.name)
		assert.EqualValues(t, tc.expectProps, actual.Props, tc.name)
		if tc.expectID != "" {
			assert.Equal(t, tc.expectID, actual.ID, tc.name)
		} else {
			assert.Len(t, actual.ID, 8, tc.name)
		}
	}
}

// Parsing the same line twice yields identical features, including the
// fingerprint-derived id.
func TestParse_idempotent(t *testing.T) {
	line := `q: What is the system name?`
	first := Parse(line)
	second := Parse(line)
	assert.EqualValues(t, first, second)
}

func TestParse_malformedAttribute(t *testing.T) {
	// unterminated quote: the attribute is not recognized, the raw text wins
	actual := Parse(`<step prompt="unclosed`)
	assert.Equal(t, "step", actual.Cmd)
	assert.Empty(t, actual.Params)
	assert.Equal(t, `prompt="unclosed`, actual.Text)
}
