package model

// Recipe is the free-text source of a workflow image, one feature descriptor
// per line.
type Recipe struct {
	Name string `json:"name" yaml:"name"`
	UUID string `json:"uuid,omitempty" yaml:"uuid,omitempty"`
	Text string `json:"text" yaml:"text"`
}

// NewRecipe creates a recipe with the given name and source text
func NewRecipe(name, text string) *Recipe {
	return &Recipe{Name: name, Text: text}
}
