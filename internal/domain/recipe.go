package domain

// Recipe is a recipe returned by the analysis engine's retrieval operation.
type Recipe struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Tags        []string `json:"tags,omitempty"`
	Ingredients []string `json:"ingredients"`
}

// CoOccurrence is the ingredient co-occurrence matrix built by the analysis
// engine. Matrix[i][j] relates Ingredients[i] and Ingredients[j].
type CoOccurrence struct {
	Ingredients []string    `json:"ingredients"`
	Matrix      [][]float64 `json:"matrix"`
}

// Size returns the number of ingredients the matrix spans.
func (c *CoOccurrence) Size() int {
	if c == nil {
		return 0
	}
	return len(c.Ingredients)
}
