package job

import (
	"context"

	"github.com/phrazzld/recipe-api/internal/domain"
)

// AnalysisEngine is the external service that selects recipes and computes
// ingredient co-occurrence. Implementations must honour ctx cancellation.
type AnalysisEngine interface {
	// PullRecipes returns the recipes carrying tag, or every recipe when tag is nil.
	PullRecipes(ctx context.Context, tag *string) ([]domain.Recipe, error)

	// BuildCoOccurrence builds the co-occurrence matrix of ingredients over recipes.
	BuildCoOccurrence(ctx context.Context, recipes []domain.Recipe, ingredients []string) (*domain.CoOccurrence, error)
}
