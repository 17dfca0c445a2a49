// Package advisory wraps the two external collaborators the API consumes:
// a disease-image classifier and an AI treatment suggester. Both are plain
// request/response HTTP calls with a finite timeout; a failed or timed-out
// call is a hard failure surfaced to the caller, never retried.
package advisory

import (
	"context"

	"github.com/agrovigil/agrovigil-api/internal/models"
)

// Label is one ranked classification result.
type Label struct {
	Name  string  `json:"label"`
	Score float64 `json:"score"`
}

// Suggestion is the structured treatment advice for a disease report.
type Suggestion struct {
	Explanation string `json:"explanation"`
	Treatment   string `json:"treatment"`
	Prevention  string `json:"prevention"`
}

// Classifier identifies plant diseases from raw image bytes.
type Classifier interface {
	Classify(ctx context.Context, image []byte) ([]Label, error)
}

// TreatmentSuggester produces treatment advice from an inquiry's subject
// fields.
type TreatmentSuggester interface {
	Suggest(ctx context.Context, inquiry *models.Inquiry) (*Suggestion, error)
}
