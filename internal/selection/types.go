package selection

import (
	"fmt"

	"exam-service/internal/models"
)

// PooledQuestion pairs a catalog question with the requesting user's
// performance history. Stats is nil for a never-attempted question.
type PooledQuestion struct {
	Question models.Question           `json:"question"`
	Stats    *models.PerformanceRecord `json:"stats,omitempty"`
}

// InsufficientPoolError reports that a category bucket cannot satisfy the
// requested composition. Session creation aborts; no partial exam is built.
type InsufficientPoolError struct {
	Category  models.Category
	Requested int
	Available int
}

func (e *InsufficientPoolError) Error() string {
	return fmt.Sprintf("insufficient question pool for category %q: requested %d, available %d",
		e.Category, e.Requested, e.Available)
}
