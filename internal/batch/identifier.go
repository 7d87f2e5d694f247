package batch

import (
	"time"

	model "staff-planner.com/staff-planner/internal/models"
)

// IdentifyBatch selects, from candidates, the ids of every row belonging to
// the same generation batch as ref, looking forward only: identical title and
// creator, due date on or after ref's, and a creation instant on the same
// calendar day as ref's.
//
// Batch membership is inferred, not stored. Rows of one batch are inserted
// within the same operation but their created_at values may differ by
// milliseconds, so equality is checked at day truncation. ref is always a
// member of its own batch when present in candidates.
func IdentifyBatch(ref model.Task, candidates []model.Task) []string {
	refDay := ref.CreatedAt.UTC().Truncate(24 * time.Hour)

	var ids []string
	for _, c := range candidates {
		if c.Title != ref.Title || c.CreatedBy != ref.CreatedBy {
			continue
		}
		if c.DueDate < ref.DueDate {
			continue
		}
		if !c.CreatedAt.UTC().Truncate(24*time.Hour).Equal(refDay) {
			continue
		}
		ids = append(ids, c.ID)
	}
	return ids
}
