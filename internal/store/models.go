package store

import (
	"time"

	"github.com/google/uuid"

	"github.com/readimeter/readimeter/internal/readiness"
)

// Assessment is one persisted evaluation: the inputs, the headline numbers,
// and the blocker list as computed at the time.
type Assessment struct {
	ID        string              `json:"id" db:"id"`
	Inputs    readiness.Inputs    `json:"inputs"`
	Score     int                 `json:"score" db:"score"`
	Band      readiness.Band      `json:"band" db:"band"`
	Blockers  []readiness.Blocker `json:"blockers"`
	CreatedAt time.Time           `json:"created_at" db:"created_at"`
}

// NewAssessment creates an assessment record with a generated ID from an
// inputs/result pair.
func NewAssessment(in readiness.Inputs, res readiness.Result) *Assessment {
	return &Assessment{
		ID:        uuid.New().String(),
		Inputs:    in,
		Score:     res.Score,
		Band:      res.Band,
		Blockers:  res.Blockers,
		CreatedAt: time.Now().UTC(),
	}
}

// DefaultInputSlot is the fixed identifier the CLI saves the most recent
// inputs under, so the next run can start from them.
const DefaultInputSlot = "default"
