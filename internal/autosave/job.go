// internal/autosave/job.go
package autosave

import (
	"time"

	"github.com/google/uuid"

	"survey-workers/internal/content/record"
)

// Job asks the worker to route and persist one record.
type Job struct {
	ID         string        `json:"id"`
	Record     record.Record `json:"record"`
	Context    string        `json:"context,omitempty"`
	EnqueuedAt time.Time     `json:"enqueuedAt"`
}

func NewJob(rec record.Record, hint string) Job {
	return Job{
		ID:         uuid.NewString(),
		Record:     rec.Clone(),
		Context:    hint,
		EnqueuedAt: time.Now().UTC(),
	}
}
