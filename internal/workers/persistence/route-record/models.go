// internal/workers/persistence/route-record/models.go
package routerecord

import (
	"survey-workers/internal/content/record"
	"survey-workers/internal/routing"
)

type Input struct {
	Record  record.Record `json:"record"`
	Context string        `json:"context"`
	// DryRun classifies without persisting.
	DryRun bool `json:"dryRun"`
	// Async hands the record to the auto-save queue and returns at once.
	Async bool `json:"async"`
}

type Output struct {
	Destination    routing.Destination   `json:"destination,omitempty"`
	Table          string                `json:"table,omitempty"`
	ConfidenceTier routing.Tier          `json:"confidenceTier,omitempty"`
	Score          int                   `json:"score"`
	Reasoning      string                `json:"reasoning,omitempty"`
	Alternates     []routing.Destination `json:"alternates"`
	Persisted      bool                  `json:"persisted"`
	RecordID       string                `json:"recordId,omitempty"`
	Fallback       bool                  `json:"fallback"`
	Matches        []routing.Match       `json:"matches,omitempty"`
	Queued         bool                  `json:"queued"`
	AutoSaveJobID  string                `json:"autoSaveJobId,omitempty"`
}
