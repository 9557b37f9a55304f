// internal/workers/extraction/extract-chart/models.go
package extractchart

import (
	"encoding/json"

	"survey-workers/internal/content/chart"
)

// Input.Content is either a JSON string of raw model output or an
// already-decoded chart object or row array.
type Input struct {
	Content json.RawMessage `json:"content"`
}

type Output struct {
	ChartFound bool        `json:"chartFound"`
	Chart      *chart.Spec `json:"chart"`
	Strategy   string      `json:"strategy,omitempty"`
}
