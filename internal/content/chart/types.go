// internal/content/chart/types.go
package chart

import "survey-workers/internal/content/record"

type Type string

const (
	TypeBar  Type = "bar"
	TypeLine Type = "line"
	TypePie  Type = "pie"
)

func (t Type) Valid() bool {
	switch t {
	case TypeBar, TypeLine, TypePie:
		return true
	}
	return false
}

// Spec is a chart ready for the front-end renderer. Data is never empty.
type Spec struct {
	Type     Type            `json:"type"`
	Data     []record.Record `json:"data"`
	Title    string          `json:"title,omitempty"`
	XAxisKey string          `json:"xAxisKey,omitempty"`
	YAxisKey string          `json:"yAxisKey,omitempty"`
	DataKeys []string        `json:"dataKeys,omitempty"`
}

const (
	defaultXAxisKey = "name"
	defaultYAxisKey = "value"
)
