// internal/content/chart/infer.go
package chart

import (
	"strings"

	"survey-workers/internal/content/record"
)

const maxPieSlices = 10

var (
	nonSeriesKeys = []string{"name", "month", "date"}
	lineAxisKeys  = []string{"name", "month", "date", "time", "period"}
	barAxisKeys   = []string{"name", "category", "label"}
	barValueKeys  = []string{"value", "amount", "count", "total"}
)

// InferChart picks a chart shape for a bare array of rows. Rules are
// evaluated against the first row's fields.
func InferChart(rows []record.Record) *Spec {
	if len(rows) == 0 {
		return nil
	}
	first := rows[0]
	if first.Len() == 0 {
		return nil
	}
	data := make([]record.Record, len(rows))
	copy(data, rows)

	if first.Has("name") && first.Has("value") && len(rows) <= maxPieSlices {
		return &Spec{
			Type:     TypePie,
			Data:     data,
			XAxisKey: "name",
			YAxisKey: "value",
			DataKeys: []string{"value"},
		}
	}

	numericKeys := numericFields(first)
	if len(numericKeys) > 1 {
		return &Spec{
			Type:     TypeLine,
			Data:     data,
			XAxisKey: firstMatching(first, lineAxisKeys),
			DataKeys: numericKeys,
		}
	}

	yKey := firstMatchingOnly(first, barValueKeys)
	if yKey == "" && len(numericKeys) > 0 {
		yKey = numericKeys[0]
	}
	dataKeys := numericKeys
	if yKey != "" {
		dataKeys = []string{yKey}
	}
	if len(dataKeys) == 0 {
		return nil
	}
	return &Spec{
		Type:     TypeBar,
		Data:     data,
		XAxisKey: firstMatching(first, barAxisKeys),
		YAxisKey: yKey,
		DataKeys: dataKeys,
	}
}

func numericFields(row record.Record) []string {
	var keys []string
	for _, f := range row.Fields() {
		if containsFold(nonSeriesKeys, f.Name) {
			continue
		}
		if f.Value.Kind() == record.KindNumber {
			keys = append(keys, f.Name)
		}
	}
	return keys
}

// firstMatching returns the first field of row named in candidates, or the
// row's first field when none is.
func firstMatching(row record.Record, candidates []string) string {
	if key := firstMatchingOnly(row, candidates); key != "" {
		return key
	}
	return row.Keys()[0]
}

func firstMatchingOnly(row record.Record, candidates []string) string {
	for _, key := range row.Keys() {
		if containsFold(candidates, key) {
			return key
		}
	}
	return ""
}

func containsFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}
