// internal/content/chart/extract.go
package chart

import (
	"survey-workers/internal/common/validation"
	"survey-workers/internal/content/record"
)

// ExtractChart recovers a chart from free-form model output. It returns nil
// when no strategy yields a usable chart.
func ExtractChart(content string) *Spec {
	spec, _ := ExtractWithStrategy(content)
	return spec
}

// ExtractWithStrategy runs the matcher cascade and also reports which
// matcher produced the payload. The first matcher whose payload parses
// decides the outcome, even when that payload is not a chart.
func ExtractWithStrategy(content string) (*Spec, string) {
	return extractWith(DefaultMatchers, content)
}

func extractWith(matchers []Matcher, content string) (*Spec, string) {
	text := content
	for _, m := range matchers {
		if v, ok := m.TryParse(text); ok {
			spec := FromValue(v)
			if spec == nil {
				return nil, ""
			}
			return spec, m.Name()
		}
		if u, ok := m.(unwrapper); ok {
			if inner, ok := u.Unwrap(text); ok {
				text = inner
			}
		}
	}
	return nil, ""
}

// Extract accepts content that may already be decoded: a string, raw bytes,
// a record.Value, a record.Record, or plain decoded JSON maps and slices.
func Extract(content interface{}) *Spec {
	switch c := content.(type) {
	case nil:
		return nil
	case string:
		return ExtractChart(c)
	case []byte:
		return ExtractChart(string(c))
	case record.Value:
		return FromValue(c)
	case record.Record:
		return FromValue(record.Nested(c))
	case []record.Record:
		return InferChart(c)
	case map[string]interface{}, []interface{}:
		return FromValue(record.FromInterface(c))
	default:
		return nil
	}
}

// FromValue turns a parsed payload into a chart. Objects must carry a known
// type and a non-empty data array; bare arrays go to InferChart.
func FromValue(v record.Value) *Spec {
	switch v.Kind() {
	case record.KindRecord:
		obj, _ := v.AsRecord()
		return fromObject(obj)
	case record.KindList:
		items, _ := v.AsList()
		rows := make([]record.Record, 0, len(items))
		for _, item := range items {
			row, ok := item.AsRecord()
			if !ok {
				return nil
			}
			rows = append(rows, row)
		}
		return InferChart(rows)
	default:
		return nil
	}
}

func fromObject(obj record.Record) *Spec {
	if result := validation.ValidateChart(obj.ToMap()); !result.Valid {
		return nil
	}

	typ, _ := obj.GetString("type")
	dataValue, _ := obj.Get("data")
	items, _ := dataValue.AsList()

	spec := &Spec{
		Type:     Type(typ),
		Data:     make([]record.Record, 0, len(items)),
		XAxisKey: defaultXAxisKey,
		YAxisKey: defaultYAxisKey,
		DataKeys: []string{defaultYAxisKey},
	}
	for _, item := range items {
		row, _ := item.AsRecord()
		spec.Data = append(spec.Data, row)
	}

	if title, ok := obj.GetString("title"); ok {
		spec.Title = title
	}
	if x, ok := obj.GetString("xAxisKey"); ok && x != "" {
		spec.XAxisKey = x
	}
	if y, ok := obj.GetString("yAxisKey"); ok && y != "" {
		spec.YAxisKey = y
	}
	if keys := stringList(obj, "dataKeys"); len(keys) > 0 {
		spec.DataKeys = keys
	}
	return spec
}

func stringList(obj record.Record, name string) []string {
	v, ok := obj.Get(name)
	if !ok {
		return nil
	}
	items, ok := v.AsList()
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.AsString(); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
