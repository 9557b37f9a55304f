// internal/routing/classifier.go
package routing

import (
	"fmt"
	"sort"
	"strings"

	"survey-workers/internal/content/record"
)

const (
	exactFieldScore     = 10
	substringFieldScore = 5
)

// Match is one candidate destination for a record.
type Match struct {
	Destination Destination `json:"destination"`
	Score       int         `json:"score"`
	Reasoning   string      `json:"reasoning"`
}

// Classifier ranks catalog destinations for arbitrary records. It holds no
// mutable state and is safe for concurrent use.
type Classifier struct {
	catalog []Schema
}

// NewClassifier uses Catalog when catalog is empty.
func NewClassifier(catalog []Schema) *Classifier {
	if len(catalog) == 0 {
		catalog = Catalog
	}
	return &Classifier{catalog: catalog}
}

func (c *Classifier) Schema(dest Destination) (Schema, bool) {
	return LookupSchema(c.catalog, dest)
}

// Classify returns a match for every schema whose gate passes, highest score
// first. Ties keep catalog order. The result may be empty.
func (c *Classifier) Classify(rec record.Record, context string) []Match {
	fields := make([]string, 0, rec.Len())
	for _, k := range rec.Keys() {
		fields = append(fields, strings.ToLower(k))
	}
	contextLower := strings.ToLower(context)
	serialized := ""
	if b, err := rec.MarshalJSON(); err == nil {
		serialized = strings.ToLower(string(b))
	}

	matches := []Match{}
	for _, schema := range c.catalog {
		gate, ok := gateReason(schema, fields, contextLower, serialized)
		if !ok {
			continue
		}
		score, detail := scoreFields(schema, fields)
		matches = append(matches, Match{
			Destination: schema.Destination,
			Score:       score,
			Reasoning:   fmt.Sprintf("%s; score %d (%s)", gate, score, detail),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}

func gateReason(schema Schema, fields []string, context, serialized string) (string, bool) {
	for _, term := range schema.TriggerTerms {
		for _, f := range fields {
			if strings.Contains(f, term) {
				return fmt.Sprintf("field %q matches trigger %q", f, term), true
			}
		}
	}
	if context != "" {
		for _, word := range schema.ContextWords {
			if strings.Contains(context, word) {
				return fmt.Sprintf("context mentions %q", word), true
			}
		}
	}
	for _, kw := range schema.Keywords {
		if strings.Contains(serialized, kw) {
			return fmt.Sprintf("record mentions %q", kw), true
		}
	}
	return "", false
}

func scoreFields(schema Schema, fields []string) (int, string) {
	total := 0
	parts := make([]string, 0, len(schema.ExpectedFields))
	for _, expected := range schema.ExpectedFields {
		points := 0
		for _, f := range fields {
			if f == expected {
				points = exactFieldScore
				break
			}
			if strings.Contains(f, expected) {
				points = substringFieldScore
			}
		}
		if points > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", expected, points))
		}
		total += points
	}
	if len(parts) == 0 {
		return total, "no expected fields"
	}
	return total, strings.Join(parts, " ")
}
