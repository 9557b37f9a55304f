// internal/content/chart/matchers.go
package chart

import (
	"regexp"
	"sort"
	"strings"

	"survey-workers/internal/content/record"
)

const (
	StrategyEnvelope     = "envelope"
	StrategyMarkers      = "markers"
	StrategyFenced       = "fenced"
	StrategyDirectObject = "direct_object"
	StrategyLooseScan    = "loose_scan"
	StrategyStructured   = "structured"
)

// Matcher recognises one way a chart payload can be embedded in text.
// TryParse reports false when the pattern is absent or the payload is not JSON.
type Matcher interface {
	Name() string
	TryParse(text string) (record.Value, bool)
}

// unwrapper is implemented by matchers whose inner text should be handed
// to the remaining matchers when it is not itself JSON.
type unwrapper interface {
	Unwrap(text string) (string, bool)
}

// DefaultMatchers is the extraction cascade, most specific first.
var DefaultMatchers = []Matcher{
	envelopeMatcher{},
	markerMatcher{},
	fenceMatcher{},
	directObjectMatcher{},
	looseScanMatcher{},
}

var (
	envelopePattern     = regexp.MustCompile(`(?s)^\[\s*\{\s*"output"\s*:\s*"(.*)"\s*\}\s*\]$`)
	markerPattern       = regexp.MustCompile(`(?s)CHART_START(.*?)CHART_END`)
	fencePattern        = regexp.MustCompile("(?s)```[A-Za-z0-9_+-]*[ \\t]*\\r?\\n?(.*?)```")
	directObjectPattern = regexp.MustCompile(`\{\s*"type"\s*:\s*"(?:bar|line|pie)"`)
)

// envelopeMatcher handles automation output shaped as [{"output": "<escaped text>"}].
type envelopeMatcher struct{}

func (envelopeMatcher) Name() string { return StrategyEnvelope }

func (envelopeMatcher) Unwrap(text string) (string, bool) {
	m := envelopePattern.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return "", false
	}
	return unescapeEnvelope(m[1]), true
}

func (e envelopeMatcher) TryParse(text string) (record.Value, bool) {
	inner, ok := e.Unwrap(text)
	if !ok {
		return record.Value{}, false
	}
	return parsePayload(inner)
}

// unescapeEnvelope undoes \" \n and \\ in a single left-to-right pass.
func unescapeEnvelope(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			continue
		}
		switch s[i+1] {
		case '"':
			b.WriteByte('"')
		case 'n':
			b.WriteByte('\n')
		case '\\':
			b.WriteByte('\\')
		default:
			b.WriteByte(c)
			b.WriteByte(s[i+1])
		}
		i++
	}
	return b.String()
}

type markerMatcher struct{}

func (markerMatcher) Name() string { return StrategyMarkers }

func (markerMatcher) TryParse(text string) (record.Value, bool) {
	m := markerPattern.FindStringSubmatch(text)
	if m == nil {
		return record.Value{}, false
	}
	return parsePayload(m[1])
}

type fenceMatcher struct{}

func (fenceMatcher) Name() string { return StrategyFenced }

func (fenceMatcher) TryParse(text string) (record.Value, bool) {
	for _, m := range fencePattern.FindAllStringSubmatch(text, -1) {
		body := strings.TrimSpace(m[1])
		if !strings.HasPrefix(body, "{") && !strings.HasPrefix(body, "[") {
			continue
		}
		if v, ok := parsePayload(body); ok {
			return v, true
		}
	}
	return record.Value{}, false
}

// directObjectMatcher finds an object that opens with a chart "type" key.
type directObjectMatcher struct{}

func (directObjectMatcher) Name() string { return StrategyDirectObject }

func (directObjectMatcher) TryParse(text string) (record.Value, bool) {
	locs := directObjectPattern.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return record.Value{}, false
	}
	spans := objectSpans(text)
	for _, loc := range locs {
		end, ok := spans[loc[0]]
		if !ok {
			continue
		}
		if v, ok := parsePayload(text[loc[0]:end]); ok {
			return v, true
		}
	}
	return record.Value{}, false
}

// looseScanMatcher tries every brace-balanced object that mentions "type".
type looseScanMatcher struct{}

func (looseScanMatcher) Name() string { return StrategyLooseScan }

func (looseScanMatcher) TryParse(text string) (record.Value, bool) {
	spans := objectSpans(text)
	if len(spans) == 0 {
		return record.Value{}, false
	}
	starts := make([]int, 0, len(spans))
	for start := range spans {
		starts = append(starts, start)
	}
	sort.Ints(starts)

	for _, start := range starts {
		obj := text[start:spans[start]]
		if !strings.Contains(obj, `"type"`) {
			continue
		}
		if v, ok := parsePayload(obj); ok {
			return v, true
		}
	}
	return record.Value{}, false
}

// objectSpans maps the offset of every '{' that has a matching '}' to the
// offset just past that '}'. It makes one pass over text. Braces inside
// string literals are ignored. A raw newline closes a string literal.
func objectSpans(text string) map[int]int {
	spans := make(map[int]int)
	var open []int
	inString := false
	escaped := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			case c == '\n':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			open = append(open, i)
		case '}':
			if len(open) == 0 {
				continue
			}
			start := open[len(open)-1]
			open = open[:len(open)-1]
			spans[start] = i + 1
		}
	}
	return spans
}

func parsePayload(text string) (record.Value, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return record.Value{}, false
	}
	v, err := record.ParseString(text)
	if err != nil {
		return record.Value{}, false
	}
	return v, true
}
