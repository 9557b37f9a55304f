// internal/content/survey/title.go
package survey

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const DefaultTitle = "Customer Feedback Survey"

var (
	questionSetTitlePattern = regexp.MustCompile(`(?i)\*\*\s*Survey Question Set:\s*(.+?)\s*\*\*`)
	surveyOnPattern         = regexp.MustCompile(`(?i)\bsurvey on\s+([^\n.!?:*]+)`)
	trailingSurveyPattern   = regexp.MustCompile(`(?i)((?:[\p{L}\p{N}&'-]+[ \t]+){1,4})survey\b`)
	headingMarkerPattern    = regexp.MustCompile(`^#+\s*`)
	questionWordPattern     = regexp.MustCompile(`(?i)\b(how|what|why|when|where)\b`)
)

// titleFillerWords are dropped from the left of a "<X> survey" capture.
var titleFillerWords = map[string]bool{
	"a": true, "an": true, "the": true, "this": true, "that": true, "these": true,
	"our": true, "your": true, "my": true, "their": true, "its": true,
	"to": true, "for": true, "of": true, "in": true, "on": true, "with": true, "and": true,
	"take": true, "complete": true, "fill": true, "out": true, "please": true,
	"here": true, "here's": true, "is": true, "quick": true, "short": true, "brief": true,
	"following": true, "new": true, "create": true, "created": true, "i've": true, "i": true,
}

// topicKeywords is scanned in order when no explicit title is present.
var topicKeywords = []string{
	"customer satisfaction",
	"employee engagement",
	"product feedback",
	"market research",
	"event",
	"training",
	"website",
	"onboarding",
	"coffee",
	"restaurant",
	"healthcare",
	"education",
}

// ExtractTitle derives a survey title from model output. It always returns
// a non-empty string.
func ExtractTitle(content string) string {
	if title := explicitTitle(content); title != "" {
		return title
	}
	if title := firstLineTitle(content); title != "" {
		return title
	}
	lower := strings.ToLower(content)
	for _, topic := range topicKeywords {
		if strings.Contains(lower, topic) {
			return withSurveySuffix(titleCase(topic))
		}
	}
	return DefaultTitle
}

func explicitTitle(content string) string {
	if m := questionSetTitlePattern.FindStringSubmatch(content); m != nil {
		if x := strings.TrimSpace(m[1]); x != "" {
			return withSurveySuffix(titleCase(x))
		}
	}
	if m := surveyOnPattern.FindStringSubmatch(content); m != nil {
		if x := strings.TrimSpace(m[1]); x != "" {
			return withSurveySuffix(titleCase(x))
		}
	}
	for _, m := range trailingSurveyPattern.FindAllStringSubmatch(content, -1) {
		if x := stripFillerWords(m[1]); x != "" {
			return withSurveySuffix(titleCase(x))
		}
	}
	return ""
}

// stripFillerWords keeps the words to the right of the last filler word.
func stripFillerWords(phrase string) string {
	words := strings.Fields(phrase)
	start := 0
	for i, w := range words {
		if titleFillerWords[strings.ToLower(w)] {
			start = i + 1
		}
	}
	return strings.Join(words[start:], " ")
}

func firstLineTitle(content string) string {
	lines := nonEmptyLines(content)
	if len(lines) == 0 {
		return ""
	}
	line := headingMarkerPattern.ReplaceAllString(lines[0], "")
	line = strings.TrimSpace(strings.Trim(line, "*"))
	line = strings.TrimRight(line, ":")
	if line == "" || questionWordPattern.MatchString(line) {
		return ""
	}
	return withSurveySuffix(line)
}

// titleCase builds a fresh Caser per call; Casers are not safe for concurrent use.
func titleCase(s string) string {
	return cases.Title(language.English, cases.NoLower).String(s)
}

func withSurveySuffix(title string) string {
	if strings.HasSuffix(strings.ToLower(title), "survey") {
		return title
	}
	return title + " Survey"
}
