// internal/content/survey/options.go
package survey

import (
	"regexp"
	"strings"
)

var (
	letterMarkerPattern = regexp.MustCompile(`(?:^|\s)([A-Za-z])[.)]\s+`)
	digitMarkerPattern  = regexp.MustCompile(`(?:^|\s)(\d{1,2})[.)]\s+`)
)

// LikertScale is the last-resort option set for likert questions.
var LikertScale = []string{"Strongly Disagree", "Disagree", "Neutral", "Agree", "Strongly Agree"}

// choiceTypes are question types rendered with selectable options.
var choiceTypes = map[string]bool{
	"multiple_choice": true,
	"single_choice":   true,
	"checkbox":        true,
	"dropdown":        true,
	"radio":           true,
	"likert":          true,
}

// ExtractInlineOptions splits "Pick one: a) Tea b) Coffee" into the text
// before the first marker and the marked options. Lettered markers are tried
// before numbered ones; at least two options are required.
func ExtractInlineOptions(questionText string) (string, []string, bool) {
	for _, pattern := range []*regexp.Regexp{letterMarkerPattern, digitMarkerPattern} {
		if cleaned, options, ok := splitOnMarkers(questionText, pattern); ok {
			return cleaned, options, true
		}
	}
	return "", nil, false
}

func splitOnMarkers(text string, pattern *regexp.Regexp) (string, []string, bool) {
	locs := pattern.FindAllStringIndex(text, -1)
	if len(locs) < 2 {
		return "", nil, false
	}

	options := make([]string, 0, len(locs))
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		if opt := cleanOption(text[loc[1]:end]); opt != "" {
			options = append(options, opt)
		}
	}
	if len(options) < 2 {
		return "", nil, false
	}
	return strings.TrimSpace(text[:locs[0][0]]), options, true
}

func cleanOption(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, ",;")
	for _, joiner := range []string{" or", " and"} {
		s = strings.TrimSuffix(s, joiner)
	}
	return strings.TrimSpace(strings.TrimRight(s, ",; "))
}

// ResolveOptions decides what a choice question shows at render time:
// inline options first, then the explicit list, then the Likert scale for
// likert questions. Non-choice types pass through unchanged.
func ResolveOptions(questionType, questionText string, explicit []string) (string, []string) {
	if !choiceTypes[questionType] {
		return questionText, explicit
	}
	if cleaned, options, ok := ExtractInlineOptions(questionText); ok {
		if cleaned == "" {
			cleaned = questionText
		}
		return cleaned, options
	}
	if len(explicit) > 0 {
		return questionText, explicit
	}
	if questionType == "likert" {
		return questionText, append([]string(nil), LikertScale...)
	}
	return questionText, nil
}
