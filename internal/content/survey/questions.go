// internal/content/survey/questions.go
package survey

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

type QuestionType string

const (
	TypeMultipleChoice QuestionType = "multiple_choice"
	TypeText           QuestionType = "text"
	TypeSlider         QuestionType = "slider"
)

// QuestionDraft is a question recovered from model output, not yet persisted.
type QuestionDraft struct {
	QuestionText string       `json:"questionText"`
	QuestionType QuestionType `json:"questionType"`
	Options      []string     `json:"options,omitempty"`
	OrderIndex   int          `json:"orderIndex"`
}

const maxOptionRunes = 99

var questionStartPattern = regexp.MustCompile(`^\d+\.\s*(.+)$`)

// terminalMarkers end option collection for the current question.
var terminalMarkers = []string{"thank you", "feedback is valuable"}

// textTypeCues force a question to free text even when options were listed.
var textTypeCues = []string{
	"open-ended",
	"additional comments",
	"comments",
	"feedback",
	"improvements",
	"specify",
	"please specify",
}

// ExtractQuestions recovers numbered questions and their bulleted options.
// When no numbered question is present it falls back to the canned bank;
// the result is empty when that finds nothing either.
func ExtractQuestions(content string) []QuestionDraft {
	drafts := []QuestionDraft{}

	var current *QuestionDraft
	collecting := false
	flush := func() {
		if current == nil {
			return
		}
		finalizeDraft(current, len(drafts))
		drafts = append(drafts, *current)
		current = nil
	}

	for _, line := range nonEmptyLines(content) {
		if m := questionStartPattern.FindStringSubmatch(line); m != nil {
			flush()
			current = &QuestionDraft{QuestionText: strings.TrimSpace(m[1])}
			collecting = true
			continue
		}
		if current == nil || !collecting {
			continue
		}
		if containsAnyFold(line, terminalMarkers) {
			collecting = false
			continue
		}

		option := strings.TrimSpace(strings.TrimPrefix(line, "-"))
		if option == "" {
			continue
		}
		if n := utf8.RuneCountInString(option); n >= 1 && n <= maxOptionRunes {
			current.Options = append(current.Options, option)
		}
	}
	flush()

	if len(drafts) == 0 {
		return cannedQuestions(content)
	}
	return drafts
}

func finalizeDraft(d *QuestionDraft, index int) {
	d.OrderIndex = index
	d.QuestionType = TypeText
	if len(d.Options) > 0 {
		d.QuestionType = TypeMultipleChoice
	}
	if containsAnyFold(d.QuestionText, textTypeCues) {
		d.QuestionType = TypeText
		d.Options = nil
	}
}

func nonEmptyLines(content string) []string {
	raw := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

func containsAnyFold(s string, needles []string) bool {
	lower := strings.ToLower(s)
	for _, n := range needles {
		if strings.Contains(lower, n) {
			return true
		}
	}
	return false
}
