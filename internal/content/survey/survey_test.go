// internal/content/survey/survey_test.go
package survey

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Question Extraction Tests
// ==========================

func TestExtractQuestions_NumberedWithOptions(t *testing.T) {
	content := "1. How often do you visit?\n- Daily\n- Weekly\n2. Any comments?\nThank you for your feedback!"

	drafts := ExtractQuestions(content)
	require.Len(t, drafts, 2)

	assert.Equal(t, QuestionDraft{
		QuestionText: "How often do you visit?",
		QuestionType: TypeMultipleChoice,
		Options:      []string{"Daily", "Weekly"},
		OrderIndex:   0,
	}, drafts[0])
	assert.Equal(t, QuestionDraft{
		QuestionText: "Any comments?",
		QuestionType: TypeText,
		OrderIndex:   1,
	}, drafts[1])
}

func TestExtractQuestions_TextCueOverridesOptions(t *testing.T) {
	drafts := ExtractQuestions("1. Please specify your role\n- Manager\n- Engineer")
	require.Len(t, drafts, 1)

	assert.Equal(t, TypeText, drafts[0].QuestionType)
	assert.Nil(t, drafts[0].Options)
}

func TestExtractQuestions_TerminalMarkerStopsCollection(t *testing.T) {
	content := strings.Join([]string{
		"Intro line that is ignored",
		"1. Favourite colour?",
		"- Red",
		"Your input is appreciated, thank you",
		"- Blue",
		"2. Favourite season?",
		"-   Summer  ",
		"-",
		"- Winter",
	}, "\n")

	drafts := ExtractQuestions(content)
	require.Len(t, drafts, 2)
	assert.Equal(t, []string{"Red"}, drafts[0].Options)
	assert.Equal(t, []string{"Summer", "Winter"}, drafts[1].Options)
	assert.Equal(t, 1, drafts[1].OrderIndex)
}

func TestExtractQuestions_SkipsOverlongOptions(t *testing.T) {
	long := strings.Repeat("x", 100)
	drafts := ExtractQuestions("1. Pick one\n- " + long + "\n- Short")
	require.Len(t, drafts, 1)
	assert.Equal(t, []string{"Short"}, drafts[0].Options)
}

func TestExtractQuestions_CannedFallback(t *testing.T) {
	drafts := ExtractQuestions("Sure, here is a customer satisfaction survey you can send out.")
	require.NotEmpty(t, drafts)

	for i, d := range drafts {
		assert.Equal(t, i, d.OrderIndex)
		assert.NotEmpty(t, d.QuestionText)
		if d.QuestionType == TypeMultipleChoice {
			assert.NotEmpty(t, d.Options)
		}
	}

	drafts[0].Options[0] = "mutated"
	again := ExtractQuestions("Sure, here is a customer satisfaction survey you can send out.")
	assert.NotEqual(t, "mutated", again[0].Options[0])
}

func TestExtractQuestions_NothingFound(t *testing.T) {
	drafts := ExtractQuestions("I could not come up with anything.")
	assert.NotNil(t, drafts)
	assert.Empty(t, drafts)
}

func TestExtractQuestions_Idempotent(t *testing.T) {
	content := "1. How often do you visit?\n- Daily\n- Weekly"
	assert.Equal(t, ExtractQuestions(content), ExtractQuestions(content))
}

// ==========================
// Title Extraction Tests
// ==========================

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"question set header", "**Survey Question Set: Coffee Habits**", "Coffee Habits Survey"},
		{"survey on phrase", "I've drafted a survey on remote work habits. Here it is.", "Remote Work Habits Survey"},
		{"trailing survey", "Here's your Employee Engagement Survey:\n1. How are you?", "Employee Engagement Survey"},
		{"heading line", "# Remote Work Check-in\n1. How often do you work remotely?", "Remote Work Check-in Survey"},
		{"heading already suffixed", "## Team Pulse Survey\n1. How are things?", "Team Pulse Survey"},
		{"topic keyword", "How do you like our website?\nPick an answer below.", "Website Survey"},
		{"question word boundary", "Whatever Works\n1. Rate us", "Whatever Works Survey"},
		{"question word inside a longer word", "Somewhere Coffee Feedback\n1. Rate us", "Somewhere Coffee Feedback Survey"},
		{"standalone question word", "Where do you buy coffee?\n1. Rate us", "Coffee Survey"},
		{"default", "What do you think?", DefaultTitle},
		{"empty", "", DefaultTitle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractTitle(tt.content))
		})
	}
}

func TestStripFillerWords(t *testing.T) {
	assert.Equal(t, "Employee Engagement", stripFillerWords("Here's your Employee Engagement "))
	assert.Equal(t, "", stripFillerWords("please take this"))
}

// ==========================
// Inline Option Tests
// ==========================

func TestExtractInlineOptions(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		cleaned string
		options []string
		ok      bool
	}{
		{
			name:    "lettered",
			text:    "Which do you prefer? a) Tea b) Coffee c) Juice",
			cleaned: "Which do you prefer?",
			options: []string{"Tea", "Coffee", "Juice"},
			ok:      true,
		},
		{
			name:    "numbered with joiners",
			text:    "Pick one: 1. Red, 2. Blue, or 3. Green",
			cleaned: "Pick one:",
			options: []string{"Red", "Blue", "Green"},
			ok:      true,
		},
		{
			name: "single marker",
			text: "Rate us a) only",
		},
		{
			name: "no markers",
			text: "How are you today?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleaned, options, ok := ExtractInlineOptions(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.cleaned, cleaned)
			assert.Equal(t, tt.options, options)
		})
	}
}

func TestResolveOptions(t *testing.T) {
	text, options := ResolveOptions("multiple_choice", "Choose: a) Yes b) No", []string{"ignored"})
	assert.Equal(t, "Choose:", text)
	assert.Equal(t, []string{"Yes", "No"}, options)

	text, options = ResolveOptions("multiple_choice", "Choose one", []string{"Yes", "No"})
	assert.Equal(t, "Choose one", text)
	assert.Equal(t, []string{"Yes", "No"}, options)

	_, options = ResolveOptions("likert", "I enjoy my work", nil)
	assert.Equal(t, LikertScale, options)

	_, options = ResolveOptions("multiple_choice", "Choose one", nil)
	assert.Nil(t, options)

	text, options = ResolveOptions("text", "a) x b) y", nil)
	assert.Equal(t, "a) x b) y", text)
	assert.Nil(t, options)
}
