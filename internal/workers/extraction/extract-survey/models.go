// internal/workers/extraction/extract-survey/models.go
package extractsurvey

import "survey-workers/internal/content/survey"

type Input struct {
	Content string `json:"content"`
	// Title overrides title extraction when set.
	Title string `json:"title,omitempty"`
}

type Output struct {
	Title         string                 `json:"title"`
	Questions     []survey.QuestionDraft `json:"questions"`
	QuestionCount int                    `json:"questionCount"`
	Preview       []QuestionPreview      `json:"preview"`
}

// QuestionPreview is a question as the form renderer will show it.
type QuestionPreview struct {
	OrderIndex   int      `json:"orderIndex"`
	QuestionText string   `json:"questionText"`
	QuestionType string   `json:"questionType"`
	Options      []string `json:"options,omitempty"`
}
