// internal/content/survey/bank.go
package survey

import "strings"

// cannedQuestionSet is offered when the model answered with prose instead
// of a numbered list but the request clearly named a common survey kind.
type cannedQuestionSet struct {
	Keywords  []string
	Questions []QuestionDraft
}

var satisfactionScale = []string{"Very satisfied", "Satisfied", "Neutral", "Dissatisfied", "Very dissatisfied"}

var cannedQuestionBank = []cannedQuestionSet{
	{
		Keywords: []string{"customer satisfaction", "customer feedback", "csat"},
		Questions: []QuestionDraft{
			{QuestionText: "How satisfied are you with our product or service overall?", QuestionType: TypeMultipleChoice, Options: satisfactionScale},
			{QuestionText: "How likely are you to recommend us to a friend or colleague?", QuestionType: TypeSlider},
			{QuestionText: "How would you rate the quality of our customer support?", QuestionType: TypeMultipleChoice, Options: []string{"Excellent", "Good", "Fair", "Poor"}},
			{QuestionText: "What could we do to improve your experience?", QuestionType: TypeText},
		},
	},
	{
		Keywords: []string{"employee engagement", "employee satisfaction", "workplace", "staff survey"},
		Questions: []QuestionDraft{
			{QuestionText: "How satisfied are you with your current role?", QuestionType: TypeMultipleChoice, Options: satisfactionScale},
			{QuestionText: "Do you feel your work is recognized by your manager?", QuestionType: TypeMultipleChoice, Options: []string{"Always", "Often", "Sometimes", "Rarely", "Never"}},
			{QuestionText: "How likely are you to recommend this company as a place to work?", QuestionType: TypeSlider},
			{QuestionText: "What is one thing that would make your work more enjoyable?", QuestionType: TypeText},
		},
	},
	{
		Keywords: []string{"product feedback", "product survey", "feature request"},
		Questions: []QuestionDraft{
			{QuestionText: "How often do you use the product?", QuestionType: TypeMultipleChoice, Options: []string{"Daily", "Weekly", "Monthly", "Rarely"}},
			{QuestionText: "Which feature do you find most valuable?", QuestionType: TypeText},
			{QuestionText: "How easy is the product to use?", QuestionType: TypeMultipleChoice, Options: []string{"Very easy", "Easy", "Neutral", "Difficult", "Very difficult"}},
		},
	},
	{
		Keywords: []string{"event feedback", "event survey", "conference", "workshop", "webinar"},
		Questions: []QuestionDraft{
			{QuestionText: "How would you rate the event overall?", QuestionType: TypeMultipleChoice, Options: []string{"Excellent", "Good", "Fair", "Poor"}},
			{QuestionText: "Was the content relevant to you?", QuestionType: TypeMultipleChoice, Options: []string{"Yes", "Somewhat", "No"}},
			{QuestionText: "Would you attend a similar event in the future?", QuestionType: TypeMultipleChoice, Options: []string{"Yes", "Maybe", "No"}},
		},
	},
}

// cannedQuestions returns a fresh copy of the first bank entry whose keyword
// appears in content, or an empty slice.
func cannedQuestions(content string) []QuestionDraft {
	lower := strings.ToLower(content)
	for _, set := range cannedQuestionBank {
		for _, kw := range set.Keywords {
			if !strings.Contains(lower, kw) {
				continue
			}
			out := make([]QuestionDraft, len(set.Questions))
			for i, q := range set.Questions {
				q.OrderIndex = i
				if q.Options != nil {
					q.Options = append([]string(nil), q.Options...)
				}
				out[i] = q
			}
			return out
		}
	}
	return []QuestionDraft{}
}
