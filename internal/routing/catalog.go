// internal/routing/catalog.go
package routing

// Destination names a kind of record the application persists.
type Destination string

const (
	DestinationBusiness    Destination = "business"
	DestinationSurvey      Destination = "survey"
	DestinationQuestion    Destination = "question"
	DestinationResponse    Destination = "response"
	DestinationTemplate    Destination = "template"
	DestinationUserProfile Destination = "user_profile"
	DestinationUserRole    Destination = "user_role"
	DestinationChatMessage Destination = "chat_message"
	DestinationCampaign    Destination = "campaign"
	DestinationSetting     Destination = "setting"
)

// Schema describes how to recognise records bound for one destination.
type Schema struct {
	Destination Destination
	Table       string
	// TriggerTerms are matched as substrings of the record's field names.
	TriggerTerms []string
	// ContextWords are matched against the caller's context hint.
	ContextWords []string
	// Keywords are matched against the record serialized as JSON.
	Keywords       []string
	ExpectedFields []string
}

// Catalog is the fixed set of destinations, in tie-break order.
var Catalog = []Schema{
	{
		Destination:    DestinationBusiness,
		Table:          "businesses",
		TriggerTerms:   []string{"industry", "business", "company", "revenue"},
		ContextWords:   []string{"business", "company", "organization"},
		Keywords:       []string{"industry"},
		ExpectedFields: []string{"name", "industry", "description", "website", "location", "employee_count", "target_market"},
	},
	{
		Destination:    DestinationSurvey,
		Table:          "surveys",
		TriggerTerms:   []string{"survey", "questions"},
		ContextWords:   []string{"survey", "questionnaire", "poll"},
		Keywords:       []string{"survey"},
		ExpectedFields: []string{"title", "description", "status", "business_id", "target_audience", "questions"},
	},
	{
		Destination:    DestinationQuestion,
		Table:          "questions",
		TriggerTerms:   []string{"question", "order_index"},
		ContextWords:   []string{"question"},
		Keywords:       []string{"multiple_choice", "question_text"},
		ExpectedFields: []string{"question_text", "question_type", "options", "order_index", "survey_id", "required"},
	},
	{
		Destination:    DestinationResponse,
		Table:          "responses",
		TriggerTerms:   []string{"answer", "respondent", "response"},
		ContextWords:   []string{"response", "answer", "submission"},
		Keywords:       []string{"respondent"},
		ExpectedFields: []string{"survey_id", "question_id", "answer", "respondent_id", "submitted_at"},
	},
	{
		Destination:    DestinationTemplate,
		Table:          "templates",
		TriggerTerms:   []string{"template"},
		ContextWords:   []string{"template"},
		Keywords:       []string{"template"},
		ExpectedFields: []string{"name", "category", "content", "description", "is_public"},
	},
	{
		Destination:    DestinationUserProfile,
		Table:          "profiles",
		TriggerTerms:   []string{"email", "full_name", "avatar", "phone"},
		ContextWords:   []string{"profile", "account"},
		Keywords:       []string{"full_name"},
		ExpectedFields: []string{"full_name", "email", "avatar_url", "phone", "company", "job_title"},
	},
	{
		Destination:    DestinationUserRole,
		Table:          "user_roles",
		TriggerTerms:   []string{"role", "permission"},
		ContextWords:   []string{"role", "permission", "access"},
		Keywords:       []string{"admin"},
		ExpectedFields: []string{"user_id", "role", "permissions", "granted_at"},
	},
	{
		Destination:    DestinationChatMessage,
		Table:          "chat_messages",
		TriggerTerms:   []string{"message", "sender", "conversation"},
		ContextWords:   []string{"chat", "message", "conversation"},
		Keywords:       []string{"assistant"},
		ExpectedFields: []string{"content", "sender", "conversation_id", "message_type"},
	},
	{
		Destination:    DestinationCampaign,
		Table:          "campaigns",
		TriggerTerms:   []string{"campaign", "audience", "channel", "budget"},
		ContextWords:   []string{"campaign", "marketing", "outreach"},
		Keywords:       []string{"campaign"},
		ExpectedFields: []string{"name", "description", "channel", "target_audience", "budget", "start_date", "end_date", "status"},
	},
	{
		Destination:    DestinationSetting,
		Table:          "settings",
		TriggerTerms:   []string{"setting", "preference", "config"},
		ContextWords:   []string{"setting", "preference", "configuration"},
		Keywords:       []string{"theme"},
		ExpectedFields: []string{"key", "value", "user_id", "category"},
	},
}

// LookupSchema finds the catalog entry for dest.
func LookupSchema(catalog []Schema, dest Destination) (Schema, bool) {
	for _, s := range catalog {
		if s.Destination == dest {
			return s, true
		}
	}
	return Schema{}, false
}
