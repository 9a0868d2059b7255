package constant

import "time"

// Chat message roles
const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
)

// Quota policy. SessionMessageLimit counts exchanges (one user + one
// assistant row per exchange). DailyTokenBudget is the per-user token
// ceiling for one calendar day; crossing it starts CooldownDuration.
const (
	SessionMessageLimit = 500
	DailyTokenBudget    = 100000
	CooldownDuration    = 2 * time.Hour

	DailyPdfUploadLimit   = 2
	DailyImageUploadLimit = 2
)

// Upload kinds
const (
	UploadKindPdf   = "pdf"
	UploadKindImage = "image"
)

// Upload size caps
const (
	MaxPdfUploadBytes   = 10 * 1024 * 1024
	MaxImageUploadBytes = 5 * 1024 * 1024
)

// DefaultSessionTitle is used until the first exchange names the session.
const DefaultSessionTitle = "New conversation"

// Chat categories a client may hint the assistant with. Unknown categories
// fall back to the general system prompt.
const (
	ChatCategoryGeneral     = "general"
	ChatCategoryCareerPaths = "career_paths"
	ChatCategoryEducation   = "education"
	ChatCategoryInterview   = "interview"
)

// SystemPromptGeneral frames the assistant for the career-guidance domain.
const SystemPromptGeneral = "You are a career-guidance assistant helping young people explore " +
	"career paths, education options, and job readiness. Answer clearly and encourage the user " +
	"to reflect on their own interests and strengths."

var CategorySystemPrompts = map[string]string{
	ChatCategoryGeneral:     SystemPromptGeneral,
	ChatCategoryCareerPaths: SystemPromptGeneral + " Focus this conversation on comparing and exploring concrete career paths.",
	ChatCategoryEducation:   SystemPromptGeneral + " Focus this conversation on study programs, schools, and qualifications.",
	ChatCategoryInterview:   SystemPromptGeneral + " Focus this conversation on interview preparation and practice.",
}
