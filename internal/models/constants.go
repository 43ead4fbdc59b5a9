package models

// Session statuses, in lifecycle order
const (
	StatusPending        = "pending"
	StatusCollectingInfo = "collecting-info"
	StatusReadyToStart   = "ready-to-start"
	StatusInProgress     = "in-progress"
	StatusCompleted      = "completed"
)

// Message senders
const (
	SenderAI   = "ai"
	SenderUser = "user"
)

// Candidate fields, in collection priority order
const (
	FieldName  = "name"
	FieldEmail = "email"
	FieldPhone = "phone"
)

// contains all valid question difficulties (in lowercase)
var ValidDifficulties = map[string]bool{
	"easy":   true,
	"medium": true,
	"hard":   true,
}

// Prompt markers tracked per session so the dispatcher never repeats itself
const (
	MarkerName         = "name"
	MarkerEmail        = "email"
	MarkerPhone        = "phone"
	MarkerAllSet       = "all-set"
	MarkerQuestionsSet = "questions-set"
	MarkerSummaryError = "summary-error"
)

// PointsPerQuestion is the score weight of a single question; a six-question
// interview is scored out of 60.
const PointsPerQuestion = 10

func ValidDifficultiesList() []string {
	return []string{"easy", "medium", "hard"}
}
