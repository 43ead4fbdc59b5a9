package models

// SessionResponse is the snapshot returned to the chat UI on every poll.
type SessionResponse struct {
	Session *Session `json:"session"`
	// Resumable signals that a restored unfinished session is waiting for the
	// user to resume or discard it.
	Resumable bool `json:"resumable"`
	// RemainingSeconds on the active question's countdown; zero when no timer
	// is running.
	RemainingSeconds int `json:"remaining_seconds"`
	// MaxScore the interview is scored out of (10 points per question).
	MaxScore int `json:"max_score"`
}

// DashboardListResponse is the filtered/sorted archive listing.
type DashboardListResponse struct {
	Interviews []ArchivedSession `json:"interviews"`
	Total      int               `json:"total"`
}

// ArchiveDetailResponse is one archived interview with its full transcript.
type ArchiveDetailResponse struct {
	Interview *ArchivedSession `json:"interview"`
	Session   *Session         `json:"session"`
}

// uniform error responses
type ErrorResponse struct {
	Code    string                  `json:"code"`
	Message string                  `json:"message"`
	Details []ValidationErrorDetail `json:"details,omitempty"`
}

// single field validation error
type ValidationErrorDetail struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Error implements the error interface so validation can return an
// ErrorResponse directly.
func (e *ErrorResponse) Error() string {
	return e.Code + ": " + e.Message
}
