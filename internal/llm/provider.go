package llm

import (
	"context"

	"intervue/internal/models"
)

// defines the interface for AI collaborators consumed by the interview core
type Provider interface {
	// ExtractResumeInfo pulls contact fields out of raw resume text. A
	// non-empty Error field on the result signals an extraction failure the
	// caller must surface without creating a session.
	ExtractResumeInfo(ctx context.Context, resumeText string) (*models.ResumeInfo, error)

	// GenerateQuestions produces the full question set for one interview.
	// Collaborator unavailability is signalled with the fallback sentinel set
	// (see FallbackQuestions) rather than an error, so callers can retry.
	GenerateQuestions(ctx context.Context) ([]models.Question, error)

	// GenerateSummary scores a completed interview.
	GenerateSummary(ctx context.Context, questions []models.Question, answers []models.AnswerRecord) (*models.FinalResult, error)

	GetProviderName() string
}

// represents an error from an LLM provider
type ProviderError struct {
	Provider string
	Code     string
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return e.Provider + " error: " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Provider + " error: " + e.Message
}

// Common error codes
// For current and future use across different providers
const (
	ErrCodeAPIKey       = "invalid_api_key"
	ErrCodeRateLimit    = "rate_limit_exceeded"
	ErrCodeServiceDown  = "service_unavailable"
	ErrCodeInvalidInput = "invalid_input"
	ErrCodeTimeout      = "timeout"
)
