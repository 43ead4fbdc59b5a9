package interview

import "errors"

// Domain-rule violations surfaced to the HTTP layer.
var (
	// ErrNotCollecting rejects free-text replies outside the info-collection
	// phase.
	ErrNotCollecting = errors.New("interview is not collecting candidate info")

	// ErrNoActiveQuestion rejects answers when no question is active.
	ErrNoActiveQuestion = errors.New("no active question")

	// ErrAlreadyAnswered rejects a second submission for the same question
	// index while the advance delay is still pending.
	ErrAlreadyAnswered = errors.New("current question already answered")

	// ErrInvalidOption rejects a selection index outside the option range.
	ErrInvalidOption = errors.New("selected option out of range")

	// ErrNotCompleted rejects archiving before the interview is scored.
	ErrNotCompleted = errors.New("interview is not completed and scored")

	// ErrExtractionFailed wraps a collaborator extraction error; no session
	// is created.
	ErrExtractionFailed = errors.New("resume extraction failed")
)
