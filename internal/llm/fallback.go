package llm

import "intervue/internal/models"

// SentinelQuestionID marks the fallback question set returned when the
// provider cannot generate questions. The interview core treats a set whose
// first question carries this ID as a retryable failure, never as real
// interview content.
const SentinelQuestionID = "q_mock"

// QuestionCount is the fixed size of a generated interview set.
const QuestionCount = 6

// Per-difficulty countdown limits in seconds.
const (
	TimeLimitEasy   = 20
	TimeLimitMedium = 60
	TimeLimitHard   = 120
)

// DifficultyPlan is the fixed difficulty sequence of a six-question interview.
func DifficultyPlan() []string {
	return []string{"easy", "easy", "medium", "medium", "hard", "hard"}
}

// TimeLimitFor maps a difficulty to its countdown limit.
func TimeLimitFor(difficulty string) int {
	switch difficulty {
	case "easy":
		return TimeLimitEasy
	case "medium":
		return TimeLimitMedium
	default:
		return TimeLimitHard
	}
}

// FallbackQuestions returns the sentinel placeholder set used when the
// provider is unavailable.
func FallbackQuestions() []models.Question {
	questions := make([]models.Question, QuestionCount)
	for i, difficulty := range DifficultyPlan() {
		id := SentinelQuestionID
		if i > 0 {
			id = SentinelQuestionID + "_" + string(rune('1'+i))
		}
		questions[i] = models.Question{
			ID:               id,
			Text:             "Placeholder question (AI service unavailable)",
			Options:          []string{"Option A", "Option B", "Option C", "Option D"},
			Difficulty:       difficulty,
			TimeLimitSeconds: TimeLimitFor(difficulty),
		}
	}
	return questions
}

// IsSentinelSet reports whether a question set is the unavailability
// placeholder rather than real generated content.
func IsSentinelSet(questions []models.Question) bool {
	return len(questions) > 0 && questions[0].ID == SentinelQuestionID
}
