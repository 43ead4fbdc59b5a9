package gemini

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"intervue/internal/llm"
	"intervue/internal/models"
	"intervue/internal/utils"
)

// generatedQuestion is the shape the model is asked to produce; IDs and time
// limits are assigned here, not by the model.
type generatedQuestion struct {
	Text       string   `json:"text"`
	Options    []string `json:"options"`
	Difficulty string   `json:"difficulty"`
}

func parseResumeInfo(raw string) *models.ResumeInfo {
	var info models.ResumeInfo
	if err := json.Unmarshal([]byte(utils.StripFences(raw)), &info); err != nil {
		return &models.ResumeInfo{
			Error: "Could not read contact details from the resume. Please try another file.",
		}
	}
	info.Name = strings.TrimSpace(info.Name)
	info.Email = strings.TrimSpace(info.Email)
	info.Phone = strings.TrimSpace(info.Phone)
	return &info
}

func parseQuestions(raw string) ([]models.Question, error) {
	var generated []generatedQuestion
	if err := json.Unmarshal([]byte(utils.StripFences(raw)), &generated); err != nil {
		return nil, fmt.Errorf("invalid question JSON: %w", err)
	}

	if len(generated) != llm.QuestionCount {
		return nil, fmt.Errorf("expected %d questions, got %d", llm.QuestionCount, len(generated))
	}

	plan := llm.DifficultyPlan()
	questions := make([]models.Question, len(generated))
	for i, g := range generated {
		if strings.TrimSpace(g.Text) == "" {
			return nil, fmt.Errorf("question %d has no text", i+1)
		}
		if len(g.Options) != 4 {
			return nil, fmt.Errorf("question %d has %d options, want 4", i+1, len(g.Options))
		}

		difficulty := utils.NormalizeDifficulty(g.Difficulty)
		if !models.ValidDifficulties[difficulty] {
			// model drifted off plan; fall back to the fixed sequence
			difficulty = plan[i]
		}

		questions[i] = models.Question{
			ID:               "q_" + uuid.New().String(),
			Text:             g.Text,
			Options:          g.Options,
			Difficulty:       difficulty,
			TimeLimitSeconds: llm.TimeLimitFor(difficulty),
		}
	}

	return questions, nil
}

func parseFinalResult(raw string, maxScore int) (*models.FinalResult, error) {
	var result models.FinalResult
	if err := json.Unmarshal([]byte(utils.StripFences(raw)), &result); err != nil {
		return nil, fmt.Errorf("invalid summary JSON: %w", err)
	}

	if result.Score < 0 {
		result.Score = 0
	}
	if result.Score > maxScore {
		result.Score = maxScore
	}
	if strings.TrimSpace(result.Summary) == "" {
		return nil, fmt.Errorf("summary text missing")
	}

	return &result, nil
}

// buildAnswerTranscript renders questions and answers as plain text for the
// scoring prompt.
func buildAnswerTranscript(questions []models.Question, answers []models.AnswerRecord) string {
	byQuestion := make(map[string]models.AnswerRecord, len(answers))
	for _, a := range answers {
		byQuestion[a.QuestionID] = a
	}

	var b strings.Builder
	for i, q := range questions {
		fmt.Fprintf(&b, "Q%d (%s): %s\n", i+1, q.Difficulty, q.Text)
		for j, opt := range q.Options {
			fmt.Fprintf(&b, "  %c) %s\n", 'A'+j, opt)
		}

		answer, ok := byQuestion[q.ID]
		switch {
		case !ok || answer.SelectedOptionIndex == nil:
			b.WriteString("  Candidate answer: no answer (timed out)\n")
		case *answer.SelectedOptionIndex >= 0 && *answer.SelectedOptionIndex < len(q.Options):
			fmt.Fprintf(&b, "  Candidate answer: %c) %s\n", 'A'+*answer.SelectedOptionIndex, q.Options[*answer.SelectedOptionIndex])
		default:
			b.WriteString("  Candidate answer: invalid selection\n")
		}
		b.WriteString("\n")
	}

	return b.String()
}
