package interview

import (
	"fmt"

	"intervue/internal/llm"
	"intervue/internal/models"
)

// System message texts. These are the exact lines the chat UI renders, so
// they are fixed here rather than templated.
const (
	msgAskName  = "What is your full name?"
	msgAskEmail = "What is your email address?"
	msgAskPhone = "Lastly, what is your phone number?"
	msgAllSet   = "Great, we have all your details. Starting interview shortly."

	msgQuestionsFailed = "Sorry, I'm having trouble connecting to the AI service to generate questions. Please try again in a moment."
	msgScoringTrouble  = "I'm having trouble scoring your interview right now. I'll keep retrying."

	msgTimesUp = "(Time's up!)"
)

func introMessage() string {
	return fmt.Sprintf("Let's begin the interview. I will ask you %d multiple-choice questions.", llm.QuestionCount)
}

func welcomeMessage(info models.ResumeInfo) string {
	name := info.Name
	if name == "" {
		name = "Candidate"
	}
	text := fmt.Sprintf("Hello %s! Welcome to the interview.", name)
	if info.Email != "" {
		text += "\nEmail: " + info.Email
	}
	if info.Phone != "" {
		text += "\nPhone: " + info.Phone
	}
	return text
}

func questionPrompt(index, total int, q *models.Question) string {
	return fmt.Sprintf("Question %d/%d (%s): %s", index+1, total, q.Difficulty, q.Text)
}
