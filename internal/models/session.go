package models

// Candidate holds the contact fields collected before the interview starts.
// An empty string means the field is still unknown. Values are accepted as
// given; no format validation is applied.
type Candidate struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// MissingField returns the first unknown field in collection priority order
// (name, email, phone), or "" when the profile is complete.
func (c Candidate) MissingField() string {
	switch {
	case c.Name == "":
		return FieldName
	case c.Email == "":
		return FieldEmail
	case c.Phone == "":
		return FieldPhone
	default:
		return ""
	}
}

// Complete reports whether all three contact fields are known.
func (c Candidate) Complete() bool {
	return c.MissingField() == ""
}

// Question is a single multiple-choice question. Immutable once generated.
type Question struct {
	ID               string   `json:"id"`
	Text             string   `json:"text"`
	Options          []string `json:"options"`
	Difficulty       string   `json:"difficulty"`
	TimeLimitSeconds int      `json:"time_limit_seconds"`
}

// AnswerRecord is one submitted answer. A nil SelectedOptionIndex records a
// timeout with no selection. Never mutated after append.
type AnswerRecord struct {
	QuestionID          string `json:"question_id"`
	SelectedOptionIndex *int   `json:"selected_option_index"`
}

// Message is a single transcript entry. QuestionID is set only on the AI
// prompt for that question; candidate replies carry an empty QuestionID.
type Message struct {
	Sender     string `json:"sender"`
	Text       string `json:"text"`
	QuestionID string `json:"question_id,omitempty"`
}

// ResumeInfo is the best-effort field extraction returned by the AI
// collaborator for an uploaded resume.
type ResumeInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Error string `json:"error,omitempty"`
}

// FinalResult is the collaborator's scoring output for a completed interview.
type FinalResult struct {
	Score   int    `json:"score"`
	Summary string `json:"summary"`
}

// Session is one candidate's end-to-end interview attempt. Exactly one active
// session exists at a time; it is owned and serialized by the interview
// manager.
type Session struct {
	ID                   string          `json:"id"`
	Status               string          `json:"status"`
	CurrentlyCollecting  string          `json:"currently_collecting,omitempty"`
	Candidate            Candidate       `json:"candidate"`
	Questions            []Question      `json:"questions"`
	Messages             []Message       `json:"messages"`
	Answers              []AnswerRecord  `json:"answers"`
	CurrentQuestionIndex int             `json:"current_question_index"`
	FinalScore           *int            `json:"final_score"`
	Summary              string          `json:"summary,omitempty"`
	Prompted             map[string]bool `json:"prompted"`
}

// NewSession returns an empty pending session. The ID is assigned when the
// session is initialized from a resume payload.
func NewSession() *Session {
	return &Session{
		Status:   StatusPending,
		Prompted: make(map[string]bool),
	}
}

// CurrentQuestion returns the active question, or nil when the index is past
// the end of the set (terminal state) or no questions are loaded.
func (s *Session) CurrentQuestion() *Question {
	if s.CurrentQuestionIndex < 0 || s.CurrentQuestionIndex >= len(s.Questions) {
		return nil
	}
	return &s.Questions[s.CurrentQuestionIndex]
}

// HasPromptFor reports whether the transcript already contains the AI prompt
// for the given question.
func (s *Session) HasPromptFor(questionID string) bool {
	for _, m := range s.Messages {
		if m.QuestionID == questionID {
			return true
		}
	}
	return false
}

// Unfinished reports whether a restored session should prompt the user to
// resume or discard before normal use.
func (s *Session) Unfinished() bool {
	return s.Status == StatusCollectingInfo || s.Status == StatusInProgress
}

// Clone returns a deep copy safe to hand outside the manager's lock.
func (s *Session) Clone() *Session {
	out := *s
	out.Questions = make([]Question, len(s.Questions))
	copy(out.Questions, s.Questions)
	for i, q := range s.Questions {
		opts := make([]string, len(q.Options))
		copy(opts, q.Options)
		out.Questions[i].Options = opts
	}
	out.Messages = make([]Message, len(s.Messages))
	copy(out.Messages, s.Messages)
	out.Answers = make([]AnswerRecord, len(s.Answers))
	for i, a := range s.Answers {
		out.Answers[i] = a
		if a.SelectedOptionIndex != nil {
			idx := *a.SelectedOptionIndex
			out.Answers[i].SelectedOptionIndex = &idx
		}
	}
	if s.FinalScore != nil {
		score := *s.FinalScore
		out.FinalScore = &score
	}
	out.Prompted = make(map[string]bool, len(s.Prompted))
	for k, v := range s.Prompted {
		out.Prompted[k] = v
	}
	return &out
}
