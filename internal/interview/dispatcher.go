package interview

import (
	"context"
	"time"

	"go.uber.org/zap"

	"intervue/internal/llm"
	"intervue/internal/models"
)

// Run is the message dispatcher loop: a single-flight consumer that wakes on
// state-change notifications, debounces bursts, and moves at most one system
// message into the transcript per cycle. It owns no state of its own; every
// decision reads the session under the manager's lock.
func (m *Manager) Run(ctx context.Context) {
	// a restored session may already have work queued up
	m.mu.Lock()
	m.notifyLocked()
	m.mu.Unlock()

	for {
		select {
		case <-ctx.Done():
			return
		case <-m.notify:
		}

		// debounce: state changes arriving in a burst collapse into one cycle
		timer := time.NewTimer(m.interval)
	drain:
		for {
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-m.notify:
			case <-timer.C:
				break drain
			}
		}

		m.cycle(ctx)
	}
}

// cycle runs one dispatcher evaluation: refill the queue from the rules if it
// is empty, then emit at most one message. Re-running a cycle against an
// unchanged session is a no-op; the prompt markers and transcript scans make
// the rules idempotent.
func (m *Manager) cycle(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.paused {
		return
	}

	if len(m.pending) == 0 {
		m.evaluateLocked(ctx)
	}

	if len(m.pending) == 0 {
		return
	}

	msg := m.pending[0]
	m.pending = m.pending[1:]
	m.session.Messages = append(m.session.Messages, msg)

	// a question prompt entering the transcript starts that question's clock
	if msg.QuestionID != "" {
		if q := m.session.CurrentQuestion(); q != nil && q.ID == msg.QuestionID {
			m.armTimerLocked(q)
		}
	}

	m.persistLocked()
	m.notifyLocked()
}

// evaluateLocked applies the dispatch rules for the current status and
// enqueues at most one message. Caller holds the lock.
func (m *Manager) evaluateLocked(ctx context.Context) {
	s := m.session

	switch s.Status {
	case models.StatusCollectingInfo:
		switch {
		case s.Candidate.Name == "" && !s.Prompted[models.MarkerName]:
			s.Prompted[models.MarkerName] = true
			m.enqueueLocked(msgAskName, "")
		case s.Candidate.Email == "" && !s.Prompted[models.MarkerEmail]:
			s.Prompted[models.MarkerEmail] = true
			m.enqueueLocked(msgAskEmail, "")
		case s.Candidate.Phone == "" && !s.Prompted[models.MarkerPhone]:
			s.Prompted[models.MarkerPhone] = true
			m.enqueueLocked(msgAskPhone, "")
		case s.Candidate.Complete() && !s.Prompted[models.MarkerAllSet]:
			s.Prompted[models.MarkerAllSet] = true
			s.Status = models.StatusReadyToStart
			s.CurrentlyCollecting = ""
			m.enqueueLocked(msgAllSet, "")
		}

	case models.StatusReadyToStart:
		if !s.Prompted[models.MarkerQuestionsSet] && !m.questionsInFlight {
			m.questionsInFlight = true
			m.enqueueLocked(introMessage(), "")
			go m.fetchQuestions(ctx, m.generation)
		}

	case models.StatusInProgress:
		if q := s.CurrentQuestion(); q != nil && !s.HasPromptFor(q.ID) {
			m.enqueueLocked(questionPrompt(s.CurrentQuestionIndex, len(s.Questions), q), q.ID)
		}

	case models.StatusCompleted:
		if s.FinalScore == nil && !m.summaryInFlight {
			m.summaryInFlight = true
			go m.fetchSummary(ctx, m.generation, cloneQuestions(s.Questions), cloneAnswers(s.Answers))
		}
	}
}

func (m *Manager) enqueueLocked(text, questionID string) {
	m.pending = append(m.pending, models.Message{
		Sender:     models.SenderAI,
		Text:       text,
		QuestionID: questionID,
	})
}

// fetchQuestions asks the collaborator for the question set. The sentinel
// fallback set means the service is unavailable: a failure message is queued
// and the questions-set marker stays clear so a later evaluation retries.
func (m *Manager) fetchQuestions(ctx context.Context, gen int) {
	questions, err := m.provider.GenerateQuestions(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.generation {
		// session was reset or archived while the request was in flight
		return
	}
	m.questionsInFlight = false

	if err != nil || llm.IsSentinelSet(questions) {
		m.logger.Warn("Question generation unavailable",
			zap.String("session_id", m.session.ID),
			zap.Error(err))
		m.enqueueLocked(msgQuestionsFailed, "")
		m.notifyLocked()
		return
	}

	m.session.Questions = questions
	m.session.Status = models.StatusInProgress
	m.session.Prompted[models.MarkerQuestionsSet] = true

	m.logger.Info("Question set stored",
		zap.String("session_id", m.session.ID),
		zap.Int("count", len(questions)),
		zap.String("provider", m.provider.GetProviderName()))

	m.persistLocked()
	m.notifyLocked()
}

// fetchSummary asks the collaborator to score the interview. Failures retry
// with doubled backoff (2s up to 30s); a transcript notice is queued once per
// session. Results are written atomically and exactly once.
func (m *Manager) fetchSummary(ctx context.Context, gen int, questions []models.Question, answers []models.AnswerRecord) {
	result, err := m.provider.GenerateSummary(ctx, questions, answers)

	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.generation {
		return
	}

	if err != nil {
		if !m.session.Prompted[models.MarkerSummaryError] {
			m.session.Prompted[models.MarkerSummaryError] = true
			m.enqueueLocked(msgScoringTrouble, "")
		}

		delay := m.summaryBackoff
		if delay == 0 {
			delay = 2 * time.Second
		}
		m.summaryBackoff = delay * 2
		if m.summaryBackoff > 30*time.Second {
			m.summaryBackoff = 30 * time.Second
		}

		m.logger.Warn("Summary generation failed, will retry",
			zap.String("session_id", m.session.ID),
			zap.Duration("retry_in", delay),
			zap.Error(err))

		// summaryInFlight stays set until the backoff elapses so the
		// completed rule cannot refire early
		time.AfterFunc(delay, func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			if gen != m.generation {
				return
			}
			m.summaryInFlight = false
			m.notifyLocked()
		})

		m.notifyLocked()
		return
	}

	m.summaryInFlight = false
	if m.session.FinalScore != nil {
		// already scored; never overwrite
		return
	}

	score := result.Score
	m.session.FinalScore = &score
	m.session.Summary = result.Summary
	m.summaryBackoff = 0

	m.logger.Info("Final results stored",
		zap.String("session_id", m.session.ID),
		zap.Int("score", score))

	m.persistLocked()
	m.notifyLocked()
}

func cloneQuestions(questions []models.Question) []models.Question {
	out := make([]models.Question, len(questions))
	copy(out, questions)
	return out
}

func cloneAnswers(answers []models.AnswerRecord) []models.AnswerRecord {
	out := make([]models.AnswerRecord, len(answers))
	copy(out, answers)
	return out
}
