package interview

import (
	"time"

	"go.uber.org/zap"

	"intervue/internal/models"
)

// countdown tracks the active question's remaining seconds. The fields are
// guarded by the manager's mutex.
type countdown struct {
	questionID string
	remaining  int
	stop       chan struct{}
}

// armTimerLocked starts a fresh countdown for the question, replacing any
// previous one so a superseded question's expiry can never fire. Caller
// holds the lock.
func (m *Manager) armTimerLocked(q *models.Question) {
	m.stopTimerLocked()

	t := &countdown{
		questionID: q.ID,
		remaining:  q.TimeLimitSeconds,
		stop:       make(chan struct{}),
	}
	m.timer = t
	go m.runCountdown(t, m.generation)
}

// stopTimerLocked cancels the active countdown, if any. Caller holds the lock.
func (m *Manager) stopTimerLocked() {
	if m.timer != nil {
		close(m.timer.stop)
		m.timer = nil
	}
}

// runCountdown ticks the countdown once per second and submits a timeout
// answer on expiry. A tick that arrives after the session or question moved
// on is dropped silently.
func (m *Manager) runCountdown(t *countdown, gen int) {
	ticker := time.NewTicker(m.tick)
	defer ticker.Stop()

	for {
		select {
		case <-t.stop:
			return
		case <-ticker.C:
			m.mu.Lock()
			if gen != m.generation || m.timer != t {
				m.mu.Unlock()
				return
			}

			t.remaining--
			if t.remaining > 0 {
				m.mu.Unlock()
				continue
			}

			// expired: this question is answered by timeout
			m.timer = nil
			q := m.session.CurrentQuestion()
			if q == nil || q.ID != t.questionID || len(m.session.Answers) > m.session.CurrentQuestionIndex {
				m.mu.Unlock()
				return
			}

			m.logger.Info("Question timed out",
				zap.String("session_id", m.session.ID),
				zap.String("question_id", q.ID))
			m.recordAnswerLocked(q, nil)
			m.mu.Unlock()
			return
		}
	}
}
