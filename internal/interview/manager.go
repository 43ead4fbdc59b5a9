package interview

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"intervue/internal/config"
	"intervue/internal/llm"
	"intervue/internal/models"
)

// Store is the slice of the session store the manager needs.
type Store interface {
	SaveCurrent(*models.Session) error
	LoadCurrent() (*models.Session, error)
	AppendArchive(*models.ArchivedSession) error
}

// Manager owns the single active interview session and serializes every
// mutation (user input, timer expiry, dispatcher emission, collaborator
// responses) under one mutex. Single-writer-at-a-time is the contract.
type Manager struct {
	mu      sync.Mutex
	session *models.Session

	// pending is the dispatcher's outbound message queue; at most one entry
	// is moved into the transcript per cycle.
	pending []models.Message

	// generation is bumped whenever the active session is replaced. Timer
	// callbacks, advance callbacks and collaborator responses carry the
	// generation they were issued under and are dropped on mismatch.
	generation int

	questionsInFlight bool
	summaryInFlight   bool
	summaryBackoff    time.Duration

	timer *countdown

	// paused is set when an unfinished session is restored from the store;
	// the dispatcher and timers stay idle until the user resumes or discards.
	paused bool

	notify chan struct{}

	store        Store
	provider     llm.Provider
	logger       *zap.Logger
	interval     time.Duration
	advanceDelay time.Duration
	tick         time.Duration
}

// NewManager restores the active session from the store (a fresh pending one
// when the store is empty). A restored unfinished session starts paused.
func NewManager(store Store, provider llm.Provider, cfg *config.Config, logger *zap.Logger) (*Manager, error) {
	session, err := store.LoadCurrent()
	if err != nil {
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}

	m := &Manager{
		session:      session,
		notify:       make(chan struct{}, 1),
		store:        store,
		provider:     provider,
		logger:       logger,
		interval:     cfg.DispatchInterval,
		advanceDelay: cfg.AdvanceDelay,
		tick:         time.Second,
	}
	if session.Unfinished() {
		m.paused = true
		logger.Info("Restored unfinished session, waiting for resume or discard",
			zap.String("session_id", session.ID),
			zap.String("status", session.Status))
	}
	return m, nil
}

// Initialize replaces the active session with a fresh one built from the
// extracted resume payload. The welcome message is synthesized immediately;
// field-collection prompts are left to the dispatcher.
func (m *Manager) Initialize(info models.ResumeInfo) error {
	if info.Error != "" {
		return fmt.Errorf("%w: %s", ErrExtractionFailed, info.Error)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.replaceSessionLocked()

	s := m.session
	s.ID = uuid.New().String()
	s.Candidate = models.Candidate{Name: info.Name, Email: info.Email, Phone: info.Phone}
	s.Messages = append(s.Messages, models.Message{Sender: models.SenderAI, Text: welcomeMessage(info)})

	if missing := s.Candidate.MissingField(); missing != "" {
		s.Status = models.StatusCollectingInfo
		s.CurrentlyCollecting = missing
	} else {
		s.Status = models.StatusReadyToStart
	}

	m.logger.Info("Interview initialized",
		zap.String("session_id", s.ID),
		zap.String("status", s.Status),
		zap.String("collecting", s.CurrentlyCollecting))

	m.persistLocked()
	m.notifyLocked()
	return nil
}

// HandleCandidateMessage records a free-text reply. During info collection
// the text is attached to the first missing field in priority order; it is
// accepted as given, never validated.
func (m *Manager) HandleCandidateMessage(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session.Status != models.StatusCollectingInfo {
		return ErrNotCollecting
	}

	s := m.session
	s.Messages = append(s.Messages, models.Message{Sender: models.SenderUser, Text: text})

	switch s.Candidate.MissingField() {
	case models.FieldName:
		s.Candidate.Name = text
	case models.FieldEmail:
		s.Candidate.Email = text
	case models.FieldPhone:
		s.Candidate.Phone = text
	}
	s.CurrentlyCollecting = s.Candidate.MissingField()

	m.persistLocked()
	m.notifyLocked()
	return nil
}

// SubmitAnswer records a selection for the active question; a nil index
// records a timeout. The index advances after a short delay so the answer
// renders before the next prompt.
func (m *Manager) SubmitAnswer(selected *int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session.Status != models.StatusInProgress {
		return ErrNoActiveQuestion
	}
	q := m.session.CurrentQuestion()
	if q == nil {
		return ErrNoActiveQuestion
	}
	if len(m.session.Answers) > m.session.CurrentQuestionIndex {
		return ErrAlreadyAnswered
	}
	if selected != nil && (*selected < 0 || *selected >= len(q.Options)) {
		return ErrInvalidOption
	}

	m.stopTimerLocked()
	m.recordAnswerLocked(q, selected)
	return nil
}

// recordAnswerLocked appends the transcript line and answer record, then
// schedules the index advance. Shared by explicit submission and timer
// expiry. Caller holds the lock.
func (m *Manager) recordAnswerLocked(q *models.Question, selected *int) {
	s := m.session

	text := msgTimesUp
	if selected != nil {
		text = q.Options[*selected]
	}
	s.Messages = append(s.Messages, models.Message{Sender: models.SenderUser, Text: text})
	s.Answers = append(s.Answers, models.AnswerRecord{QuestionID: q.ID, SelectedOptionIndex: selected})

	gen := m.generation
	time.AfterFunc(m.advanceDelay, func() { m.advance(gen) })

	m.persistLocked()
	m.notifyLocked()
}

// advance moves to the next question, or completes the interview after the
// last one. Stale callbacks from a replaced session are dropped.
func (m *Manager) advance(gen int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.generation || m.session.Status != models.StatusInProgress {
		return
	}

	s := m.session
	s.CurrentQuestionIndex++
	if s.CurrentQuestionIndex >= len(s.Questions) {
		s.Status = models.StatusCompleted
		m.logger.Info("Interview completed",
			zap.String("session_id", s.ID),
			zap.Int("answers", len(s.Answers)))
	}

	m.persistLocked()
	m.notifyLocked()
}

// Archive snapshots the completed session into the archive and replaces the
// active session with a fresh one.
func (m *Manager) Archive() (*models.ArchivedSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session.Status != models.StatusCompleted || m.session.FinalScore == nil {
		return nil, ErrNotCompleted
	}

	archived, err := models.NewArchivedSession(m.session, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot session: %w", err)
	}
	if err := m.store.AppendArchive(archived); err != nil {
		return nil, err
	}

	m.logger.Info("Interview archived",
		zap.String("session_id", m.session.ID),
		zap.String("archive_id", archived.ID),
		zap.Int("final_score", archived.FinalScore))

	m.replaceSessionLocked()
	m.persistLocked()
	return archived, nil
}

// Reset discards the active session without archiving.
func (m *Manager) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.replaceSessionLocked()
	m.persistLocked()
	m.notifyLocked()
	return nil
}

// Resume unpauses a restored unfinished session. An in-progress question gets
// a fresh countdown; partial elapsed time does not survive a restart.
func (m *Manager) Resume() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.paused {
		return
	}
	m.paused = false

	if m.session.Status == models.StatusInProgress {
		if q := m.session.CurrentQuestion(); q != nil && m.session.HasPromptFor(q.ID) &&
			len(m.session.Answers) <= m.session.CurrentQuestionIndex {
			m.armTimerLocked(q)
		}
	}
	m.notifyLocked()
}

// Snapshot returns a deep copy of the session plus UI state: whether a
// restored session awaits resume/discard, and the active countdown.
func (m *Manager) Snapshot() (session *models.Session, resumable bool, remainingSeconds int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	remaining := 0
	if m.timer != nil {
		remaining = m.timer.remaining
	}
	return m.session.Clone(), m.paused && m.session.Unfinished(), remaining
}

// replaceSessionLocked swaps in a fresh session and invalidates every
// outstanding callback via the generation counter. Caller holds the lock.
func (m *Manager) replaceSessionLocked() {
	m.stopTimerLocked()
	m.generation++
	m.session = models.NewSession()
	m.pending = nil
	m.questionsInFlight = false
	m.summaryInFlight = false
	m.summaryBackoff = 0
	m.paused = false
}

func (m *Manager) persistLocked() {
	if err := m.store.SaveCurrent(m.session); err != nil {
		m.logger.Error("Failed to persist session", zap.Error(err),
			zap.String("session_id", m.session.ID))
	}
}

// notifyLocked wakes the dispatcher; the buffered channel collapses bursts.
func (m *Manager) notifyLocked() {
	select {
	case m.notify <- struct{}{}:
	default:
	}
}
