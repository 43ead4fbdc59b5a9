package interview

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intervue/internal/models"
)

func TestInitializeComputesStatusAndWelcome(t *testing.T) {
	cases := []struct {
		name           string
		info           models.ResumeInfo
		wantStatus     string
		wantCollecting string
	}{
		{"all missing", models.ResumeInfo{}, models.StatusCollectingInfo, models.FieldName},
		{"name only", models.ResumeInfo{Name: "Ava"}, models.StatusCollectingInfo, models.FieldEmail},
		{"name and email", models.ResumeInfo{Name: "Ava", Email: "a@x.io"}, models.StatusCollectingInfo, models.FieldPhone},
		{"email and phone", models.ResumeInfo{Email: "a@x.io", Phone: "555"}, models.StatusCollectingInfo, models.FieldName},
		{"complete", models.ResumeInfo{Name: "Ava", Email: "a@x.io", Phone: "555"}, models.StatusReadyToStart, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := newTestManager(t, nil, nil)
			require.NoError(t, m.Initialize(tc.info))

			s, _, _ := m.Snapshot()
			assert.Equal(t, tc.wantStatus, s.Status)
			assert.Equal(t, tc.wantCollecting, s.CurrentlyCollecting)
			assert.NotEmpty(t, s.ID)

			require.Len(t, s.Messages, 1)
			assert.Equal(t, models.SenderAI, s.Messages[0].Sender)
			assert.Contains(t, s.Messages[0].Text, "Welcome to the interview")
		})
	}
}

func TestWelcomeMessageInterpolation(t *testing.T) {
	m := newTestManager(t, nil, nil)
	require.NoError(t, m.Initialize(models.ResumeInfo{Name: "Ava", Email: "ava@x.io"}))

	s, _, _ := m.Snapshot()
	welcome := s.Messages[0].Text
	assert.True(t, strings.HasPrefix(welcome, "Hello Ava!"), "welcome: %q", welcome)
	assert.Contains(t, welcome, "Email: ava@x.io")
	assert.NotContains(t, welcome, "Phone:")

	require.NoError(t, m.Initialize(models.ResumeInfo{}))
	s, _, _ = m.Snapshot()
	assert.True(t, strings.HasPrefix(s.Messages[0].Text, "Hello Candidate!"))
}

func TestInitializeRejectsExtractionError(t *testing.T) {
	m := newTestManager(t, nil, nil)

	err := m.Initialize(models.ResumeInfo{Error: "unreadable resume"})
	require.ErrorIs(t, err, ErrExtractionFailed)

	s, _, _ := m.Snapshot()
	assert.Equal(t, models.StatusPending, s.Status)
	assert.Empty(t, s.Messages, "failed extraction must not touch the session")
}

func TestHandleCandidateMessageFillsFieldsInOrder(t *testing.T) {
	m := newTestManager(t, nil, nil)
	require.NoError(t, m.Initialize(models.ResumeInfo{}))

	require.NoError(t, m.HandleCandidateMessage("Ava Chen"))
	require.NoError(t, m.HandleCandidateMessage("ava@example.com"))
	require.NoError(t, m.HandleCandidateMessage("555-0101"))

	s, _, _ := m.Snapshot()
	assert.Equal(t, "Ava Chen", s.Candidate.Name)
	assert.Equal(t, "ava@example.com", s.Candidate.Email)
	assert.Equal(t, "555-0101", s.Candidate.Phone)
	assert.Equal(t, "", s.CurrentlyCollecting)
}

func TestHandleCandidateMessageAcceptsAnyText(t *testing.T) {
	m := newTestManager(t, nil, nil)
	require.NoError(t, m.Initialize(models.ResumeInfo{Name: "Ava", Phone: "555"}))

	// not a well-formed email; accepted as given
	require.NoError(t, m.HandleCandidateMessage("just ask my assistant"))

	s, _, _ := m.Snapshot()
	assert.Equal(t, "just ask my assistant", s.Candidate.Email)
}

func TestHandleCandidateMessageOutsideCollecting(t *testing.T) {
	m := newTestManager(t, nil, nil)
	require.NoError(t, m.Initialize(models.ResumeInfo{Name: "Ava", Email: "a@x.io", Phone: "555"}))

	err := m.HandleCandidateMessage("hello?")
	assert.ErrorIs(t, err, ErrNotCollecting)
}

func TestSubmitAnswerGuards(t *testing.T) {
	m := newTestManager(t, nil, nil)
	// keep the answered question current so the duplicate-submit guard is hit
	m.advanceDelay = time.Minute
	require.NoError(t, m.Initialize(models.ResumeInfo{Name: "Ava", Email: "a@x.io", Phone: "555"}))

	idx := 0
	// no questions yet
	assert.ErrorIs(t, m.SubmitAnswer(&idx), ErrNoActiveQuestion)

	startDispatcher(t, m)
	waitFor(t, m, time.Second, func(s *models.Session) bool {
		return s.Status == models.StatusInProgress && s.HasPromptFor("q1")
	})

	out := 7
	assert.ErrorIs(t, m.SubmitAnswer(&out), ErrInvalidOption)

	require.NoError(t, m.SubmitAnswer(&idx))
	// second submission for the same index during the advance delay
	assert.ErrorIs(t, m.SubmitAnswer(&idx), ErrAlreadyAnswered)
}

func TestFullInterviewFlowCompletesAndScores(t *testing.T) {
	store := &fakeStore{}
	m := newTestManager(t, store, &fakeProvider{
		summaryFn: func(_ context.Context, qs []models.Question, answers []models.AnswerRecord) (*models.FinalResult, error) {
			require.Len(t, qs, 2)
			require.Len(t, answers, 2)
			return &models.FinalResult{Score: 15, Summary: "decent"}, nil
		},
	})
	require.NoError(t, m.Initialize(models.ResumeInfo{Name: "Ava", Email: "a@x.io", Phone: "555"}))
	startDispatcher(t, m)

	for _, qid := range []string{"q1", "q2"} {
		qid := qid
		waitFor(t, m, time.Second, func(s *models.Session) bool {
			q := s.CurrentQuestion()
			return s.Status == models.StatusInProgress && q != nil && q.ID == qid && s.HasPromptFor(qid)
		})
		choice := 1
		require.NoError(t, m.SubmitAnswer(&choice))
	}

	final := waitFor(t, m, time.Second, func(s *models.Session) bool {
		return s.Status == models.StatusCompleted && s.FinalScore != nil
	})

	assert.Equal(t, 2, final.CurrentQuestionIndex)
	assert.Len(t, final.Answers, 2)
	assert.Equal(t, 15, *final.FinalScore)
	assert.Equal(t, "decent", final.Summary)

	// the answer transcript lines are the selected option texts
	assert.Equal(t, 2, countMessage(final, "b"))
}

func TestAnswersRecordTimeoutAsNil(t *testing.T) {
	m := newTestManager(t, nil, nil)
	require.NoError(t, m.Initialize(models.ResumeInfo{Name: "Ava", Email: "a@x.io", Phone: "555"}))
	startDispatcher(t, m)

	waitFor(t, m, time.Second, func(s *models.Session) bool {
		return s.Status == models.StatusInProgress && s.HasPromptFor("q1")
	})

	require.NoError(t, m.SubmitAnswer(nil))

	s := waitFor(t, m, time.Second, func(s *models.Session) bool {
		return len(s.Answers) == 1
	})
	assert.Nil(t, s.Answers[0].SelectedOptionIndex)
	assert.Equal(t, "q1", s.Answers[0].QuestionID)
	assert.Equal(t, 1, countMessage(s, msgTimesUp))
}

func TestResetDiscardsSessionAndStaleCallbacks(t *testing.T) {
	store := &fakeStore{}
	m := newTestManager(t, store, nil)
	require.NoError(t, m.Initialize(models.ResumeInfo{Name: "Ava", Email: "a@x.io", Phone: "555"}))
	startDispatcher(t, m)

	waitFor(t, m, time.Second, func(s *models.Session) bool {
		return s.Status == models.StatusInProgress && s.HasPromptFor("q1")
	})

	choice := 0
	require.NoError(t, m.SubmitAnswer(&choice))
	// reset while the advance callback is still pending
	require.NoError(t, m.Reset())

	time.Sleep(50 * time.Millisecond)

	s, _, _ := m.Snapshot()
	assert.Equal(t, models.StatusPending, s.Status)
	assert.Empty(t, s.Answers, "stale advance must not touch the new session")
	assert.Empty(t, s.Messages)
	assert.Equal(t, 0, s.CurrentQuestionIndex)
	assert.Equal(t, 0, store.archiveCount(), "reset must not archive")
}

func TestArchiveRoundTrip(t *testing.T) {
	store := &fakeStore{}
	m := newTestManager(t, store, nil)
	require.NoError(t, m.Initialize(models.ResumeInfo{Name: "Ava", Email: "a@x.io", Phone: "555"}))
	startDispatcher(t, m)

	for range testQuestions() {
		waitFor(t, m, time.Second, func(s *models.Session) bool {
			q := s.CurrentQuestion()
			return s.Status == models.StatusInProgress && q != nil && s.HasPromptFor(q.ID) &&
				len(s.Answers) == s.CurrentQuestionIndex
		})
		choice := 2
		require.NoError(t, m.SubmitAnswer(&choice))
	}

	completed := waitFor(t, m, time.Second, func(s *models.Session) bool {
		return s.Status == models.StatusCompleted && s.FinalScore != nil
	})

	archived, err := m.Archive()
	require.NoError(t, err)

	assert.NotEmpty(t, archived.ID)
	assert.False(t, archived.CompletedAt.IsZero())
	assert.Equal(t, "Ava", archived.CandidateName)
	assert.Equal(t, *completed.FinalScore, archived.FinalScore)

	restored, err := archived.Session()
	require.NoError(t, err)
	assert.Equal(t, len(completed.Messages), len(restored.Messages))
	assert.Equal(t, len(completed.Answers), len(restored.Answers))
	assert.Equal(t, completed.Summary, restored.Summary)

	assert.Equal(t, 1, store.archiveCount())

	// active session replaced with a fresh pending one
	s, _, _ := m.Snapshot()
	assert.Equal(t, models.StatusPending, s.Status)
	assert.Empty(t, s.Candidate.Name)
	assert.Empty(t, s.Messages)
}

func TestArchiveRejectsUnfinishedSession(t *testing.T) {
	m := newTestManager(t, nil, nil)
	require.NoError(t, m.Initialize(models.ResumeInfo{Name: "Ava"}))

	_, err := m.Archive()
	assert.ErrorIs(t, err, ErrNotCompleted)
}

func TestRestoredUnfinishedSessionStartsPaused(t *testing.T) {
	store := &fakeStore{}
	saved := models.NewSession()
	saved.ID = "restored"
	saved.Status = models.StatusCollectingInfo
	saved.CurrentlyCollecting = models.FieldEmail
	saved.Candidate = models.Candidate{Name: "Ava"}
	saved.Prompted[models.MarkerName] = true
	require.NoError(t, store.SaveCurrent(saved))

	m := newTestManager(t, store, nil)
	startDispatcher(t, m)

	_, resumable, _ := m.Snapshot()
	assert.True(t, resumable)

	// dispatcher must stay idle while paused
	time.Sleep(50 * time.Millisecond)
	s, _, _ := m.Snapshot()
	assert.Empty(t, s.Messages)

	m.Resume()

	s = waitFor(t, m, time.Second, func(s *models.Session) bool {
		return countMessage(s, msgAskEmail) == 1
	})
	_, resumable, _ = m.Snapshot()
	assert.False(t, resumable)
	assert.Equal(t, "Ava", s.Candidate.Name)
}
