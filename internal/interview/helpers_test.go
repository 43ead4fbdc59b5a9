package interview

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"intervue/internal/config"
	"intervue/internal/llm"
	"intervue/internal/models"
)

// fakeStore is an in-memory Store; the sqlite-backed round trip is covered in
// the storage package.
type fakeStore struct {
	mu       sync.Mutex
	current  *models.Session
	archived []*models.ArchivedSession
	saves    int
}

func (f *fakeStore) SaveCurrent(s *models.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = s.Clone()
	f.saves++
	return nil
}

func (f *fakeStore) LoadCurrent() (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.current == nil {
		return models.NewSession(), nil
	}
	return f.current.Clone(), nil
}

func (f *fakeStore) AppendArchive(a *models.ArchivedSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.archived = append(f.archived, a)
	return nil
}

func (f *fakeStore) archiveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.archived)
}

type fakeProvider struct {
	extractFn   func(ctx context.Context, text string) (*models.ResumeInfo, error)
	questionsFn func(ctx context.Context) ([]models.Question, error)
	summaryFn   func(ctx context.Context, questions []models.Question, answers []models.AnswerRecord) (*models.FinalResult, error)
}

func (p *fakeProvider) ExtractResumeInfo(ctx context.Context, text string) (*models.ResumeInfo, error) {
	if p.extractFn == nil {
		return &models.ResumeInfo{}, nil
	}
	return p.extractFn(ctx, text)
}

func (p *fakeProvider) GenerateQuestions(ctx context.Context) ([]models.Question, error) {
	if p.questionsFn == nil {
		return testQuestions(), nil
	}
	return p.questionsFn(ctx)
}

func (p *fakeProvider) GenerateSummary(ctx context.Context, questions []models.Question, answers []models.AnswerRecord) (*models.FinalResult, error) {
	if p.summaryFn == nil {
		return &models.FinalResult{Score: 20, Summary: "fine"}, nil
	}
	return p.summaryFn(ctx, questions, answers)
}

func (p *fakeProvider) GetProviderName() string { return "fake" }

var _ llm.Provider = (*fakeProvider)(nil)

// testQuestions returns a short two-question set with generous time limits so
// countdowns never expire unless a test arranges it.
func testQuestions() []models.Question {
	return []models.Question{
		{ID: "q1", Text: "First?", Options: []string{"a", "b", "c", "d"}, Difficulty: "easy", TimeLimitSeconds: 600},
		{ID: "q2", Text: "Second?", Options: []string{"a", "b", "c", "d"}, Difficulty: "hard", TimeLimitSeconds: 600},
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Provider:         "gemini",
		DispatchInterval: 5 * time.Millisecond,
		AdvanceDelay:     5 * time.Millisecond,
	}
}

func newTestManager(t *testing.T, store Store, provider llm.Provider) *Manager {
	t.Helper()
	if store == nil {
		store = &fakeStore{}
	}
	if provider == nil {
		provider = &fakeProvider{}
	}
	m, err := NewManager(store, provider, testConfig(), zap.NewNop())
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	return m
}

// startDispatcher runs the dispatcher loop for the duration of the test.
func startDispatcher(t *testing.T, m *Manager) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go m.Run(ctx)
}

func messageTexts(s *models.Session) []string {
	texts := make([]string, 0, len(s.Messages))
	for _, msg := range s.Messages {
		texts = append(texts, msg.Text)
	}
	return texts
}

func countMessage(s *models.Session, text string) int {
	n := 0
	for _, msg := range s.Messages {
		if msg.Text == text {
			n++
		}
	}
	return n
}

func waitFor(t *testing.T, m *Manager, timeout time.Duration, cond func(s *models.Session) bool) *models.Session {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for {
		s, _, _ := m.Snapshot()
		if cond(s) {
			return s
		}
		if time.Now().After(deadline) {
			t.Fatalf("condition not reached before timeout; messages: %v, status: %s", messageTexts(s), s.Status)
		}
		time.Sleep(2 * time.Millisecond)
	}
}
