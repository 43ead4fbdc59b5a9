package handlers

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"intervue/internal/config"
	"intervue/internal/interview"
	"intervue/internal/llm"
	"intervue/internal/models"
	"intervue/internal/storage"
)

type mockProvider struct {
	extractResumeInfoFn func(ctx context.Context, resumeText string) (*models.ResumeInfo, error)
	generateQuestionsFn func(ctx context.Context) ([]models.Question, error)
	generateSummaryFn   func(ctx context.Context, questions []models.Question, answers []models.AnswerRecord) (*models.FinalResult, error)
}

func (m *mockProvider) ExtractResumeInfo(ctx context.Context, resumeText string) (*models.ResumeInfo, error) {
	if m.extractResumeInfoFn == nil {
		return &models.ResumeInfo{Name: "Mock Candidate", Email: "mock@example.com", Phone: "555-0100"}, nil
	}
	return m.extractResumeInfoFn(ctx, resumeText)
}

func (m *mockProvider) GenerateQuestions(ctx context.Context) ([]models.Question, error) {
	if m.generateQuestionsFn == nil {
		return []models.Question{
			{ID: "q1", Text: "First?", Options: []string{"a", "b", "c", "d"}, Difficulty: "easy", TimeLimitSeconds: 600},
		}, nil
	}
	return m.generateQuestionsFn(ctx)
}

func (m *mockProvider) GenerateSummary(ctx context.Context, questions []models.Question, answers []models.AnswerRecord) (*models.FinalResult, error) {
	if m.generateSummaryFn == nil {
		return &models.FinalResult{Score: 10, Summary: "mock summary"}, nil
	}
	return m.generateSummaryFn(ctx, questions, answers)
}

func (m *mockProvider) GetProviderName() string { return "mock" }

var _ llm.Provider = (*mockProvider)(nil)

type mockPromptManager struct {
	buildPromptFn func(mode string, data map[string]string) (string, error)
	modesFn       func() []string
}

func (m *mockPromptManager) BuildPrompt(mode string, data map[string]string) (string, error) {
	if m.buildPromptFn == nil {
		return "mock prompt", nil
	}
	return m.buildPromptFn(mode, data)
}

func (m *mockPromptManager) Modes() []string {
	if m.modesFn == nil {
		return []string{"extract", "questions", "summary"}
	}
	return m.modesFn()
}

type mockExtractor struct {
	extractTextFn func(r io.ReaderAt, size int64, mimeType string) (string, error)
}

func (m *mockExtractor) ExtractText(r io.ReaderAt, size int64, mimeType string) (string, error) {
	if m.extractTextFn == nil {
		return "resume text", nil
	}
	return m.extractTextFn(r, size, mimeType)
}

func newTestStore(t *testing.T) *storage.Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	store, err := storage.New(db)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return store
}

func newTestManager(t *testing.T, store *storage.Store, provider llm.Provider) *interview.Manager {
	t.Helper()
	cfg := &config.Config{
		Provider:         "gemini",
		DispatchInterval: 5 * time.Millisecond,
		AdvanceDelay:     5 * time.Millisecond,
	}
	manager, err := interview.NewManager(store, provider, cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	return manager
}
