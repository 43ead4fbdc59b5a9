package gemini

import (
	"context"
	"strconv"

	"google.golang.org/genai"

	"intervue/internal/llm"
	"intervue/internal/models"
	"intervue/internal/prompts"
)

// Client represents a Gemini LLM client

type Client struct {
	client  *genai.Client
	config  *Config
	prompts prompts.PromptProvider
}

func NewClient(config *Config) (*Client, error) {
	ctx := context.Background()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, &llm.ProviderError{
			Provider: "gemini",
			Code:     llm.ErrCodeAPIKey,
			Message:  "Failed to create Gemini client",
			Err:      err,
		}
	}

	promptManager, err := prompts.NewPromptManager()
	if err != nil {
		return nil, &llm.ProviderError{
			Provider: "gemini",
			Code:     llm.ErrCodeInvalidInput,
			Message:  "Failed to load prompt templates",
			Err:      err,
		}
	}

	return &Client{
		client:  client,
		config:  config,
		prompts: promptManager,
	}, nil
}

// generate runs one prompt through the model and returns the raw text output.
func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	result, err := c.client.Models.GenerateContent(
		ctx,
		c.config.Model,
		genai.Text(prompt),
		nil,
	)
	if err != nil {
		return "", &llm.ProviderError{
			Provider: "gemini",
			Code:     llm.ErrCodeServiceDown,
			Message:  "Failed to generate content",
			Err:      err,
		}
	}

	if result == nil {
		return "", &llm.ProviderError{
			Provider: "gemini",
			Code:     llm.ErrCodeInvalidInput,
			Message:  "No response generated",
		}
	}

	text, err := result.Text()
	if err != nil {
		return "", &llm.ProviderError{
			Provider: "gemini",
			Code:     llm.ErrCodeInvalidInput,
			Message:  "Failed to extract response text",
			Err:      err,
		}
	}
	if text == "" {
		return "", &llm.ProviderError{
			Provider: "gemini",
			Code:     llm.ErrCodeInvalidInput,
			Message:  "Empty response generated",
		}
	}

	return text, nil
}

// ExtractResumeInfo pulls contact fields out of raw resume text. Transport
// failures come back as errors; an unusable model response is reported through
// the result's Error field so the caller surfaces it without starting a
// session.
func (c *Client) ExtractResumeInfo(ctx context.Context, resumeText string) (*models.ResumeInfo, error) {
	prompt, err := c.prompts.BuildPrompt("extract", map[string]string{
		"ResumeText": resumeText,
	})
	if err != nil {
		return nil, err
	}

	raw, err := c.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return parseResumeInfo(raw), nil
}

// GenerateQuestions produces the six-question interview set. Any failure,
// transport or parse, degrades to the sentinel fallback set so the interview
// core can surface a retryable message.
func (c *Client) GenerateQuestions(ctx context.Context) ([]models.Question, error) {
	prompt, err := c.prompts.BuildPrompt("questions", map[string]string{
		"Count": strconv.Itoa(llm.QuestionCount),
	})
	if err != nil {
		return llm.FallbackQuestions(), nil
	}

	raw, err := c.generate(ctx, prompt)
	if err != nil {
		return llm.FallbackQuestions(), nil
	}

	questions, err := parseQuestions(raw)
	if err != nil {
		return llm.FallbackQuestions(), nil
	}

	return questions, nil
}

// GenerateSummary scores a completed interview.
func (c *Client) GenerateSummary(ctx context.Context, questions []models.Question, answers []models.AnswerRecord) (*models.FinalResult, error) {
	maxScore := len(questions) * models.PointsPerQuestion
	prompt, err := c.prompts.BuildPrompt("summary", map[string]string{
		"MaxScore":   strconv.Itoa(maxScore),
		"Transcript": buildAnswerTranscript(questions, answers),
	})
	if err != nil {
		return nil, err
	}

	raw, err := c.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	result, err := parseFinalResult(raw, maxScore)
	if err != nil {
		return nil, &llm.ProviderError{
			Provider: "gemini",
			Code:     llm.ErrCodeInvalidInput,
			Message:  "Failed to parse summary response",
			Err:      err,
		}
	}

	return result, nil
}

func (c *Client) GetProviderName() string {
	return "gemini"
}
