package generate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"pdfmcq/internal/domain"
)

const mcqSystemPrompt = `You are a teaching assistant. Given input text, create clear multiple-choice questions.
Each question must have 4 options, exactly one correct answer, a short hint, and a brief explanation.
Respond ONLY with JSON that follows the provided schema.`

const mcqUserPrompt = `Text:
%s

Generate up to %d multiple-choice questions that test understanding of this text.
Respond in exactly this JSON structure:
{
  "questions": [
    {
      "id": "q1",
      "question": "string",
      "options": ["string", "string", "string", "string"],
      "correct_option_index": 1,
      "hint": "string",
      "explanation": "string"
    }
  ]
}`

// LLMGenerator asks an OpenAI-compatible chat API for questions.
// OpenRouter works through the same client with a custom base URL and
// attribution headers.
type LLMGenerator struct {
	client *openai.Client
	model  string
	sleep  func(time.Duration)
}

// Options configures the upstream provider.
type Options struct {
	APIKey  string
	BaseURL string // empty for api.openai.com
	Model   string
	Site    string // OpenRouter HTTP-Referer attribution
	Title   string // OpenRouter X-Title attribution
}

func NewLLM(opts Options) *LLMGenerator {
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	if opts.Site != "" || opts.Title != "" {
		cfg.HTTPClient = &http.Client{
			Transport: headerTransport{site: opts.Site, title: opts.Title, next: http.DefaultTransport},
		}
	}
	return &LLMGenerator{
		client: openai.NewClientWithConfig(cfg),
		model:  opts.Model,
		sleep:  time.Sleep,
	}
}

// Generate requests a JSON object of questions, retrying twice with a
// short backoff when the provider rate-limits.
func (g *LLMGenerator) Generate(ctx context.Context, text string, maxQuestions int) ([]domain.Question, error) {
	req := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: mcqSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf(mcqUserPrompt, text, maxQuestions)},
		},
		Temperature: 0.3,
		MaxTokens:   1200,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	var resp openai.ChatCompletionResponse
	var err error
	for attempt, delay := range []time.Duration{0, 2 * time.Second, 4 * time.Second} {
		if delay > 0 {
			g.sleep(delay)
		}
		resp, err = g.client.CreateChatCompletion(ctx, req)
		if err == nil {
			break
		}
		if !isRateLimited(err) || attempt == 2 {
			return nil, fmt.Errorf("chat completion: %w", err)
		}
	}

	if len(resp.Choices) == 0 {
		return nil, errors.New("chat completion: empty response")
	}
	return parseQuestions(resp.Choices[0].Message.Content)
}

func isRateLimited(err error) bool {
	var apiErr *openai.APIError
	return errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests
}

// parseQuestions decodes the model's JSON payload into domain questions,
// backfilling missing ids by position.
func parseQuestions(raw string) ([]domain.Question, error) {
	var payload struct {
		Questions []struct {
			ID                 string   `json:"id"`
			Question           string   `json:"question"`
			Options            []string `json:"options"`
			CorrectOptionIndex int      `json:"correct_option_index"`
			Hint               string   `json:"hint"`
			Explanation        string   `json:"explanation"`
		} `json:"questions"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &payload); err != nil {
		return nil, fmt.Errorf("parse questions: %w", err)
	}

	questions := make([]domain.Question, 0, len(payload.Questions))
	for i, q := range payload.Questions {
		id := q.ID
		if id == "" {
			id = fmt.Sprintf("q%d", i+1)
		}
		questions = append(questions, domain.Question{
			ID:                 id,
			Question:           q.Question,
			Options:            q.Options,
			CorrectOptionIndex: q.CorrectOptionIndex,
			Hint:               q.Hint,
			Explanation:        q.Explanation,
		})
	}
	return questions, nil
}

// headerTransport adds OpenRouter attribution headers to every request.
type headerTransport struct {
	site  string
	title string
	next  http.RoundTripper
}

func (t headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.site != "" {
		req.Header.Set("HTTP-Referer", t.site)
	}
	if t.title != "" {
		req.Header.Set("X-Title", t.title)
	}
	return t.next.RoundTrip(req)
}
