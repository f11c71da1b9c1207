package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"pdfmcq/internal/domain"
)

// ErrInvalidServerResponse is returned when a success status carries a
// body that does not parse as the expected structure.
var ErrInvalidServerResponse = errors.New("Invalid server response.")

// ServiceError is a non-2xx response with a server-provided detail.
// The detail is surfaced to the user verbatim.
type ServiceError struct {
	Status int
	Detail string
}

func (e *ServiceError) Error() string {
	return e.Detail
}

// Client talks to the quiz backend. The base address is fixed at
// construction. Only the upload path carries a timeout; snapshot and
// answer calls wait as long as the caller's context allows.
type Client struct {
	base       string
	http       *http.Client
	uploadHTTP *http.Client
}

func New(base string, uploadTimeout time.Duration) *Client {
	return &Client{
		base:       strings.TrimRight(base, "/"),
		http:       &http.Client{},
		uploadHTTP: &http.Client{Timeout: uploadTimeout},
	}
}

// FetchSnapshot pulls the server-authoritative quiz state.
func (c *Client) FetchSnapshot(ctx context.Context, quizID string) (domain.Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/quiz/"+quizID, nil)
	if err != nil {
		return domain.Snapshot{}, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return domain.Snapshot{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.Snapshot{}, serviceError(resp, "Failed to load quiz.")
	}

	var snap domain.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return domain.Snapshot{}, ErrInvalidServerResponse
	}
	return snap, nil
}

// SubmitAnswer posts one answer for one question.
func (c *Client) SubmitAnswer(ctx context.Context, quizID string, answer domain.AnswerRequest) (domain.AnswerResponse, error) {
	payload, err := json.Marshal(answer)
	if err != nil {
		return domain.AnswerResponse{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/quiz/"+quizID+"/answer", bytes.NewReader(payload))
	if err != nil {
		return domain.AnswerResponse{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.AnswerResponse{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.AnswerResponse{}, serviceError(resp, "Failed to submit answer.")
	}

	var out domain.AnswerResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return domain.AnswerResponse{}, ErrInvalidServerResponse
	}
	return out, nil
}

// FetchConfig loads client-facing limits. Callers fall back to
// DefaultMaxQuestions when the endpoint is unreachable.
func (c *Client) FetchConfig(ctx context.Context) (domain.ConfigResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/config", nil)
	if err != nil {
		return domain.ConfigResponse{}, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return domain.ConfigResponse{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.ConfigResponse{}, serviceError(resp, "Failed to load backend config.")
	}

	var cfg domain.ConfigResponse
	if err := json.NewDecoder(resp.Body).Decode(&cfg); err != nil {
		return domain.ConfigResponse{}, ErrInvalidServerResponse
	}
	if cfg.MaxQuestions <= 0 {
		cfg.MaxQuestions = DefaultMaxQuestions
	}
	return cfg, nil
}

// DefaultMaxQuestions bounds the requested question count when the
// backend does not say otherwise.
const DefaultMaxQuestions = 6

// serviceError extracts a {detail} message from an error body, falling
// back to a generic message when none parses.
func serviceError(resp *http.Response, fallback string) error {
	detail := fallback
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err == nil {
		var parsed struct {
			Detail string `json:"detail"`
		}
		if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
			detail = parsed.Detail
		}
	}
	return &ServiceError{Status: resp.StatusCode, Detail: detail}
}

// quizIDString accepts the opaque quiz id as either a JSON string or a
// number.
func quizIDString(raw any) (string, bool) {
	switch v := raw.(type) {
	case string:
		return v, v != ""
	case json.Number:
		return v.String(), true
	case float64:
		return fmt.Sprintf("%v", v), true
	default:
		return "", false
	}
}
