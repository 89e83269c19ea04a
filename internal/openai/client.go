package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"whiskyai/internal/logger"
)

const defaultBaseURL = "https://api.openai.com/v1"

// ErrMissingAPIKey means no credential is configured. Callers are expected
// to fail fast on this before doing any per-item work.
var ErrMissingAPIKey = errors.New("OpenAI API key not configured")

// ChatRequest is the chat-completion request schema
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponseBody struct {
	Choices []choice   `json:"choices"`
	Error   *errorBody `json:"error,omitempty"`
}

type choice struct {
	Message Message `json:"message"`
}

type errorBody struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// Debug captures the full request and raw response for diagnostic surfacing.
// It travels with every ChatResponse and every error the client returns.
type Debug struct {
	Endpoint   string      `json:"endpoint"`
	Request    ChatRequest `json:"request"`
	StatusCode int         `json:"status_code,omitempty"`
	Body       string      `json:"body,omitempty"`
}

// ChatResponse is the validated success payload: the generated text plus the
// raw exchange that produced it.
type ChatResponse struct {
	Content string `json:"content"`
	Debug   Debug  `json:"debug"`
}

// TransportError means the remote call could not be completed at all.
type TransportError struct {
	Err   error
	Debug Debug
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("OpenAI API connection error: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// APIError means the remote call completed but reported a failure status.
type APIError struct {
	StatusCode int
	Message    string
	Debug      Debug
}

func (e *APIError) Error() string {
	return fmt.Sprintf("OpenAI API error: %s (status code: %d)", e.Message, e.StatusCode)
}

// EmptyResponseError means the call succeeded but carried no usable content.
type EmptyResponseError struct {
	Debug Debug
}

func (e *EmptyResponseError) Error() string {
	return "no content generated from OpenAI"
}

// Client calls the OpenAI chat-completion endpoint. One blocking request per
// call, 30s timeout, no retry.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *logger.Logger
}

func NewClient(apiKey string, log *logger.Logger) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: log,
	}
}

// NewClientWithBaseURL is used by tests to point the client at a fake server.
func NewClientWithBaseURL(apiKey, baseURL string, log *logger.Logger) *Client {
	c := NewClient(apiKey, log)
	c.baseURL = baseURL
	return c
}

// Chat sends a chat-completion request and validates the response at the
// boundary, so callers never see raw untyped payloads.
func (c *Client) Chat(ctx context.Context, request ChatRequest) (*ChatResponse, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	endpoint := c.baseURL + "/chat/completions"
	debug := Debug{Endpoint: endpoint, Request: request}

	jsonData, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err, Debug: debug}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err, Debug: debug}
	}

	debug.StatusCode = resp.StatusCode
	debug.Body = string(body)

	var parsed chatResponseBody
	if resp.StatusCode != http.StatusOK {
		message := "Unknown error"
		if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != nil {
			message = parsed.Error.Message
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: message, Debug: debug}
	}

	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: "malformed response body", Debug: debug}
	}

	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return nil, &EmptyResponseError{Debug: debug}
	}

	c.logger.Debug("Chat completion succeeded, model=%s, %d bytes", request.Model, len(body))

	return &ChatResponse{
		Content: parsed.Choices[0].Message.Content,
		Debug:   debug,
	}, nil
}

// VerifyKey checks a candidate API key against the models endpoint without
// spending completion tokens.
func (c *Client) VerifyKey(ctx context.Context) error {
	if c.apiKey == "" {
		return ErrMissingAPIKey
	}

	endpoint := c.baseURL + "/models"
	debug := Debug{Endpoint: endpoint}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Err: err, Debug: debug}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	debug.StatusCode = resp.StatusCode
	debug.Body = string(body)

	if resp.StatusCode != http.StatusOK {
		message := "Unknown error"
		var parsed chatResponseBody
		if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != nil {
			message = parsed.Error.Message
		}
		return &APIError{StatusCode: resp.StatusCode, Message: message, Debug: debug}
	}

	return nil
}
