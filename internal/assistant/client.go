// Package assistant manages the remote conversation lifecycle against an
// OpenAI Assistants v2 compatible API: assistant definition sync, thread
// identity, message posting, run creation and polling, reply retrieval.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/argamanevents/event-ai-platform/pkg/logging"
)

const (
	defaultBaseURL      = "https://api.openai.com/v1"
	defaultModel        = "gpt-4o-mini"
	defaultPollInterval = 400 * time.Millisecond
	defaultPollAttempts = 15
	defaultTimeout      = 30 * time.Second
	assistantName       = "Argaman Web Chat Bot"

	// maxMessageRunes caps user content posted to the remote thread.
	maxMessageRunes = 2000
)

// Config controls how the assistant client behaves.
type Config struct {
	BaseURL      string
	APIKey       string
	Model        string
	AssistantID  string
	Instructions string
	Timeout      time.Duration
	PollInterval time.Duration
	PollAttempts int
	HTTPClient   *http.Client
	Logger       *logging.Logger
}

// Client wraps the Assistants v2 REST endpoints used by the orchestrator.
type Client struct {
	apiKey       string
	baseURL      string
	model        string
	instructions string
	httpClient   *http.Client
	pollInterval time.Duration
	pollAttempts int
	logger       *logging.Logger

	mu          sync.Mutex
	assistantID string
	synced      bool
}

// New creates a configured Client with sane defaults.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("assistant: API key is required")
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	instructions := cfg.Instructions
	if instructions == "" {
		instructions = SystemPrompt
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	pollAttempts := cfg.PollAttempts
	if pollAttempts <= 0 {
		pollAttempts = defaultPollAttempts
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		apiKey:       cfg.APIKey,
		baseURL:      baseURL,
		model:        model,
		instructions: instructions,
		assistantID:  cfg.AssistantID,
		httpClient:   httpClient,
		pollInterval: pollInterval,
		pollAttempts: pollAttempts,
		logger:       logger,
	}, nil
}

// EnsureAssistant guarantees a usable assistant definition whose
// instructions match the configured system prompt. The sync happens once
// per process lifetime; if updating an existing definition fails, a fresh
// assistant is created instead of failing the request.
func (c *Client) EnsureAssistant(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.assistantID != "" {
		if c.synced {
			return c.assistantID, nil
		}
		if err := c.updateAssistant(ctx, c.assistantID); err != nil {
			c.logger.Error("assistant sync failed, recreating", "error", err, "assistant_id", c.assistantID)
			created, createErr := c.createAssistant(ctx)
			if createErr != nil {
				return "", createErr
			}
			c.assistantID = created
			c.synced = true
			c.logger.Info("assistant recreated", "assistant_id", created)
			return created, nil
		}
		c.synced = true
		return c.assistantID, nil
	}

	created, err := c.createAssistant(ctx)
	if err != nil {
		return "", err
	}
	c.assistantID = created
	c.synced = true
	c.logger.Info("assistant created", "assistant_id", created)
	return created, nil
}

func (c *Client) createAssistant(ctx context.Context) (string, error) {
	var out createdObject
	err := c.doJSON(ctx, http.MethodPost, "/assistants", assistantPayload{
		Model:        c.model,
		Instructions: c.instructions,
		Name:         assistantName,
	}, &out)
	if err != nil {
		return "", err
	}
	return out.ID, nil
}

func (c *Client) updateAssistant(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodPost, "/assistants/"+id, assistantPayload{
		Model:        c.model,
		Instructions: c.instructions,
		Name:         assistantName,
	}, nil)
}

// CreateThread starts a fresh remote conversation context.
func (c *Client) CreateThread(ctx context.Context) (string, error) {
	var out createdObject
	if err := c.doJSON(ctx, http.MethodPost, "/threads", struct{}{}, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

// PostUserMessage appends a user message to the thread, capping content
// length at the remote API's practical limit.
func (c *Client) PostUserMessage(ctx context.Context, threadID, content string) error {
	if runes := []rune(content); len(runes) > maxMessageRunes {
		content = string(runes[:maxMessageRunes])
	}
	return c.doJSON(ctx, http.MethodPost, "/threads/"+threadID+"/messages", userMessagePayload{
		Role:    "user",
		Content: content,
	}, nil)
}

// CreateRun invokes the assistant against the thread's accumulated messages.
func (c *Client) CreateRun(ctx context.Context, threadID, assistantID string) (string, error) {
	var out runObject
	err := c.doJSON(ctx, http.MethodPost, "/threads/"+threadID+"/runs", createRunPayload{AssistantID: assistantID}, &out)
	if err != nil {
		return "", err
	}
	return out.ID, nil
}

// GetRun fetches the current status of a run.
func (c *Client) GetRun(ctx context.Context, threadID, runID string) (string, error) {
	var out runObject
	err := c.doJSON(ctx, http.MethodGet, "/threads/"+threadID+"/runs/"+runID, nil, &out)
	if err != nil {
		return "", err
	}
	return out.Status, nil
}

// PollRun polls the run at a fixed interval until it reaches a terminal
// state or the attempt budget runs out. The budget is enforced per run,
// independent of any caller-level deadline; a cancelled context stops local
// polling but the remote run keeps going.
func (c *Client) PollRun(ctx context.Context, threadID, runID string) error {
	for attempt := 0; attempt < c.pollAttempts; attempt++ {
		status, err := c.GetRun(ctx, threadID, runID)
		if err != nil {
			return err
		}
		switch status {
		case runStatusCompleted:
			return nil
		case runStatusFailed, runStatusCancelled, runStatusExpired:
			return fmt.Errorf("%w: run %s", ErrRunFailed, status)
		}

		timer := time.NewTimer(c.pollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return fmt.Errorf("%w: after %d attempts", ErrRunTimeout, c.pollAttempts)
}

// LatestAssistantReply returns the newest assistant-authored message text.
func (c *Client) LatestAssistantReply(ctx context.Context, threadID string) (string, error) {
	var out messageList
	err := c.doJSON(ctx, http.MethodGet, "/threads/"+threadID+"/messages?limit=5&order=desc", nil, &out)
	if err != nil {
		return "", err
	}
	for _, msg := range out.Data {
		if msg.Role != "assistant" {
			continue
		}
		for _, part := range msg.Content {
			if text := strings.TrimSpace(part.Text.Value); text != "" {
				return text, nil
			}
		}
	}
	return "", ErrEmptyReply
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("assistant: encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("assistant: build request %s %s: %w", method, path, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("OpenAI-Beta", "assistants=v2")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("assistant: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{Op: method + " " + path, Status: resp.StatusCode, Body: string(raw)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("assistant: decode %s %s: %w", method, path, err)
	}
	return nil
}
