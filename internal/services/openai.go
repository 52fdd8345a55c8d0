package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/jwebster45206/adventure-engine/pkg/campaign"
	"github.com/jwebster45206/adventure-engine/pkg/state"
)

const (
	openAIBaseURL = "https://api.openai.com/v1"

	// Keeps responses short; the prompts ask for ~120 words / 1 sentence.
	maxOutputTokens = 150

	requestTimeout = 30 * time.Second
	maxAttempts    = 3
	retryBaseDelay = time.Second
)

// OpenAINarrator implements Narrator over the OpenAI chat completions API.
// Persistent API failures degrade to the stub's canned lines; callers never
// see an error from narration.
type OpenAINarrator struct {
	apiKey     string
	modelName  string
	baseURL    string
	httpClient *http.Client
	registry   *campaign.Registry
	logger     *slog.Logger
	retryDelay time.Duration
	stub       StubNarrator
}

var _ Narrator = (*OpenAINarrator)(nil)

// chatCompletionRequest is the request body for POST /chat/completions.
type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatCompletionResponse is the subset of the response we consume.
type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
			Refusal string `json:"refusal,omitempty"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error,omitempty"`
}

// NewOpenAINarrator creates a narrator backed by the OpenAI API.
func NewOpenAINarrator(apiKey, modelName string, registry *campaign.Registry, logger *slog.Logger) *OpenAINarrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &OpenAINarrator{
		apiKey:    apiKey,
		modelName: modelName,
		baseURL:   openAIBaseURL,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		registry:   registry,
		logger:     logger,
		retryDelay: retryBaseDelay,
	}
}

// Narrate turns the rules result into game-master prose.
func (o *OpenAINarrator) Narrate(ctx context.Context, gs *state.GameState, playerInput, rulesResult string) (string, error) {
	user := gmUserPrompt(o.registry, gs, playerInput, rulesResult)
	text, err := o.chatWithRetry(ctx, gmSystemPrompt, user)
	if err != nil {
		o.logger.Warn("narration failed, using fallback", "error", err)
		return o.stub.Narrate(ctx, gs, playerInput, rulesResult)
	}
	return text, nil
}

// Suggest returns the companion's one-line advice.
func (o *OpenAINarrator) Suggest(ctx context.Context, gs *state.GameState) (string, error) {
	name := "Your companion"
	if c := gs.ActiveCompanion(); c != nil {
		name = c.Name
	}
	system := fmt.Sprintf(companionSystemPromptFmt, name)
	text, err := o.chatWithRetry(ctx, system, companionUserPrompt(o.registry, gs))
	if err != nil {
		o.logger.Warn("suggestion failed, using fallback", "error", err)
		return o.stub.Suggest(ctx, gs)
	}
	return text, nil
}

// chatWithRetry runs one chat completion with bounded retries and
// exponential backoff.
func (o *OpenAINarrator) chatWithRetry(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			delay := o.retryDelay << (attempt - 1)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
		}
		text, err := o.chat(ctx, systemPrompt, userPrompt)
		if err == nil {
			return text, nil
		}
		lastErr = err
		o.logger.Debug("chat completion attempt failed", "attempt", attempt+1, "error", err)
	}
	return "", fmt.Errorf("chat completion failed after %d attempts: %w", maxAttempts, lastErr)
}

func (o *OpenAINarrator) chat(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	request := chatCompletionRequest{
		Model: o.modelName,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: 0.6,
		MaxTokens:   maxOutputTokens,
	}

	reqBody, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", o.baseURL+"/chat/completions", bytes.NewBuffer(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if completion.Error != nil {
		return "", fmt.Errorf("API error: %s", completion.Error.Message)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("no choices returned from API")
	}

	choice := completion.Choices[0]
	if choice.Message.Refusal != "" {
		return "", fmt.Errorf("model refused to respond: %s", choice.Message.Refusal)
	}
	if choice.Message.Content == "" {
		return "", fmt.Errorf("no text content found in response")
	}
	return choice.Message.Content, nil
}
