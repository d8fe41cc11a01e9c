package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"datatalk/models"
)

type AIService struct {
	apiKey             string
	modelName          string
	httpClient         *http.Client
	apiURL             string
	lastRequestTime    time.Time     // Track last request time for rate limiting
	requestMutex       sync.Mutex    // Mutex to protect lastRequestTime
	minRequestInterval time.Duration // Minimum time between requests
}

// ModelTurn is one model response: either a plain answer (FunctionCall nil)
// or a request to invoke a tool. Content may be set in both cases.
type ModelTurn struct {
	Content      string
	FunctionCall *models.FunctionCall
}

type chatCompletionRequest struct {
	Model        string               `json:"model"`
	Messages     []models.ChatMessage `json:"messages"`
	Functions    []FunctionSpec       `json:"functions,omitempty"`
	FunctionCall string               `json:"function_call,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message      models.ChatMessage `json:"message"`
		FinishReason string             `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error,omitempty"`
}

func New(apiKey string, modelName string, baseURL string) (*AIService, error) {
	if modelName == "" {
		return nil, fmt.Errorf("model name is required")
	}
	return &AIService{
		apiKey:    apiKey,
		modelName: modelName,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		apiURL:             strings.TrimSuffix(baseURL, "/") + "/chat/completions",
		lastRequestTime:    time.Time{},
		minRequestInterval: 500 * time.Millisecond, // Minimum 500ms between requests
	}, nil
}

func (a *AIService) Close() error {
	// HTTP client doesn't require explicit closing
	return nil
}

// rateLimit ensures minimum time between requests to prevent burst rate errors
func (a *AIService) rateLimit() {
	a.requestMutex.Lock()
	defer a.requestMutex.Unlock()

	now := time.Now()
	timeSinceLastRequest := now.Sub(a.lastRequestTime)

	if timeSinceLastRequest < a.minRequestInterval {
		time.Sleep(a.minRequestInterval - timeSinceLastRequest)
	}

	a.lastRequestTime = time.Now()
}

// Complete sends the full ordered turn sequence plus the declared function
// schemas and returns the model's next turn. 429 responses are retried with
// exponential backoff; that retry is transport-level and applies only to the
// model call, never to tool dispatch.
func (a *AIService) Complete(ctx context.Context, messages []models.ChatMessage, functions []FunctionSpec) (*ModelTurn, error) {
	a.rateLimit()

	reqBody := chatCompletionRequest{
		Model:    a.modelName,
		Messages: messages,
	}
	if len(functions) > 0 {
		reqBody.Functions = functions
		reqBody.FunctionCall = "auto"
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	maxRetries := 3
	baseDelay := 2 * time.Second

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff: 2s, 4s, 8s
			delay := baseDelay * time.Duration(1<<uint(attempt-1))
			time.Sleep(delay)
			a.rateLimit()
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.apiURL, bytes.NewBuffer(jsonData))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", a.apiKey))
		req.Header.Set("Content-Type", "application/json")

		resp, err := a.httpClient.Do(req)
		if err != nil {
			if attempt < maxRetries {
				continue // Retry on network errors
			}
			return nil, fmt.Errorf("failed to send request: %w", err)
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			if attempt < maxRetries {
				continue
			}
			return nil, fmt.Errorf("failed to read response: %w", err)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			if attempt < maxRetries {
				continue // Retry with backoff
			}
			return nil, fmt.Errorf("model API returned status %d: %s. Max retries exceeded.", resp.StatusCode, string(body))
		}

		if resp.StatusCode != http.StatusOK {
			var completion chatCompletionResponse
			if err := json.Unmarshal(body, &completion); err == nil && completion.Error != nil {
				return nil, fmt.Errorf("model API error (status %d): %s - %s",
					resp.StatusCode, completion.Error.Code, completion.Error.Message)
			}
			return nil, fmt.Errorf("model API returned status %d: %s", resp.StatusCode, string(body))
		}

		var completion chatCompletionResponse
		if err := json.Unmarshal(body, &completion); err != nil {
			return nil, fmt.Errorf("failed to unmarshal response: %w", err)
		}
		if completion.Error != nil {
			return nil, fmt.Errorf("model API error: %s - %s", completion.Error.Code, completion.Error.Message)
		}
		if len(completion.Choices) == 0 {
			return nil, fmt.Errorf("no response from AI model")
		}

		message := completion.Choices[0].Message
		return &ModelTurn{
			Content:      message.Content,
			FunctionCall: message.FunctionCall,
		}, nil
	}

	return nil, fmt.Errorf("max retries exceeded")
}
