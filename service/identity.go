package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"datatalk/config"
	"datatalk/models"
)

// IdentityClient issues and revokes platform sessions. Unlike the data
// client it is long-lived: it carries no per-user state, only the static
// service key.
type IdentityClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewIdentityClient(cfg config.PlatformConfig) *IdentityClient {
	return &IdentityClient{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Login exchanges credentials for a session token at the platform's
// identity endpoint.
func (c *IdentityClient) Login(ctx context.Context, email, password string) (*models.Session, error) {
	reqBody, err := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/user/session", bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apiKeyHeader, c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach identity endpoint: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, upstreamError(resp.StatusCode, body)
	}

	var payload struct {
		SessionToken string `json:"session_token"`
		Email        string `json:"email"`
		Name         string `json:"name"`
		FirstName    string `json:"first_name"`
		LastName     string `json:"last_name"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if payload.SessionToken == "" {
		return nil, fmt.Errorf("identity endpoint returned no session token")
	}

	name := payload.Name
	if name == "" {
		name = strings.TrimSpace(payload.FirstName + " " + payload.LastName)
	}
	return &models.Session{
		Token:     payload.SessionToken,
		Email:     payload.Email,
		Name:      name,
		CreatedAt: time.Now().Format(time.RFC3339),
	}, nil
}

// Logout revokes a session token upstream.
func (c *IdentityClient) Logout(ctx context.Context, sessionToken string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/user/session", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(apiKeyHeader, c.apiKey)
	req.Header.Set(sessionTokenHeader, sessionToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach identity endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return upstreamError(resp.StatusCode, body)
	}
	return nil
}
