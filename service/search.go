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

	"datatalk/cache"
)

// SearchClient is a facade over a third-party web-search API. It condenses
// the raw results into a short textual summary the model can fold into its
// answer. Results are cached per query since the engine is stable within a
// session.
type SearchClient struct {
	apiKey     string
	apiURL     string
	httpClient *http.Client
	cache      *cache.Cache
}

type SearchResultItem struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Link    string `json:"link"`
}

func NewSearchClient(apiKey string, appCache *cache.Cache) *SearchClient {
	return &SearchClient{
		apiKey: apiKey,
		apiURL: "https://google.serper.dev/search",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		cache: appCache,
	}
}

// Search runs a web query and returns a condensed summary: the knowledge
// graph block when present, then the top organic results.
func (s *SearchClient) Search(ctx context.Context, query string) (string, error) {
	cacheKey := "search:" + query
	if cached, found := s.cache.Get(cacheKey); found {
		return cached.(string), nil
	}

	reqBody, err := json.Marshal(map[string]string{"q": query})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewBuffer(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to reach search API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("search API returned status %d: %s", resp.StatusCode, string(body))
	}

	var payload struct {
		Organic        []SearchResultItem `json:"organic"`
		KnowledgeGraph struct {
			Title       string `json:"title"`
			Type        string `json:"type"`
			Description string `json:"description"`
		} `json:"knowledgeGraph"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	var summary strings.Builder
	if payload.KnowledgeGraph.Title != "" {
		summary.WriteString(fmt.Sprintf("%s (%s): %s\n", payload.KnowledgeGraph.Title,
			payload.KnowledgeGraph.Type, payload.KnowledgeGraph.Description))
	}
	maxResults := 5
	for i, item := range payload.Organic {
		if i >= maxResults {
			break
		}
		summary.WriteString(fmt.Sprintf("- %s: %s (%s)\n", item.Title, item.Snippet, item.Link))
	}
	if summary.Len() == 0 {
		summary.WriteString("No results found.")
	}

	result := strings.TrimSpace(summary.String())
	s.cache.SetDefault(cacheKey, result)
	return result, nil
}
