package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datatalk/cache"
)

func TestSearchSummary(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		require.Equal(t, "test-key", r.Header.Get("X-API-KEY"))
		writeJSON(w, map[string]interface{}{
			"knowledgeGraph": map[string]string{
				"title":       "Abbeville",
				"type":        "City in Louisiana",
				"description": "Abbeville is the seat of Vermilion Parish.",
			},
			"organic": []map[string]string{
				{"title": "Abbeville, LA", "snippet": "Official site", "link": "https://example.com/abbeville"},
			},
		})
	}))
	defer server.Close()

	client := NewSearchClient("test-key", cache.New())
	client.apiURL = server.URL

	summary, err := client.Search(context.Background(), "Abbeville")
	require.NoError(t, err)
	assert.Contains(t, summary, "Abbeville (City in Louisiana)")
	assert.Contains(t, summary, "https://example.com/abbeville")

	// Second identical query is served from cache.
	_, err = client.Search(context.Background(), "Abbeville")
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestSearchNoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]interface{}{})
	}))
	defer server.Close()

	client := NewSearchClient("test-key", cache.New())
	client.apiURL = server.URL

	summary, err := client.Search(context.Background(), "nothing at all")
	require.NoError(t, err)
	assert.Equal(t, "No results found.", summary)
}
