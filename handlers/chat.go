package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"datatalk/ai"
	"datatalk/models"
	"datatalk/service"
	"datatalk/validation"

	"github.com/gin-gonic/gin"
)

// ChatHandler answers a natural-language question by running the AI tool
// loop against the data platform.
// @Summary      Ask a question
// @Description  Send a natural-language question; the AI queries the data platform (and optionally the web) and returns a cited answer plus the endpoints it touched
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Param        request  body      models.ChatRequest   true  "Chat request with message"
// @Success      200      {object}  models.ChatResponse  "Answer"
// @Failure      400      {object}  map[string]string    "Invalid request"
// @Failure      401      {object}  map[string]string    "Not logged in"
// @Failure      403      {object}  map[string]string    "Access denied by the platform"
// @Failure      500      {object}  map[string]string    "Internal server error"
// @Router       /api/chat [post]
func (h *Handlers) ChatHandler(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if !validation.IsValidPrompt(req.Message) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "The request appears to be invalid or gibberish. Please provide a meaningful message."})
		return
	}

	session := h.currentSession(c)
	if session == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please log in first"})
		return
	}

	log.Printf("[CHAT HANDLER] User: %s, Message: %s", session.Email, req.Message)

	// A fresh client per request: its schema cache and endpoint log belong
	// to this conversation turn only.
	platform, err := service.NewDataPlatformClient(h.cfg.Platform, session.Token)
	if err != nil {
		if errors.Is(err, service.ErrNotAuthenticated) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Please log in first"})
			return
		}
		log.Printf("[CHAT HANDLER] Error creating platform client: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}

	orchestrator := ai.NewOrchestrator(h.aiService, platform, h.searchClient)
	result, err := orchestrator.Run(c.Request.Context(), req.Message)
	if err != nil {
		var forbidden *service.AccessForbiddenError
		if errors.As(err, &forbidden) {
			message := "You don't have permission to access that resource."
			if forbidden.Resource != "" {
				message = fmt.Sprintf("You don't have permission to access %s.", forbidden.Resource)
			}
			c.JSON(http.StatusForbidden, gin.H{"error": message})
			return
		}
		// Full detail stays server-side; the user gets an opaque failure.
		log.Printf("[CHAT HANDLER] Orchestration failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to answer the question"})
		return
	}

	if err := h.db.StoreChatHistory(session.Email, models.ChatHistory{
		Message:   req.Message,
		Response:  result.Answer,
		Endpoints: result.Endpoints,
	}); err != nil {
		log.Printf("[CHAT HANDLER] Error storing chat history: %v", err)
	}

	c.JSON(http.StatusOK, models.ChatResponse{
		Response:  result.Answer,
		Reasoning: result.Reasoning,
		Endpoints: result.Endpoints,
	})
}
