package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ChatHistoryHandler returns the logged-in user's chat history, newest
// first.
// @Summary      List chat history
// @Tags         Chat
// @Produce      json
// @Param        limit  query     int  false  "Maximum entries to return"
// @Success      200    {array}   models.ChatHistory
// @Failure      401    {object}  map[string]string  "Not logged in"
// @Router       /api/chat/history [get]
func (h *Handlers) ChatHistoryHandler(c *gin.Context) {
	session := h.currentSession(c)
	if session == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please log in first"})
		return
	}

	limit := 50
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	history, err := h.db.GetChatHistory(session.Email, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, history)
}
