package handlers

import (
	"errors"
	"log"
	"net/http"

	"datatalk/service"

	"github.com/gin-gonic/gin"
)

// ListServicesHandler lists the data services the logged-in user can see.
// @Summary      List connected services
// @Tags         Platform
// @Produce      json
// @Success      200  {array}   service.Service
// @Failure      401  {object}  map[string]string  "Not logged in"
// @Router       /api/services [get]
func (h *Handlers) ListServicesHandler(c *gin.Context) {
	session := h.currentSession(c)
	if session == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please log in first"})
		return
	}

	platform, err := service.NewDataPlatformClient(h.cfg.Platform, session.Token)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}

	services, err := platform.ListServices(c.Request.Context())
	if err != nil {
		var forbidden *service.AccessForbiddenError
		if errors.As(err, &forbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": forbidden.Error()})
			return
		}
		log.Printf("[SERVICES] Error listing services: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list services"})
		return
	}
	c.JSON(http.StatusOK, services)
}
