package handlers

import (
	"log"
	"net/http"

	"datatalk/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// LoginHandler relays credentials to the platform identity endpoint and
// establishes a session.
// @Summary      Log in
// @Description  Exchange email and password for a session cookie
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      models.LoginRequest  true  "Credentials"
// @Success      200      {object}  models.LoginResponse
// @Failure      400      {object}  map[string]string  "Invalid request"
// @Failure      401      {object}  map[string]string  "Login failed"
// @Router       /api/login [post]
func (h *Handlers) LoginHandler(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	session, err := h.identity.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		log.Printf("[AUTH] Login failed for %s: %v", req.Email, err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Login failed"})
		return
	}

	// The upstream token stays server-side; the browser only gets an opaque ID.
	id := uuid.New().String()
	if err := h.db.StoreSession(id, *session); err != nil {
		log.Printf("[AUTH] Error storing session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store session"})
		return
	}

	c.SetCookie(sessionCookie, id, 86400, "/", "", false, true)
	c.JSON(http.StatusOK, models.LoginResponse{
		Email: session.Email,
		Name:  session.Name,
	})
}

// LogoutHandler revokes the session upstream and clears the cookie.
// @Summary      Log out
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /api/logout [post]
func (h *Handlers) LogoutHandler(c *gin.Context) {
	id, err := c.Cookie(sessionCookie)
	if err == nil && id != "" {
		if session, err := h.db.GetSession(id); err == nil {
			if err := h.identity.Logout(c.Request.Context(), session.Token); err != nil {
				// Local logout still proceeds; the upstream token expires on its own.
				log.Printf("[AUTH] Error revoking upstream session: %v", err)
			}
		}
		if err := h.db.DeleteSession(id); err != nil {
			log.Printf("[AUTH] Error deleting session: %v", err)
		}
	}

	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"status": "logged_out"})
}

// currentSession resolves the request's session record, or nil when the
// user is not logged in.
func (h *Handlers) currentSession(c *gin.Context) *models.Session {
	id, err := c.Cookie(sessionCookie)
	if err != nil || id == "" {
		return nil
	}
	session, err := h.db.GetSession(id)
	if err != nil {
		return nil
	}
	return session
}
