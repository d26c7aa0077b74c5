package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medetbek/taskplanner/internal/log"
	"github.com/medetbek/taskplanner/internal/queue"
)

// OAuthLogin godoc
// @Summary Redirect to the provider's consent screen
// @Tags auth
// @Param provider path string true "google or github"
// @Success 302
// @Failure 404 {object} map[string]string
// @Router /auth/{provider}/login [get]
func (h *Handler) OAuthLogin(c *gin.Context) {
	p, ok := h.Providers[c.Param("provider")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": errNotFound})
		return
	}
	state := h.Signer.MakeState(uuid.NewString())
	c.Redirect(http.StatusFound, p.AuthURL(state))
}

// OAuthCallback consumes the provider's verified output and funnels it into
// the same user/session path as local login.
//
// OAuthCallback godoc
// @Summary Provider callback: exchange code, issue session
// @Tags auth
// @Param provider path string true "google or github"
// @Param code query string true "authorization code"
// @Param state query string true "signed state"
// @Success 302
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /auth/{provider}/callback [get]
func (h *Handler) OAuthCallback(c *gin.Context) {
	p, ok := h.Providers[c.Param("provider")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": errNotFound})
		return
	}
	if !h.Signer.VerifyState(c.Query("state")) {
		c.JSON(http.StatusBadRequest, gin.H{"error": errValidation})
		return
	}
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errValidation})
		return
	}

	ident, err := p.Exchange(c.Request.Context(), code)
	if err != nil {
		log.Errorf("oauth %s exchange: %v", p.Name(), err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": errNotAuthorized})
		return
	}

	u, err := h.Users.FindOrCreateByExternalID(c.Request.Context(), p.Name(), ident.ExternalID, ident.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "account link failed"})
		return
	}

	tok, err := h.Sessions.Create(c.Request.Context(), u.ID.Hex())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session create failed"})
		return
	}
	h.setSessionCookie(c, tok)

	go h.Events.Publish(c.Request.Context(), queue.Exchange, queue.KeyLoggedIn,
		queue.UserLoggedIn{UserID: u.ID, Email: u.Email, Provider: p.Name()}, requestID(c))

	c.Redirect(http.StatusFound, h.FrontendURL)
}
