package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/medetbek/taskplanner/internal/domain"
	"github.com/medetbek/taskplanner/internal/log"
	"github.com/medetbek/taskplanner/internal/queue"
	"github.com/medetbek/taskplanner/internal/repo"
	"github.com/medetbek/taskplanner/internal/security"
)

// Error kinds surfaced to the client. 401 keeps the exact literal the
// original frontend matches on.
const (
	errValidation    = "ValidationError"
	errDuplicate     = "DuplicateEmail"
	errInvalidCred   = "InvalidCredential"
	errNotFound      = "NotFound"
	errNotAuthorized = "Not authorized"
)

const SessionCookieName = "noted_session"

func (h *Handler) setSessionCookie(c *gin.Context, token string) {
	if h.CookieSecure {
		// cross-site frontend needs SameSite=None; None requires Secure
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
	}
	c.SetCookie(SessionCookieName, token, int(h.SessionTTL.Seconds()), "/", "", h.CookieSecure, true)
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	c.SetCookie(SessionCookieName, "", -1, "/", "", h.CookieSecure, true)
}

type registerReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register godoc
// @Summary Register a local account
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body registerReq true "register"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var in registerReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errValidation})
		return
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if !strings.Contains(email, "@") || in.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errValidation})
		return
	}
	if u, _ := h.Users.FindUserByEmail(c.Request.Context(), email); u != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errDuplicate})
		return
	}
	hash, err := security.HashPassword(in.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "hash failed"})
		return
	}
	u := &domain.User{Email: email, PasswordHash: hash, Provider: "local"}
	if err := h.Users.CreateUser(c.Request.Context(), u); err != nil {
		// the unique index closes the find/insert race
		if errors.Is(err, repo.ErrDuplicateEmail) {
			c.JSON(http.StatusBadRequest, gin.H{"error": errDuplicate})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}

	go h.Events.Publish(c.Request.Context(), queue.Exchange, queue.KeyRegistered,
		queue.UserRegistered{UserID: u.ID, Email: u.Email}, requestID(c))

	c.JSON(http.StatusOK, gin.H{"message": "User registered successfully"})
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login godoc
// @Summary Login with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body loginReq true "login"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var in loginReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errValidation})
		return
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	u, err := h.Users.FindUserByEmail(c.Request.Context(), email)
	if err != nil || u == nil || !security.CheckPassword(u.PasswordHash, in.Password) {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidCred})
		return
	}

	tok, err := h.Sessions.Create(c.Request.Context(), u.ID.Hex())
	if err != nil {
		log.Errorf("session create: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session create failed"})
		return
	}
	h.setSessionCookie(c, tok)

	go h.Events.Publish(c.Request.Context(), queue.Exchange, queue.KeyLoggedIn,
		queue.UserLoggedIn{UserID: u.ID, Email: u.Email, Provider: "local"}, requestID(c))

	c.JSON(http.StatusOK, gin.H{"message": "Logged in", "userId": u.ID.Hex()})
}

// Logout godoc
// @Summary Destroy the current session
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string
// @Router /auth/logout [get]
func (h *Handler) Logout(c *gin.Context) {
	if tok, err := c.Cookie(SessionCookieName); err == nil && tok != "" {
		if err := h.Sessions.Destroy(c.Request.Context(), tok); err != nil {
			log.Errorf("session destroy: %v", err)
		}
	}
	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Status godoc
// @Summary Report whether the caller holds a live session
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]bool
// @Router /auth/status [get]
func (h *Handler) Status(c *gin.Context) {
	loggedIn := false
	if tok, err := c.Cookie(SessionCookieName); err == nil && tok != "" {
		uid, err := h.Sessions.Resolve(c.Request.Context(), tok)
		loggedIn = err == nil && uid != ""
	}
	c.JSON(http.StatusOK, gin.H{"loggedIn": loggedIn})
}

type changePasswordReq struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// ChangePassword godoc
// @Summary Replace the acting user's password
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body changePasswordReq true "passwords"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /auth/change-password [post]
func (h *Handler) ChangePassword(c *gin.Context) {
	var in changePasswordReq
	if err := c.ShouldBindJSON(&in); err != nil || in.NewPassword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errValidation})
		return
	}
	uid := actingUser(c)
	u, err := h.Users.FindUserByID(c.Request.Context(), uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if u == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": errNotFound})
		return
	}
	if !security.CheckPassword(u.PasswordHash, in.OldPassword) {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidCred})
		return
	}
	hash, err := security.HashPassword(in.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "hash failed"})
		return
	}
	if err := h.Users.UpdatePassword(c.Request.Context(), uid, hash); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

// Healthz godoc
// @Summary Liveness probe
// @Tags ops
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /healthz [get]
func (h *Handler) Healthz(c *gin.Context) {
	if err := h.DB.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// actingUser returns the user id bound by RequireSession.
func actingUser(c *gin.Context) primitive.ObjectID {
	v, _ := c.Get(ctxUserKey)
	uid, _ := v.(primitive.ObjectID)
	return uid
}
