package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/medetbek/taskplanner/internal/log"
	"github.com/medetbek/taskplanner/internal/metrics"
	"github.com/medetbek/taskplanner/internal/session"
)

const (
	ctxUserKey  = "uid"
	reqIDHeader = "X-Request-ID"
)

func requestID(c *gin.Context) string { return c.GetString(reqIDHeader) }

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(reqIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(reqIDHeader, id)
		c.Header(reqIDHeader, id)
		c.Next()
	}
}

func AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.L.Info("http",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", requestID(c)),
		)
	}
}

func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.InFlight.Inc()
		start := time.Now()
		c.Next()
		metrics.InFlight.Dec()
		metrics.ReqDuration.WithLabelValues(route, c.Request.Method).
			Observe(time.Since(start).Seconds())
		metrics.RequestsTotal.WithLabelValues(route, c.Request.Method,
			strconv.Itoa(c.Writer.Status())).Inc()
	}
}

// RequireSession is the gate in front of every task route and
// change-password. It only reads: resolve the cookie, bind the user id, or
// reject. It never creates or touches sessions.
func RequireSession(s session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, err := c.Cookie(SessionCookieName)
		if err != nil || tok == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errNotAuthorized})
			return
		}
		uidHex, err := s.Resolve(c.Request.Context(), tok)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "session lookup failed"})
			return
		}
		if uidHex == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errNotAuthorized})
			return
		}
		uid, err := primitive.ObjectIDFromHex(uidHex)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errNotAuthorized})
			return
		}
		c.Set(ctxUserKey, uid)
		c.Next()
	}
}
