package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	classifier "github.com/FrenchMajesty/zeroshot-classifier"
	"github.com/FrenchMajesty/zeroshot-classifier/types"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
	sessionKey      = "session"
)

// RequestID propagates X-Request-ID or generates a new one
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(requestIDKey, requestID)
		c.Header(requestIDHeader, requestID)
		c.Next()
	}
}

// Logger logs every request once it completes
func Logger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.String("client_ip", c.ClientIP()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", c.GetString(requestIDKey)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case status >= http.StatusInternalServerError:
			logger.Error("request failed", fields...)
		case status >= http.StatusBadRequest:
			logger.Warn("request rejected", fields...)
		default:
			logger.Info("request completed", fields...)
		}
	}
}

// Recovery turns panics into a 500 response
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered",
					zap.Any("panic", r),
					zap.String("path", c.Request.URL.Path),
					zap.String("request_id", c.GetString(requestIDKey)),
					zap.Stack("stack"),
				)
				respondError(c, http.StatusInternalServerError, CodeInternal, "internal server error")
				c.Abort()
			}
		}()
		c.Next()
	}
}

// CORS allows browser clients on other origins to call the API
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		c.Header("Access-Control-Expose-Headers", "X-Request-ID, Content-Disposition")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// SessionCookie configures the session cookie
type SessionCookie struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

// Session loads the caller's session from store, or starts a new one, and saves it after the handler runs
func Session(store classifier.SessionStore, cookie SessionCookie, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var session *types.Session
		if id, err := c.Cookie(cookie.Name); err == nil && id != "" {
			loaded, err := store.Get(ctx, id)
			switch {
			case err == nil:
				session = loaded
			case errors.Is(err, types.ErrSessionNotFound):
			default:
				logger.Error("failed to load session", zap.String("session_id", id), zap.Error(err))
				respondError(c, http.StatusInternalServerError, CodeInternal, "internal server error")
				c.Abort()
				return
			}
		}
		if session == nil {
			session = classifier.NewSession()
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cookie.Name, session.ID, int(cookie.TTL.Seconds()), "/", "", cookie.Secure, true)
		c.Set(sessionKey, session)

		c.Next()

		if err := store.Save(ctx, session); err != nil {
			logger.Error("failed to save session", zap.String("session_id", session.ID), zap.Error(err))
		}
	}
}

func sessionFrom(c *gin.Context) *types.Session {
	if value, ok := c.Get(sessionKey); ok {
		if session, ok := value.(*types.Session); ok {
			return session
		}
	}
	return classifier.NewSession()
}
