package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"photovote/internal/models"
	"photovote/internal/store"
)

// Session and context keys.
const (
	SessionUserKey = "userID"
	ContextUserKey = "currentUser"
	RequestIDKey   = "requestID"
)

// RequestID tags every request with a v4 UUID, exposed as the
// X-Request-ID response header and available to log statements.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.NewString()
		c.Set(RequestIDKey, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// Logger emits one structured line per completed request.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Info("request completed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", c.GetString(RequestIDKey),
		)
	}
}

// CurrentUser resolves the session's userID into a *models.User and
// stores it in the gin context. Requests without a session pass through
// with no identity set. A session whose user no longer exists or whose
// value has the wrong type is cleared.
func CurrentUser(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		raw := session.Get(SessionUserKey)
		if raw == nil {
			c.Next()
			return
		}

		userID, ok := raw.(int64)
		if !ok {
			slog.Warn("corrupt session value, clearing", "type_got", raw, "ip", c.ClientIP())
			clearSession(session)
			c.Next()
			return
		}

		user, err := st.UserByID(userID)
		if err != nil {
			slog.Warn("session user not resolvable, clearing", "user_id", userID, "error", err)
			clearSession(session)
			c.Next()
			return
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// AuthRequired rejects requests without an authenticated identity.
// Browsers are redirected to the login page.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if UserFromContext(c) == nil {
			slog.Info("unauthenticated access denied", "path", c.Request.URL.Path, "ip", c.ClientIP())
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// UserFromContext returns the authenticated user for this request, or
// nil when there is none.
func UserFromContext(c *gin.Context) *models.User {
	raw, exists := c.Get(ContextUserKey)
	if !exists {
		return nil
	}
	user, ok := raw.(*models.User)
	if !ok {
		return nil
	}
	return user
}

func clearSession(session sessions.Session) {
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		slog.Error("failed to clear session", "error", err)
	}
}
