package api

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/youruser/eidqr/internal/logger"
	"github.com/youruser/eidqr/internal/notify"
	"github.com/youruser/eidqr/internal/session"
)

// SessionCookie names the cookie that identifies a page session.
const SessionCookie = "eidqr_session"

const (
	sessionKey  = "session"
	recorderKey = "notifications"
)

// requestLogger logs each request and puts l into the request context.
func requestLogger(l *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context(), l))

		c.Next()

		l.Info("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"took", time.Since(start).Round(time.Microsecond),
		)
	}
}

// withSession resolves the page session from its cookie, starting a new one
// when the cookie is missing or stale, and attaches a notification recorder.
func (h *Handler) withSession(c *gin.Context) {
	id, _ := c.Cookie(SessionCookie)
	sess, created := h.sessions.GetOrCreate(id)
	if created {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, sess.ID, int(h.cookieMaxAge.Seconds()), "/", "", false, true)
	}
	c.Set(sessionKey, sess)
	c.Set(recorderKey, &notify.Recorder{})
	c.Next()
}

func currentSession(c *gin.Context) *session.Session {
	return c.MustGet(sessionKey).(*session.Session)
}

func recorder(c *gin.Context) *notify.Recorder {
	if r, ok := c.Get(recorderKey); ok {
		return r.(*notify.Recorder)
	}
	return &notify.Recorder{}
}
