package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/session"
	"github.com/DhruvJohri/Time-Table-Scheduler-Major/pkg/response"
)

// SessionAuth gates routes that need a live upstream token. The server
// holds the token itself; the UI only carries the session, so expiry shows
// up here as a 401 prompting a fresh login.
func SessionAuth(sess *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !sess.Authenticated() {
			response.Unauthorized(c, 10002, "session expired, log in again")
			c.Abort()
			return
		}

		c.Next()
	}
}
