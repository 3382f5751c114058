package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ExtendDeadlines pushes the connection read and write deadlines out by d
// for the routes it is mounted on. The server-wide timeouts are sized for
// small JSON requests; streaming a large CSV body in and flushing the
// response after a long ingestion run both need more headroom.
func ExtendDeadlines(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d > 0 {
			rc := http.NewResponseController(c.Writer)
			deadline := time.Now().Add(d)
			// Writers without an underlying connection (test recorders)
			// report ErrNotSupported; the request proceeds either way.
			_ = rc.SetReadDeadline(deadline)
			_ = rc.SetWriteDeadline(deadline)
		}
		c.Next()
	}
}
