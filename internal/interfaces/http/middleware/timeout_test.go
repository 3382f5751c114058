package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// deadlineWriter records the deadlines http.ResponseController sets on it.
type deadlineWriter struct {
	gin.ResponseWriter
	readDeadline  time.Time
	writeDeadline time.Time
}

func (w *deadlineWriter) SetReadDeadline(t time.Time) error {
	w.readDeadline = t
	return nil
}

func (w *deadlineWriter) SetWriteDeadline(t time.Time) error {
	w.writeDeadline = t
	return nil
}

func newDeadlineContext(t *testing.T) (*gin.Context, *deadlineWriter) {
	t.Helper()
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	w := &deadlineWriter{ResponseWriter: c.Writer}
	c.Writer = w
	req, err := http.NewRequest(http.MethodPost, "/api/upload/csv", nil)
	require.NoError(t, err)
	c.Request = req
	return c, w
}

func TestExtendDeadlines(t *testing.T) {
	t.Run("pushes read and write deadlines out by the extension", func(t *testing.T) {
		c, w := newDeadlineContext(t)

		before := time.Now()
		ExtendDeadlines(10 * time.Minute)(c)

		wantMin := before.Add(10 * time.Minute)
		assert.False(t, w.readDeadline.Before(wantMin), "read deadline %v earlier than %v", w.readDeadline, wantMin)
		assert.False(t, w.writeDeadline.Before(wantMin), "write deadline %v earlier than %v", w.writeDeadline, wantMin)
	})

	t.Run("zero extension leaves the deadlines alone", func(t *testing.T) {
		c, w := newDeadlineContext(t)

		ExtendDeadlines(0)(c)

		assert.True(t, w.readDeadline.IsZero())
		assert.True(t, w.writeDeadline.IsZero())
	})

	t.Run("writers without deadline support still serve the request", func(t *testing.T) {
		router := gin.New()
		router.Use(ExtendDeadlines(10 * time.Minute))
		router.POST("/upload/csv", func(c *gin.Context) {
			c.String(http.StatusOK, "ok")
		})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/upload/csv", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ok", w.Body.String())
	})
}
