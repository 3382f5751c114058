package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testRegistrar struct {
	path   string
	called bool
}

func (r *testRegistrar) RegisterRoutes(rg *gin.RouterGroup) {
	r.called = true
	rg.GET(r.path, func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
}

func TestNewRouter(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	assert.NotNil(t, r)
	assert.Equal(t, "/api", r.basePath)
	assert.Empty(t, r.registrars)
}

func TestWithBasePath(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithBasePath("/internal"))

	assert.Equal(t, "/internal", r.basePath)
}

func TestRouterRegisterAndSetup(t *testing.T) {
	t.Run("mounts registrars under the base path", func(t *testing.T) {
		engine := gin.New()
		reg := &testRegistrar{path: "/ping"}

		NewRouter(engine).Register(reg).Setup()

		assert.True(t, reg.called)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/ping", nil)
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("registers multiple registrars", func(t *testing.T) {
		engine := gin.New()
		first := &testRegistrar{path: "/first"}
		second := &testRegistrar{path: "/second"}

		NewRouter(engine).Register(first).Register(second).Setup()

		for _, path := range []string{"/api/first", "/api/second"} {
			w := httptest.NewRecorder()
			req := httptest.NewRequest("GET", path, nil)
			engine.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code, path)
		}
	})

	t.Run("respects a custom base path", func(t *testing.T) {
		engine := gin.New()
		reg := &testRegistrar{path: "/ping"}

		NewRouter(engine, WithBasePath("/v2")).Register(reg).Setup()

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/v2/ping", nil)
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)

		w = httptest.NewRecorder()
		req = httptest.NewRequest("GET", "/api/ping", nil)
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
