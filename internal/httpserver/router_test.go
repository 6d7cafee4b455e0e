package httpserver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubPinger struct {
	err error
}

func (p *stubPinger) Ping(ctx context.Context) error { return p.err }

func performGet(t *testing.T, r *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestReadyzOK(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(Handlers{}, zap.NewNop(), &stubPinger{}, nil, "")

	w := performGet(t, r, "/readyz")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ready")
}

func TestReadyzDBNotReady(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(Handlers{}, zap.NewNop(), &stubPinger{err: errors.New("pool closed")}, nil, "")

	w := performGet(t, r, "/readyz")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "db_not_ready")
}

func TestReadyzMQNotReady(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(Handlers{}, zap.NewNop(), &stubPinger{}, func() bool { return false }, "")

	w := performGet(t, r, "/readyz")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "mq_not_ready")
}

func TestReadyzMQReady(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(Handlers{}, zap.NewNop(), &stubPinger{}, func() bool { return true }, "")

	w := performGet(t, r, "/readyz")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealthz(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(Handlers{}, zap.NewNop(), &stubPinger{}, nil, "")

	w := performGet(t, r, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAPIRequiresAuthWhenSecretSet(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(Handlers{}, zap.NewNop(), &stubPinger{}, nil, "secret")

	w := performGet(t, r, "/api/tasks")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
