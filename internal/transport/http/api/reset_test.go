package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaot623/gogo/memorychat/internal/domain"
	"github.com/xiaot623/gogo/memorychat/internal/repository"
)

type brokenBackend struct {
	*repository.MemoryBackend
}

func (brokenBackend) Write(context.Context, []byte) error {
	return errors.New("permission denied")
}

func TestResetSuccess(t *testing.T) {
	e := echo.New()
	h, deps := newTestHandler(t, nil, "hello")

	c, _ := postJSON(t, e, "/api/chat", `{"message":"hi"}`)
	require.NoError(t, h.Chat(c))

	c, rec := postJSON(t, e, "/api/reset", ``)
	require.NoError(t, h.Reset(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"message":"All conversations deleted"}`, rec.Body.String())

	assert.Empty(t, deps.log.Load(context.Background()))
	turns, ok := deps.sessions.Get("s1")
	assert.True(t, ok)
	assert.Equal(t, []domain.Turn{}, turns)
}

func TestResetFailure(t *testing.T) {
	e := echo.New()
	h, _ := newTestHandler(t, brokenBackend{repository.NewMemoryBackend()})

	c, rec := postJSON(t, e, "/api/reset", ``)
	require.NoError(t, h.Reset(c))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "permission denied")
}

func TestHealthAndModels(t *testing.T) {
	e := echo.New()
	h, _ := newTestHandler(t, nil)
	h.RegisterRoutes(e)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/models", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "scripted")
}
