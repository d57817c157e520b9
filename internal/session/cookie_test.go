package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runMiddleware(t *testing.T, m *Manager, cookie *http.Cookie) (string, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen string
	err := m.Middleware()(func(c echo.Context) error {
		seen = ID(c)
		return c.NoContent(http.StatusNoContent)
	})(c)
	require.NoError(t, err)
	return seen, rec
}

func TestManagerIssuesSession(t *testing.T) {
	m := NewManager("secret", time.Hour, false)

	id, rec := runMiddleware(t, m, nil)
	require.NotEmpty(t, id)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.Equal(t, 3600, cookies[0].MaxAge)
	assert.True(t, cookies[0].HttpOnly)

	got, ok := m.Verify(cookies[0].Value)
	assert.True(t, ok)
	assert.Equal(t, id, got)
}

func TestManagerKeepsValidSession(t *testing.T) {
	m := NewManager("secret", time.Hour, false)

	id, _ := runMiddleware(t, m, &http.Cookie{Name: CookieName, Value: m.Sign("abc")})
	assert.Equal(t, "abc", id)
}

func TestManagerRejectsForgedSession(t *testing.T) {
	m := NewManager("secret", time.Hour, false)
	other := NewManager("other-secret", time.Hour, false)

	id, _ := runMiddleware(t, m, &http.Cookie{Name: CookieName, Value: other.Sign("abc")})
	assert.NotEqual(t, "abc", id)
	assert.NotEmpty(t, id)

	_, ok := m.Verify("no-signature")
	assert.False(t, ok)
	_, ok = m.Verify(".sig")
	assert.False(t, ok)
}
