package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	// CookieName carries the signed session id.
	CookieName = "memorychat_sid"
	contextKey = "session_id"
)

// Manager issues and verifies session cookies.
type Manager struct {
	secret []byte
	maxAge time.Duration
	secure bool
}

// NewManager signs ids with secret; cookies live for maxAge and are refreshed
// on every request.
func NewManager(secret string, maxAge time.Duration, secure bool) *Manager {
	if maxAge <= 0 {
		maxAge = DefaultTTL
	}
	return &Manager{secret: []byte(secret), maxAge: maxAge, secure: secure}
}

// Middleware resolves the caller's session id (issuing a new one when the
// cookie is missing or forged) and stores it on the echo context.
func (m *Manager) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := ""
			if cookie, err := c.Cookie(CookieName); err == nil {
				id, _ = m.Verify(cookie.Value)
			}
			if id == "" {
				id = uuid.New().String()
			}

			c.SetCookie(&http.Cookie{
				Name:     CookieName,
				Value:    m.Sign(id),
				Path:     "/",
				MaxAge:   int(m.maxAge.Seconds()),
				HttpOnly: true,
				Secure:   m.secure,
				SameSite: http.SameSiteLaxMode,
			})
			SetID(c, id)
			return next(c)
		}
	}
}

// Sign returns "id.signature".
func (m *Manager) Sign(id string) string {
	return id + "." + m.signature(id)
}

// Verify returns the id of a signed value.
func (m *Manager) Verify(value string) (string, bool) {
	id, sig, ok := strings.Cut(value, ".")
	if !ok || id == "" {
		return "", false
	}
	if !hmac.Equal([]byte(sig), []byte(m.signature(id))) {
		return "", false
	}
	return id, true
}

func (m *Manager) signature(id string) string {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(id))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// SetID attaches a session id to c.
func SetID(c echo.Context, id string) {
	c.Set(contextKey, id)
}

// ID returns the session id resolved by Middleware, or "" outside it.
func ID(c echo.Context) string {
	id, _ := c.Get(contextKey).(string)
	return id
}
