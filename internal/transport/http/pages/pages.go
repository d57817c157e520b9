// Package pages serves the server-rendered pages and static assets.
package pages

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/yuin/goldmark"

	"github.com/xiaot623/gogo/memorychat/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed public
var publicFS embed.FS

const defaultHistoryLimit = 100

// HistoryReader returns the most recent persisted exchanges.
type HistoryReader interface {
	History(ctx context.Context, limit int) []domain.Exchange
}

// Renderer renders the embedded html templates for echo.
type Renderer struct {
	templates *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	t, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{templates: t}, nil
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

// Handler serves the pages.
type Handler struct {
	history  HistoryReader
	markdown goldmark.Markdown
}

func NewHandler(history HistoryReader) *Handler {
	return &Handler{
		history:  history,
		markdown: goldmark.New(),
	}
}

// RegisterRoutes registers pages and static files. The echo instance must have
// a Renderer from NewRenderer.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Index)
	e.GET("/chat", h.Chat)
	e.GET("/history", h.History)

	e.StaticFS("/", echo.MustSubFS(publicFS, "public"))
}

func (h *Handler) Index(c echo.Context) error {
	return c.Render(http.StatusOK, "index.html", nil)
}

func (h *Handler) Chat(c echo.Context) error {
	return c.Render(http.StatusOK, "chat.html", nil)
}

type historyRow struct {
	Timestamp string
	User      string
	Bot       template.HTML
}

type historyData struct {
	Rows  []historyRow
	Limit int
}

// History renders the persisted exchanges, oldest first.
// GET /history?limit=N
func (h *Handler) History(c echo.Context) error {
	limit := defaultHistoryLimit
	if l := c.QueryParam("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil {
			limit = val
		}
	}

	exchanges := h.history.History(c.Request().Context(), limit)
	rows := make([]historyRow, 0, len(exchanges))
	for _, ex := range exchanges {
		rows = append(rows, historyRow{
			Timestamp: ex.Timestamp.Local().Format(time.DateTime),
			User:      ex.User,
			Bot:       h.renderMarkdown(ex.Bot),
		})
	}

	return c.Render(http.StatusOK, "history.html", historyData{Rows: rows, Limit: limit})
}

// renderMarkdown converts a reply to HTML. goldmark drops raw HTML by default;
// on failure the escaped text is used.
func (h *Handler) renderMarkdown(text string) template.HTML {
	var buf bytes.Buffer
	if err := h.markdown.Convert([]byte(text), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(text))
	}
	return template.HTML(buf.String())
}
