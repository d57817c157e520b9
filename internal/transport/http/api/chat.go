package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xiaot623/gogo/memorychat/internal/domain"
	"github.com/xiaot623/gogo/memorychat/internal/session"
)

// GenericErrorMessage is the error field of failed chat responses.
const GenericErrorMessage = "An error occurred"

// ChatRequest is the body of POST /api/chat (JSON or form encoded).
type ChatRequest struct {
	Message string `json:"message" form:"message"`
}

// ChatResponse is the success body of POST /api/chat.
type ChatResponse struct {
	Reply string `json:"reply"`
}

// ErrorResponse is the failure body of the chat endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Chat answers one message.
// POST /api/chat
func (h *Handler) Chat(c echo.Context) error {
	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Details: err.Error()})
	}

	reply, err := h.service.Chat(c.Request().Context(), session.ID(c), req.Message)
	if err != nil {
		status, body := ErrorBody(err)
		return c.JSON(status, body)
	}

	return c.JSON(http.StatusOK, ChatResponse{Reply: reply})
}

// ErrorBody maps a chat error to its status code and envelope.
func ErrorBody(err error) (int, ErrorResponse) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		msg := "Message rejected"
		if verr == domain.ErrEmptyMessage {
			msg = "Message must not be empty"
		}
		return http.StatusBadRequest, ErrorResponse{Error: msg, Details: verr.Reason}
	}

	var perr *domain.ProviderError
	if errors.As(err, &perr) {
		return http.StatusInternalServerError, ErrorResponse{Error: GenericErrorMessage, Details: perr.Err.Error()}
	}

	return http.StatusInternalServerError, ErrorResponse{Error: GenericErrorMessage, Details: err.Error()}
}
