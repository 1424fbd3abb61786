package httputil

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/AdamBeresnev/knockout/internal/bracket"
)

type errorBody struct {
	Error string `json:"error"`
}

func errorResponse(w http.ResponseWriter, status int, msg string) {
	if err := WriteJSON(w, status, errorBody{Error: msg}); err != nil {
		slog.Error("failed to write error response", "error", err)
	}
}

func InternalServerError(w http.ResponseWriter, msg string, err error) {
	slog.Error(msg, "error", err)
	errorResponse(w, http.StatusInternalServerError, "Internal Server Error")
}

func BadRequest(w http.ResponseWriter, msg string, err error) {
	if err != nil {
		slog.Warn("bad request", "message", msg, "error", err)
	} else {
		slog.Warn("bad request", "message", msg)
	}
	errorResponse(w, http.StatusBadRequest, msg)
}

func NotFound(w http.ResponseWriter, msg string, err error) {
	if err != nil {
		slog.Warn("not found", "message", msg, "error", err)
	} else {
		slog.Warn("not found", "message", msg)
	}
	errorResponse(w, http.StatusNotFound, msg)
}

func Conflict(w http.ResponseWriter, msg string, err error) {
	slog.Warn("conflict", "message", msg, "error", err)
	errorResponse(w, http.StatusConflict, msg)
}

func UnprocessableEntity(w http.ResponseWriter, msg string, err error) {
	slog.Warn("unprocessable entity", "message", msg, "error", err)
	errorResponse(w, http.StatusUnprocessableEntity, msg)
}

// Error picks the response for an error coming out of the service layer.
// msg is logged for failures the client cannot act on.
func Error(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, bracket.ErrNotFound):
		NotFound(w, err.Error(), err)
	case errors.Is(err, bracket.ErrBracketExists):
		Conflict(w, err.Error(), err)
	case errors.Is(err, bracket.ErrAlreadyCompleted),
		errors.Is(err, bracket.ErrInvalidWinner),
		errors.Is(err, bracket.ErrMatchPending):
		UnprocessableEntity(w, err.Error(), err)
	case errors.Is(err, bracket.ErrInvalidInput):
		BadRequest(w, err.Error(), err)
	default:
		InternalServerError(w, msg, err)
	}
}
