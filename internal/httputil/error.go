package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/apasimboraymond02/Tournament-app/internal/bracket"
	"github.com/charmbracelet/log"
)

// WriteJSON encodes v as the response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to write response", "error", err)
	}
}

// EngineError maps the engine's sentinel errors to HTTP responses. Anything
// unrecognized is treated as an internal error.
func EngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, bracket.ErrBracketNotFound),
		errors.Is(err, bracket.ErrMatchNotFound):
		NotFound(w, err.Error(), err)
	case errors.Is(err, bracket.ErrBracketExists):
		Conflict(w, err.Error(), err)
	case errors.Is(err, bracket.ErrInsufficientParticipants),
		errors.Is(err, bracket.ErrNotAParticipant),
		errors.Is(err, bracket.ErrMatchNotSchedulable):
		BadRequest(w, err.Error(), err)
	default:
		InternalServerError(w, "Internal error", err)
	}
}

func InternalServerError(w http.ResponseWriter, msg string, err error) {
	log.Error(msg, "error", err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

func BadRequest(w http.ResponseWriter, msg string, err error) {
	if err != nil {
		log.Warn("bad request", "message", msg, "error", err)
	} else {
		log.Warn("bad request", "message", msg)
	}
	http.Error(w, msg, http.StatusBadRequest)
}

func NotFound(w http.ResponseWriter, msg string, err error) {
	if err != nil {
		log.Warn("not found", "message", msg, "error", err)
	} else {
		log.Warn("not found", "message", msg)
	}
	http.Error(w, msg, http.StatusNotFound)
}

func Conflict(w http.ResponseWriter, msg string, err error) {
	log.Warn("conflict", "message", msg, "error", err)
	http.Error(w, msg, http.StatusConflict)
}
