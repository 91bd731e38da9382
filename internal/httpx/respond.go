// Package httpx carries the response envelope and request decoding shared by
// every handler.
package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"

	"openmusic-service/internal/apperr"
)

const (
	statusSuccess = "success"
	statusFail    = "fail"
	statusError   = "error"

	// DataSourceHeader reports whether a cached read came from the cache or
	// the store of record.
	DataSourceHeader = "X-Data-Source"
)

type envelope struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Data writes a success envelope carrying data.
func Data(w http.ResponseWriter, status int, data any) {
	WriteJSON(w, status, envelope{Status: statusSuccess, Data: data})
}

// Message writes a success envelope carrying only a message.
func Message(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, envelope{Status: statusSuccess, Message: msg})
}

// Fail writes a client error envelope.
func Fail(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, envelope{Status: statusFail, Message: msg})
}

// WriteError maps err to a response. Known kinds pass their message through,
// anything else is logged and replaced with a generic message.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		Fail(w, ae.Kind.Status(), ae.Message)
		return
	}

	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		Fail(w, http.StatusRequestEntityTooLarge, "payload too large")
		return
	}

	log.Error("openmusic: unexpected failure", "method", r.Method, "path", r.URL.Path, "err", err)
	WriteJSON(w, http.StatusInternalServerError, envelope{
		Status:  statusError,
		Message: "unexpected server failure",
	})
}
