package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Jacobbrewer1/kyogre/pkg/logging"
)

var (
	// ErrInternalServer is returned to the client when a handler panics or fails unexpectedly.
	ErrInternalServer = errors.New("internal server error")

	// ErrMissingGuildID is returned when a route expecting a guild ID has none.
	ErrMissingGuildID = errors.New("guild id is required")
)

// Message represents a message response.
type Message struct {
	Message string `json:"Message" xml:"Message"`
}

// NewMessage creates a new Message.
func NewMessage(message string, args ...any) *Message {
	var msg string
	if len(args) > 0 {
		msg = fmt.Sprintf(message, args...)
	} else {
		msg = message
	}
	return &Message{
		Message: msg,
	}
}

// WriteJSON writes the status code and the JSON encoding of v. Encoding failures are logged.
func WriteJSON(l *slog.Logger, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		l.Error("Error encoding response", slog.String(logging.KeyError, err.Error()))
	}
}
