package views

import (
	"errors"
	"net/http"

	"github.com/me/restkit/pkg/envelope"
	"github.com/me/restkit/pkg/serializer"
)

// ErrNotFound marks a single-instance lookup that matched nothing.
// Collaborators may return it directly or wrap it.
var ErrNotFound = errors.New("not found")

// NotFoundError is ErrNotFound with a presentable message.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	if e.Message == "" {
		return "not found"
	}
	return e.Message
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// respondErr maps an error onto the failure envelope. Validation failures
// carry their field messages, lookups that matched nothing are 404, and
// everything else is a 500 with the message preserved.
func respondErr(w http.ResponseWriter, err error) {
	var vErr *serializer.ValidationError
	switch {
	case errors.As(err, &vErr):
		envelope.WriteError(w, http.StatusBadRequest, vErr.Fields)
	case errors.Is(err, ErrNotFound):
		msg := "Not found."
		var nfErr *NotFoundError
		if errors.As(err, &nfErr) && nfErr.Message != "" {
			msg = nfErr.Message
		}
		envelope.WriteError(w, http.StatusNotFound, msg)
	default:
		envelope.WriteError(w, http.StatusInternalServerError, err.Error())
	}
}
