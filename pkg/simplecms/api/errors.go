package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/tendant/simple-cms/pkg/simplecms"
)

// Error messages returned to clients
const (
	msgNotFound        = "Content not found"
	msgMissingFields   = "Missing required fields"
	msgInvalidFields   = "Invalid field values"
	msgInvalidBody     = "Invalid request body"
	msgInvalidType     = "Invalid content type"
	msgInternal        = "Internal Server Error"
	msgTooManyRequests = "Too many requests"
)

// ErrorResponse is the JSON body of every error reply
type ErrorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields,omitempty"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: message})
}

// handleServiceError maps service errors onto HTTP responses.
func handleServiceError(w http.ResponseWriter, r *http.Request, err error, op string) {
	var verr *simplecms.ValidationError

	switch {
	case errors.Is(err, simplecms.ErrItemNotFound):
		writeError(w, r, http.StatusNotFound, msgNotFound)
	case errors.As(err, &verr):
		msg := msgInvalidFields
		if verr.Missing() {
			msg = msgMissingFields
		}
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: msg, Fields: verr.FieldNames()})
	case errors.Is(err, simplecms.ErrInvalidItemType):
		writeError(w, r, http.StatusBadRequest, msgInvalidType)
	default:
		slog.Error("Request failed",
			"op", op,
			"request_id", middleware.GetReqID(r.Context()),
			"error", err)
		writeError(w, r, http.StatusInternalServerError, msgInternal)
	}
}
