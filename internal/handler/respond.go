package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"vwds/internal/domain"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps an error kind to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrDuplicateKey):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrMissingToken), errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}

// writeError renders err as {"error": msg}. Internal errors are logged
// and replaced by a generic message.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.Logger.Error("request failed",
			"method", r.Method, "path", r.URL.Path,
			"request_id", requestIDFrom(r.Context()), "err", err)
		writeJSON(w, status, errorResponse{Error: "Internal server error"})
		return
	}
	msg, ok := domain.Message(err)
	if !ok {
		msg = defaultMessage(err)
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

func defaultMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrMissingToken):
		return "Access token required"
	case errors.Is(err, domain.ErrInvalidToken):
		return "Invalid or expired token"
	case errors.Is(err, domain.ErrForbidden):
		return "Insufficient permissions"
	case errors.Is(err, domain.ErrRateLimited):
		return "Too many login attempts, try again later"
	}
	return err.Error()
}

// decodeJSON reads a single JSON object from the request body.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var tooBig *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return domain.Invalid("Request body is required")
		case errors.As(err, &tooBig):
			return domain.Invalid("Request body too large")
		}
		return domain.Invalid("Invalid JSON body")
	}
	return nil
}

// pathID parses the {id} route variable as a positive integer.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.Invalid("id must be a positive integer")
	}
	return id, nil
}
