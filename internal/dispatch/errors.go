package dispatch

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/vyrodovalexey/avaweb/internal/util"
)

// StatusFor maps a dispatch error to an HTTP status code.
func StatusFor(err error) int {
	var rle *util.RateLimitError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &rle), errors.Is(err, util.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, util.ErrCircuitOpen):
		return http.StatusServiceUnavailable
	case errors.Is(err, util.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// errorResponse is the JSON body written for failed requests.
type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// writeError writes the error response unless the action already started
// writing one.
func writeError(w *util.StatusCapturingResponseWriter, r *http.Request, status int, err error) {
	if w.HeaderWritten {
		return
	}

	var rle *util.RateLimitError
	if errors.As(err, &rle) {
		secs := int(math.Ceil(rle.RetryAfter.Seconds()))
		if secs < 1 {
			secs = 1
		}
		w.Header().Set("Retry-After", strconv.Itoa(secs))
	}

	body := errorResponse{
		Error:     http.StatusText(status),
		RequestID: util.RequestIDFromContext(r.Context()),
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
