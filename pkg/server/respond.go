package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	bterrors "github.com/matzehuels/bubblerow/pkg/errors"
)

const maxBodyBytes = 4 << 20

// errorResponse is the body of every non-2xx JSON response.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// writeError maps coded errors to HTTP statuses. Internal errors are
// masked; the logger gets the details.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case bterrors.IsNotFound(err):
		status = http.StatusNotFound
	case bterrors.IsClientError(err):
		status = http.StatusBadRequest
	case bterrors.Is(err, bterrors.ErrCodeUnsupported):
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("internal error", "path", r.URL.Path, "err", err)
		writeJSON(w, status, errorResponse{
			Code:    string(bterrors.ErrCodeInternal),
			Message: "internal server error",
		})
		return
	}
	writeJSON(w, status, errorResponse{
		Code:    string(bterrors.GetCode(err)),
		Message: bterrors.UserMessage(err),
	})
}

// decodeJSON reads a JSON body into v. An empty body leaves v untouched
// when optional is set.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any, optional bool) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return nil
		}
		return bterrors.Wrap(bterrors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}
