package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"helpnow/pkg/types"
)

const maxBodyBytes = 1 << 20

type messageResponse struct {
	Message string `json:"message"`
}

type successResponse struct {
	Success bool `json:"success"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageResponse{Message: msg})
}

// writeEmpty answers a lookup that found nothing: a 200 with no body.
func writeEmpty(w http.ResponseWriter) {
	w.Header().Set("Content-Length", "0")
	w.WriteHeader(http.StatusOK)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is empty", types.ErrInvalidInput)
		}
		return fmt.Errorf("%w: malformed JSON body: %s", types.ErrInvalidInput, err.Error())
	}

	return nil
}

// pathParam returns a route parameter decoded once with path rules. The router stores
// query-unescaped values, which turn "+" into a space, so the matching segment of the escaped
// path is decoded with path rules instead.
func pathParam(r *http.Request, name string) string {
	value := r.PathValue(name)

	for _, segment := range strings.Split(r.URL.EscapedPath(), "/") {
		decoded, err := url.QueryUnescape(segment)
		if err != nil || decoded != value {
			continue
		}
		if raw, err := url.PathUnescape(segment); err == nil {
			return raw
		}
	}

	return value
}

// writeServiceError maps service errors onto responses. Anything unclassified is a storage
// failure and is logged.
func (s *Service) writeServiceError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	switch {
	case errors.Is(err, types.ErrInvalidInput):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, types.ErrInvalidID):
		writeMessage(w, http.StatusBadRequest, types.ErrInvalidID.Error())
	case errors.Is(err, types.ErrEmptyStatusUpdate):
		writeMessage(w, http.StatusBadRequest, types.ErrEmptyStatusUpdate.Error())
	case errors.Is(err, types.ErrEmptyNeedUpdate):
		writeMessage(w, http.StatusBadRequest, types.ErrEmptyNeedUpdate.Error())
	case errors.Is(err, types.ErrNoSlotsRemaining):
		writeMessage(w, http.StatusConflict, types.ErrNoSlotsRemaining.Error())
	default:
		s.logger.WithError(err).WithField("path", r.URL.Path).Error(msg)
		s.internalServerError(w)
	}
}

func (s *Service) internalServerError(w http.ResponseWriter) {
	writeMessage(w, http.StatusInternalServerError, "internal server error")
}
