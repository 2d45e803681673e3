package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"time"

	"github.com/AnshRaj112/journal-backend/internal/models"
	"github.com/AnshRaj112/journal-backend/internal/services"
	"go.uber.org/zap"
)

type errorResponse struct {
	Error  string              `json:"error"`
	Fields map[string][]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeServiceError is the single place where domain errors become HTTP statuses.
func writeServiceError(w http.ResponseWriter, logger *zap.SugaredLogger, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: verr.Error(), Fields: verr.Fields})
	case errors.Is(err, services.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrUnauthorized), errors.Is(err, services.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrForbidden), errors.Is(err, services.ErrAccountInactive):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrUsernameTaken):
		writeError(w, http.StatusConflict, err.Error())
	default:
		logger.Errorw("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// decodeJSON rejects bodies that are not a single JSON object. A body that
// parses but has values of the wrong type yields a *models.ValidationError
// naming each offending field.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(dst); err != nil {
		if verr := fieldErrors(body, dst); verr != nil {
			return verr
		}
		return err
	}
	if dec.More() {
		return errors.New("unexpected data after JSON object")
	}
	return nil
}

// fieldErrors decodes each top-level key on its own into a fresh value of
// dst's type and reports the keys that fail. It returns nil when the body is
// not a JSON object or every key decodes.
func fieldErrors(body []byte, dst interface{}) *models.ValidationError {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil
	}
	typ := reflect.TypeOf(dst).Elem()
	verr := models.NewValidationError()
	for key, value := range raw {
		single, err := json.Marshal(map[string]json.RawMessage{key: value})
		if err != nil {
			continue
		}
		if err := json.Unmarshal(single, reflect.New(typ).Interface()); err != nil {
			verr.Add(key, fieldProblem(err))
		}
	}
	if len(verr.Fields) == 0 {
		return nil
	}
	return verr
}

func fieldProblem(err error) string {
	var typeErr *json.UnmarshalTypeError
	var timeErr *time.ParseError
	switch {
	case errors.As(err, &typeErr):
		return fmt.Sprintf("must not be a %s", typeErr.Value)
	case errors.As(err, &timeErr):
		return "must be an RFC 3339 timestamp"
	default:
		return "is invalid"
	}
}

// writeDecodeError answers a failed decodeJSON.
func writeDecodeError(w http.ResponseWriter, logger *zap.SugaredLogger, err error) {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		writeServiceError(w, logger, err)
		return
	}
	writeError(w, http.StatusBadRequest, "Invalid request body")
}

const maxBodyBytes = 1 << 20
