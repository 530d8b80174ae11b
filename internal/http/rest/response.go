package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bwise1/media_ranker/internal/auth"
	"github.com/bwise1/media_ranker/internal/model"
	"github.com/bwise1/media_ranker/util"
	"github.com/bwise1/media_ranker/util/tracing"
	"github.com/bwise1/media_ranker/util/values"
)

type ServerResponse struct {
	Err        error       `json:"-"`
	Message    string      `json:"message"`
	Status     string      `json:"status"`
	StatusCode int         `json:"-"`
	Data       interface{} `json:"data,omitempty"`
}

func respondWithError(err error, message, status string, tc *tracing.Context) *ServerResponse {
	resp := &ServerResponse{
		Err:        err,
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		resp.Message = values.SystemErr
	}

	var verr *model.ValidationError
	if errors.As(err, &verr) {
		resp.Data = verr.Fields
	}
	return resp
}

// respondWithDomainError picks the status for an error coming out of the
// core packages. message is used for anything unexpected.
func respondWithDomainError(err error, message string, tc *tracing.Context) *ServerResponse {
	status, msg := domainStatus(err)
	if msg == "" {
		msg = message
	}
	return respondWithError(err, msg, status, tc)
}

func domainStatus(err error) (string, string) {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		return values.Unprocessable, "validation failed"
	case errors.Is(err, model.ErrNotFound):
		return values.NotFound, "not found"
	case errors.Is(err, model.ErrForbidden):
		return values.NotAllowed, model.ErrForbidden.Error()
	case errors.Is(err, model.ErrUnauthenticated):
		return values.NotAuthorised, model.ErrUnauthenticated.Error()
	case errors.Is(err, model.ErrAlreadyVoted):
		return values.Conflict, model.ErrAlreadyVoted.Error()
	case errors.Is(err, auth.ErrMissingUID):
		return values.NotAuthorised, "login failed"
	case errors.Is(err, auth.ErrTokenExpired):
		return values.TokenExpired, "token-expired"
	case errors.Is(err, auth.ErrInvalidToken):
		return values.NotAuthorised, "invalid-token"
	default:
		return values.Error, ""
	}
}

func success(status, message string, data interface{}) *ServerResponse {
	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       data,
	}
}

func writeErrorResponse(w http.ResponseWriter, err error, status, message string) {
	resp := respondWithError(err, message, status, nil)
	respByte, marshalErr := json.Marshal(resp)
	if marshalErr != nil {
		http.Error(w, values.SystemErr, http.StatusInternalServerError)
		return
	}
	writeJSONResponse(w, respByte, resp.StatusCode)
}

func writeJSONResponse(w http.ResponseWriter, body []byte, statusCode int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	_, _ = w.Write(body)
}
