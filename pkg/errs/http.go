package errs

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"
)

type ErrResponse struct {
	Error ServiceError `json:"error"`
}

type ServiceError struct {
	Kind      string `json:"kind,omitempty"`
	Parameter string `json:"param,omitempty"`
	Message   string `json:"message,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// HTTPErrorResponse writes err to w with a status code derived from its
// Kind and logs it. Internal errors never leak their message.
func HTTPErrorResponse(w http.ResponseWriter, lg zerolog.Logger, err error) {
	if err == nil {
		nilErrorResponse(w, lg)
		return
	}

	var e *Error
	if !errors.As(err, &e) {
		unknownErrorResponse(w, lg, err)
		return
	}

	switch e.Kind {
	case Internal, Other:
		lg.Error().Stack().Err(err).Str("op", string(e.Op)).Msg("internal error")
		writeResponse(w, http.StatusInternalServerError, ServiceError{
			Kind:    Internal.String(),
			Message: "internal server error - please contact support",
		})

		return
	case Unauthenticated:
		lg.Info().Err(err).Str("op", string(e.Op)).Msg("unauthenticated")
		w.WriteHeader(http.StatusUnauthorized)

		return
	case Unauthorized:
		lg.Info().Err(err).Str("op", string(e.Op)).Msg("unauthorized")
		writeResponse(w, http.StatusForbidden, ServiceError{
			Kind:    e.Kind.String(),
			Message: rootMessage(e),
		})

		return
	}

	lg.Warn().Err(err).Str("op", string(e.Op)).Str("kind", e.Kind.String()).Msg("request failed")

	writeResponse(w, e.Kind.HTTPStatus(), ServiceError{
		Kind:      e.Kind.String(),
		Parameter: string(e.Param),
		Message:   rootMessage(e),
	})
}

// rootMessage is the message of the innermost non-*Error cause.
func rootMessage(e *Error) string {
	for {
		var next *Error
		if e.Err == nil {
			return ""
		}

		if !errors.As(e.Err, &next) || next == e {
			return e.Err.Error()
		}

		e = next
	}
}

func writeResponse(w http.ResponseWriter, status int, se ServiceError) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(ErrResponse{Error: se})
}

func unknownErrorResponse(w http.ResponseWriter, lg zerolog.Logger, err error) {
	lg.Error().Err(err).Msg("unknown error")

	writeResponse(w, http.StatusInternalServerError, ServiceError{
		Kind:    Internal.String(),
		Message: "unexpected error - contact support",
	})
}

func nilErrorResponse(w http.ResponseWriter, lg zerolog.Logger) {
	lg.Error().Msg("nil error passed to error response")

	writeResponse(w, http.StatusInternalServerError, ServiceError{
		Kind:    Internal.String(),
		Message: "internal error - contact support",
	})
}
