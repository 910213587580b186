// Package errors builds *echo.HTTPError carrying an ErrorMessage.
//
// Handlers return them as they are. echo renders the message as the response body,
// like {"reason": "bad request", "advice": "..."}.
package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// ErrorMessage is the body of error responses.
//
// Cause is for logging and never rendered.
type ErrorMessage struct {
	Reason string `json:"reason"`
	Advice string `json:"advice,omitempty"`
	See    string `json:"see,omitempty"`
	Cause  error  `json:"-"`
}

func (em ErrorMessage) Error() string {
	b := new(strings.Builder)
	b.WriteString(em.Reason)
	if em.Advice != "" {
		fmt.Fprintf(b, " (advice: %s)", em.Advice)
	}
	if em.See != "" {
		fmt.Fprintf(b, " (see: %s)", em.See)
	}
	if em.Cause != nil {
		fmt.Fprintf(b, " <- %s", em.Cause)
	}
	return b.String()
}

func (em ErrorMessage) Unwrap() error {
	return em.Cause
}

// MarshalJSON renders the message without Cause.
//
// ErrorMessage is also an error, and echo would render it as a bare string without this.
func (em ErrorMessage) MarshalJSON() ([]byte, error) {
	type body ErrorMessage
	return json.Marshal(body(em))
}

type ErrorMessageOption func(in *ErrorMessage)

func WithAdvice(advice string) ErrorMessageOption {
	return func(in *ErrorMessage) {
		if advice != "" {
			in.Advice = advice
		}
	}
}

func WithError(err error) ErrorMessageOption {
	return func(in *ErrorMessage) {
		if err != nil {
			in.Cause = err
		}
	}
}

func WithSee(see string) ErrorMessageOption {
	return func(in *ErrorMessage) {
		if see != "" {
			in.See = see
		}
	}
}

func NewErrorMessage(code int, reason string, opts ...ErrorMessageOption) *echo.HTTPError {
	msg := ErrorMessage{Reason: reason}
	for _, opt := range opts {
		opt(&msg)
	}
	return echo.NewHTTPError(code, msg).SetInternal(msg)
}

func BadRequest(advice string, err error) *echo.HTTPError {
	return NewErrorMessage(
		http.StatusBadRequest,
		"bad request",
		WithAdvice(advice),
		WithError(err),
	)
}

func Unauthorized(reason string, err error) *echo.HTTPError {
	return NewErrorMessage(
		http.StatusUnauthorized,
		reason,
		WithError(err),
	)
}

func Forbidden(reason string) *echo.HTTPError {
	return NewErrorMessage(http.StatusForbidden, reason)
}

func NotFound() *echo.HTTPError {
	return NewErrorMessage(http.StatusNotFound, "not found")
}

func Conflict(reason string, options ...ErrorMessageOption) *echo.HTTPError {
	return NewErrorMessage(http.StatusConflict, reason, options...)
}

func InternalServerError(err error) *echo.HTTPError {
	return NewErrorMessage(
		http.StatusInternalServerError,
		"unexpected error",
		WithAdvice("ask your system admin."),
		WithError(err),
	)
}

func ServiceUnavailable(advice string, err error) *echo.HTTPError {
	return NewErrorMessage(
		http.StatusServiceUnavailable,
		"service unavailable temporarily",
		WithAdvice(advice),
		WithError(err),
	)
}
