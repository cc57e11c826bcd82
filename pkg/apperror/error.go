package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies an error independently of the transport status it maps to
type Kind string

const (
	KindValidation   Kind = "VALIDATION"
	KindNotFound     Kind = "NOT_FOUND"
	KindConflict     Kind = "CONFLICT"
	KindState        Kind = "STATE"
	KindInvalidInput Kind = "INVALID_INPUT"
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindForbidden    Kind = "FORBIDDEN"
	KindInternal     Kind = "INTERNAL"
)

// Stable reason codes returned to callers
const (
	ReasonInvalidWorkingHours            = "INVALID_WORKING_HOURS"
	ReasonInvalidDuration                = "INVALID_DURATION"
	ReasonInvalidDateRange               = "INVALID_DATE_RANGE"
	ReasonInvalidRequest                 = "INVALID_REQUEST"
	ReasonSchedulingConflict             = "SCHEDULING_CONFLICT"
	ReasonInterviewAlreadyScheduled      = "INTERVIEW_ALREADY_SCHEDULED"
	ReasonInterviewAlreadyConfirmed      = "INTERVIEW_ALREADY_CONFIRMED"
	ReasonInterviewNotYetCompleted       = "INTERVIEW_NOT_YET_COMPLETED"
	ReasonInterviewTooShort              = "INTERVIEW_TOO_SHORT"
	ReasonCannotMarkNoShowBeforeTime     = "CANNOT_MARK_NO_SHOW_BEFORE_TIME"
	ReasonCannotCancelCompletedInterview = "CANNOT_CANCEL_COMPLETED_INTERVIEW"
	ReasonInterviewCannotBeModified      = "INTERVIEW_CANNOT_BE_MODIFIED"
	ReasonInvalidScheduleDate            = "INVALID_SCHEDULE_DATE"
	ReasonInterviewNotFound              = "INTERVIEW_NOT_FOUND"
	ReasonJobApplicationNotFound         = "JOB_APPLICATION_NOT_FOUND"
)

type AppError struct {
	Code    int         `json:"code"`
	Kind    Kind        `json:"kind"`
	Reason  string      `json:"reason,omitempty"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	Err     error       `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetails attaches structured diagnostics (e.g. a conflict report).
func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

func New(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kindForStatus(code),
		Message: message,
		Err:     err,
	}
}

func newReason(code int, kind Kind, reason, message string) *AppError {
	return &AppError{Code: code, Kind: kind, Reason: reason, Message: message}
}

func BadRequest(message string) *AppError {
	return New(http.StatusBadRequest, message, nil)
}

func Unauthorized(message string) *AppError {
	return New(http.StatusUnauthorized, message, nil)
}

func Forbidden(message string) *AppError {
	return New(http.StatusForbidden, message, nil)
}

func NotFound(message string) *AppError {
	return New(http.StatusNotFound, message, nil)
}

func Internal(err error) *AppError {
	return New(http.StatusInternalServerError, "Internal Server Error", err)
}

// Validation is a malformed configuration or request value.
func Validation(reason, message string, violations []string) *AppError {
	e := newReason(http.StatusBadRequest, KindValidation, reason, message)
	if len(violations) > 0 {
		e.Details = violations
	}
	return e
}

// NotFoundReason is NotFound with a stable reason code.
func NotFoundReason(reason, message string) *AppError {
	return newReason(http.StatusNotFound, KindNotFound, reason, message)
}

func Conflict(reason, message string) *AppError {
	return newReason(http.StatusConflict, KindConflict, reason, message)
}

// State rejects an action that is illegal for the resource's current state.
func State(reason, message string) *AppError {
	return newReason(http.StatusUnprocessableEntity, KindState, reason, message)
}

func InvalidInput(reason, message string) *AppError {
	return newReason(http.StatusBadRequest, KindInvalidInput, reason, message)
}

// ReasonOf returns the reason code of err, or "" when err is not an AppError.
func ReasonOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Reason
	}
	return ""
}

// KindOf returns the kind of err; non-AppErrors are internal.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func kindForStatus(code int) Kind {
	switch code {
	case http.StatusBadRequest:
		return KindInvalidInput
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusConflict:
		return KindConflict
	case http.StatusUnprocessableEntity:
		return KindState
	default:
		return KindInternal
	}
}
