package errors

import (
	"errors"
	"fmt"
)

// ResourceNotFoundError is returned when a stored or in-flight resource does not exist.
type ResourceNotFoundError struct {
	resource string
	id       string
}

func NewResourceNotFoundError(resource, id string) *ResourceNotFoundError {
	return &ResourceNotFoundError{resource: resource, id: id}
}

func NewConfigurationNotFoundError() *ResourceNotFoundError {
	return &ResourceNotFoundError{resource: "configuration"}
}

func (e *ResourceNotFoundError) Error() string {
	if e.id == "" {
		return fmt.Sprintf("%s not found", e.resource)
	}
	return fmt.Sprintf("%s %q not found", e.resource, e.id)
}

func IsResourceNotFoundError(err error) bool {
	var e *ResourceNotFoundError
	return errors.As(err, &e)
}

// PoolExhaustedError signals back-pressure: every job slot is busy and the
// waiting list is full. The caller is expected to retry later.
type PoolExhaustedError struct {
	Engine      string
	JobCount    int
	WaitingSize int
}

func NewPoolExhaustedError(engine string, jobCount, waitingSize int) *PoolExhaustedError {
	return &PoolExhaustedError{Engine: engine, JobCount: jobCount, WaitingSize: waitingSize}
}

func (e *PoolExhaustedError) Error() string {
	return fmt.Sprintf("engine %s exhausted: %d jobs busy and %d requests waiting", e.Engine, e.JobCount, e.WaitingSize)
}

func IsPoolExhaustedError(err error) bool {
	var e *PoolExhaustedError
	return errors.As(err, &e)
}

type EngineClosedError struct {
	Engine string
}

func NewEngineClosedError(engine string) *EngineClosedError {
	return &EngineClosedError{Engine: engine}
}

func (e *EngineClosedError) Error() string {
	return fmt.Sprintf("engine %s is closed", e.Engine)
}

func IsEngineClosedError(err error) bool {
	var e *EngineClosedError
	return errors.As(err, &e)
}

// UnknownTokenError is returned when a token has no completed job attached,
// e.g. when a completion is requested twice.
type UnknownTokenError struct {
	Token uint64
}

func NewUnknownTokenError(token uint64) *UnknownTokenError {
	return &UnknownTokenError{Token: token}
}

func (e *UnknownTokenError) Error() string {
	return fmt.Sprintf("no completed job for token %d", e.Token)
}

func IsUnknownTokenError(err error) bool {
	var e *UnknownTokenError
	return errors.As(err, &e)
}

type InvalidConfigurationError struct {
	Field  string
	Reason string
}

func NewInvalidConfigurationError(field, reason string) *InvalidConfigurationError {
	return &InvalidConfigurationError{Field: field, Reason: reason}
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration %s: %s", e.Field, e.Reason)
}

func IsInvalidConfigurationError(err error) bool {
	var e *InvalidConfigurationError
	return errors.As(err, &e)
}

// ParamsTooLargeError is returned when caller data does not fit the fixed
// parameter buffer of a job. Nothing has been queued when it is returned.
type ParamsTooLargeError struct {
	What   string
	Length int
	Max    int
}

func NewParamsTooLargeError(what string, length, max int) *ParamsTooLargeError {
	return &ParamsTooLargeError{What: what, Length: length, Max: max}
}

func NewPathTooLongError(length, max int) *ParamsTooLargeError {
	return &ParamsTooLargeError{What: "path", Length: length, Max: max}
}

func (e *ParamsTooLargeError) Error() string {
	return fmt.Sprintf("%s too long: %d bytes (max %d)", e.What, e.Length, e.Max)
}

func IsParamsTooLargeError(err error) bool {
	var e *ParamsTooLargeError
	return errors.As(err, &e)
}

// InvalidParamsError is returned when caller data cannot be encoded into
// the parameter buffer of a job. Nothing has been queued when it is returned.
type InvalidParamsError struct {
	What   string
	Reason string
}

func NewInvalidParamsError(what, reason string) *InvalidParamsError {
	return &InvalidParamsError{What: what, Reason: reason}
}

func NewInvalidPathError(reason string) *InvalidParamsError {
	return &InvalidParamsError{What: "path", Reason: reason}
}

func (e *InvalidParamsError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.What, e.Reason)
}

func IsInvalidParamsError(err error) bool {
	var e *InvalidParamsError
	return errors.As(err, &e)
}

// IOError carries an action-level failure back to the caller.
type IOError struct {
	Code    int32
	Message string
}

func NewIOError(code int32, message string) *IOError {
	return &IOError{Code: code, Message: message}
}

func (e *IOError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("io error (code %d)", e.Code)
	}
	return fmt.Sprintf("io error (code %d): %s", e.Code, e.Message)
}

func IsIOError(err error) bool {
	var e *IOError
	return errors.As(err, &e)
}

type UnauthorizedError struct {
	reason string
}

func NewUnauthorizedError(reason string) *UnauthorizedError {
	return &UnauthorizedError{reason: reason}
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("unauthorized: %s", e.reason)
}

func IsUnauthorizedError(err error) bool {
	var e *UnauthorizedError
	return errors.As(err, &e)
}
