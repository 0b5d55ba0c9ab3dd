package errors

import "fmt"

// ErrCode represents an error code
type ErrCode string

const (
	ErrCodeNotFound     ErrCode = "NOT_FOUND"
	ErrCodeUnauthorized ErrCode = "UNAUTHORIZED"
	ErrCodeInternal     ErrCode = "INTERNAL_ERROR"
	ErrCodeBadRequest   ErrCode = "BAD_REQUEST"
	ErrCodeForbidden    ErrCode = "FORBIDDEN"
	ErrCodeUpstream     ErrCode = "UPSTREAM_ERROR"
)

// AppError represents an application error
type AppError struct {
	Code    ErrCode
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

// NewUnauthorizedError creates a new unauthorized error
func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeUnauthorized,
		Message: message,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// NewBadRequestError creates a new bad request error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
	}
}

// NewForbiddenError creates a new forbidden error
func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeForbidden,
		Message: message,
	}
}

// UpstreamError is a non-success HTTP response from the GitHub API,
// carrying the status and the origin path that produced it
type UpstreamError struct {
	Status  int
	Path    string
	Message string
}

func (e *UpstreamError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("github request failed (%d) for %s: %s", e.Status, e.Path, e.Message)
	}
	return fmt.Sprintf("github request failed (%d) for %s", e.Status, e.Path)
}

// NewUpstreamError creates a new upstream error
func NewUpstreamError(status int, path, message string) *UpstreamError {
	return &UpstreamError{
		Status:  status,
		Path:    path,
		Message: message,
	}
}

// UpstreamStatus returns the HTTP status carried by err when it is an
// UpstreamError, and 0 otherwise
func UpstreamStatus(err error) int {
	if upErr, ok := err.(*UpstreamError); ok {
		return upErr.Status
	}
	return 0
}

// IsFeatureUnavailable reports whether err is an upstream response that
// should degrade to an empty collection (forbidden or disabled endpoints)
func IsFeatureUnavailable(err error) bool {
	status := UpstreamStatus(err)
	return status == 403 || status == 404
}

// IsNotFound checks if the error is a not found error
func IsNotFound(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == ErrCodeNotFound
	}
	return false
}

// IsUnauthorized checks if the error is an unauthorized error
func IsUnauthorized(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == ErrCodeUnauthorized
	}
	return false
}
