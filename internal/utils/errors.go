// society-service/internal/utils/errors.go
package utils

import (
	"errors"
	"net/http"
)

/*
Sentinel errors for retention domain logic.
The controller can do: if errors.Is(err, ErrXYZ) { ... }
*/
var (
	ErrInvalidCategory     = errors.New("invalid_category")
	ErrAlreadyCompleted    = errors.New("already_completed")
	ErrCleanupSkipped      = errors.New("cleanup_skipped")
	ErrNoEmailOnFile       = errors.New("no_email_on_file")
	ErrLogNotFound         = errors.New("cleanup_log_not_found")
	ErrNoRowsUpdated       = errors.New("no_rows_updated") // Can be used by repos
	ErrExternalService     = errors.New("external_service_failure")
)

// AppError is the structured error handed from services to controllers.
type AppError struct {
	StatusCode int
	Code       string
	Message    string
	Details    any
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// HandleAppError centralizes responding to AppErrors.
func HandleAppError(w http.ResponseWriter, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		RespondErrorWithCode(w, appErr.StatusCode, appErr.Code, appErr.Message, appErr.Details, appErr.Err)
	} else {
		// Fallback for unexpected error types
		RespondErrorWithCode(w, http.StatusInternalServerError, ErrCodeInternal, "An unexpected error occurred", nil, err)
	}
}
