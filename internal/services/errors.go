package services

import (
	"errors"
	"fmt"

	apperrors "github.com/exampool/exam-service/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrUnauthorized     = errors.New("unauthorized access")
	ErrForbidden        = errors.New("forbidden - insufficient permissions")
	ErrValidationFailed = errors.New("validation failed")
	ErrInternalError    = errors.New("internal server error")
	ErrBadRequest       = errors.New("bad request")

	// Exam scheduling errors
	ErrExamNotFound         = errors.New("exam not found")
	ErrExamGroupNotFound    = errors.New("exam group not found")
	ErrExamSlotConflict     = errors.New("the time slot you picked has another exam scheduled, please pick another time")
	ErrReleaseBeforeTesting = errors.New("the exam release date should be after the testing date")

	// Exam lifecycle errors
	ErrTestingDatePassed    = errors.New("testing date has already passed")
	ErrExamLocked           = errors.New("testing date has already passed, exam can no longer be unpublished")
	ErrGradeReleaseTooEarly = errors.New("grades can be released at the earliest two days after the testing date")

	// Catalog errors
	ErrPoolNotFound      = errors.New("pool not found")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrQuestionNotFound  = errors.New("question not found")
	ErrTestTakerNotFound = errors.New("test taker not found")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

type PermissionError struct {
	CallerID string `json:"caller_id"`
	Resource string `json:"resource"`
	Action   string `json:"action"`
	Reason   string `json:"reason"`
}

func (pe *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: caller %s cannot %s %s - %s",
		pe.CallerID, pe.Action, pe.Resource, pe.Reason)
}

func (pe *PermissionError) Unwrap() error {
	return ErrUnauthorized
}

// ===== ERROR HELPERS =====

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

func NewPermissionError(callerID, resource, action, reason string) *PermissionError {
	return &PermissionError{
		CallerID: callerID,
		Resource: resource,
		Action:   action,
		Reason:   reason,
	}
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrExamNotFound) ||
		errors.Is(err, ErrExamGroupNotFound) ||
		errors.Is(err, ErrPoolNotFound) ||
		errors.Is(err, ErrCategoryNotFound) ||
		errors.Is(err, ErrQuestionNotFound) ||
		errors.Is(err, ErrTestTakerNotFound)
}

// IsUnauthorized checks if error represents an "unauthorized" condition
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsForbidden checks if error represents a time-window violation
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden) || errors.Is(err, ErrExamLocked)
}

// IsValidation checks if error represents a validation failure, including
// scheduling conflicts and date-ordering violations
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) ||
		errors.Is(err, ErrBadRequest) ||
		errors.Is(err, ErrExamSlotConflict) ||
		errors.Is(err, ErrReleaseBeforeTesting) ||
		errors.Is(err, ErrTestingDatePassed) ||
		errors.Is(err, ErrGradeReleaseTooEarly) {
		return true
	}
	var ve apperrors.ValidationErrors
	return errors.As(err, &ve)
}
