// Package domain defines the core domain models for RentDash.
package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a business domain error with a structured error code.
// Codes have the form RD-<AREA>-<NNNN>; the numeric part mirrors the closest
// HTTP status so commands can map them to exit messages.
type DomainError struct {
	Code    string // Error code (e.g., "RD-USER-4040")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// Wrap wraps an error with this domain error as the cause.
func (e *DomainError) Wrap(cause error) *DomainError {
	return e.WithCause(cause)
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true // Only check if it's a DomainError
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// ============================================================================
// Authentication Errors (AUTH)
// ============================================================================

var (
	// ErrNotSignedIn indicates a protected operation was attempted without a session.
	ErrNotSignedIn = NewDomainError("RD-AUTH-4010", "not signed in")

	// ErrLoginFailed indicates the backend rejected the supplied credentials.
	ErrLoginFailed = NewDomainError("RD-AUTH-4011", "login failed")

	// ErrRegistrationFailed indicates the account could not be created.
	ErrRegistrationFailed = NewDomainError("RD-AUTH-4001", "registration failed")

	// ErrRegisteredNotSignedIn indicates the account was created but the
	// follow-up login did not establish a session.
	ErrRegisteredNotSignedIn = NewDomainError("RD-AUTH-4012", "account created but sign-in failed")
)

// ============================================================================
// User Errors (USER)
// ============================================================================

var (
	// ErrUserNotFound indicates the requested user was not found.
	ErrUserNotFound = NewDomainError("RD-USER-4040", "user not found")

	// ErrUserValidation indicates user data validation failed.
	ErrUserValidation = NewDomainError("RD-USER-4001", "user validation failed")

	// ErrEmptyPatch indicates an update carried no writable fields.
	ErrEmptyPatch = NewDomainError("RD-USER-4002", "no fields to update")

	// ErrEmptyUserResponse indicates the backend acknowledged a write
	// without returning the user record.
	ErrEmptyUserResponse = NewDomainError("RD-USER-5001", "empty user response")
)

// ============================================================================
// Fleet Errors (FLEET)
// ============================================================================

var (
	// ErrVehicleNotFound indicates the requested vehicle does not exist.
	ErrVehicleNotFound = NewDomainError("RD-FLEET-4040", "vehicle not found")

	// ErrVehicleUnavailable indicates the vehicle is rented or in maintenance.
	ErrVehicleUnavailable = NewDomainError("RD-FLEET-4090", "vehicle unavailable")

	// ErrCustomerNotFound indicates the requested customer does not exist.
	ErrCustomerNotFound = NewDomainError("RD-FLEET-4041", "customer not found")

	// ErrInvalidStatus indicates an unknown vehicle status filter.
	ErrInvalidStatus = NewDomainError("RD-FLEET-4001", "invalid vehicle status")
)

// ============================================================================
// Rental Errors (RENT)
// ============================================================================

var (
	// ErrRentalMissingFields indicates a required rental form field is empty.
	ErrRentalMissingFields = NewDomainError("RD-RENT-4001", "Please fill in all required fields")

	// ErrRentalInvalidRange indicates the end date precedes the start date.
	ErrRentalInvalidRange = NewDomainError("RD-RENT-4002", "End date must be after start date")

	// ErrInvalidPaymentMethod indicates an unsupported payment method.
	ErrInvalidPaymentMethod = NewDomainError("RD-RENT-4003", "invalid payment method")
)

// ============================================================================
// Argument Errors (ARG)
// ============================================================================

var (
	// ErrInvalidArgument indicates an invalid argument.
	ErrInvalidArgument = NewDomainError("RD-ARG-1001", "invalid argument")

	// ErrMissingArgument indicates a required argument is missing.
	ErrMissingArgument = NewDomainError("RD-ARG-1002", "missing required argument")
)
