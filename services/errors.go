// Package services holds the workflow logic between the HTTP controllers and
// the stores: the verification token lifecycle, authentication and profile
// completion, and the event registration state machine.
package services

import "net/http"

// APIError is a service failure that maps directly onto an HTTP status.
// Controllers compare these by identity, so every failure mode has exactly one
// value.
type APIError struct {
	Message    string
	StatusCode int
}

func (e *APIError) Error() string { return e.Message }

var (
	ErrDuplicateEmail        = &APIError{"Email is already registered", http.StatusBadRequest}
	ErrDeliveryFailed        = &APIError{"Email could not be sent", http.StatusInternalServerError}
	ErrInvalidOrExpiredToken = &APIError{"Invalid or expired token", http.StatusBadRequest}
	ErrEmailNotFound         = &APIError{"No user found with this email", http.StatusNotFound}
	ErrAlreadyVerified       = &APIError{"Email is already verified", http.StatusBadRequest}
	ErrNotVerified           = &APIError{"Please verify your email first", http.StatusUnauthorized}
	ErrUserNotFound          = &APIError{"User not found", http.StatusNotFound}
	ErrProfileNotFound       = &APIError{"Profile not found", http.StatusNotFound}
	ErrProfileAlreadyExists  = &APIError{"Profile already exists for this user", http.StatusBadRequest}
	ErrOrganizationNameTaken = &APIError{"Organization name is already taken", http.StatusBadRequest}
	ErrInvalidCredentials    = &APIError{"Invalid credentials", http.StatusUnauthorized}

	ErrEventNotFound       = &APIError{"Event not found", http.StatusNotFound}
	ErrVolunteerNotInEvent = &APIError{"Volunteer not found in this event", http.StatusNotFound}
	ErrAlreadyRegistered   = &APIError{"You are already registered for this event", http.StatusBadRequest}
	ErrEventFull           = &APIError{"This event is already full", http.StatusBadRequest}
	ErrNotEventOwner       = &APIError{"Not authorized to update this event", http.StatusUnauthorized}
	ErrNotOwnRegistration  = &APIError{"Not authorized to register for this event", http.StatusUnauthorized}
)

// NewValidationError reports a missing or malformed request field.
func NewValidationError(message string) *APIError {
	return &APIError{Message: message, StatusCode: http.StatusBadRequest}
}
