package errors

import "fmt"

var (
	// Tokens
	ErrInvalidSigningMethod = fmt.Errorf("invalid token signing method")
	ErrInvalidToken         = fmt.Errorf("invalid token")
	ErrTokenExpired         = fmt.Errorf("token has expired")
	ErrTokenNotYetValid     = fmt.Errorf("token is not valid yet")
	ErrTokenIsNotAccess     = fmt.Errorf("token is not an access token")
	ErrTokenIsNotRefresh    = fmt.Errorf("token is not a refresh token")

	// Authentication
	ErrEmptyAuthHeader    = fmt.Errorf("authorization header is missing")
	ErrInvalidAuthHeader  = fmt.Errorf("authorization header must be 'Bearer <token>'")
	ErrInvalidCredentials = fmt.Errorf("incorrect username or password")
	ErrUnauthorized       = fmt.Errorf("could not validate credentials")
	ErrForbidden          = fmt.Errorf("not enough privileges")
	ErrAccountLocked      = fmt.Errorf("too many failed login attempts, try again later")

	// Context
	ErrUserNotFoundInContext = fmt.Errorf("acting user not found in request context")

	// Storage
	ErrNotFound         = fmt.Errorf("record not found")
	ErrConflict         = fmt.Errorf("record already exists")
	ErrInvalidReference = fmt.Errorf("referenced record does not exist")
)

// ValidationError is a rejected combination of input fields.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// AssignmentError is a technician assignment the team rules do not allow.
type AssignmentError struct {
	Message string
}

func (e *AssignmentError) Error() string { return e.Message }

func NewAssignmentError(format string, args ...interface{}) error {
	return &AssignmentError{Message: fmt.Sprintf(format, args...)}
}
