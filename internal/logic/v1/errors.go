// Package v1 provides the user-account business logic for API version 1.
//
// Failures of business rules are reported as *BusinessError values carrying
// an integer code and a message that is surfaced verbatim to the caller.
// The code defaults to 500; validation failures are mapped to 400 at the web
// layer. Business errors should be wrapped with fmt.Errorf("%w") when
// returned, and matched in handlers with errors.Is / errors.As.
package v1

import "errors"

// DefaultBusinessCode is the envelope code used when a business error is
// constructed without an explicit code.
const DefaultBusinessCode = 500

// BusinessError is an application-level failure (duplicate username,
// not-found, bad credentials) as opposed to transport or validation
// failures. Code and Message are surfaced to the caller unchanged.
type BusinessError struct {
	Code    int
	Message string
}

func (e *BusinessError) Error() string {
	return e.Message
}

// NewBusinessError creates a BusinessError with the default code.
func NewBusinessError(message string) *BusinessError {
	return &BusinessError{Code: DefaultBusinessCode, Message: message}
}

// NewBusinessErrorWithCode creates a BusinessError with an explicit code.
func NewBusinessErrorWithCode(code int, message string) *BusinessError {
	return &BusinessError{Code: code, Message: message}
}

// AsBusinessError unwraps err into a *BusinessError if one is in its chain.
func AsBusinessError(err error) (*BusinessError, bool) {
	var be *BusinessError
	ok := errors.As(err, &be)
	return be, ok
}

// Sentinel business errors. Matched by identity with errors.Is after
// wrapping with fmt.Errorf("%w").
var (
	// ErrUsernameTaken indicates a registration attempt with an existing
	// username.
	ErrUsernameTaken = NewBusinessError("username already exists")

	// ErrUserNotFoundOrDisabled is returned on login when the username
	// does not exist or the account is not active. The two cases are
	// deliberately indistinguishable.
	ErrUserNotFoundOrDisabled = NewBusinessError("user not found or disabled")

	// ErrPasswordMismatch indicates the password digest did not match.
	ErrPasswordMismatch = NewBusinessError("incorrect password")

	// ErrUserNotFound indicates the requested user id does not exist.
	ErrUserNotFound = NewBusinessError("user not found")
)
