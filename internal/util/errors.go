// internal/util/errors.go
package util

import "errors"

// Common application-specific errors.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input provided")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("operation not permitted")
	ErrNotGroupMember     = errors.New("user is not a member of the group")
	ErrNotGroupAdmin      = errors.New("only group admins may perform this operation")
	ErrSamePayerPayee     = errors.New("payer and payee must be different users")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrGroupNotFound      = errors.New("group not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrExpenseNotFound    = errors.New("expense not found")
	ErrPaymentNotFound    = errors.New("payment not found")
	ErrBalanceNotFound    = errors.New("balance not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
)

// IsError reports whether err wraps target.
func IsError(err, target error) bool {
	return errors.Is(err, target)
}
