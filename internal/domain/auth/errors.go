package auth

import "errors"

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrEmployeeIDTaken    = errors.New("employee ID already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnverified         = errors.New("email not verified")
	ErrInvalidVerifyToken = errors.New("invalid verification token")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
	ErrMFARequired        = errors.New("mfa code required")
	ErrMFAInvalid         = errors.New("invalid mfa code")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
)
