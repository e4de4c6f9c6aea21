package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrLoginDisabled      = errors.New("administrator login is not configured")
	ErrTokenRevoked       = errors.New("token has been revoked")
)
