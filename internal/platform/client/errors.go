package client

import "errors"

var (
	ErrMissingName         = errors.New("client name is required")
	ErrInvalidEmail        = errors.New("invalid email address")
	ErrInvalidPassword     = errors.New("invalid password")
	ErrInvalidPasswordHash = errors.New("invalid password hash")
	ErrPasswordTooShort    = errors.New("password must be at least 8 characters")
	ErrClientNotFound      = errors.New("client profile not found")
	ErrClientAlreadyExists = errors.New("client with this email already exists")
)
