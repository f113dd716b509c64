package service

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidExternalID   = errors.New("invalid external id")
	ErrDuplicateExternalID = errors.New("external id already imported")
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnauthenticated     = errors.New("unauthenticated")
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrUserExists          = errors.New("username already taken")
)
