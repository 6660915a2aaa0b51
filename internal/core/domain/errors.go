package domain

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("access forbidden")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("resource conflict")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidOTP          = errors.New("invalid or expired code")
	ErrWeakPassword        = errors.New("password is too weak")
	ErrPasswordMismatch    = errors.New("passwords do not match")
	ErrThrottled           = errors.New("too many requests, try again later")
	ErrBackendUnavailable  = errors.New("backend unavailable")
	ErrUnexpectedResponse  = errors.New("unexpected backend response")
	ErrSessionNotPersisted = errors.New("session could not be persisted")
)
