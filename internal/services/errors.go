package services

import "errors"

var (
	// ErrNotFound is returned when a resource is absent or not owned by the caller.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials is returned by Login for an unknown email or a wrong password.
	ErrInvalidCredentials = errors.New("unable to login")
	// ErrEmailTaken is returned when another account already uses the email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidToken is returned for a malformed, badly signed, expired or revoked token.
	ErrInvalidToken = errors.New("invalid token")
	// ErrFieldsNotAllowed is returned when an update names a field outside its allow-list.
	ErrFieldsNotAllowed = errors.New("requested fields are not allowed")
	// ErrInvalidInput is returned when a field value has the wrong JSON type.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidImage is returned when an avatar file name is not png, jpg or jpeg.
	ErrInvalidImage = errors.New("please provide an image")
	// ErrFileTooLarge is returned when an avatar exceeds MaxAvatarSize.
	ErrFileTooLarge = errors.New("file too large")
)
