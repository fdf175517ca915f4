package domain

import "errors"

var (
	ErrUnauthenticated    = errors.New("please login first")
	ErrForbidden          = errors.New("access forbidden")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("wrong password")
	ErrInvalidRole        = errors.New("role must be buyer or seller")
	ErrProductNotFound    = errors.New("product not found")
	ErrInvalidAmount      = errors.New("amount is required")
	ErrInvalidImage       = errors.New("image must be an image file within the size limit")
	ErrStorageUnavailable = errors.New("image storage is not configured")
	ErrRateLimited        = errors.New("too many requests")
	ErrMissingFields      = errors.New("email and password are required")
)
