package application

import "errors"

// Service-level failures. Handlers map these onto the error envelope:
// 400 bad request, 401 unauthorized, 404 not found, 409 conflict.
var (
	ErrMissingFields      = errors.New("required fields are missing")
	ErrInvalidID          = errors.New("invalid id")
	ErrUploadFailed       = errors.New("media upload failed")
	ErrSelfSubscription   = errors.New("cannot subscribe to own channel")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrNotOwner           = errors.New("requester does not own this resource")
	ErrUserNotFound       = errors.New("user not found")
	ErrVideoNotFound      = errors.New("video not found")
	ErrTweetNotFound      = errors.New("tweet not found")
	ErrUserExists         = errors.New("user with email or username already exists")
)
