package service

import "errors"

var (
	// ErrUnauthenticated is returned before any storage access when a mutation
	// arrives without a signed-in user.
	ErrUnauthenticated = errors.New("you must be signed in")
)
