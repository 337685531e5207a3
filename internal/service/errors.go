package service

import "errors"

// Failure kinds surfaced to the HTTP layer. Not-found kinds map to 404,
// ErrInvalidArgument to 400; anything else is a store failure.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrProductNotFound = errors.New("product not found")
	ErrCartNotFound    = errors.New("cart not found")
	ErrItemNotFound    = errors.New("item not found")
	ErrInvalidArgument = errors.New("invalid argument")
)
