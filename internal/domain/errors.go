package domain

import "errors"

// Failure taxonomy shared by every service. Handlers map these to HTTP
// statuses; anything not matching one of them is treated as internal.
var (
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrNotFound           = errors.New("not found")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInsufficientShares = errors.New("insufficient shares")
	ErrConflict           = errors.New("conflict")
)
