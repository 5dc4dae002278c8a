package bot

import "errors"

// Command outcomes other than success. Every one of them is answered in chat;
// only ErrExternal carries detail that stays in the logs.
var (
	ErrUnauthorized      = errors.New("caller is not an administrator")
	ErrMalformedArgs     = errors.New("malformed arguments")
	ErrInvalidID         = errors.New("invalid user id")
	ErrUnknownTarget     = errors.New("user id does not resolve to an account")
	ErrDuplicateReport   = errors.New("user is already reported")
	ErrAlreadyRegistered = errors.New("trainer is already registered")
	ErrNotFound          = errors.New("no such record")
	ErrExternal          = errors.New("external call failed")
)
