package model

import "errors"

// Error kinds surfaced to callers. Lower layers wrap them with fmt.Errorf("%w").
var (
	ErrUnauthenticated = errors.New("user must be authenticated")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInternal        = errors.New("internal error")
)
