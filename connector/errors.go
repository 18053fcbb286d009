package connector

import "errors"

var (
	ErrNoDriver      = errors.New("driver is required")
	ErrUnknownDriver = errors.New("driver not registered")
	ErrInvalidPort   = errors.New("invalid port")
	ErrHostRequired  = errors.New("host is required")
)
