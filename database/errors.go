package database

import "errors"

var (
	// ErrEmptyCommandText is returned when a command is executed without text.
	ErrEmptyCommandText = errors.New("command text has not been set")

	// ErrCommandClosed is returned when a closed command is used.
	ErrCommandClosed = errors.New("command is closed")

	// ErrTransactionMismatch is returned when a transaction belongs to another connection.
	ErrTransactionMismatch = errors.New("transaction does not belong to the command's connection")

	// ErrMixedParameters is returned when named and positional parameters are combined
	// on a driver that cannot bind both.
	ErrMixedParameters = errors.New("cannot mix named and positional parameters")

	ErrUnknownCommandType = errors.New("unknown command type")
)
