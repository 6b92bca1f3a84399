package script

import "errors"

// Script surface errors.
var (
	// ErrUnknownCommand is returned when a script dispatches a command
	// type the surface does not know.
	ErrUnknownCommand = errors.New("unknown command type")
)
