package niryo

import (
	"errors"
	"fmt"
)

// ErrClosed is returned by calls on a closed connection.
var ErrClosed = errors.New("niryo: connection closed")

// CommandError reports a command the controller refused or failed to run.
type CommandError struct {
	Command string
	Status  string
	Message string
}

func (e *CommandError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("niryo: %s failed with status %s", e.Command, e.Status)
	}
	return fmt.Sprintf("niryo: %s failed: %s", e.Command, e.Message)
}
