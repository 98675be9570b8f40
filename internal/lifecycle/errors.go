// Package lifecycle holds the start/stop contract shared by the per-frame controllers.
package lifecycle

import (
	"errors"
	"fmt"
)

var ErrMissingCollaborator = errors.New("required collaborator is not set")

// ConfigurationError reports a collaborator that was never wired. It is fatal:
// a controller cannot run a single frame without it.
type ConfigurationError struct {
	Component string
	Missing   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Component, e.Missing, ErrMissingCollaborator)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrMissingCollaborator
}

// Controller is driven by an external loop: Start once, tick every frame, Stop.
type Controller interface {
	Start() error
	Stop()
	Running() bool
}
