package cli

import (
	"errors"
	"fmt"

	"mercator-hq/gridexport/pkg/config"
	"mercator-hq/gridexport/pkg/export"
)

// Exit codes returned by the gridexport command.
const (
	ExitOK            = 0
	ExitError         = 1
	ExitConfigError   = 2
	ExitNothingToDo   = 3
	ExitUnsupportedIO = 4
)

// ConfigError represents an error in configuration.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error in %s: %s", e.Field, e.Message)
}

// CommandError represents an error from a command execution.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{
		Field:   field,
		Message: message,
	}
}

// NewCommandError creates a new CommandError.
func NewCommandError(command string, err error) *CommandError {
	return &CommandError{
		Command: command,
		Err:     err,
	}
}

// ExitCode maps an error returned by a command to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var cfgErr *ConfigError
	var validationErr config.ValidationError
	var emptyErr *export.NothingToExportError
	var formatErr *export.UnsupportedFormatError
	switch {
	case errors.As(err, &cfgErr), errors.As(err, &validationErr):
		return ExitConfigError
	case errors.As(err, &emptyErr):
		return ExitNothingToDo
	case errors.As(err, &formatErr):
		return ExitUnsupportedIO
	default:
		return ExitError
	}
}
