package wallpaperlib

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrDirectoryNotFound = errors.New("directory not found")
	ErrImageNotFound     = errors.New("unable to find a JPEG or PNG")
	// Covers paths that can't be turned into text, wherever that is noticed
	ErrInvalidPath = errors.New("does not appear to be a valid path")
	ErrCommand     = errors.New("error trying to set GNOME setting")
)

// CommandError is returned when one invocation of the settings utility fails.
// Targets in Applied were already written and are not rolled back.
type CommandError struct {
	Target  Target
	Applied []Target
	Stderr  string
	Err     error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s %s: %v", ErrCommand, e.Target, e.Err)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

func (e *CommandError) Is(target error) bool {
	return target == ErrCommand
}
