package screen

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("screen: aborted")
	// ErrNoDriver is returned when the screen has no prompt driver.
	ErrNoDriver = errors.New("screen: prompt driver is nil")
)
