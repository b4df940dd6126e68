// errors.go
package checkupgrades

import (
	"errors"
	"fmt"
)

var (
	// ErrAllSourcesFailed indicates no sync database could be fetched
	// from any configured mirror.
	ErrAllSourcesFailed = errors.New("all database sources failed")

	// ErrNoMirrors indicates the configuration lists no mirrors.
	ErrNoMirrors = errors.New("no mirrors configured")
)

// Error wraps an error with additional context.
type Error struct {
	Op   string // Operation that failed
	Repo string // Repository name if applicable
	Err  error  // Underlying error
}

func (e *Error) Error() string {
	if e.Repo != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Repo, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
