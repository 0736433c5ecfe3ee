package calendar

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDate   = errors.New("invalid calendar date")
	ErrInvalidConfig = errors.New("invalid calendar config")
)

// DateError names the configured value that failed validation.
type DateError struct {
	Context string
	Index   int
	Value   string
	Err     error
}

func (e *DateError) Error() string {
	return fmt.Sprintf("%s[%d]: %q is not a valid YYYY-MM-DD date: %v", e.Context, e.Index, e.Value, e.Err)
}

func (e *DateError) Unwrap() []error { return []error{ErrInvalidDate, e.Err} }
