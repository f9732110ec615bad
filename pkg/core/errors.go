package core

import (
	"errors"
	"os"
)

// Common errors.
var (
	// ErrNotFound wraps os.ErrNotExist so callers can use either with errors.Is.
	ErrNotFound   = &notFoundError{}
	ErrReadOnly   = errors.New("repository is in read-only mode")
	ErrEmptyText  = errors.New("capture text is empty")
	ErrMissingURL = errors.New("capture asks to include a link but has no url")
	ErrTxClosed   = errors.New("transaction closed")

	ErrInvalidPattern = errors.New("invalid note pattern")
)

type notFoundError struct{}

func (*notFoundError) Error() string { return "note not found" }

func (*notFoundError) Unwrap() error { return os.ErrNotExist }
