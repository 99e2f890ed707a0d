package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("conversation not found")
	ErrUnknownTopic = errors.New("unknown topic")
)

// FetchError reports a feed that could not be retrieved or parsed.
type FetchError struct {
	Endpoint string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch feed %s: %v", e.Endpoint, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ClassificationError wraps a failed completion call while picking topics.
type ClassificationError struct {
	Err error
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("classify topics: %v", e.Err)
}

func (e *ClassificationError) Unwrap() error { return e.Err }

// SelectionError wraps a failed completion call while ranking candidates.
type SelectionError struct {
	Err error
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("select headlines: %v", e.Err)
}

func (e *SelectionError) Unwrap() error { return e.Err }
