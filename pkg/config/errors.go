package config

import "errors"

var (
	// ErrInvalidThreadGroup is returned when a thread group entry is
	// zero or negative.
	ErrInvalidThreadGroup = errors.New("config: thread group sizes must be positive")
	// ErrThreadGroupMismatch is returned when the thread group sizes do
	// not sum to MaxThreads.
	ErrThreadGroupMismatch = errors.New("config: thread group sizes do not sum to max threads")
)
