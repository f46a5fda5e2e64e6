package analysis

import "errors"

var (
	// ErrMalformed marks a payload that cannot be rendered.
	ErrMalformed = errors.New("malformed analysis result")

	ErrNoCode      = errors.New("no code provided")
	ErrCodeTooLong = errors.New("code exceeds maximum length")
)
