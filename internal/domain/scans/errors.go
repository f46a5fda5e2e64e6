package scans

import "errors"

var (
	ErrTimeout     = errors.New("service timed out")
	ErrUnreachable = errors.New("could not connect to service")
	ErrNotFound    = errors.New("scan not found")
)
