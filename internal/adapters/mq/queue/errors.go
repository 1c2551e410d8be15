package queue

import "errors"

// Sentinel errors returned by Enqueue.
var (
	ErrFull      = errors.New("report queue is full")
	ErrDuplicate = errors.New("identical report job already pending")
	ErrClosed    = errors.New("report queue is closed")
)
