package service

import "errors"

// Sentinel errors for service wiring.
var (
	ErrNoProvider = errors.New("no data provider configured")
	ErrNoSink     = errors.New("no report sink configured")
	ErrNotStarted = errors.New("service not started")
)
