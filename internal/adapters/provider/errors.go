package provider

import (
	"errors"
	"fmt"
)

// Sentinel errors for data loading.
var (
	// ErrProvider matches every *DataProviderError.
	ErrProvider = errors.New("data provider failed")
	// ErrNoData is returned by LoadTabs when no tab could be loaded.
	ErrNoData = errors.New("no survey data available")
	// ErrTabNotFound is wrapped when a source has no such tab.
	ErrTabNotFound = errors.New("tab not found")
	// ErrUnknownMode rejects a tab mode other than union or prefer.
	ErrUnknownMode = errors.New("unknown tab mode")
)

// DataProviderError reports a failed load of one tab from one source.
type DataProviderError struct {
	Source string
	Tab    string
	Err    error
}

func (e *DataProviderError) Error() string {
	return fmt.Sprintf("load %s tab %q: %v", e.Source, e.Tab, e.Err)
}

func (e *DataProviderError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrProvider) match.
func (e *DataProviderError) Is(target error) bool { return target == ErrProvider }
