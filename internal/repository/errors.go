package repository

import "errors"

var (
	// ErrSessionLost means the browser tab or process is gone and no
	// further interaction with the page is possible.
	ErrSessionLost = errors.New("browser session lost")
	// ErrNavigationFailed means the listing page could not be loaded.
	ErrNavigationFailed = errors.New("navigation failed")
	// ErrWaitTimeout is returned when rendered content did not grow in time.
	ErrWaitTimeout = errors.New("timed out waiting for new items")
	// ErrExportFailed wraps any failure writing output artifacts.
	ErrExportFailed = errors.New("export failed")
	// ErrNotFound is returned by lookups that match nothing.
	ErrNotFound = errors.New("not found")
)
