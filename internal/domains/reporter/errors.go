package reporter

import "errors"

var (
	ErrReporter      = errors.New("reporter")
	ErrAlreadyClosed = errors.New("reporter is already closed")
)
