package converter

import "errors"

var (
	ErrConverter           = errors.New("converter")
	ErrConnectDependencies = errors.New("failed to connect dependencies")
	ErrListing             = errors.New("failed to list directory")
	ErrTargetCollision     = errors.New("another file converts to the same target")
	ErrCancelled           = errors.New("conversion cancelled")
)
