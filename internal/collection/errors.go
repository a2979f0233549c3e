package collection

import "errors"

var (
	// ErrRemoteWrite reports a transient or permanent failure from the
	// backing store. Remote implementations wrap transport and validation
	// problems with it.
	ErrRemoteWrite = errors.New("remote write failed")

	// ErrNotFound reports that the target record does not exist, locally
	// or remotely.
	ErrNotFound = errors.New("record not found")

	// ErrValidation reports caller-supplied fields rejected before any
	// remote call was attempted. No optimistic mutation is applied.
	ErrValidation = errors.New("validation failed")

	// ErrClosed reports an operation against a store that was torn down.
	ErrClosed = errors.New("store closed")
)
