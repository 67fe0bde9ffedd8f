package catalog

import (
	"errors"
	"fmt"
)

// ErrNotFound reports that no record matched the given identifier or slug.
var ErrNotFound = errors.New("record not found")

// ErrDuplicateTitle reports a unique-title collision on insert or update.
// Callers must be able to tell this apart from other store failures.
var ErrDuplicateTitle = errors.New("title already exists")

// ValidationError carries the user-facing message for the first missing
// required field. It is a client error, not a system failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// DecodeError reports that an uploaded file could not be decoded as an image.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return fmt.Sprintf("decoding image: %v", e.Err) }

func (e *DecodeError) Unwrap() error { return e.Err }

// StorageError reports a blob store failure. The upload is not retried; the
// domain record must not be persisted after one.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("blob store: %v", e.Err) }

func (e *StorageError) Unwrap() error { return e.Err }

// IndexError reports a search index failure during create, save, delete or
// clear. Op distinguishes which stage failed so handlers can pick the right
// user-facing message.
type IndexError struct {
	Op  string // "add", "save", "delete", "clear", "stamp"
	Err error
}

func (e *IndexError) Error() string { return fmt.Sprintf("search index %s: %v", e.Op, e.Err) }

func (e *IndexError) Unwrap() error { return e.Err }
