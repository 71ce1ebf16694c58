package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingKey indicates a request did not name a search term.
	ErrMissingKey = errors.New("missing search term")

	// ErrKeyNotFound indicates no record carries the requested search term.
	ErrKeyNotFound = errors.New("record not found")

	// ErrStoreNotFound indicates the store file does not exist.
	ErrStoreNotFound = errors.New("store not found")

	// ErrStoreRead indicates the store file exists but could not be read.
	ErrStoreRead = errors.New("store unreadable")

	// ErrStoreCorrupt indicates the store file is not a valid record array.
	ErrStoreCorrupt = errors.New("store corrupt")

	// ErrStoreWrite indicates the store file could not be rewritten.
	ErrStoreWrite = errors.New("store unwritable")

	// ErrNoSources indicates a batch run found nothing to ingest.
	ErrNoSources = errors.New("no input sources found")
)

// StoreError ties a store failure to the file it happened on.
// It matches both its Kind sentinel and the underlying cause with errors.Is.
type StoreError struct {
	Kind error
	Path string
	Err  error
}

func (e *StoreError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Path)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
}

func (e *StoreError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Detail returns the underlying cause's message, or an empty string.
func (e *StoreError) Detail() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}
