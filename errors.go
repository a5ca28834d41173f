package labelset

import (
	"errors"
	"fmt"
)

var (
	// ErrPathNotFound is returned by New when the parent of the dataset
	// path does not exist. Nothing is created in that case.
	ErrPathNotFound = errors.New("dataset path parent does not exist")

	// ErrTypeMismatch is returned by Save/SaveAsync when the sample's
	// concrete type differs from the collection's reference sample.
	// Counters are untouched and no file is written.
	ErrTypeMismatch = errors.New("sample type mismatch")

	// ErrSampleNotFound is returned by Load when no stored file carries
	// the requested ordinal.
	ErrSampleNotFound = errors.New("sample not found")

	// ErrNotLoadable is returned by Load when the sample does not
	// implement FieldReader.
	ErrNotLoadable = errors.New("sample does not implement FieldReader")
)

// FieldWriteError reports a failed field serialization.
//
// By the time a field write runs, its ordinal is already reserved; the
// reservation is NOT rolled back on failure, so the branch counter and all
// subsequent file names keep reflecting it. Use [Collection.Audit] to find
// the resulting holes.
//
// The original underlying error can be accessed via errors.Unwrap.
type FieldWriteError struct {
	Polarity Polarity
	Field    string
	FileName string
	cause    error
}

func (e *FieldWriteError) Error() string {
	return fmt.Sprintf("write %s field %q as %q: %v", e.Polarity, e.Field, e.FileName, e.cause)
}

func (e *FieldWriteError) Unwrap() error { return e.cause }
