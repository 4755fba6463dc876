package store

import (
	"errors"
	"fmt"
)

// ErrIO reports that the journal file could not be opened, created, read or written.
var ErrIO = errors.New("journal io")

// ErrFormat reports a stored line that does not decode into name,date,category.
var ErrFormat = errors.New("journal format")

// ErrNoEntries reports that the journal holds no records at all.
var ErrNoEntries = errors.New("no entries in the database")

// ErrEmptyName reports an Add without a record name.
var ErrEmptyName = errors.New("record name is required")

// ErrInvalidField reports a name or category holding a line break.
var ErrInvalidField = errors.New("name and category must fit on one line")

// FormatError describes a malformed line in the journal file.
// It matches ErrFormat with errors.Is.
type FormatError struct {
	Path   string
	Line   int
	Fields []string
	Err    error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s:%d: malformed record: %v", e.Path, e.Line, e.Err)
}

func (e *FormatError) Unwrap() []error {
	return []error{ErrFormat, e.Err}
}

var errIsDir = errors.New("is a directory")

func ioError(op, path string, err error) error {
	return fmt.Errorf("%w: %s %s: %w", ErrIO, op, path, err)
}
