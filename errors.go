package gofat

import "errors"

// Error kinds returned by the public operations. They are sentinel values
// rather than a closed type hierarchy - callers use errors.Is against
// these, and every returned error is additionally wrapped by
// checkpoint.Wrap so errors.Is still matches through the wrapping.
var (
	// ErrIO covers any short read/write or I/O failure from the backing
	// image.
	ErrIO = errors.New("gofat: i/o error")

	// ErrInvalidFormat is returned when the BPB fails a sanity check at
	// mount time.
	ErrInvalidFormat = errors.New("gofat: invalid fat format")

	// ErrInvalidPath is returned for paths using '/' instead of '\', or
	// otherwise malformed.
	ErrInvalidPath = errors.New("gofat: invalid path")

	// ErrNotFound is returned when a path component cannot be resolved.
	ErrNotFound = errors.New("gofat: not found")

	// ErrNotADirectory is returned when a non-terminal path component, or
	// an explicitly expected directory, is actually a file.
	ErrNotADirectory = errors.New("gofat: not a directory")

	// ErrAlreadyExists is returned by CreateFile/CreateDirectory when the
	// target path already resolves to an entry. Overwriting an existing
	// file is intentionally unsupported (see DESIGN.md, Open Question d).
	ErrAlreadyExists = errors.New("gofat: already exists")

	// ErrDirectoryFull is returned when a FAT12/16 root directory cannot
	// grow (it has a fixed size) and has no room for another entry.
	ErrDirectoryFull = errors.New("gofat: directory is full")

	// ErrNoSpace is returned when no free cluster can be found while
	// allocating.
	ErrNoSpace = errors.New("gofat: no free space")

	// ErrNotImplemented is returned by the declared-but-unfinished
	// DeleteEntry/EraseEntry operations.
	ErrNotImplemented = errors.New("gofat: not implemented")

	// ErrInvalidName is returned when a leaf name uses a byte forbidden
	// in an 8.3 name.
	ErrInvalidName = errors.New("gofat: invalid name")

	// ErrNotMounted is returned when an operation is attempted against a
	// Fs value that was already closed.
	ErrNotMounted = errors.New("gofat: volume not mounted")

	// ErrUnsupported is returned by afero.Fs methods which have no
	// meaningful FAT equivalent (Chown, symlink-ish renames, ...).
	ErrUnsupported = errors.New("gofat: unsupported operation")
)
